package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/entity"
	handlers "github.com/pixelpursuit/pixelpursuit-api/internal/interface/http"
	"github.com/pixelpursuit/pixelpursuit-api/internal/interface/middleware"
)

// JobModule serves job listings.
// Public: GET /jobs, GET /jobs/:id
// Employer: POST /jobs, DELETE /jobs/:id
// Job seeker: POST /jobs/:id/applications
type JobModule struct {
	Handler  *handlers.JobHandler
	Verifier middleware.TokenVerifier
}

func NewJobModule(h *handlers.JobHandler, v middleware.TokenVerifier) *JobModule {
	return &JobModule{Handler: h, Verifier: v}
}

func (m *JobModule) Register(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs")
	jobs.GET("", m.Handler.List)
	jobs.GET("/:id", m.Handler.Get)

	authed := jobs.Group("")
	authed.Use(middleware.Authenticate(m.Verifier))
	{
		employer := middleware.RestrictTo(entity.RoleEmployer)
		authed.POST("", employer, middleware.WithPrincipal(m.Handler.Create))
		authed.DELETE("/:id", employer, middleware.WithPrincipal(m.Handler.Delete))
		authed.POST("/:id/applications", middleware.RestrictTo(entity.RoleJobSeeker), middleware.WithPrincipal(m.Handler.Apply))
	}
}
