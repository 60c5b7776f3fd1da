package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	handlers "github.com/pixelpursuit/pixelpursuit-api/internal/interface/http"
	"github.com/pixelpursuit/pixelpursuit-api/internal/interface/middleware"
)

// AuthModule serves account registration, login and the current user.
// Register and login are rate limited per IP and path when Redis is set.
type AuthModule struct {
	Handler  *handlers.AuthHandler
	Verifier middleware.TokenVerifier
	RDB      *redis.Client
	PerMin   int
	Allow    middleware.AllowFunc
	Logger   *logrus.Logger
}

func NewAuthModule(h *handlers.AuthHandler, v middleware.TokenVerifier, rdb *redis.Client, perMin int, allow middleware.AllowFunc, logger *logrus.Logger) *AuthModule {
	return &AuthModule{Handler: h, Verifier: v, RDB: rdb, PerMin: perMin, Allow: allow, Logger: logger}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	limiter := middleware.RateLimit(m.RDB, m.PerMin, time.Minute, middleware.KeyByIPAndPath(), m.Allow, m.Logger)

	auth := rg.Group("/auth")
	auth.POST("/register", limiter, m.Handler.Register)
	auth.POST("/login", limiter, m.Handler.Login)
	auth.GET("/me", middleware.Authenticate(m.Verifier), middleware.WithPrincipal(m.Handler.Me))
}
