package router

import (
	"github.com/pixelpursuit/pixelpursuit-api/internal/container"
	handlers "github.com/pixelpursuit/pixelpursuit-api/internal/interface/http"
	"github.com/pixelpursuit/pixelpursuit-api/internal/interface/middleware"
	"github.com/pixelpursuit/pixelpursuit-api/internal/router/modules"
)

// InitModules builds the HTTP modules from c and adds them to r. The index
// route lives outside /api and is registered on the engine directly.
func InitModules(r *Registry, c *container.Container) {
	health := handlers.NewHealthHandler(c.Config.AppName)
	var allow middleware.AllowFunc
	if c.Config.RateLimitSkipPrivate {
		allow = middleware.AllowPrivateIP()
	}
	r.Engine.GET("/", health.Index)

	r.Add(modules.NewHealthModule(health))
	r.Add(modules.NewAuthModule(
		handlers.NewAuthHandler(c.AuthService, c.Logger),
		c.JWT,
		c.Redis,
		c.Config.AuthRateLimitPerMin,
		allow,
		c.Logger,
	))
	r.Add(modules.NewJobModule(handlers.NewJobHandler(c.JobService, c.Logger), c.JWT))
}
