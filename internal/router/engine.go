package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pixelpursuit/pixelpursuit-api/internal/container"
	"github.com/pixelpursuit/pixelpursuit-api/internal/interface/middleware"
)

// NewEngine builds the gin engine with global middleware and every module.
func NewEngine(c *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	if c.Config.HTTPLogEnabled {
		r.Use(middleware.AccessLog(c.Logger))
	}
	r.Use(cors.New(corsConfig(c.Config.CORSOrigins())))

	reg := NewRegistry(r)
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
