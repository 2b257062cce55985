package server

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHeader carries the caller's user ID. Requests without it act as
// DefaultUser.
const (
	UserHeader  = "X-User-ID"
	DefaultUser = "local"
)

// newRouter wires middleware and routes.
func newRouter(h *handlers, origins []string, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))
	r.Use(corsMiddleware(origins))
	r.Use(attachUser())

	r.GET("/", h.root)
	r.GET("/health", h.health)

	ai := r.Group("/ai")
	{
		ai.POST("/generate-plan", h.generatePlan)
		ai.POST("/generate-plan-from-chat", h.generatePlanFromChat)
	}

	c := r.Group("/chat")
	{
		c.POST("/message", h.chatMessage)
		c.GET("/history", h.chatHistory)
		c.DELETE("/history", h.clearChat)
	}

	p := r.Group("/plans")
	{
		p.GET("", h.listPlans)
		p.GET("/:planID", h.getPlan)
		p.DELETE("/:planID", h.deletePlan)
		p.PUT("/:planID/primary", h.setPrimary)
		p.GET("/:planID/stats", h.planStats)
	}

	r.GET("/progress/:planID", h.getProgress)
	r.PUT("/progress/:planID", h.putProgress)

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", UserHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func attachUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.GetHeader(UserHeader)
		if user == "" {
			user = DefaultUser
		}
		c.Set("userID", user)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString("userID")
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("request failed", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}
		logger.Debug("request", fields...)
	}
}
