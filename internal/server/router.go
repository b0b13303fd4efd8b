package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLog())

	// Browser extension contexts send opaque origins, so the API is
	// open to any origin.
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/health", s.handleHealth)

	api := r.Group("/api")
	{
		api.POST("/quiz", s.handleGenerateQuiz)
		api.GET("/leaderboard", s.handleLeaderboard)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", s.handleRegister)
			authGroup.POST("/login", s.handleLogin)
			authGroup.POST("/refresh", s.handleRefresh)
		}

		protected := api.Group("", s.auth.RequireAuth())
		{
			protected.POST("/results", s.handleSaveResult)
			protected.GET("/results", s.handleListResults)
		}
	}

	return r
}

// requestLog logs method, path, status, and latency for every request.
func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}
