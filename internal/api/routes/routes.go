package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/gradlane/gradlane/internal/api/handlers"
	"github.com/gradlane/gradlane/internal/api/middleware"
)

type Deps struct {
	Auth        *handlers.AuthHandler
	Matching    *handlers.MatchingHandler
	Preferences *handlers.PreferencesHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	v1 := r.Group("/api/v1")

	v1.POST("/auth/signup", d.Auth.Signup)

	// Protected routes (JWT)
	auth := v1.Group("/")
	auth.Use(middleware.JWTAuth())

	auth.POST("/matching/run", d.Matching.Run)
	auth.GET("/matching/matches", d.Matching.List)

	auth.GET("/profile/preferences", d.Preferences.Get)
	auth.PUT("/profile/preferences", d.Preferences.Update)
}
