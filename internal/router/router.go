package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/powerranking-app/powerranking/internal/handlers"
	"github.com/powerranking-app/powerranking/internal/middleware"
	"github.com/powerranking-app/powerranking/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:group_id", middleware.AuthMiddleware(), handlers.WebSocket)
		api.GET("/rankings", middleware.AuthMiddleware(), handlers.GetRankings)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.POST("/logout", handlers.Logout)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		profiles := api.Group("/profiles", middleware.AuthMiddleware())
		{
			profiles.GET("/me", handlers.GetMyProfile)
			profiles.PUT("/me", handlers.ChooseUsername)
			profiles.GET("/:user_id", handlers.GetProfile)
		}

		groups := api.Group("/groups", middleware.AuthMiddleware())
		{
			groups.POST("", handlers.CreateGroup)
			groups.GET("", handlers.ListGroups)
			groups.POST("/join", handlers.JoinGroup)
			groups.GET("/:group_id", handlers.GetGroup)

			// Dashboard endpoint
			groups.GET("/:group_id/dashboard", handlers.GetGroupDashboard)

			// Invite endpoints
			groups.POST("/:group_id/invites", handlers.CreateInvite)

			// Training endpoints
			groups.POST("/:group_id/schedules", handlers.CreateSchedule)
			groups.GET("/:group_id/schedules", handlers.ListSchedules)
		}

		invites := api.Group("/invites", middleware.AuthMiddleware())
		{
			invites.GET("", handlers.ListInvites)
			invites.POST("/:invite_id/accept", handlers.AcceptInvite)
			invites.POST("/:invite_id/decline", handlers.DeclineInvite)
		}

		schedules := api.Group("/schedules", middleware.AuthMiddleware())
		{
			schedules.GET("/:schedule_id", handlers.GetSchedule)
			schedules.POST("/:schedule_id/exercises", handlers.AddExercise)
			schedules.DELETE("/:schedule_id/exercises/:exercise_id", handlers.DeleteExercise)
		}
	}

	return r
}
