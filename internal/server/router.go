package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Khushv4/fireApp/internal/http/handlers"
)

type RouterConfig struct {
	HealthHandler   *handlers.HealthHandler
	MeetingHandler  *handlers.MeetingHandler
	ExternalHandler *handlers.ExternalHandler
	AllowOrigins    []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	api := router.Group("/api")
	{
		meetings := api.Group("/meetings")
		{
			meetings.GET("", cfg.MeetingHandler.List)
			meetings.POST("/upsert", cfg.MeetingHandler.Upsert)
			meetings.GET("/:id", cfg.MeetingHandler.GetByID)
			meetings.PUT("/:id/summary", cfg.MeetingHandler.UpdateSummary)
			meetings.GET("/:id/download-summary", cfg.MeetingHandler.DownloadSummary)
			meetings.POST("/:id/generate-summary", cfg.MeetingHandler.GenerateSummary)
		}

		external := api.Group("/external")
		{
			external.GET("/meetings", cfg.ExternalHandler.ListMeetings)
			external.GET("/meetings/:id", cfg.ExternalHandler.GetMeeting)
			external.POST("/meetings/:id/sync", cfg.ExternalHandler.SyncMeeting)
			external.POST("/generate-files", cfg.ExternalHandler.GenerateFiles)
			external.POST("/save-files", cfg.ExternalHandler.SaveFiles)
		}
	}

	return router
}
