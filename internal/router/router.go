package router

import (
	"github.com/gin-gonic/gin"

	"sprint-planner/internal/config"
	"sprint-planner/internal/handler"
)

// Setup builds the HTTP engine for the planning API
func Setup(cfg *config.Config, planHandler *handler.PlanHandler) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.GET("/health", planHandler.Health)

	api := r.Group("/api")
	{
		ai := api.Group("/ai")
		{
			ai.POST("/quotas", planHandler.Quotas)
			ai.POST("/project-plan", planHandler.GeneratePlan)
			ai.POST("/improve-description", planHandler.ImproveDescription)
		}
	}

	return r
}
