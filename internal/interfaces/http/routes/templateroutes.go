package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rewardsboard/eventcast/internal/interfaces/http/handlers"
)

type TemplateRouteConfig struct {
	TemplateHandler *handlers.TemplateHandler
}

func SetupTemplateRoutes(engine *gin.Engine, config *TemplateRouteConfig) {
	templates := engine.Group("/templates")
	{
		// IMPORTANT: Register specific paths BEFORE parameterized paths to avoid route conflicts

		// Collection operations (no ID parameter)
		templates.GET("", config.TemplateHandler.ListTemplates)
		templates.POST("", config.TemplateHandler.CreateTemplate)

		// Specific named endpoints (must come BEFORE /:id to avoid conflicts)
		templates.POST("/preview", config.TemplateHandler.PreviewTemplate)
		templates.POST("/generate", config.TemplateHandler.GenerateFromTemplate)
		templates.POST("/system/initialize", config.TemplateHandler.InitializeSystemTemplates)

		// Specific action endpoints for individual templates
		templates.POST("/:id/clone", config.TemplateHandler.CloneTemplate)

		// Generic parameterized routes (must come LAST)
		templates.GET("/:id", config.TemplateHandler.GetTemplate)
		templates.PUT("/:id", config.TemplateHandler.UpdateTemplate)
		templates.DELETE("/:id", config.TemplateHandler.DeleteTemplate)
	}
}
