package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"draftdeck.app/refinery/internal/http/handler"
)

type RouterConfig struct {
	DashboardURL string
	IsProduction bool
}

// Deps carries the services handlers are built from.
type Deps struct {
	Source  handler.StreamSource
	Handoff handler.HandoffService
}

func SetupRoutes(router *gin.Engine, deps Deps, cfg RouterConfig) {
	corsCfg := cors.Config{
		AllowOrigins:     []string{cfg.DashboardURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if !cfg.IsProduction {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	}
	router.Use(cors.New(corsCfg))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		chatHandler := handler.NewChatStreamHandler(deps.Source)
		ChatRouter(v1.Group("/chat"), chatHandler)

		workItemHandler := handler.NewWorkItemHandler()
		WorkItemRouter(v1.Group("/work-items"), workItemHandler)

		handoffHandler := handler.NewHandoffHandler(deps.Handoff)
		HandoffRouter(v1.Group("/handoff"), handoffHandler)
	}
}
