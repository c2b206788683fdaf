package router

import (
	"github.com/gin-gonic/gin"

	"draftdeck.app/refinery/internal/http/handler"
)

func HandoffRouter(router *gin.RouterGroup, handler *handler.HandoffHandler) {
	router.POST("/issue", handler.CreateIssue)
	router.POST("/doc", handler.CreateDoc)
	router.POST("/figma", handler.ImportFigma)
	router.POST("/pr", handler.TriggerPR)
}
