package router

import (
	"github.com/gin-gonic/gin"

	"draftdeck.app/refinery/internal/http/handler"
)

func ChatRouter(router *gin.RouterGroup, handler *handler.ChatStreamHandler) {
	router.POST("/stream", handler.Stream)
}
