package router

import (
	"github.com/gin-gonic/gin"

	"draftdeck.app/refinery/internal/http/handler"
)

func WorkItemRouter(router *gin.RouterGroup, handler *handler.WorkItemHandler) {
	router.GET("/catalog", handler.Catalog)
	router.GET("/catalog/:type", handler.CatalogEntry)
}
