package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"draftdeck.app/refinery/internal/model"
)

// WorkItemHandler serves the work-item type catalog so a fresh client
// can seed its draft panel.
type WorkItemHandler struct{}

func NewWorkItemHandler() *WorkItemHandler {
	return &WorkItemHandler{}
}

func (h *WorkItemHandler) Catalog(c *gin.Context) {
	types := model.WorkItemTypes()
	defaults := make(map[string]model.WorkItemTemplate, len(types))
	for _, t := range types {
		defaults[string(t)] = model.CatalogDefault(t)
	}
	c.JSON(http.StatusOK, gin.H{"types": types, "defaults": defaults})
}

func (h *WorkItemHandler) CatalogEntry(c *gin.Context) {
	itemType := model.WorkItemType(c.Param("type"))
	if !itemType.Valid() {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown work item type"})
		return
	}
	c.JSON(http.StatusOK, model.CatalogDefault(itemType))
}
