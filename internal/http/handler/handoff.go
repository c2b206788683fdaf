package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"draftdeck.app/refinery/internal/handoff"
	"draftdeck.app/refinery/internal/http/dto"
	"draftdeck.app/refinery/internal/model"
)

// HandoffService is the surface of handoff.Service the handler needs.
type HandoffService interface {
	CreateIssue(ctx context.Context, params handoff.CreateIssueParams) (*handoff.IssueRef, error)
	PublishDoc(ctx context.Context, itemType model.WorkItemType, title, description string, acceptance []string) (string, error)
	ImportFigma(ctx context.Context, fileURL string) (*handoff.FigmaFile, error)
	TriggerPR(ctx context.Context, description string) (string, error)
}

type HandoffHandler struct {
	service HandoffService
}

func NewHandoffHandler(service HandoffService) *HandoffHandler {
	return &HandoffHandler{service: service}
}

func (h *HandoffHandler) CreateIssue(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	itemType := model.WorkItemType(req.WorkItemType)
	if !itemType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid work item type"})
		return
	}

	ref, err := h.service.CreateIssue(ctx, handoff.CreateIssueParams{
		WorkItemType: itemType,
		Title:        req.Title,
		Description:  req.Description,
		Acceptance:   req.Acceptance,
	})
	if err != nil {
		h.fail(c, "failed to create issue", err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateIssueResponse{Key: ref.Key, URL: ref.URL})
}

func (h *HandoffHandler) CreateDoc(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateDocRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	itemType := model.WorkItemType(req.WorkItemType)
	if !itemType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid work item type"})
		return
	}

	pageURL, err := h.service.PublishDoc(ctx, itemType, req.Title, req.Description, req.Acceptance)
	if err != nil {
		h.fail(c, "failed to publish design doc", err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateDocResponse{PageURL: pageURL})
}

func (h *HandoffHandler) ImportFigma(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ImportFigmaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := h.service.ImportFigma(ctx, req.FileURL)
	if err != nil {
		h.fail(c, "failed to import figma file", err)
		return
	}

	c.JSON(http.StatusOK, dto.ImportFigmaResponse{Name: file.Name, Document: file.Document})
}

func (h *HandoffHandler) TriggerPR(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.TriggerPRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prURL, err := h.service.TriggerPR(ctx, req.Description)
	if err != nil {
		h.fail(c, "failed to trigger pr", err)
		return
	}

	c.JSON(http.StatusAccepted, dto.TriggerPRResponse{PRURL: prURL})
}

func (h *HandoffHandler) fail(c *gin.Context, msg string, err error) {
	if errors.Is(err, handoff.ErrNotConfigured) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	slog.ErrorContext(c.Request.Context(), msg, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
