package handoff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"draftdeck.app/refinery/internal/model"
)

// ErrNotConfigured is returned when a hand-off target has no
// credentials; handlers map it to a client error rather than a 500.
var ErrNotConfigured = errors.New("integration not configured")

// Service fronts all hand-off collaborators. Nil members mean the
// corresponding integration is not configured.
type Service struct {
	tracker    Tracker
	confluence *ConfluenceClient
	docgen     *DocGenerator
	figma      *FigmaClient
	agent      *AgentClient
}

type ServiceConfig struct {
	Tracker    Tracker
	Confluence *ConfluenceClient
	DocGen     *DocGenerator
	Figma      *FigmaClient
	Agent      *AgentClient
}

func NewService(cfg ServiceConfig) *Service {
	return &Service{
		tracker:    cfg.Tracker,
		confluence: cfg.Confluence,
		docgen:     cfg.DocGen,
		figma:      cfg.Figma,
		agent:      cfg.Agent,
	}
}

func (s *Service) CreateIssue(ctx context.Context, params CreateIssueParams) (*IssueRef, error) {
	if s.tracker == nil {
		return nil, fmt.Errorf("issue tracker: %w", ErrNotConfigured)
	}
	ref, err := s.tracker.CreateIssue(ctx, params)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "issue created", "key", ref.Key, "work_item_type", params.WorkItemType)
	return ref, nil
}

// PublishDoc generates the design doc from the finalized template and
// publishes it as a Confluence page, returning the page URL.
func (s *Service) PublishDoc(ctx context.Context, itemType model.WorkItemType, title, description string, acceptance []string) (string, error) {
	if s.confluence == nil || s.docgen == nil {
		return "", fmt.Errorf("design docs: %w", ErrNotConfigured)
	}

	doc, err := s.docgen.Generate(ctx, itemType, title, description, acceptance)
	if err != nil {
		return "", err
	}

	pageURL, err := s.confluence.CreatePage(ctx, title, doc.StorageBody())
	if err != nil {
		return "", err
	}
	slog.InfoContext(ctx, "design doc published", "page_url", pageURL)
	return pageURL, nil
}

func (s *Service) ImportFigma(ctx context.Context, fileURL string) (*FigmaFile, error) {
	if s.figma == nil {
		return nil, fmt.Errorf("figma: %w", ErrNotConfigured)
	}
	return s.figma.FetchFile(ctx, fileURL)
}

func (s *Service) TriggerPR(ctx context.Context, description string) (string, error) {
	if s.agent == nil {
		return "", fmt.Errorf("coding agent: %w", ErrNotConfigured)
	}
	prURL, err := s.agent.TriggerPR(ctx, description)
	if err != nil {
		return "", err
	}
	slog.InfoContext(ctx, "pr triggered", "pr_url", prURL)
	return prURL, nil
}
