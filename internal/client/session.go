// Package client drives the relay from the consumer side: it owns the
// conversation history and the work-item draft, streams assistant
// replies into the newest message as deltas arrive, and promotes
// recognized template fields into the draft when a reply finalizes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"draftdeck.app/refinery/common/id"
	"draftdeck.app/refinery/common/logger"
	"draftdeck.app/refinery/internal/draft"
	"draftdeck.app/refinery/internal/extract"
	"draftdeck.app/refinery/internal/http/dto"
	"draftdeck.app/refinery/internal/model"
	"draftdeck.app/refinery/internal/sse"
)

// ApologyMessage replaces assistant content when the stream fails; the
// user sees this instead of a blank bubble or a raw error.
const ApologyMessage = "Sorry, something went wrong while generating a reply. Please try again."

// Session is one user's refinement conversation plus its draft panel.
// It is event-driven and single-threaded: one Send at a time is the
// intended use, and no internal locking is performed.
type Session struct {
	baseURL  string
	http     *http.Client
	draft    *draft.Draft
	messages []model.ChatMessage
	replying bool

	// OnUpdate, when set, is invoked after every visible state change
	// (new message, appended delta, cleared replying flag) so a UI can
	// re-render.
	OnUpdate func()
}

func NewSession(baseURL string, itemType model.WorkItemType) *Session {
	return &Session{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{},
		draft:   draft.New(itemType),
	}
}

func (s *Session) Messages() []model.ChatMessage { return s.messages }
func (s *Session) Draft() *draft.Draft           { return s.draft }
func (s *Session) Replying() bool                { return s.replying }

// SelectType resets the draft to the catalog default for t, discarding
// in-progress edits and readiness. The conversation itself continues.
func (s *Session) SelectType(t model.WorkItemType) {
	s.draft.SelectType(t)
	s.notify()
}

// Send posts the history plus the new user message to the relay and
// consumes the SSE response to completion. Stream failures never
// surface as errors: the assistant bubble gets the apology text
// instead. The returned error is reserved for programming mistakes
// (unreachable base URL is a stream failure, not an error).
func (s *Session) Send(ctx context.Context, text string) error {
	now := time.Now().Format(time.RFC3339)
	s.messages = append(s.messages, model.ChatMessage{
		ID:        id.New(),
		Role:      model.RoleUser,
		Content:   text,
		Timestamp: now,
	})

	payload := dto.ChatStreamRequest{
		WorkItemType: string(s.draft.Type()),
		Messages:     make([]dto.ChatMessagePayload, 0, len(s.messages)),
	}
	for _, msg := range s.messages {
		payload.Messages = append(payload.Messages, dto.ChatMessagePayload{
			Role:      string(msg.Role),
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		})
	}

	// Placeholder goes in before the first byte arrives so the UI can
	// show a typing affordance immediately.
	assistantID := id.New()
	s.messages = append(s.messages, model.ChatMessage{
		ID:        assistantID,
		Role:      model.RoleAssistant,
		Content:   "",
		Timestamp: now,
	})
	s.replying = true
	s.notify()

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		MessageID:    logger.Ptr(assistantID),
		WorkItemType: logger.Ptr(string(s.draft.Type())),
		Component:    "refinery.client",
	})

	assistant := &s.messages[len(s.messages)-1]
	failed := !s.consume(ctx, payload, assistant)

	if failed {
		assistant.Content = ApologyMessage
	}
	s.replying = false
	s.notify()

	s.finalize(assistant.Content)
	return nil
}

// consume drives the SSE body, appending deltas into the assistant
// message. Returns false on any stream failure.
func (s *Session) consume(ctx context.Context, payload dto.ChatStreamRequest, assistant *model.ChatMessage) bool {
	body, err := json.Marshal(payload)
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v1/chat/stream", bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.http.Do(req)
	if err != nil {
		slog.DebugContext(ctx, "chat stream request failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	reader := sse.NewReader(resp.Body)
	for {
		frame, err := reader.Next()
		if err != nil {
			// Stream close without a done frame is a valid terminal;
			// anything else is a failure.
			return errors.Is(err, io.EOF)
		}

		switch frame.Type {
		case sse.FrameDelta:
			assistant.Content += frame.Delta
			s.notify()
		case sse.FrameDone:
			return true
		case sse.FrameError:
			slog.DebugContext(ctx, "relay reported error", "message", frame.Message)
			return false
		}
	}
}

// finalize runs extraction against the final accumulated content and
// merges recognized fields into the draft. Readiness is set only when
// the stricter complete-template check holds.
func (s *Session) finalize(content string) {
	if upd := extract.Extract(content, s.draft.Type()); !upd.Empty() {
		s.draft.MergeExtraction(upd)
	}
	if extract.Complete(content) {
		s.draft.MarkReady()
	}
}

func (s *Session) notify() {
	if s.OnUpdate != nil {
		s.OnUpdate()
	}
}

// DisplayContent returns the conversational part of a message for chat
// rendering: template bodies are suppressed from the visible bubble
// and live in the draft panel instead.
func DisplayContent(msg model.ChatMessage) string {
	if msg.Role != model.RoleAssistant {
		return msg.Content
	}
	preamble, body := extract.SplitPreamble(msg.Content)
	if body == "" {
		return msg.Content
	}
	if preamble == "" {
		return "I've updated the draft panel."
	}
	return preamble
}
