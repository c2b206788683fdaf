// Package llm produces the upstream token stream for the relay: a
// streaming chat completion when credentials are configured, or a
// deterministic canned stream when the upstream is unavailable.
package llm

import (
	"context"
	"log/slog"

	"draftdeck.app/refinery/internal/model"
)

// TokenStream yields incremental text fragments in generation order.
// Next blocks until a fragment is available or the stream ends; Err
// reports a mid-stream failure after Next returns false.
type TokenStream interface {
	Next() bool
	Current() string
	Err() error
	Close() error
}

// Source opens token streams, degrading to the canned fallback when
// the upstream cannot be reached. Upstream unavailability is a policy
// decision here, not an error the caller sees.
type Source struct {
	client   *Client
	fallback *Fallback
}

func NewSource(client *Client, fallback *Fallback) *Source {
	return &Source{client: client, fallback: fallback}
}

// Open returns a live token stream for the given conversation. It
// never fails: any problem establishing the upstream call substitutes
// the fallback stream.
func (s *Source) Open(ctx context.Context, itemType model.WorkItemType, history []model.ChatMessage) TokenStream {
	if s.client == nil || !s.client.Enabled() {
		slog.DebugContext(ctx, "upstream llm not configured, using canned fallback")
		return s.fallback.Stream(ctx)
	}

	stream, err := s.client.Stream(ctx, itemType, history)
	if err != nil {
		slog.WarnContext(ctx, "upstream llm unavailable, using canned fallback", "error", err)
		return s.fallback.Stream(ctx)
	}
	return stream
}
