package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"

	"draftdeck.app/refinery/internal/model"
)

// Config holds upstream chat-completion settings.
type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	StreamTimeout time.Duration // bound on one full streaming call; 0 = no bound
}

// Client streams chat completions from the upstream model.
type Client struct {
	openai  openai.Client
	model   string
	timeout time.Duration
	enabled bool
}

func NewClient(cfg Config) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	mdl := cfg.Model
	if mdl == "" {
		mdl = "gpt-4o-mini"
	}

	return &Client{
		openai:  openai.NewClient(opts...),
		model:   mdl,
		timeout: cfg.StreamTimeout,
		enabled: cfg.APIKey != "",
	}
}

func (c *Client) Enabled() bool { return c.enabled }
func (c *Client) Model() string { return c.model }

// Stream opens a streaming completion with the refinement system
// instruction injected ahead of the caller-supplied history. An error
// means the call could not be established (the caller substitutes the
// fallback); mid-stream failures surface through TokenStream.Err.
func (c *Client) Stream(ctx context.Context, itemType model.WorkItemType, history []model.ChatMessage) (TokenStream, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	messages = append(messages, openai.SystemMessage(SystemInstruction(itemType)))
	for _, msg := range history {
		switch msg.Role {
		case model.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}

	cancel := context.CancelFunc(func() {})
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	}

	stream := c.openai.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: messages,
	})
	if err := stream.Err(); err != nil {
		cancel()
		_ = stream.Close()
		return nil, fmt.Errorf("opening upstream stream: %w", err)
	}

	return &upstreamStream{inner: stream, cancel: cancel}, nil
}

// upstreamStream adapts the openai-go chunk stream to TokenStream,
// surfacing only chunks that carry incremental content. Chunks without
// content are skipped without aborting the stream.
type upstreamStream struct {
	inner   *ssestream.Stream[openai.ChatCompletionChunk]
	cancel  context.CancelFunc
	current string
}

func (s *upstreamStream) Next() bool {
	for s.inner.Next() {
		chunk := s.inner.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if fragment := chunk.Choices[0].Delta.Content; fragment != "" {
			s.current = fragment
			return true
		}
	}
	return false
}

func (s *upstreamStream) Current() string { return s.current }

func (s *upstreamStream) Err() error { return s.inner.Err() }

func (s *upstreamStream) Close() error {
	s.cancel()
	return s.inner.Close()
}
