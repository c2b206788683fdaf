package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"draftdeck.app/refinery/common/logger"
	"draftdeck.app/refinery/internal/http/dto"
	"draftdeck.app/refinery/internal/llm"
	"draftdeck.app/refinery/internal/model"
	"draftdeck.app/refinery/internal/sse"
)

const invalidPayloadMessage = "invalid request payload"

// StreamSource opens a token stream for a conversation. Upstream
// unavailability is handled inside the source (canned fallback), so
// Open never fails.
type StreamSource interface {
	Open(ctx context.Context, itemType model.WorkItemType, history []model.ChatMessage) llm.TokenStream
}

type ChatStreamHandler struct {
	source StreamSource
}

func NewChatStreamHandler(source StreamSource) *ChatStreamHandler {
	return &ChatStreamHandler{source: source}
}

// Stream relays the upstream token stream to the caller as SSE frames:
// any number of delta frames in generation order, then exactly one
// terminal frame. Validation failures produce a single error frame
// followed by the terminal frame; nothing else is ever surfaced as a
// protocol error.
func (h *ChatStreamHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()

	header := c.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")

	out := newFrameWriter(c.Writer)

	var req dto.ChatStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid chat stream request", "error", err)
		out.write(sse.Error(invalidPayloadMessage))
		out.terminate()
		return
	}

	itemType := model.WorkItemType(req.WorkItemType)
	if !itemType.Valid() {
		slog.WarnContext(ctx, "invalid work item type", "work_item_type", req.WorkItemType)
		out.write(sse.Error(invalidPayloadMessage))
		out.terminate()
		return
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		WorkItemType: logger.Ptr(string(itemType)),
		Component:    "refinery.relay",
	})

	history := make([]model.ChatMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		role := model.Role(msg.Role)
		if !role.Valid() {
			slog.WarnContext(ctx, "invalid message role", "role", msg.Role)
			out.write(sse.Error(invalidPayloadMessage))
			out.terminate()
			return
		}
		history = append(history, model.ChatMessage{
			Role:      role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		})
	}

	stream := h.source.Open(ctx, itemType, history)
	defer stream.Close()

	for stream.Next() {
		select {
		case <-ctx.Done():
			// Client went away: stop relaying without touching the
			// dead socket again.
			out.abandon()
			return
		default:
		}
		out.write(sse.Delta(stream.Current()))
	}

	if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
		slog.WarnContext(ctx, "upstream stream ended abnormally", "error", err)
	}

	select {
	case <-ctx.Done():
		out.abandon()
	default:
		out.terminate()
	}
}

// frameWriter serializes frames onto the response and guards the
// terminal transition: once terminated or abandoned, further writes
// and closes are no-ops. Both the normal completion path and the
// client-disconnect path can race to finish the stream.
type frameWriter struct {
	w      gin.ResponseWriter
	closed bool
}

func newFrameWriter(w gin.ResponseWriter) *frameWriter {
	return &frameWriter{w: w}
}

func (fw *frameWriter) write(frame sse.Frame) {
	if fw.closed {
		return
	}
	_, _ = fw.w.Write(frame.Encode())
	fw.w.Flush()
}

// terminate emits the done frame and seals the writer.
func (fw *frameWriter) terminate() {
	if fw.closed {
		return
	}
	_, _ = fw.w.Write(sse.Done().Encode())
	fw.w.Flush()
	fw.closed = true
}

// abandon seals the writer without emitting anything, for when the
// peer has already disconnected.
func (fw *frameWriter) abandon() {
	fw.closed = true
}
