package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"draftdeck.app/refinery/common/logger"
	"draftdeck.app/refinery/internal/http/handler"
	"draftdeck.app/refinery/internal/llm"
	"draftdeck.app/refinery/internal/model"
	"draftdeck.app/refinery/internal/sse"
)

// stubStream replays a fixed delta sequence.
type stubStream struct {
	deltas  []string
	pos     int
	current string
	err     error
	closed  bool
}

func (s *stubStream) Next() bool {
	if s.pos >= len(s.deltas) {
		return false
	}
	s.current = s.deltas[s.pos]
	s.pos++
	return true
}

func (s *stubStream) Current() string { return s.current }
func (s *stubStream) Err() error      { return s.err }
func (s *stubStream) Close() error    { s.closed = true; return nil }

type stubSource struct {
	OpenFunc func(ctx context.Context, itemType model.WorkItemType, history []model.ChatMessage) llm.TokenStream
}

func (s *stubSource) Open(ctx context.Context, itemType model.WorkItemType, history []model.ChatMessage) llm.TokenStream {
	return s.OpenFunc(ctx, itemType, history)
}

func decodeFrames(body io.Reader) []sse.Frame {
	var frames []sse.Frame
	reader := sse.NewReader(body)
	for {
		frame, err := reader.Next()
		if err != nil {
			return frames
		}
		frames = append(frames, frame)
	}
}

var _ = Describe("ChatStreamHandler", func() {
	newRouter := func(source handler.StreamSource) *gin.Engine {
		router := gin.New()
		router.POST("/api/v1/chat/stream", handler.NewChatStreamHandler(source).Stream)
		return router
	}

	validBody := `{"workItemType":"story","messages":[{"role":"user","content":"hi","timestamp":"2026-08-28T10:00:00Z"}]}`

	It("relays every delta in order followed by exactly one done frame", func() {
		stream := &stubStream{deltas: []string{"Here", " is", " the", " plan"}}
		router := newRouter(&stubSource{
			OpenFunc: func(context.Context, model.WorkItemType, []model.ChatMessage) llm.TokenStream {
				return stream
			},
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/stream", strings.NewReader(validBody))
		router.ServeHTTP(w, req)

		Expect(w.Header().Get("Content-Type")).To(Equal("text/event-stream"))
		Expect(w.Header().Get("Cache-Control")).To(Equal("no-cache"))

		frames := decodeFrames(w.Body)
		Expect(frames).To(Equal([]sse.Frame{
			sse.Delta("Here"), sse.Delta(" is"), sse.Delta(" the"), sse.Delta(" plan"),
			sse.Done(),
		}))
		Expect(stream.closed).To(BeTrue())
	})

	It("passes the request conversation to the source", func() {
		var gotType model.WorkItemType
		var gotHistory []model.ChatMessage
		router := newRouter(&stubSource{
			OpenFunc: func(_ context.Context, itemType model.WorkItemType, history []model.ChatMessage) llm.TokenStream {
				gotType = itemType
				gotHistory = history
				return &stubStream{}
			},
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/stream", strings.NewReader(validBody))
		router.ServeHTTP(w, req)

		Expect(gotType).To(Equal(model.WorkItemStory))
		Expect(gotHistory).To(HaveLen(1))
		Expect(gotHistory[0].Role).To(Equal(model.RoleUser))
		Expect(gotHistory[0].Content).To(Equal("hi"))
	})

	It("answers malformed payloads with one error frame then the terminal frame", func() {
		router := newRouter(&stubSource{
			OpenFunc: func(context.Context, model.WorkItemType, []model.ChatMessage) llm.TokenStream {
				Fail("source must not be opened for an invalid payload")
				return nil
			},
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/stream", strings.NewReader(`{"messages":`))
		router.ServeHTTP(w, req)

		frames := decodeFrames(w.Body)
		Expect(frames).To(Equal([]sse.Frame{sse.Error("invalid request payload"), sse.Done()}))
	})

	It("rejects unknown message roles the same way", func() {
		router := newRouter(&stubSource{
			OpenFunc: func(context.Context, model.WorkItemType, []model.ChatMessage) llm.TokenStream {
				Fail("source must not be opened for an invalid role")
				return nil
			},
		})

		w := httptest.NewRecorder()
		body := `{"workItemType":"story","messages":[{"role":"system","content":"hi"}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/stream", strings.NewReader(body))
		router.ServeHTTP(w, req)

		frames := decodeFrames(w.Body)
		Expect(frames).To(Equal([]sse.Frame{sse.Error("invalid request payload"), sse.Done()}))
	})

	It("logs stream problems with the conversation fields attached", func() {
		buf := &bytes.Buffer{}
		previous := slog.Default()
		slog.SetDefault(slog.New(logger.NewTraceHandler(slog.NewJSONHandler(buf, nil))))
		defer slog.SetDefault(previous)

		stream := &stubStream{deltas: []string{"partial"}, err: errors.New("upstream hiccup")}
		router := newRouter(&stubSource{
			OpenFunc: func(context.Context, model.WorkItemType, []model.ChatMessage) llm.TokenStream {
				return stream
			},
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/stream", strings.NewReader(validBody))
		router.ServeHTTP(w, req)

		var rec map[string]any
		Expect(json.Unmarshal(buf.Bytes(), &rec)).To(Succeed())
		Expect(rec["msg"]).To(Equal("upstream stream ended abnormally"))
		Expect(rec["work_item_type"]).To(Equal("story"))
		Expect(rec["component"]).To(Equal("refinery.relay"))
	})

	It("rejects unknown work-item types the same way", func() {
		router := newRouter(&stubSource{
			OpenFunc: func(context.Context, model.WorkItemType, []model.ChatMessage) llm.TokenStream {
				Fail("source must not be opened for an invalid type")
				return nil
			},
		})

		w := httptest.NewRecorder()
		body := `{"workItemType":"saga","messages":[{"role":"user","content":"hi"}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/stream", strings.NewReader(body))
		router.ServeHTTP(w, req)

		frames := decodeFrames(w.Body)
		Expect(frames).To(Equal([]sse.Frame{sse.Error("invalid request payload"), sse.Done()}))
	})

	It("stops writing once the client disconnects", func() {
		stream := &stubStream{deltas: []string{"never", "sent"}}
		router := newRouter(&stubSource{
			OpenFunc: func(context.Context, model.WorkItemType, []model.ChatMessage) llm.TokenStream {
				return stream
			},
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/stream", strings.NewReader(validBody)).WithContext(ctx)
		router.ServeHTTP(w, req)

		Expect(decodeFrames(w.Body)).To(BeEmpty())
		Expect(stream.closed).To(BeTrue())
	})

	It("still terminates normally when the stream yields nothing", func() {
		router := newRouter(&stubSource{
			OpenFunc: func(context.Context, model.WorkItemType, []model.ChatMessage) llm.TokenStream {
				return &stubStream{}
			},
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/stream", strings.NewReader(validBody))
		router.ServeHTTP(w, req)

		Expect(decodeFrames(w.Body)).To(Equal([]sse.Frame{sse.Done()}))
	})
})
