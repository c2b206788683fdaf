package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"draftdeck.app/refinery/internal/handoff"
	"draftdeck.app/refinery/internal/http/handler"
	"draftdeck.app/refinery/internal/model"
)

type mockHandoff struct {
	CreateIssueFunc func(ctx context.Context, params handoff.CreateIssueParams) (*handoff.IssueRef, error)
	PublishDocFunc  func(ctx context.Context, itemType model.WorkItemType, title, description string, acceptance []string) (string, error)
	ImportFigmaFunc func(ctx context.Context, fileURL string) (*handoff.FigmaFile, error)
	TriggerPRFunc   func(ctx context.Context, description string) (string, error)
}

func (m *mockHandoff) CreateIssue(ctx context.Context, params handoff.CreateIssueParams) (*handoff.IssueRef, error) {
	return m.CreateIssueFunc(ctx, params)
}

func (m *mockHandoff) PublishDoc(ctx context.Context, itemType model.WorkItemType, title, description string, acceptance []string) (string, error) {
	return m.PublishDocFunc(ctx, itemType, title, description, acceptance)
}

func (m *mockHandoff) ImportFigma(ctx context.Context, fileURL string) (*handoff.FigmaFile, error) {
	return m.ImportFigmaFunc(ctx, fileURL)
}

func (m *mockHandoff) TriggerPR(ctx context.Context, description string) (string, error) {
	return m.TriggerPRFunc(ctx, description)
}

var _ = Describe("HandoffHandler", func() {
	var mock *mockHandoff
	var router *gin.Engine

	BeforeEach(func() {
		mock = &mockHandoff{}
		h := handler.NewHandoffHandler(mock)
		router = gin.New()
		router.POST("/api/v1/handoff/issue", h.CreateIssue)
		router.POST("/api/v1/handoff/doc", h.CreateDoc)
		router.POST("/api/v1/handoff/figma", h.ImportFigma)
		router.POST("/api/v1/handoff/pr", h.TriggerPR)
	})

	post := func(path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w
	}

	Describe("CreateIssue", func() {
		issueBody := `{"workItemType":"story","title":"Login","description":"SSO","acceptance":["redirect works"]}`

		It("creates the issue and returns its reference", func() {
			var got handoff.CreateIssueParams
			mock.CreateIssueFunc = func(_ context.Context, params handoff.CreateIssueParams) (*handoff.IssueRef, error) {
				got = params
				return &handoff.IssueRef{Key: "REF-42", URL: "https://tracker.example/browse/REF-42"}, nil
			}

			w := post("/api/v1/handoff/issue", issueBody)

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(got.WorkItemType).To(Equal(model.WorkItemStory))
			Expect(got.Title).To(Equal("Login"))
			Expect(got.Acceptance).To(Equal([]string{"redirect works"}))

			var resp map[string]string
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["key"]).To(Equal("REF-42"))
		})

		It("rejects unknown work-item types", func() {
			w := post("/api/v1/handoff/issue", `{"workItemType":"saga","title":"x"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("maps an unconfigured tracker to 409", func() {
			mock.CreateIssueFunc = func(context.Context, handoff.CreateIssueParams) (*handoff.IssueRef, error) {
				return nil, handoff.ErrNotConfigured
			}

			Expect(post("/api/v1/handoff/issue", issueBody).Code).To(Equal(http.StatusConflict))
		})

		It("maps tracker failures to 500", func() {
			mock.CreateIssueFunc = func(context.Context, handoff.CreateIssueParams) (*handoff.IssueRef, error) {
				return nil, errors.New("tracker exploded")
			}

			Expect(post("/api/v1/handoff/issue", issueBody).Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("CreateDoc", func() {
		It("publishes and returns the page url", func() {
			mock.PublishDocFunc = func(context.Context, model.WorkItemType, string, string, []string) (string, error) {
				return "https://wiki.example/pages/7", nil
			}

			w := post("/api/v1/handoff/doc", `{"workItemType":"feature","title":"Exports","description":"CSV export"}`)

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(w.Body.String()).To(ContainSubstring("https://wiki.example/pages/7"))
		})
	})

	Describe("ImportFigma", func() {
		It("returns the fetched file", func() {
			mock.ImportFigmaFunc = func(_ context.Context, fileURL string) (*handoff.FigmaFile, error) {
				Expect(fileURL).To(ContainSubstring("figma.com"))
				return &handoff.FigmaFile{Name: "Dashboard", Document: json.RawMessage(`{"id":"0:0"}`)}, nil
			}

			w := post("/api/v1/handoff/figma", `{"fileUrl":"https://www.figma.com/file/abc123/Dashboard"}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("Dashboard"))
		})
	})

	Describe("TriggerPR", func() {
		It("accepts the trigger and returns the pr url", func() {
			mock.TriggerPRFunc = func(_ context.Context, description string) (string, error) {
				Expect(description).To(Equal("implement the login story"))
				return "https://git.example/mr/9", nil
			}

			w := post("/api/v1/handoff/pr", `{"description":"implement the login story"}`)

			Expect(w.Code).To(Equal(http.StatusAccepted))
			Expect(w.Body.String()).To(ContainSubstring("https://git.example/mr/9"))
		})
	})
})
