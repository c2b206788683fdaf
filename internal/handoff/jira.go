package handoff

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"draftdeck.app/refinery/internal/model"
)

// JiraConfig configures the Jira REST v2 client.
type JiraConfig struct {
	BaseURL    string // e.g. https://acme.atlassian.net
	Email      string
	APIToken   string
	ProjectKey string
}

func (c JiraConfig) Enabled() bool {
	return c.BaseURL != "" && c.Email != "" && c.APIToken != "" && c.ProjectKey != ""
}

type jiraTracker struct {
	cfg  JiraConfig
	http *http.Client
}

// NewJiraTracker returns a Tracker backed by Jira's issue-creation API.
func NewJiraTracker(cfg JiraConfig) Tracker {
	return &jiraTracker{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// issueTypeNames maps work-item types onto the stock Jira issue types.
// Feature and epic map to Story and Epic; issue maps to Task.
var issueTypeNames = map[model.WorkItemType]string{
	model.WorkItemStory:   "Story",
	model.WorkItemFeature: "Story",
	model.WorkItemEpic:    "Epic",
	model.WorkItemBug:     "Bug",
	model.WorkItemIssue:   "Task",
}

func (t *jiraTracker) CreateIssue(ctx context.Context, params CreateIssueParams) (*IssueRef, error) {
	payload := map[string]any{
		"fields": map[string]any{
			"project":     map[string]string{"key": t.cfg.ProjectKey},
			"summary":     params.Title,
			"description": issueBody(params),
			"issuetype":   map[string]string{"name": issueTypeNames[params.WorkItemType]},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding jira payload: %w", err)
	}

	url := strings.TrimSuffix(t.cfg.BaseURL, "/") + "/rest/api/2/issue"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building jira request: %w", err)
	}
	req.SetBasicAuth(t.cfg.Email, t.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling jira: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("jira returned %d: %s", resp.StatusCode, detail)
	}

	var created struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decoding jira response: %w", err)
	}

	return &IssueRef{
		Key: created.Key,
		URL: strings.TrimSuffix(t.cfg.BaseURL, "/") + "/browse/" + created.Key,
	}, nil
}
