package handoff

import (
	"context"
	"fmt"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// GitLabConfig configures the GitLab tracker provider.
type GitLabConfig struct {
	BaseURL   string // empty = gitlab.com
	Token     string
	ProjectID int64
}

func (c GitLabConfig) Enabled() bool {
	return c.Token != "" && c.ProjectID != 0
}

type gitLabTracker struct {
	client    *gitlab.Client
	projectID int64
}

// NewGitLabTracker returns a Tracker that files issues in a GitLab
// project.
func NewGitLabTracker(cfg GitLabConfig) (Tracker, error) {
	var opts []gitlab.ClientOptionFunc
	if cfg.BaseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(cfg.BaseURL))
	}

	client, err := gitlab.NewClient(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gitlab client: %w", err)
	}

	return &gitLabTracker{client: client, projectID: cfg.ProjectID}, nil
}

func (t *gitLabTracker) CreateIssue(ctx context.Context, params CreateIssueParams) (*IssueRef, error) {
	labels := gitlab.LabelOptions{string(params.WorkItemType)}

	issue, _, err := t.client.Issues.CreateIssue(
		t.projectID,
		&gitlab.CreateIssueOptions{
			Title:       gitlab.Ptr(params.Title),
			Description: gitlab.Ptr(issueBody(params)),
			Labels:      &labels,
		},
		gitlab.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("creating gitlab issue: %w", err)
	}

	return &IssueRef{
		Key: fmt.Sprintf("#%d", issue.IID),
		URL: issue.WebURL,
	}, nil
}
