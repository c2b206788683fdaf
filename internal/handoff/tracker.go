// Package handoff hands a finalized work-item template to external
// collaborators: issue trackers, Confluence, Figma, and the coding
// agent. Each client is a thin typed wrapper; the core's only
// obligation is delivering the template fields.
package handoff

import (
	"context"
	"fmt"
	"strings"

	"draftdeck.app/refinery/internal/model"
)

// CreateIssueParams carries the finalized template into a tracker.
type CreateIssueParams struct {
	WorkItemType model.WorkItemType
	Title        string
	Description  string
	Acceptance   []string
}

// IssueRef identifies the created ticket.
type IssueRef struct {
	Key string
	URL string
}

// Tracker creates issues in an external tracker. Providers: Jira and
// GitLab, chosen by configuration.
type Tracker interface {
	CreateIssue(ctx context.Context, params CreateIssueParams) (*IssueRef, error)
}

// issueBody renders the description plus the list block the way both
// trackers expect: description, blank line, labeled numbered list.
func issueBody(params CreateIssueParams) string {
	var b strings.Builder
	b.WriteString(params.Description)
	if len(params.Acceptance) > 0 {
		label := model.CatalogDefault(params.WorkItemType).ListLabel
		b.WriteString("\n\n")
		b.WriteString(label)
		b.WriteString(":\n")
		for i, item := range params.Acceptance {
			fmt.Fprintf(&b, "%d. %s\n", i+1, item)
		}
	}
	return b.String()
}
