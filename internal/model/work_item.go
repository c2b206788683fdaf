package model

// WorkItemType is one of the five fixed refinement categories.
type WorkItemType string

const (
	WorkItemStory   WorkItemType = "story"
	WorkItemFeature WorkItemType = "feature"
	WorkItemEpic    WorkItemType = "epic"
	WorkItemBug     WorkItemType = "bug"
	WorkItemIssue   WorkItemType = "issue"
)

// Valid reports whether t is a known work-item type.
func (t WorkItemType) Valid() bool {
	switch t {
	case WorkItemStory, WorkItemFeature, WorkItemEpic, WorkItemBug, WorkItemIssue:
		return true
	}
	return false
}

// WorkItemTypes lists all types in catalog order.
func WorkItemTypes() []WorkItemType {
	return []WorkItemType{WorkItemStory, WorkItemFeature, WorkItemEpic, WorkItemBug, WorkItemIssue}
}

// WorkItemTemplate is the editable draft for one work-item type.
// Labels vary per type (a story lists acceptance criteria, an issue
// lists reproduction steps); Acceptance is always non-nil.
type WorkItemTemplate struct {
	Label            string   `json:"label"`
	TitleLabel       string   `json:"title_label"`
	DescriptionLabel string   `json:"description_label"`
	ListLabel        string   `json:"list_label"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Acceptance       []string `json:"acceptance"`
}
