package dto

import "encoding/json"

// CreateIssueRequest hands a finalized template to the configured
// issue tracker.
type CreateIssueRequest struct {
	WorkItemType string   `json:"workItemType" binding:"required"`
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Acceptance   []string `json:"acceptance" binding:"required"`
}

type CreateIssueResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// CreateDocRequest generates a long-form design doc from the template
// and publishes it as a Confluence page.
type CreateDocRequest struct {
	WorkItemType string   `json:"workItemType" binding:"required"`
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Acceptance   []string `json:"acceptance"`
}

type CreateDocResponse struct {
	PageURL string `json:"pageUrl"`
}

type ImportFigmaRequest struct {
	FileURL string `json:"fileUrl" binding:"required"`
}

type ImportFigmaResponse struct {
	Name     string          `json:"name"`
	Document json.RawMessage `json:"document"`
}

type TriggerPRRequest struct {
	Description string `json:"description" binding:"required"`
}

type TriggerPRResponse struct {
	PRURL string `json:"prUrl"`
}
