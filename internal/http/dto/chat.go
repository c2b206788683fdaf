package dto

// ChatStreamRequest is the inbound relay payload: the selected
// work-item type plus the full message history, newest last.
type ChatStreamRequest struct {
	WorkItemType string               `json:"workItemType" binding:"required"`
	Messages     []ChatMessagePayload `json:"messages" binding:"required,dive"`
}

// Role is validated against the model enum in the handler, the same
// way workItemType is.
type ChatMessagePayload struct {
	Role      string `json:"role" binding:"required"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}
