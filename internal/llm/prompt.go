package llm

import (
	"fmt"

	"draftdeck.app/refinery/internal/model"
)

// SystemInstruction is injected ahead of the caller-supplied history.
// It tells the model to converse naturally and to emit the structured
// block only when the user explicitly requests a change (single field)
// or signals completion (full block), using the line grammar the
// extractor recognizes.
func SystemInstruction(itemType model.WorkItemType) string {
	tpl := model.CatalogDefault(itemType)
	listMarker := "Acceptance Criteria:"
	if itemType == model.WorkItemIssue {
		listMarker = "Steps:"
	}

	return fmt.Sprintf(`You are a product refinement assistant helping a user shape a %s.

Converse naturally: ask clarifying questions, suggest improvements, and keep replies short. Do not emit the structured block unprompted.

When the user explicitly asks you to change a single field, reply with your conversational answer followed by only the changed field on its own lines, for example:

Title: <new title>

When and only when the user signals the %s is complete ("ready", "done", "ship it"), emit the full block:

Title: <title>
Description: <description>
%s
1. <first item>
2. <second item>

The list under "%s" covers the %s. Use numbered lines, one item per line.`,
		tpl.Label, tpl.Label, listMarker, listMarker, tpl.ListLabel)
}
