// Package draft holds the editable work-item panel state: the current
// template, merged from extractor output or direct user edits, and the
// readiness flag gating hand-off.
package draft

import (
	"fmt"

	"draftdeck.app/refinery/internal/extract"
	"draftdeck.app/refinery/internal/model"
)

// Field names accepted by EditField.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldAcceptance  = "acceptance"
)

// Draft is the single source of truth for the editable panel.
// It is owned by one session and is not safe for concurrent use.
type Draft struct {
	itemType model.WorkItemType
	template model.WorkItemTemplate
	ready    bool
}

// New seeds a draft from the catalog default for t.
func New(t model.WorkItemType) *Draft {
	return &Draft{itemType: t, template: model.CatalogDefault(t)}
}

func (d *Draft) Type() model.WorkItemType         { return d.itemType }
func (d *Draft) Template() model.WorkItemTemplate { return d.template }
func (d *Draft) Ready() bool                      { return d.ready }

// SelectType replaces the entire draft with the catalog default for t
// and clears readiness. Switching type intentionally discards
// in-progress edits.
func (d *Draft) SelectType(t model.WorkItemType) {
	d.itemType = t
	d.template = model.CatalogDefault(t)
	d.ResetReady()
}

// EditField applies a direct user overwrite to title, description, or
// one acceptance element by index. Edits never affect readiness.
func (d *Draft) EditField(field string, index int, value string) error {
	switch field {
	case FieldTitle:
		d.template.Title = value
	case FieldDescription:
		d.template.Description = value
	case FieldAcceptance:
		if index < 0 || index >= len(d.template.Acceptance) {
			return fmt.Errorf("acceptance index %d out of range", index)
		}
		d.template.Acceptance[index] = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// MergeExtraction applies the fields present in upd, last writer wins
// per field. A present acceptance list replaces the existing list
// wholly; lists are never deep-merged.
func (d *Draft) MergeExtraction(upd *extract.Update) {
	if upd.Empty() {
		return
	}
	if upd.Title != nil {
		d.template.Title = *upd.Title
	}
	if upd.Description != nil {
		d.template.Description = *upd.Description
	}
	if upd.Acceptance != nil {
		d.template.Acceptance = append([]string(nil), upd.Acceptance...)
	}
}

// MarkReady is set only when the extractor recognized a complete
// template in a finalized assistant message.
func (d *Draft) MarkReady() { d.ready = true }

// ResetReady is paired with SelectType; direct edits never touch it.
func (d *Draft) ResetReady() { d.ready = false }
