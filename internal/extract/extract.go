// Package extract recognizes the structured work-item template the
// assistant embeds in free-form replies. Recognition is best-effort
// and pure: no I/O, never an error, a miss simply yields no update.
package extract

import (
	"regexp"
	"strings"

	"draftdeck.app/refinery/internal/model"
)

var (
	titleMarker = regexp.MustCompile(`(?i)title:`)
	descMarker  = regexp.MustCompile(`(?i)description:`)
	acMarker    = regexp.MustCompile(`(?i)acceptance criteria:`)
	stepsMarker = regexp.MustCompile(`(?i)steps:`)

	// The first numbered item may share a line with the list marker
	// ("Acceptance Criteria: 1. ..."), so items anchor on either line
	// start or preceding whitespace.
	numberedLine = regexp.MustCompile(`(?m)(?:^|[ \t])\d+\.[ \t]*([^\n]+?)[ \t]*$`)
)

// Update is a partial field update. Nil pointers and a nil Acceptance
// slice mean "leave the current draft value unchanged"; absent fields
// are never forced to empty values.
type Update struct {
	Title       *string
	Description *string
	Acceptance  []string
}

// Empty reports whether the update carries no recognized field.
func (u *Update) Empty() bool {
	return u == nil || (u.Title == nil && u.Description == nil && u.Acceptance == nil)
}

// Extract scans text for template markers and returns the fields it
// recognized. Each field is independent: a reply may carry only a
// title, only a list, any two fields, or all three. The list is only
// populated for the types whose grammar defines a list marker (story
// uses "Acceptance Criteria:", issue uses "Steps:"); other types
// ignore list-shaped text rather than guess at its meaning.
func Extract(text string, itemType model.WorkItemType) *Update {
	upd := &Update{}

	if loc := titleMarker.FindStringIndex(text); loc != nil {
		rest := text[loc[1]:]
		end := len(rest)
		for _, marker := range []*regexp.Regexp{descMarker, acMarker, stepsMarker} {
			if m := marker.FindStringIndex(rest); m != nil && m[0] < end {
				end = m[0]
			}
		}
		if title := cleanValue(rest[:end]); title != "" {
			upd.Title = &title
		}
	}

	if loc := descMarker.FindStringIndex(text); loc != nil {
		rest := text[loc[1]:]
		end := len(rest)
		if m := acMarker.FindStringIndex(rest); m != nil && m[0] < end {
			end = m[0]
		}
		if m := stepsMarker.FindStringIndex(rest); m != nil && m[0] < end {
			end = m[0]
		}
		if desc := cleanValue(rest[:end]); desc != "" {
			upd.Description = &desc
		}
	}

	if marker := listMarkerFor(itemType); marker != nil {
		if loc := marker.FindStringIndex(text); loc != nil {
			if items := parseList(text[loc[1]:]); len(items) > 0 {
				upd.Acceptance = items
			}
		}
	}

	if upd.Empty() {
		return nil
	}
	return upd
}

// Complete is the stricter readiness gate: the markers must appear in
// order (title, description, then a list marker) with at least one
// numbered line after the list marker, all within the same message.
// Either list marker satisfies the check regardless of work-item type.
func Complete(text string) bool {
	t := titleMarker.FindStringIndex(text)
	if t == nil {
		return false
	}
	d := descMarker.FindStringIndex(text[t[1]:])
	if d == nil {
		return false
	}
	afterDesc := text[t[1]:][d[1]:]

	l := acMarker.FindStringIndex(afterDesc)
	if s := stepsMarker.FindStringIndex(afterDesc); l == nil || (s != nil && s[0] < l[0]) {
		l = s
	}
	if l == nil {
		return false
	}
	return numberedLine.MatchString(afterDesc[l[1]:])
}

// SplitPreamble separates conversational text ahead of the first
// recognized marker from the template body. The preamble is what a
// chat surface shows the user; the body feeds extraction. When no
// marker is present, the whole text is preamble and body is empty.
func SplitPreamble(text string) (preamble, body string) {
	first := -1
	for _, marker := range []*regexp.Regexp{titleMarker, descMarker, acMarker, stepsMarker} {
		if loc := marker.FindStringIndex(text); loc != nil && (first < 0 || loc[0] < first) {
			first = loc[0]
		}
	}
	if first < 0 {
		return strings.TrimSpace(text), ""
	}
	return cleanValue(text[:first]), text[first:]
}

func listMarkerFor(itemType model.WorkItemType) *regexp.Regexp {
	switch itemType {
	case model.WorkItemStory:
		return acMarker
	case model.WorkItemIssue:
		return stepsMarker
	}
	return nil
}

func parseList(rest string) []string {
	matches := numberedLine.FindAllStringSubmatch(rest, -1)
	if len(matches) > 0 {
		items := make([]string, 0, len(matches))
		for _, m := range matches {
			items = append(items, m[1])
		}
		return items
	}
	if line := cleanValue(rest); line != "" {
		return []string{line}
	}
	return nil
}

// cleanValue trims whitespace and any dash-divider the model wraps
// around template blocks ("---\nTitle: ...").
func cleanValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "-")
	return strings.TrimSpace(s)
}
