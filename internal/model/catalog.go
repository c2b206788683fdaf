package model

var catalog = map[WorkItemType]WorkItemTemplate{
	WorkItemStory: {
		Label:            "User Story",
		TitleLabel:       "Story Title",
		DescriptionLabel: "Story Description",
		ListLabel:        "Acceptance Criteria",
		Title:            "As a user, I want to sign in with my work account",
		Description:      "Users need a single sign-on entry point so they can reach the dashboard without managing another password.",
		Acceptance: []string{
			"A signed-out user is redirected to the sign-in page",
			"A valid work account lands on the dashboard",
			"An invalid account sees an actionable error message",
		},
	},
	WorkItemFeature: {
		Label:            "Feature",
		TitleLabel:       "Feature Name",
		DescriptionLabel: "Feature Summary",
		ListLabel:        "Capabilities",
		Title:            "Export dashboard to PDF",
		Description:      "Stakeholders want a shareable snapshot of the current dashboard state for status meetings.",
		Acceptance: []string{
			"Export preserves the visible chart layout",
		},
	},
	WorkItemEpic: {
		Label:            "Epic",
		TitleLabel:       "Epic Name",
		DescriptionLabel: "Epic Overview",
		ListLabel:        "Milestones",
		Title:            "Self-serve onboarding",
		Description:      "Reduce time-to-first-value for new teams by removing every manual provisioning step from onboarding.",
		Acceptance: []string{
			"A new team can complete setup without support involvement",
		},
	},
	WorkItemBug: {
		Label:            "Bug",
		TitleLabel:       "Bug Summary",
		DescriptionLabel: "Observed Behavior",
		ListLabel:        "Expected Behavior",
		Title:            "Duplicate notifications after reconnect",
		Description:      "When the websocket reconnects, queued notifications are delivered twice to the client.",
		Acceptance: []string{
			"Each notification is delivered exactly once across reconnects",
		},
	},
	WorkItemIssue: {
		Label:            "Issue",
		TitleLabel:       "Issue Title",
		DescriptionLabel: "Issue Description",
		ListLabel:        "Steps",
		Title:            "Investigate slow catalog queries",
		Description:      "Catalog page loads exceed two seconds at peak; profile the query path and identify the bottleneck.",
		Acceptance: []string{
			"Reproduce the slow load against production-sized data",
			"Capture a query plan for the hot path",
		},
	},
}

// CatalogDefault returns a fresh copy of the default template for t.
// The acceptance slice is copied so callers can mutate their draft
// without bleeding into the catalog.
func CatalogDefault(t WorkItemType) WorkItemTemplate {
	tpl := catalog[t]
	tpl.Acceptance = append([]string(nil), tpl.Acceptance...)
	return tpl
}
