package tui

import "github.com/matheuskafuri/pulse/internal/health"

type categoryUpdatedMsg struct {
	cat health.Category
	sum *health.TimespanSummary
}

type categorySkippedMsg struct {
	cat health.Category
}

type refreshDoneMsg struct{}

type permissionsLoadedMsg struct {
	newlyAuthorized []health.Category
	err             error
}

type errMsg struct {
	err error
}
