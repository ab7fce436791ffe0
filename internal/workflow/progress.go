package workflow

import "podstudio/internal/models"

// HappyPath is the canonical forward sequence through the workflow.
// needs_changes sits outside it as a detour that returns to draft or
// in_review.
var HappyPath = []models.WorkflowStatus{
	models.StatusDraft,
	models.StatusInReview,
	models.StatusApproved,
	models.StatusPublished,
}

// Progress describes where an episode stands for a step indicator.
type Progress struct {
	Steps     []models.WorkflowStatus `json:"steps"`
	StepIndex int                     `json:"step_index"`
	Detour    bool                    `json:"detour"`
}

// ProgressFor computes the step index of the current status by position in
// the happy path. needs_changes is reported as a detour at the in_review
// step rather than a step of its own.
func ProgressFor(status models.WorkflowStatus) Progress {
	p := Progress{Steps: HappyPath}
	if status == models.StatusNeedsChanges {
		p.StepIndex = 1
		p.Detour = true
		return p
	}
	for i, s := range HappyPath {
		if s == status {
			p.StepIndex = i
			return p
		}
	}
	return p
}
