package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"podstudio/internal/models"
)

func TestProgressFor(t *testing.T) {
	tests := []struct {
		status models.WorkflowStatus
		index  int
		detour bool
	}{
		{models.StatusDraft, 0, false},
		{models.StatusInReview, 1, false},
		{models.StatusApproved, 2, false},
		{models.StatusPublished, 3, false},
		{models.StatusNeedsChanges, 1, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			p := ProgressFor(tt.status)
			assert.Equal(t, tt.index, p.StepIndex)
			assert.Equal(t, tt.detour, p.Detour)
			assert.Equal(t, HappyPath, p.Steps)
		})
	}
}

func TestNeedsChangesReturnsToHappyPath(t *testing.T) {
	// The detour always leads back into the forward sequence.
	for _, target := range AllowedTargets(models.StatusNeedsChanges) {
		assert.Contains(t, HappyPath, target)
	}
}
