package persistence

import (
	"cmp"
	"slices"

	"github.com/flowforge/flowforge/pkg/models"
)

// SortWorkflows orders workflows most recently created first.
func SortWorkflows(workflows []*models.Workflow) {
	slices.SortFunc(workflows, func(a, b *models.Workflow) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})
}

// SortExecutions orders records most recently started first.
func SortExecutions(records []*models.ExecutionRecord) {
	slices.SortFunc(records, func(a, b *models.ExecutionRecord) int {
		if c := b.StartedAt.Compare(a.StartedAt); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})
}

// SortSchedules orders schedules by creation time, then id.
func SortSchedules(schedules []*models.Schedule) {
	slices.SortFunc(schedules, func(a, b *models.Schedule) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})
}
