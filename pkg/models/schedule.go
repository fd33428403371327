package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// scheduleVocabulary maps the named schedules accepted by the builder to cron expressions.
var scheduleVocabulary = map[string]string{
	"daily":           "0 0 * * *",
	"daily-6pm":       "0 18 * * *",
	"hourly":          "0 * * * *",
	"weekly":          "0 0 * * 0",
	"monthly":         "0 0 1 * *",
	"every-5-minutes": "*/5 * * * *",
	"every-minute":    "* * * * *",
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ErrInvalidSchedule is returned when schedule validation fails.
var ErrInvalidSchedule = errors.New("invalid schedule configuration")

// ResolveCronExpression converts a named schedule to cron; anything else is returned trimmed.
func ResolveCronExpression(expression string) string {
	trimmed := strings.TrimSpace(expression)
	if cronExpr, ok := scheduleVocabulary[strings.ToLower(trimmed)]; ok {
		return cronExpr
	}

	return trimmed
}

// Schedule is a recurring invocation of a workflow.
type Schedule struct {
	ID string `json:"id" validate:"required"`

	WorkflowID string `json:"workflow_id" validate:"required"`

	// Expression is what the user asked for: a vocabulary name or a raw cron expression.
	Expression string `json:"expression" validate:"required"`

	// CronExpression is the resolved 5-field cron expression.
	CronExpression string `json:"cron_expression" validate:"required"`

	// NextDueAt is the precomputed next execution time.
	NextDueAt time.Time `json:"next_due_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Active schedules are registered with the scheduler on startup.
	Active bool `json:"active"`
}

// NewSchedule creates an active schedule with its next execution time calculated.
func NewSchedule(id, workflowID, expression string) (*Schedule, error) {
	now := time.Now().UTC()
	schedule := &Schedule{
		ID:             id,
		WorkflowID:     workflowID,
		Expression:     strings.TrimSpace(expression),
		CronExpression: ResolveCronExpression(expression),
		CreatedAt:      now,
		UpdatedAt:      now,
		Active:         true,
	}

	if err := schedule.Validate(); err != nil {
		return nil, err
	}

	if err := schedule.calculateNextDueAt(now); err != nil {
		return nil, err
	}

	return schedule, nil
}

// UpdateNextDueAt recalculates the next execution time from now.
func (s *Schedule) UpdateNextDueAt() error {
	return s.calculateNextDueAt(time.Now().UTC())
}

func (s *Schedule) calculateNextDueAt(referenceTime time.Time) error {
	cronSchedule, err := cronParser.Parse(s.CronExpression)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}

	s.NextDueAt = cronSchedule.Next(referenceTime)
	s.UpdatedAt = time.Now().UTC()

	return nil
}

// IsDue checks if this schedule is due for execution at the given time.
func (s *Schedule) IsDue(now time.Time) bool {
	return s.Active && !s.NextDueAt.After(now)
}

// Validate performs validation on the schedule fields.
func (s *Schedule) Validate() error {
	if s.ID == "" || s.WorkflowID == "" || s.CronExpression == "" {
		return ErrInvalidSchedule
	}

	if _, err := cronParser.Parse(s.CronExpression); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}

	return nil
}
