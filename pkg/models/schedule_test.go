package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCronExpression(t *testing.T) {
	testCases := []struct {
		expression string
		expected   string
	}{
		{"daily", "0 0 * * *"},
		{"daily-6pm", "0 18 * * *"},
		{"Hourly", "0 * * * *"},
		{"weekly", "0 0 * * 0"},
		{"monthly", "0 0 1 * *"},
		{"every-5-minutes", "*/5 * * * *"},
		{"every-minute", "* * * * *"},
		{" 15 3 * * 1 ", "15 3 * * 1"},
	}

	for _, tc := range testCases {
		t.Run(tc.expression, func(t *testing.T) {
			assert.Equal(t, tc.expected, ResolveCronExpression(tc.expression))
		})
	}
}

func TestNewSchedule_ValidExpression(t *testing.T) {
	testCases := []struct {
		name       string
		expression string
	}{
		{"vocabulary", "every-5-minutes"},
		{"raw cron", "0 9 * * 1"},
		{"every minute", "* * * * *"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			beforeTime := time.Now().UTC()
			schedule, err := NewSchedule("sched-1", "wf-1", tc.expression)

			require.NoError(t, err)
			require.NotNil(t, schedule)

			assert.Equal(t, "wf-1", schedule.WorkflowID)
			assert.Equal(t, tc.expression, schedule.Expression)
			assert.Equal(t, ResolveCronExpression(tc.expression), schedule.CronExpression)
			assert.True(t, schedule.Active)
			assert.True(t, schedule.NextDueAt.After(beforeTime))
		})
	}
}

func TestNewSchedule_InvalidExpression(t *testing.T) {
	testCases := []struct {
		name       string
		id         string
		workflowID string
		expression string
	}{
		{"garbage", "s", "wf", "whenever"},
		{"six fields", "s", "wf", "0 0 0 * * *"},
		{"missing id", "", "wf", "daily"},
		{"missing workflow", "s", "", "daily"},
		{"empty expression", "s", "wf", "  "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			schedule, err := NewSchedule(tc.id, tc.workflowID, tc.expression)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSchedule)
			assert.Nil(t, schedule)
		})
	}
}

func TestSchedule_IsDue(t *testing.T) {
	now := time.Now().UTC()

	schedule := &Schedule{Active: true, NextDueAt: now.Add(-time.Minute)}
	assert.True(t, schedule.IsDue(now))

	schedule.NextDueAt = now.Add(time.Minute)
	assert.False(t, schedule.IsDue(now))

	schedule.NextDueAt = now
	schedule.Active = false
	assert.False(t, schedule.IsDue(now))
}
