package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status EntryStatus
		want   bool
	}{
		{StatusWaiting, false},
		{StatusInProgress, false},
		{StatusOnHold, false},
		{StatusCompleted, true},
		{StatusCancelled, true},
		{StatusNoShow, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsTerminal())
		})
	}
}

func TestEntryStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   EntryStatus
		to     EntryStatus
		wantOK bool
	}{
		{"waiting to in_progress", StatusWaiting, StatusInProgress, true},
		{"waiting to on_hold", StatusWaiting, StatusOnHold, true},
		{"waiting to cancelled", StatusWaiting, StatusCancelled, true},
		{"waiting to no_show", StatusWaiting, StatusNoShow, true},
		{"waiting to completed is forbidden", StatusWaiting, StatusCompleted, false},
		{"in_progress to completed", StatusInProgress, StatusCompleted, true},
		{"in_progress to cancelled", StatusInProgress, StatusCancelled, true},
		{"in_progress to no_show", StatusInProgress, StatusNoShow, true},
		{"in_progress back to waiting is forbidden", StatusInProgress, StatusWaiting, false},
		{"on_hold back to waiting", StatusOnHold, StatusWaiting, true},
		{"on_hold to in_progress", StatusOnHold, StatusInProgress, true},
		{"on_hold to cancelled", StatusOnHold, StatusCancelled, true},
		{"on_hold to no_show is forbidden", StatusOnHold, StatusNoShow, false},
		{"completed is terminal", StatusCompleted, StatusWaiting, false},
		{"cancelled is terminal", StatusCancelled, StatusInProgress, false},
		{"no_show is terminal", StatusNoShow, StatusWaiting, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOK, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestEntry_ApplyTransition_Stamps(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	later := now.Add(20 * time.Minute)

	t.Run("in_progress sets started_at once", func(t *testing.T) {
		e := &Entry{Status: StatusWaiting}

		e.ApplyTransition(StatusInProgress, now)
		require.NotNil(t, e.StartedAt)
		assert.Equal(t, now, *e.StartedAt)

		// Возврат через on_hold не перезаписывает метку первого старта
		e.ApplyTransition(StatusOnHold, later)
		e.ApplyTransition(StatusInProgress, later)
		assert.Equal(t, now, *e.StartedAt)
	})

	t.Run("completed sets completed_at", func(t *testing.T) {
		e := &Entry{Status: StatusInProgress}
		e.ApplyTransition(StatusCompleted, later)

		require.NotNil(t, e.CompletedAt)
		assert.Equal(t, later, *e.CompletedAt)
		assert.Equal(t, StatusCompleted, e.Status)
	})

	t.Run("no_show sets completed_at", func(t *testing.T) {
		e := &Entry{Status: StatusWaiting}
		e.ApplyTransition(StatusNoShow, later)

		require.NotNil(t, e.CompletedAt)
		assert.Equal(t, later, *e.CompletedAt)
	})

	t.Run("cancelled leaves stamps untouched", func(t *testing.T) {
		e := &Entry{Status: StatusWaiting}
		e.ApplyTransition(StatusCancelled, now)

		assert.Nil(t, e.StartedAt)
		assert.Nil(t, e.CompletedAt)
		assert.Equal(t, StatusCancelled, e.Status)
	})
}

func TestEntry_CanBeRated(t *testing.T) {
	assert.True(t, (&Entry{Status: StatusCompleted}).CanBeRated())
	assert.False(t, (&Entry{Status: StatusWaiting}).CanBeRated())
	assert.False(t, (&Entry{Status: StatusCancelled}).CanBeRated())
	assert.False(t, (&Entry{Status: StatusNoShow}).CanBeRated())
}

func TestEntry_IsSlotted(t *testing.T) {
	slot := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)

	assert.True(t, (&Entry{BookedSlotStart: &slot}).IsSlotted())
	assert.False(t, (&Entry{}).IsSlotted())
}
