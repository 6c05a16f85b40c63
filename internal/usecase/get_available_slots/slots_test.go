package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketqueue/queue-service/internal/domain"
	"github.com/rocketqueue/queue-service/pkg/types"
)

var (
	testDate = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	// Полдень тестового дня, чтобы часть окон была в прошлом
	testNoon = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
)

func schedule(start, end string, breaks ...domain.BreakWindow) *domain.Schedule {
	return &domain.Schedule{
		StartTime: types.TimeString(start),
		EndTime:   types.TimeString(end),
		Breaks:    breaks,
	}
}

func breakWindow(start, end string) domain.BreakWindow {
	return domain.BreakWindow{
		StartTime: types.TimeString(start),
		EndTime:   types.TimeString(end),
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 6, 10, hour, minute, 0, 0, time.UTC)
}

func TestGenerateWindows_FullDay(t *testing.T) {
	windows, err := generateWindows(schedule("09:00", "17:00"), 30, testDate, testNoon)
	require.NoError(t, err)

	// 8 часов по 30 минут
	require.Len(t, windows, 16)

	assert.Equal(t, at(9, 0), windows[0].StartAt)
	assert.Equal(t, at(9, 30), windows[0].EndAt)
	assert.Equal(t, "09:00", windows[0].Label)
	assert.Equal(t, at(16, 30), windows[15].StartAt)
	assert.Equal(t, at(17, 0), windows[15].EndAt)
	assert.Equal(t, "16:30", windows[15].Label)

	for _, w := range windows {
		assert.Equal(t, 30, w.DurationMinutes)
	}
}

func TestGenerateWindows_BreakExcludesOverlapping(t *testing.T) {
	windows, err := generateWindows(
		schedule("09:00", "17:00", breakWindow("13:00", "14:00")),
		30, testDate, testNoon,
	)
	require.NoError(t, err)

	// Перерыв 13:00-14:00 убирает ровно окна 13:00 и 13:30
	require.Len(t, windows, 14)
	for _, w := range windows {
		assert.NotEqual(t, at(13, 0), w.StartAt)
		assert.NotEqual(t, at(13, 30), w.StartAt)
	}

	// Граничащие окна 12:30 и 14:00 остаются
	starts := make(map[time.Time]bool)
	for _, w := range windows {
		starts[w.StartAt] = true
	}
	assert.True(t, starts[at(12, 30)])
	assert.True(t, starts[at(14, 0)])
}

func TestGenerateWindows_PartialBreakOverlap(t *testing.T) {
	// Перерыв 13:15-13:45 пересекает оба окна 13:00 и 13:30
	windows, err := generateWindows(
		schedule("13:00", "14:00", breakWindow("13:15", "13:45")),
		30, testDate, testNoon,
	)
	require.NoError(t, err)
	assert.Empty(t, windows)
}

func TestGenerateWindows_LastWindowMayOverrunEnd(t *testing.T) {
	windows, err := generateWindows(schedule("09:00", "17:10"), 30, testDate, testNoon)
	require.NoError(t, err)

	// Окно 17:00 попадает в сетку: его начало раньше 17:10
	require.Len(t, windows, 17)
	last := windows[len(windows)-1]
	assert.Equal(t, at(17, 0), last.StartAt)
	assert.Equal(t, at(17, 30), last.EndAt)
}

func TestGenerateWindows_IsPast(t *testing.T) {
	windows, err := generateWindows(schedule("11:00", "13:00"), 30, testDate, testNoon)
	require.NoError(t, err)
	require.Len(t, windows, 4)

	// 11:00 и 11:30 в прошлом, окно начинающееся ровно в now прошлым не считается
	assert.True(t, windows[0].IsPast)
	assert.True(t, windows[1].IsPast)
	assert.False(t, windows[2].IsPast)
	assert.False(t, windows[3].IsPast)
}

func TestGenerateWindows_DegenerateSchedules(t *testing.T) {
	tests := []struct {
		name     string
		schedule *domain.Schedule
	}{
		{"nil schedule", nil},
		{"start equals end", schedule("09:00", "09:00")},
		{"start after end", schedule("17:00", "09:00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows, err := generateWindows(tt.schedule, 30, testDate, testNoon)
			require.NoError(t, err)
			assert.Empty(t, windows)
		})
	}
}

func TestGenerateWindows_InvalidTime(t *testing.T) {
	_, err := generateWindows(schedule("9am", "17:00"), 30, testDate, testNoon)
	assert.ErrorIs(t, err, types.ErrInvalidTimeString)
}

func entryAt(slot time.Time) *domain.Entry {
	return &domain.Entry{
		Status:          domain.StatusWaiting,
		BookedSlotStart: &slot,
	}
}

func TestAnnotateCapacity(t *testing.T) {
	windows := []domain.SlotWindow{
		{StartAt: at(10, 0), EndAt: at(10, 30)},
		{StartAt: at(10, 30), EndAt: at(11, 0)},
	}

	entries := []*domain.Entry{
		entryAt(at(10, 0)),
		entryAt(at(10, 0)),
		entryAt(at(10, 30)),
	}

	annotateCapacity(windows, entries, 2)

	assert.Equal(t, 2, windows[0].BookedCount)
	assert.True(t, windows[0].IsFull)
	assert.Equal(t, 0, windows[0].AvailableSpots())

	assert.Equal(t, 1, windows[1].BookedCount)
	assert.False(t, windows[1].IsFull)
	assert.Equal(t, 1, windows[1].AvailableSpots())
}

func TestAnnotateCapacity_TerminalEntriesDoNotCount(t *testing.T) {
	windows := []domain.SlotWindow{
		{StartAt: at(10, 0), EndAt: at(10, 30)},
	}

	// Отменённая и завершённая записи освобождают место в слоте
	cancelled := entryAt(at(10, 0))
	cancelled.Status = domain.StatusCancelled
	completed := entryAt(at(10, 0))
	completed.Status = domain.StatusCompleted

	annotateCapacity(windows, []*domain.Entry{cancelled, completed}, 1)

	assert.Equal(t, 0, windows[0].BookedCount)
	assert.False(t, windows[0].IsFull)
	assert.Equal(t, 1, windows[0].AvailableSpots())
}

func TestAnnotateCapacity_ExactStartOnly(t *testing.T) {
	windows := []domain.SlotWindow{
		{StartAt: at(10, 0), EndAt: at(10, 30)},
	}

	// Запись внутри окна, но не на его начало — осиротевшая после
	// смены конфигурации сетки, вместимость не расходует
	entries := []*domain.Entry{
		entryAt(at(10, 15)),
	}

	annotateCapacity(windows, entries, 1)

	assert.Equal(t, 0, windows[0].BookedCount)
	assert.False(t, windows[0].IsFull)
}

func TestResolveSchedule(t *testing.T) {
	opening := types.TimeString("08:00")
	closing := types.TimeString("20:00")
	lunchStart := types.TimeString("12:00")
	lunchEnd := types.TimeString("13:00")

	shop := &domain.Shop{
		OpeningTime: &opening,
		ClosingTime: &closing,
		LunchStart:  &lunchStart,
		LunchEnd:    &lunchEnd,
	}

	t.Run("line schedule wins", func(t *testing.T) {
		line := &domain.ServiceLine{Schedule: schedule("09:00", "17:00")}
		got := resolveSchedule(line, shop)
		require.NotNil(t, got)
		assert.Equal(t, types.TimeString("09:00"), got.StartTime)
	})

	t.Run("shop hours as fallback with lunch break", func(t *testing.T) {
		line := &domain.ServiceLine{}
		got := resolveSchedule(line, shop)
		require.NotNil(t, got)
		assert.Equal(t, opening, got.StartTime)
		assert.Equal(t, closing, got.EndTime)
		require.Len(t, got.Breaks, 1)
		assert.Equal(t, lunchStart, got.Breaks[0].StartTime)
	})

	t.Run("no schedule anywhere", func(t *testing.T) {
		line := &domain.ServiceLine{}
		assert.Nil(t, resolveSchedule(line, nil))
		assert.Nil(t, resolveSchedule(line, &domain.Shop{}))
	})
}
