package domain

import "time"

// SlotWindow represents one bookable time window of a slotted service line
// The grid is never stored: it is recomputed from the line's schedule on
// every request, so slot identity is the window's start instant
type SlotWindow struct {
	StartAt         time.Time
	EndAt           time.Time
	Label           string
	DurationMinutes int

	BookedCount int
	TotalSpots  int
	IsFull      bool
	IsPast      bool
}

// AvailableSpots returns the number of free spots in the window
func (w *SlotWindow) AvailableSpots() int {
	free := w.TotalSpots - w.BookedCount
	if free < 0 {
		return 0
	}
	return free
}

// IsOfferable returns true if a new booking may take this window
// Полные и прошедшие окна остаются в выдаче (UI их показывает задизейбленными),
// но бронировать их нельзя
func (w *SlotWindow) IsOfferable() bool {
	return !w.IsFull && !w.IsPast
}
