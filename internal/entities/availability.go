package entities

import (
	"time"

	"medibook/internal/schedule"
)

// PublishAvailabilityRequest fully replaces a doctor's weekly schedule.
type PublishAvailabilityRequest struct {
	SlotDurationMinutes int                        `json:"slotDurationMinutes,omitempty"`
	Days                []schedule.DayAvailability `json:"days"`
}

// SlotResponse is one free window in a doctor's day.
type SlotResponse struct {
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
}

type SlotsResponse struct {
	Slots []SlotResponse `json:"slots"`
}
