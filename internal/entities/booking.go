package entities

// BookRequest is the payload a patient sends to reserve a slot.
type BookRequest struct {
	DoctorID        string `json:"doctorId"`
	StartAt         string `json:"startAt"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	Reason          string `json:"reason,omitempty"`
	LocationType    string `json:"locationType,omitempty"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}
