package entities

// PrescribeRequest is the payload a doctor sends to prescribe medication.
type PrescribeRequest struct {
	PatientID       string `json:"patientId"`
	AppointmentID   string `json:"appointmentId,omitempty"`
	DrugName        string `json:"drugName"`
	Dosage          string `json:"dosage"`
	FrequencyPerDay int    `json:"frequencyPerDay"`
	Instructions    string `json:"instructions,omitempty"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate,omitempty"`
}
