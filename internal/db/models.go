package db

import (
	"time"

	"medibook/internal/schedule"
)

// User roles.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// Appointment statuses. Cancelled and completed are terminal.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Appointment location types.
const (
	LocationOnline = "online"
	LocationClinic = "clinic"
)

// ActiveStatuses are the statuses that count towards conflicts and the
// per-patient daily cap.
func ActiveStatuses() []string {
	return []string{StatusPending, StatusConfirmed}
}

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Phone          string    `json:"phone,omitempty"`
	Role           string    `json:"role"`
	Specialization string    `json:"specialization,omitempty"`
	ClinicName     string    `json:"clinicName,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// WeeklyAvailability is a doctor's recurring schedule template. Appointments
// reference the doctor, not this document; the two are reconciled when
// listing free slots.
type WeeklyAvailability struct {
	DoctorID            string                     `json:"doctorId"`
	SlotDurationMinutes int                        `json:"slotDurationMinutes"`
	Days                []schedule.DayAvailability `json:"days"`
	CreatedAt           time.Time                  `json:"createdAt"`
	UpdatedAt           time.Time                  `json:"updatedAt"`
}

type Appointment struct {
	ID              string    `json:"id"`
	PatientID       string    `json:"patientId"`
	DoctorID        string    `json:"doctorId"`
	StartAt         time.Time `json:"startAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Reason          string    `json:"reason,omitempty"`
	LocationType    string    `json:"locationType"`
	Status          string    `json:"status"`
	ReminderSent    bool      `json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// EndAt is the derived end instant of the appointment.
func (a *Appointment) EndAt() time.Time {
	return a.StartAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

type Medication struct {
	ID              string     `json:"id"`
	PatientID       string     `json:"patientId"`
	DoctorID        string     `json:"doctorId"`
	AppointmentID   string     `json:"appointmentId,omitempty"`
	DrugName        string     `json:"drugName"`
	Dosage          string     `json:"dosage"`
	FrequencyPerDay int        `json:"frequencyPerDay"`
	Instructions    string     `json:"instructions,omitempty"`
	StartDate       time.Time  `json:"startDate"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}
