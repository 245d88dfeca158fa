package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"medibook/internal/db"
	"medibook/internal/entities"
	errs "medibook/internal/errors"
	"medibook/internal/repository"
	"medibook/internal/schedule"
)

// Booking policy parameters.
const (
	bookingBuffer       = 5 * time.Minute
	maxPerPatientPerDay = 3
	cancellationWindow  = 2 * time.Hour
	defaultDurationMin  = 30
	minDurationMin      = 5
)

var validStatuses = map[string]bool{
	db.StatusPending:   true,
	db.StatusConfirmed: true,
	db.StatusCancelled: true,
	db.StatusCompleted: true,
}

// Notifier fans out appointment notifications to the patient.
type Notifier interface {
	AppointmentBooked(appt *db.Appointment, patient, doctor *db.User)
	AppointmentStatusChanged(appt *db.Appointment, patient, doctor *db.User)
}

// AppointmentService is the booking policy engine: it owns the validation
// order, the per-patient daily cap, the conflict check and the status state
// machine.
type AppointmentService struct {
	users    repository.UserRepository
	appts    repository.AppointmentRepository
	notifier Notifier
	now      func() time.Time

	// The store has no cross-document transactions, so the read-check-write
	// sequence in Book is serialized per doctor to keep two racing bookings
	// from both passing the conflict check.
	mu          sync.Mutex
	doctorLocks map[string]*sync.Mutex
}

func NewAppointmentService(users repository.UserRepository, appts repository.AppointmentRepository, notifier Notifier) *AppointmentService {
	return &AppointmentService{
		users:       users,
		appts:       appts,
		notifier:    notifier,
		now:         time.Now,
		doctorLocks: make(map[string]*sync.Mutex),
	}
}

func (s *AppointmentService) lockFor(doctorID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.doctorLocks[doctorID]
	if !ok {
		l = &sync.Mutex{}
		s.doctorLocks[doctorID] = l
	}
	return l
}

// Book validates a booking request rule by rule (first failing rule wins)
// and persists the appointment as pending.
func (s *AppointmentService) Book(patientID, role string, req entities.BookRequest) (*db.Appointment, error) {
	if role != db.RolePatient {
		return nil, errs.Forbidden("only patients can book appointments")
	}
	if req.DoctorID == "" || req.StartAt == "" {
		return nil, errs.InvalidInput("doctorId and startAt are required")
	}

	doctor, err := s.users.GetByID(req.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil || doctor.Role != db.RoleDoctor {
		return nil, errs.InvalidReference("invalid doctor")
	}

	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return nil, errs.InvalidInput("invalid startAt date")
	}
	startAt = startAt.UTC()

	duration := req.DurationMinutes
	if duration == 0 {
		duration = defaultDurationMin
	}
	if duration < minDurationMin {
		return nil, errs.InvalidInput(fmt.Sprintf("durationMinutes must be at least %d", minDurationMin))
	}

	locationType := req.LocationType
	if locationType == "" {
		locationType = db.LocationClinic
	}
	if locationType != db.LocationOnline && locationType != db.LocationClinic {
		return nil, errs.InvalidInput("locationType must be online or clinic")
	}

	if startAt.Before(s.now().Add(bookingBuffer)) {
		return nil, errs.PastOrTooSoon("cannot book an appointment in the past")
	}

	lock := s.lockFor(req.DoctorID)
	lock.Lock()
	defer lock.Unlock()

	dayStart, dayEnd := schedule.DayRange(startAt)

	count, err := s.appts.CountPatientActive(patientID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	if count >= maxPerPatientPerDay {
		return nil, errs.DailyLimitExceeded(fmt.Sprintf(
			"daily limit reached: maximum %d active appointments per day", maxPerPatientPerDay))
	}

	taken, err := s.appts.FindActiveWindows(req.DoctorID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	requested := schedule.Window{
		Start: startAt,
		End:   startAt.Add(time.Duration(duration) * time.Minute),
	}
	if schedule.HasConflict(requested, taken) {
		return nil, errs.SlotUnavailable("time slot not available for this doctor")
	}

	appt := &db.Appointment{
		ID:              uuid.NewString(),
		PatientID:       patientID,
		DoctorID:        req.DoctorID,
		StartAt:         startAt,
		DurationMinutes: duration,
		Reason:          req.Reason,
		LocationType:    locationType,
		Status:          db.StatusPending,
	}
	if err := s.appts.Create(appt); err != nil {
		return nil, err
	}

	if patient, err := s.users.GetByID(patientID); err == nil && patient != nil {
		s.notifier.AppointmentBooked(appt, patient, doctor)
	}
	return appt, nil
}

// UpdateStatus applies one status transition with the ownership rules:
// patients may cancel their own appointment up to the cancellation window,
// the owning doctor or an admin may cancel any time, and confirm/complete is
// doctor/admin only. Cancelled and completed are terminal.
func (s *AppointmentService) UpdateStatus(actorID, role, apptID, status string) (*db.Appointment, error) {
	if !validStatuses[status] {
		return nil, errs.InvalidInput("invalid status")
	}

	appt, err := s.appts.GetByID(apptID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, errs.NotFound("appointment not found")
	}

	if appt.Status == db.StatusCancelled || appt.Status == db.StatusCompleted {
		return nil, errs.InvalidInput(fmt.Sprintf("appointment is already %s", appt.Status))
	}

	isDoctorOwner := role == db.RoleDoctor && appt.DoctorID == actorID
	isPatientOwner := role == db.RolePatient && appt.PatientID == actorID
	isAdmin := role == db.RoleAdmin

	if status == db.StatusCancelled {
		if isPatientOwner {
			if appt.StartAt.Sub(s.now()) < cancellationWindow {
				return nil, errs.CancellationWindow(fmt.Sprintf(
					"cannot cancel less than %d hours before start time", int(cancellationWindow.Hours())))
			}
		} else if !isDoctorOwner && !isAdmin {
			return nil, errs.Forbidden("not allowed to cancel")
		}
	} else {
		if !isDoctorOwner && !isAdmin {
			return nil, errs.Forbidden("not allowed to update")
		}
	}

	updated, err := s.appts.UpdateStatus(apptID, status)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, errs.NotFound("appointment not found")
	}

	if status == db.StatusCancelled || status == db.StatusConfirmed {
		patient, perr := s.users.GetByID(updated.PatientID)
		doctor, derr := s.users.GetByID(updated.DoctorID)
		if perr == nil && derr == nil && patient != nil && doctor != nil {
			s.notifier.AppointmentStatusChanged(updated, patient, doctor)
		}
	}
	return updated, nil
}

// MyAppointments lists a patient's own appointments, newest start first.
func (s *AppointmentService) MyAppointments(patientID, role string) ([]db.Appointment, error) {
	if role != db.RolePatient {
		return nil, errs.Forbidden("only patients can view this")
	}
	return s.appts.ListByPatient(patientID)
}

// DoctorAppointments lists the appointments assigned to a doctor.
func (s *AppointmentService) DoctorAppointments(doctorID, role string) ([]db.Appointment, error) {
	if role != db.RoleDoctor {
		return nil, errs.Forbidden("only doctors can view this")
	}
	return s.appts.ListByDoctor(doctorID)
}

// AdminList lists appointments with optional date (YYYY-MM-DD) and status
// filters.
func (s *AppointmentService) AdminList(role, date, status string) ([]db.Appointment, error) {
	if role != db.RoleAdmin {
		return nil, errs.Forbidden("admin access required")
	}
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return nil, errs.InvalidInput("invalid date format")
		}
	}
	if status != "" && !validStatuses[status] {
		return nil, errs.InvalidInput("invalid status")
	}
	return s.appts.AdminList(date, status)
}
