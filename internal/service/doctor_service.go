package service

import (
	"fmt"
	"time"

	"medibook/internal/db"
	"medibook/internal/entities"
	errs "medibook/internal/errors"
	"medibook/internal/repository"
	"medibook/internal/schedule"
)

// DoctorService manages the weekly availability template and computes free
// slots by reconciling the template with booked appointments at read time.
type DoctorService struct {
	users repository.UserRepository
	avail repository.AvailabilityRepository
	appts repository.AppointmentRepository
}

func NewDoctorService(users repository.UserRepository, avail repository.AvailabilityRepository, appts repository.AppointmentRepository) *DoctorService {
	return &DoctorService{users: users, avail: avail, appts: appts}
}

// UpsertAvailability replaces the doctor's weekly schedule wholesale.
func (s *DoctorService) UpsertAvailability(doctorID, role string, req entities.PublishAvailabilityRequest) (*db.WeeklyAvailability, error) {
	if role != db.RoleDoctor {
		return nil, errs.Forbidden("only doctors can set availability")
	}

	slotDuration := req.SlotDurationMinutes
	if slotDuration == 0 {
		slotDuration = defaultDurationMin
	}
	if slotDuration < minDurationMin {
		return nil, errs.InvalidInput(fmt.Sprintf("slotDurationMinutes must be at least %d", minDurationMin))
	}

	seen := make(map[int]bool)
	for _, day := range req.Days {
		if day.DayOfWeek < 0 || day.DayOfWeek > 6 {
			return nil, errs.InvalidInput("invalid dayOfWeek value")
		}
		if seen[day.DayOfWeek] {
			return nil, errs.InvalidInput(fmt.Sprintf("duplicate entry for dayOfWeek %d", day.DayOfWeek))
		}
		seen[day.DayOfWeek] = true
		if len(day.TimeRanges) == 0 {
			return nil, errs.InvalidInput("each day must have at least one time range")
		}
		for _, tr := range day.TimeRanges {
			sh, sm, err := schedule.ParseClock(tr.StartTime)
			if err != nil {
				return nil, errs.InvalidInput(fmt.Sprintf("invalid startTime %q", tr.StartTime))
			}
			eh, em, err := schedule.ParseClock(tr.EndTime)
			if err != nil {
				return nil, errs.InvalidInput(fmt.Sprintf("invalid endTime %q", tr.EndTime))
			}
			if eh*60+em <= sh*60+sm {
				return nil, errs.InvalidInput(fmt.Sprintf("endTime %q must be after startTime %q", tr.EndTime, tr.StartTime))
			}
		}
	}

	availability := &db.WeeklyAvailability{
		DoctorID:            doctorID,
		SlotDurationMinutes: slotDuration,
		Days:                req.Days,
	}
	if err := s.avail.Upsert(availability); err != nil {
		return nil, err
	}
	return availability, nil
}

// MyAvailability returns the doctor's own weekly template.
func (s *DoctorService) MyAvailability(doctorID, role string) (*db.WeeklyAvailability, error) {
	if role != db.RoleDoctor {
		return nil, errs.Forbidden("only doctors can view this")
	}
	availability, err := s.avail.GetByDoctor(doctorID)
	if err != nil {
		return nil, err
	}
	if availability == nil {
		return nil, errs.NotFound("no availability configured")
	}
	return availability, nil
}

// AvailableSlots lists the free windows of a doctor on one date. No
// availability, no day entry or a fully booked day all yield an empty list.
func (s *DoctorService) AvailableSlots(doctorID, dateStr string) ([]entities.SlotResponse, error) {
	if dateStr == "" {
		return nil, errs.InvalidInput("date query param is required")
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, errs.InvalidInput("invalid date format")
	}

	availability, err := s.avail.GetByDoctor(doctorID)
	if err != nil {
		return nil, err
	}
	if availability == nil {
		return []entities.SlotResponse{}, nil
	}

	slotDuration := time.Duration(availability.SlotDurationMinutes) * time.Minute
	if slotDuration <= 0 {
		slotDuration = defaultDurationMin * time.Minute
	}

	candidates, err := schedule.SlotsForDate(date, availability.Days, slotDuration)
	if err != nil {
		return nil, fmt.Errorf("error computing slots: %w", err)
	}
	if len(candidates) == 0 {
		return []entities.SlotResponse{}, nil
	}

	dayStart, dayEnd := schedule.DayRange(date)
	taken, err := s.appts.FindActiveWindows(doctorID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	slots := make([]entities.SlotResponse, 0, len(candidates))
	for _, c := range candidates {
		if !schedule.HasConflict(c, taken) {
			slots = append(slots, entities.SlotResponse{StartAt: c.Start, EndAt: c.End})
		}
	}
	return slots, nil
}

// ListDoctors returns the doctor directory.
func (s *DoctorService) ListDoctors() ([]db.User, error) {
	return s.users.ListDoctors()
}
