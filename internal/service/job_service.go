package service

import (
	"fmt"
	"log"
	"time"

	"medibook/internal/db"
	"medibook/internal/repository"
)

const reminderLeadTime = 24 * time.Hour

// JobService runs the cron sweeps: completing appointments whose end has
// passed and sending upcoming-appointment reminders.
type JobService struct {
	repo    repository.JobRepository
	now     func() time.Time
	sendSMS func(to, body string) error
}

func NewJobService(repo repository.JobRepository) *JobService {
	return &JobService{repo: repo, now: time.Now, sendSMS: SendSMS}
}

// CompleteFinishedAppointments marks confirmed appointments past their end
// time as completed.
func (s *JobService) CompleteFinishedAppointments() error {
	ids, err := s.repo.ConfirmedIDsPastEnd(s.now().UTC())
	if err != nil {
		return fmt.Errorf("cron job: failed to get appointments past end time: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	if err := s.repo.UpdateStatuses(ids, db.StatusCompleted); err != nil {
		return fmt.Errorf("cron job: failed to update appointment statuses: %w", err)
	}
	log.Printf("Cron job: marked %d appointments as completed", len(ids))
	return nil
}

// SendUpcomingReminders texts patients whose appointment starts within the
// next 24 hours, once per appointment.
func (s *JobService) SendUpcomingReminders() error {
	now := s.now().UTC()
	appts, err := s.repo.RemindableAppointments(now, now.Add(reminderLeadTime))
	if err != nil {
		return fmt.Errorf("cron job: failed to get remindable appointments: %w", err)
	}

	for _, appt := range appts {
		msg := fmt.Sprintf("MediBook reminder: %s, your appointment with Dr. %s starts at %s.",
			appt.PatientName, appt.DoctorName, appt.StartAt.UTC().Format("02 Jan 15:04 MST"))
		if err := s.sendSMS(appt.PatientPhone, msg); err != nil {
			log.Printf("Cron job: reminder SMS for appointment %s failed: %v", appt.ID, err)
			continue
		}
		if err := s.repo.MarkReminderSent(appt.ID); err != nil {
			log.Printf("Cron job: could not mark reminder sent for appointment %s: %v", appt.ID, err)
		}
	}
	return nil
}
