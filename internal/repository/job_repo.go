package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"medibook/internal/db"
)

// ReminderAppointment carries the appointment plus the patient contact
// details the reminder job needs.
type ReminderAppointment struct {
	ID           string
	StartAt      time.Time
	PatientName  string
	PatientPhone string
	DoctorName   string
}

type JobRepository interface {
	ConfirmedIDsPastEnd(now time.Time) ([]string, error)
	UpdateStatuses(ids []string, status string) error
	// RemindableAppointments lists active appointments starting within
	// [from, to] that have not been reminded yet.
	RemindableAppointments(from, to time.Time) ([]ReminderAppointment, error)
	MarkReminderSent(id string) error
}

type jobRepository struct {
	db *sql.DB
}

func NewJobRepository(database *sql.DB) JobRepository {
	return &jobRepository{db: database}
}

func (r *jobRepository) ConfirmedIDsPastEnd(now time.Time) ([]string, error) {
	query := `
		SELECT id FROM appointments
		WHERE status = $1
		  AND start_at + duration_minutes * interval '1 minute' < $2`
	rows, err := r.db.Query(query, db.StatusConfirmed, now)
	if err != nil {
		return nil, fmt.Errorf("error querying appointments past end time: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning appointment ID: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *jobRepository) UpdateStatuses(ids []string, status string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	if _, err := r.db.Exec(query, status, pq.Array(ids)); err != nil {
		return fmt.Errorf("error updating appointment statuses: %w", err)
	}
	return nil
}

func (r *jobRepository) RemindableAppointments(from, to time.Time) ([]ReminderAppointment, error) {
	query := `
		SELECT a.id, a.start_at, p.name, p.phone, d.name
		FROM appointments a
		JOIN users p ON p.id = a.patient_id
		JOIN users d ON d.id = a.doctor_id
		WHERE a.status = ANY($1)
		  AND a.reminder_sent = FALSE
		  AND a.start_at >= $2 AND a.start_at <= $3
		  AND p.phone <> ''
		ORDER BY a.start_at`
	rows, err := r.db.Query(query, pq.Array(db.ActiveStatuses()), from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying remindable appointments: %w", err)
	}
	defer rows.Close()

	var appts []ReminderAppointment
	for rows.Next() {
		var ra ReminderAppointment
		if err := rows.Scan(&ra.ID, &ra.StartAt, &ra.PatientName, &ra.PatientPhone, &ra.DoctorName); err != nil {
			return nil, fmt.Errorf("error scanning reminder row: %w", err)
		}
		ra.StartAt = ra.StartAt.UTC()
		appts = append(appts, ra)
	}
	return appts, rows.Err()
}

func (r *jobRepository) MarkReminderSent(id string) error {
	_, err := r.db.Exec(`UPDATE appointments SET reminder_sent = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error marking reminder sent: %w", err)
	}
	return nil
}
