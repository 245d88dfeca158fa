package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"

	"medibook/internal/db"
	"medibook/internal/schedule"
)

const appointmentColumns = `id, patient_id, doctor_id, start_at, duration_minutes, reason, location_type, status, reminder_sent, created_at, updated_at`

type AppointmentRepository interface {
	Create(appt *db.Appointment) error
	GetByID(id string) (*db.Appointment, error)
	ListByPatient(patientID string) ([]db.Appointment, error)
	ListByDoctor(doctorID string) ([]db.Appointment, error)
	// FindActiveWindows returns the occupied windows of a doctor's pending
	// and confirmed appointments starting within [from, to], ordered by start.
	FindActiveWindows(doctorID string, from, to time.Time) ([]schedule.Window, error)
	// CountPatientActive counts a patient's pending and confirmed
	// appointments starting within [from, to].
	CountPatientActive(patientID string, from, to time.Time) (int, error)
	UpdateStatus(id, status string) (*db.Appointment, error)
	AdminList(date, status string) ([]db.Appointment, error)
}

type appointmentRepository struct {
	db *sql.DB
}

func NewAppointmentRepository(database *sql.DB) AppointmentRepository {
	return &appointmentRepository{db: database}
}

func (r *appointmentRepository) Create(appt *db.Appointment) error {
	query := `
		INSERT INTO appointments
		(id, patient_id, doctor_id, start_at, duration_minutes, reason, location_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`
	return r.db.QueryRow(query,
		appt.ID,
		appt.PatientID,
		appt.DoctorID,
		appt.StartAt,
		appt.DurationMinutes,
		appt.Reason,
		appt.LocationType,
		appt.Status,
	).Scan(&appt.CreatedAt, &appt.UpdatedAt)
}

func (r *appointmentRepository) GetByID(id string) (*db.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	appt, err := scanAppointment(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying appointment: %w", err)
	}
	return appt, nil
}

func (r *appointmentRepository) ListByPatient(patientID string) ([]db.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE patient_id = $1 ORDER BY start_at DESC`
	return r.list(query, patientID)
}

func (r *appointmentRepository) ListByDoctor(doctorID string) ([]db.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE doctor_id = $1 ORDER BY start_at DESC`
	return r.list(query, doctorID)
}

func (r *appointmentRepository) FindActiveWindows(doctorID string, from, to time.Time) ([]schedule.Window, error) {
	query := `
		SELECT start_at, duration_minutes
		FROM appointments
		WHERE doctor_id = $1
		  AND status = ANY($2)
		  AND start_at >= $3 AND start_at <= $4
		ORDER BY start_at`
	rows, err := r.db.Query(query, doctorID, pq.Array(db.ActiveStatuses()), from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying active appointments: %w", err)
	}
	defer rows.Close()

	var windows []schedule.Window
	for rows.Next() {
		var start time.Time
		var minutes int
		if err := rows.Scan(&start, &minutes); err != nil {
			return nil, fmt.Errorf("error scanning appointment window: %w", err)
		}
		start = start.UTC()
		windows = append(windows, schedule.Window{
			Start: start,
			End:   start.Add(time.Duration(minutes) * time.Minute),
		})
	}
	return windows, rows.Err()
}

func (r *appointmentRepository) CountPatientActive(patientID string, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM appointments
		WHERE patient_id = $1
		  AND status = ANY($2)
		  AND start_at >= $3 AND start_at <= $4`
	var count int
	err := r.db.QueryRow(query, patientID, pq.Array(db.ActiveStatuses()), from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting patient appointments: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) UpdateStatus(id, status string) (*db.Appointment, error) {
	query := `
		UPDATE appointments SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + appointmentColumns
	appt, err := scanAppointment(r.db.QueryRow(query, id, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error updating appointment status: %w", err)
	}
	return appt, nil
}

func (r *appointmentRepository) AdminList(date, status string) ([]db.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if date != "" {
		query += " AND DATE(start_at AT TIME ZONE 'UTC') = $" + strconv.Itoa(idx)
		args = append(args, date)
		idx++
	}
	if status != "" {
		query += " AND status = $" + strconv.Itoa(idx)
		args = append(args, status)
		idx++
	}
	query += " ORDER BY start_at DESC"

	return r.list(query, args...)
}

func (r *appointmentRepository) list(query string, args ...interface{}) ([]db.Appointment, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying appointments: %w", err)
	}
	defer rows.Close()

	var appts []db.Appointment
	for rows.Next() {
		var a db.Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.StartAt, &a.DurationMinutes,
			&a.Reason, &a.LocationType, &a.Status, &a.ReminderSent, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning appointment row: %w", err)
		}
		a.StartAt = a.StartAt.UTC()
		appts = append(appts, a)
	}
	return appts, rows.Err()
}

func scanAppointment(row *sql.Row) (*db.Appointment, error) {
	var a db.Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.StartAt, &a.DurationMinutes,
		&a.Reason, &a.LocationType, &a.Status, &a.ReminderSent, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.StartAt = a.StartAt.UTC()
	return &a, nil
}
