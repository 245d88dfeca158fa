package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"medibook/internal/db"
	"medibook/internal/schedule"
)

type AvailabilityRepository interface {
	GetByDoctor(doctorID string) (*db.WeeklyAvailability, error)
	Upsert(availability *db.WeeklyAvailability) error
}

type availabilityRepository struct {
	db *sql.DB
}

func NewAvailabilityRepository(database *sql.DB) AvailabilityRepository {
	return &availabilityRepository{db: database}
}

func (r *availabilityRepository) GetByDoctor(doctorID string) (*db.WeeklyAvailability, error) {
	var av db.WeeklyAvailability
	var daysJSON []byte

	query := `
		SELECT doctor_id, slot_duration_minutes, days, created_at, updated_at
		FROM doctor_availability
		WHERE doctor_id = $1`
	err := r.db.QueryRow(query, doctorID).Scan(
		&av.DoctorID, &av.SlotDurationMinutes, &daysJSON, &av.CreatedAt, &av.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying availability: %w", err)
	}

	if err := json.Unmarshal(daysJSON, &av.Days); err != nil {
		return nil, fmt.Errorf("error decoding availability days: %w", err)
	}
	return &av, nil
}

// Upsert stores the weekly template with full-replace semantics: a new
// submission wipes the prior day set, there is no merge.
func (r *availabilityRepository) Upsert(availability *db.WeeklyAvailability) error {
	if availability.Days == nil {
		availability.Days = []schedule.DayAvailability{}
	}
	daysJSON, err := json.Marshal(availability.Days)
	if err != nil {
		return fmt.Errorf("error encoding availability days: %w", err)
	}

	query := `
		INSERT INTO doctor_availability (doctor_id, slot_duration_minutes, days, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (doctor_id) DO UPDATE
		SET slot_duration_minutes = EXCLUDED.slot_duration_minutes,
		    days = EXCLUDED.days,
		    updated_at = NOW()
		RETURNING created_at, updated_at`
	return r.db.QueryRow(query,
		availability.DoctorID,
		availability.SlotDurationMinutes,
		daysJSON,
	).Scan(&availability.CreatedAt, &availability.UpdatedAt)
}
