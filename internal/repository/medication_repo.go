package repository

import (
	"database/sql"
	"fmt"

	"medibook/internal/db"
)

type MedicationRepository interface {
	Create(med *db.Medication) error
	ListByPatient(patientID string) ([]db.Medication, error)
	ListByDoctor(doctorID string) ([]db.Medication, error)
}

type medicationRepository struct {
	db *sql.DB
}

func NewMedicationRepository(database *sql.DB) MedicationRepository {
	return &medicationRepository{db: database}
}

func (r *medicationRepository) Create(med *db.Medication) error {
	var apptID sql.NullString
	if med.AppointmentID != "" {
		apptID = sql.NullString{String: med.AppointmentID, Valid: true}
	}
	query := `
		INSERT INTO medications
		(id, patient_id, doctor_id, appointment_id, drug_name, dosage, frequency_per_day, instructions, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`
	return r.db.QueryRow(query,
		med.ID,
		med.PatientID,
		med.DoctorID,
		apptID,
		med.DrugName,
		med.Dosage,
		med.FrequencyPerDay,
		med.Instructions,
		med.StartDate,
		med.EndDate,
	).Scan(&med.CreatedAt, &med.UpdatedAt)
}

func (r *medicationRepository) ListByPatient(patientID string) ([]db.Medication, error) {
	return r.list(`WHERE patient_id = $1`, patientID)
}

func (r *medicationRepository) ListByDoctor(doctorID string) ([]db.Medication, error) {
	return r.list(`WHERE doctor_id = $1`, doctorID)
}

func (r *medicationRepository) list(where string, arg interface{}) ([]db.Medication, error) {
	query := `
		SELECT id, patient_id, doctor_id, appointment_id, drug_name, dosage, frequency_per_day, instructions, start_date, end_date, created_at, updated_at
		FROM medications ` + where + ` ORDER BY start_date DESC`
	rows, err := r.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("error querying medications: %w", err)
	}
	defer rows.Close()

	var meds []db.Medication
	for rows.Next() {
		var m db.Medication
		var apptID sql.NullString
		var endDate sql.NullTime
		if err := rows.Scan(&m.ID, &m.PatientID, &m.DoctorID, &apptID, &m.DrugName, &m.Dosage,
			&m.FrequencyPerDay, &m.Instructions, &m.StartDate, &endDate, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning medication row: %w", err)
		}
		if apptID.Valid {
			m.AppointmentID = apptID.String
		}
		if endDate.Valid {
			t := endDate.Time
			m.EndDate = &t
		}
		meds = append(meds, m)
	}
	return meds, rows.Err()
}
