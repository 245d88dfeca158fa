package service

import (
	"time"

	"github.com/google/uuid"

	"medibook/internal/db"
	"medibook/internal/entities"
	errs "medibook/internal/errors"
	"medibook/internal/repository"
)

// MedicationService lets doctors prescribe medication, optionally linked to
// an appointment.
type MedicationService struct {
	meds  repository.MedicationRepository
	users repository.UserRepository
	appts repository.AppointmentRepository
}

func NewMedicationService(meds repository.MedicationRepository, users repository.UserRepository, appts repository.AppointmentRepository) *MedicationService {
	return &MedicationService{meds: meds, users: users, appts: appts}
}

func (s *MedicationService) Prescribe(doctorID, role string, req entities.PrescribeRequest) (*db.Medication, error) {
	if role != db.RoleDoctor {
		return nil, errs.Forbidden("only doctors can create medications")
	}
	if req.PatientID == "" || req.DrugName == "" || req.Dosage == "" || req.StartDate == "" {
		return nil, errs.InvalidInput("patientId, drugName, dosage and startDate are required")
	}
	if req.FrequencyPerDay < 1 {
		return nil, errs.InvalidInput("frequencyPerDay must be at least 1")
	}

	patient, err := s.users.GetByID(req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil || patient.Role != db.RolePatient {
		return nil, errs.InvalidReference("invalid patient")
	}

	if req.AppointmentID != "" {
		appt, err := s.appts.GetByID(req.AppointmentID)
		if err != nil {
			return nil, err
		}
		if appt == nil {
			return nil, errs.InvalidReference("invalid appointmentId")
		}
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, errs.InvalidInput("invalid startDate")
	}

	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return nil, errs.InvalidInput("invalid endDate")
		}
		if parsed.Before(startDate) {
			return nil, errs.InvalidInput("endDate cannot be before startDate")
		}
		endDate = &parsed
	}

	med := &db.Medication{
		ID:              uuid.NewString(),
		PatientID:       req.PatientID,
		DoctorID:        doctorID,
		AppointmentID:   req.AppointmentID,
		DrugName:        req.DrugName,
		Dosage:          req.Dosage,
		FrequencyPerDay: req.FrequencyPerDay,
		Instructions:    req.Instructions,
		StartDate:       startDate,
		EndDate:         endDate,
	}
	if err := s.meds.Create(med); err != nil {
		return nil, err
	}
	return med, nil
}

// MyMedications lists the requesting patient's prescriptions.
func (s *MedicationService) MyMedications(patientID, role string) ([]db.Medication, error) {
	if role != db.RolePatient {
		return nil, errs.Forbidden("only patients can view this")
	}
	return s.meds.ListByPatient(patientID)
}

// PatientMedications lists a patient's prescriptions for a doctor or admin.
func (s *MedicationService) PatientMedications(role, patientID string) ([]db.Medication, error) {
	if role != db.RoleDoctor && role != db.RoleAdmin {
		return nil, errs.Forbidden("not allowed")
	}
	return s.meds.ListByPatient(patientID)
}
