package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"path/filepath"
	"time"

	"medibook/internal/db"
	"medibook/internal/entities"
)

const timeLayout = "02 Jan 2006 15:04 MST"

// SenderService composes and dispatches appointment notifications. Sends run
// on goroutines; failures are logged and never propagate.
type SenderService struct {
}

func NewSenderService() *SenderService {
	return &SenderService{}
}

func (s *SenderService) AppointmentBooked(appt *db.Appointment, patient, doctor *db.User) {
	s.sendEmail(appt, patient, doctor, "booked")
	s.sendSMS(appt, patient, doctor, "booked")
}

func (s *SenderService) AppointmentStatusChanged(appt *db.Appointment, patient, doctor *db.User) {
	s.sendEmail(appt, patient, doctor, appt.Status)
	s.sendSMS(appt, patient, doctor, appt.Status)
}

func (s *SenderService) sendEmail(appt *db.Appointment, patient, doctor *db.User, status string) {
	emailData := entities.AppointmentEmailData{
		PatientName:        patient.Name,
		DoctorName:         doctor.Name,
		AppointmentID:      appt.ID,
		Status:             status,
		LocationType:       appt.LocationType,
		StartTimeFormatted: appt.StartAt.UTC().Format(timeLayout),
		EndTimeFormatted:   appt.EndAt().UTC().Format(timeLayout),
		CurrentYear:        time.Now().UTC().Year(),
	}

	emailSubject := fmt.Sprintf("Your MediBook appointment with Dr. %s is %s", doctor.Name, status)
	plainTextBody := fmt.Sprintf(
		"Hello %s,\n\nYour appointment with Dr. %s is %s.\n\n"+
			"Appointment details:\n"+
			"Doctor: %s\n"+
			"Starts: %s\n"+
			"Ends: %s\n"+
			"Location: %s\n\n"+
			"Thank you for using MediBook.",
		emailData.PatientName, emailData.DoctorName, status,
		emailData.DoctorName, emailData.StartTimeFormatted, emailData.EndTimeFormatted,
		emailData.LocationType,
	)

	var htmlBody string
	tmplPath := filepath.Join("internal", "templates", "appointment_email.html")
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		log.Printf("WARNING: could not parse email template %s: %v", tmplPath, err)
	} else {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, emailData); err != nil {
			log.Printf("WARNING: could not execute email template for appointment %s: %v", appt.ID, err)
		}
		htmlBody = buf.String()
	}

	go func(toEmail, toName, subject, plainBody, htmlBodyContent string) {
		if err := SendEmailWithSendGrid(toEmail, toName, subject, plainBody, htmlBodyContent); err != nil {
			log.Printf("WARNING: email for appointment %s failed: %v", appt.ID, err)
		}
	}(patient.Email, patient.Name, emailSubject, plainTextBody, htmlBody)
}

func (s *SenderService) sendSMS(appt *db.Appointment, patient, doctor *db.User, status string) {
	if patient.Phone == "" {
		return
	}

	smsMessage := fmt.Sprintf("MediBook: your appointment with Dr. %s on %s is %s. Details in your email.",
		doctor.Name,
		appt.StartAt.UTC().Format("02/01 15:04"),
		status,
	)

	go func(toNumber, body string) {
		if err := SendSMS(toNumber, body); err != nil {
			log.Printf("WARNING: SMS for appointment %s failed: %v", appt.ID, err)
		}
	}(patient.Phone, smsMessage)
}
