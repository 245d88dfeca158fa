package entities

// AppointmentEmailData feeds the HTML email template.
type AppointmentEmailData struct {
	PatientName        string
	DoctorName         string
	AppointmentID      string
	Status             string
	LocationType       string
	StartTimeFormatted string
	EndTimeFormatted   string
	CurrentYear        int
}
