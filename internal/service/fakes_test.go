package service

import (
	"sync"
	"time"

	"medibook/internal/db"
	"medibook/internal/repository"
	"medibook/internal/schedule"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*db.User
}

func newFakeUserRepo(users ...*db.User) *fakeUserRepo {
	m := make(map[string]*db.User)
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) Create(u *db.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByID(id string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (f *fakeUserRepo) ListDoctors() ([]db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var doctors []db.User
	for _, u := range f.users {
		if u.Role == db.RoleDoctor {
			doctors = append(doctors, *u)
		}
	}
	return doctors, nil
}

func isActive(status string) bool {
	return status == db.StatusPending || status == db.StatusConfirmed
}

type fakeAppointmentRepo struct {
	mu    sync.Mutex
	appts map[string]*db.Appointment

	// findDelay widens the read-check-write window so the race test can
	// prove the per-doctor lock serializes concurrent bookings.
	findDelay time.Duration
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appts: make(map[string]*db.Appointment)}
}

func (f *fakeAppointmentRepo) Create(a *db.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *a
	f.appts[a.ID] = &cp
	return nil
}

func (f *fakeAppointmentRepo) GetByID(id string) (*db.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAppointmentRepo) ListByPatient(patientID string) ([]db.Appointment, error) {
	return f.filter(func(a *db.Appointment) bool { return a.PatientID == patientID }), nil
}

func (f *fakeAppointmentRepo) ListByDoctor(doctorID string) ([]db.Appointment, error) {
	return f.filter(func(a *db.Appointment) bool { return a.DoctorID == doctorID }), nil
}

func (f *fakeAppointmentRepo) FindActiveWindows(doctorID string, from, to time.Time) ([]schedule.Window, error) {
	if f.findDelay > 0 {
		time.Sleep(f.findDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var windows []schedule.Window
	for _, a := range f.appts {
		if a.DoctorID != doctorID || !isActive(a.Status) {
			continue
		}
		if a.StartAt.Before(from) || a.StartAt.After(to) {
			continue
		}
		windows = append(windows, schedule.Window{Start: a.StartAt, End: a.EndAt()})
	}
	return windows, nil
}

func (f *fakeAppointmentRepo) CountPatientActive(patientID string, from, to time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, a := range f.appts {
		if a.PatientID != patientID || !isActive(a.Status) {
			continue
		}
		if a.StartAt.Before(from) || a.StartAt.After(to) {
			continue
		}
		count++
	}
	return count, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(id, status string) (*db.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appts[id]
	if !ok {
		return nil, nil
	}
	a.Status = status
	cp := *a
	return &cp, nil
}

func (f *fakeAppointmentRepo) AdminList(date, status string) ([]db.Appointment, error) {
	return f.filter(func(a *db.Appointment) bool {
		if date != "" && a.StartAt.UTC().Format("2006-01-02") != date {
			return false
		}
		if status != "" && a.Status != status {
			return false
		}
		return true
	}), nil
}

func (f *fakeAppointmentRepo) filter(keep func(*db.Appointment) bool) []db.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Appointment
	for _, a := range f.appts {
		if keep(a) {
			out = append(out, *a)
		}
	}
	return out
}

type fakeAvailabilityRepo struct {
	mu       sync.Mutex
	byDoctor map[string]*db.WeeklyAvailability
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{byDoctor: make(map[string]*db.WeeklyAvailability)}
}

func (f *fakeAvailabilityRepo) GetByDoctor(doctorID string) (*db.WeeklyAvailability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	av, ok := f.byDoctor[doctorID]
	if !ok {
		return nil, nil
	}
	cp := *av
	return &cp, nil
}

func (f *fakeAvailabilityRepo) Upsert(av *db.WeeklyAvailability) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *av
	f.byDoctor[av.DoctorID] = &cp
	return nil
}

type fakeMedicationRepo struct {
	mu   sync.Mutex
	meds []db.Medication
}

func (f *fakeMedicationRepo) Create(m *db.Medication) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meds = append(f.meds, *m)
	return nil
}

func (f *fakeMedicationRepo) ListByPatient(patientID string) ([]db.Medication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Medication
	for _, m := range f.meds {
		if m.PatientID == patientID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMedicationRepo) ListByDoctor(doctorID string) ([]db.Medication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Medication
	for _, m := range f.meds {
		if m.DoctorID == doctorID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeJobRepo struct {
	pastEndIDs    []string
	remindable    []repository.ReminderAppointment
	updatedIDs    []string
	updatedStatus string
	remindedIDs   []string
}

func (f *fakeJobRepo) ConfirmedIDsPastEnd(now time.Time) ([]string, error) {
	return f.pastEndIDs, nil
}

func (f *fakeJobRepo) UpdateStatuses(ids []string, status string) error {
	f.updatedIDs = append(f.updatedIDs, ids...)
	f.updatedStatus = status
	return nil
}

func (f *fakeJobRepo) RemindableAppointments(from, to time.Time) ([]repository.ReminderAppointment, error) {
	return f.remindable, nil
}

func (f *fakeJobRepo) MarkReminderSent(id string) error {
	f.remindedIDs = append(f.remindedIDs, id)
	return nil
}

type noopNotifier struct{}

func (noopNotifier) AppointmentBooked(*db.Appointment, *db.User, *db.User)       {}
func (noopNotifier) AppointmentStatusChanged(*db.Appointment, *db.User, *db.User) {}
