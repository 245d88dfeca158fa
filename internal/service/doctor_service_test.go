package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibook/internal/db"
	"medibook/internal/entities"
	"medibook/internal/schedule"
)

func newDoctorFixture() (*DoctorService, *fakeAvailabilityRepo, *fakeAppointmentRepo) {
	users := newFakeUserRepo(
		&db.User{ID: "doc-1", Name: "House", Email: "house@example.com", Role: db.RoleDoctor},
		&db.User{ID: "pat-1", Name: "Ana", Email: "ana@example.com", Role: db.RolePatient},
	)
	avail := newFakeAvailabilityRepo()
	appts := newFakeAppointmentRepo()
	return NewDoctorService(users, avail, appts), avail, appts
}

func mondayRange(startTime, endTime string) entities.PublishAvailabilityRequest {
	return entities.PublishAvailabilityRequest{
		Days: []schedule.DayAvailability{
			{DayOfWeek: 1, TimeRanges: []schedule.TimeRange{{StartTime: startTime, EndTime: endTime}}},
		},
	}
}

func TestUpsertAvailability_Validation(t *testing.T) {
	svc, _, _ := newDoctorFixture()

	_, err := svc.UpsertAvailability("pat-1", db.RolePatient, mondayRange("09:00", "10:00"))
	assert.Equal(t, http.StatusForbidden, httpCode(t, err))

	bad := mondayRange("09:00", "10:00")
	bad.Days[0].DayOfWeek = 7
	_, err = svc.UpsertAvailability("doc-1", db.RoleDoctor, bad)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))

	bad = mondayRange("09:00", "10:00")
	bad.Days[0].TimeRanges = nil
	_, err = svc.UpsertAvailability("doc-1", db.RoleDoctor, bad)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))

	bad = mondayRange("nine", "10:00")
	_, err = svc.UpsertAvailability("doc-1", db.RoleDoctor, bad)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))

	bad = mondayRange("10:00", "09:00")
	_, err = svc.UpsertAvailability("doc-1", db.RoleDoctor, bad)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))

	dup := mondayRange("09:00", "10:00")
	dup.Days = append(dup.Days, dup.Days[0])
	_, err = svc.UpsertAvailability("doc-1", db.RoleDoctor, dup)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))

	short := mondayRange("09:00", "10:00")
	short.SlotDurationMinutes = 3
	_, err = svc.UpsertAvailability("doc-1", db.RoleDoctor, short)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
}

func TestUpsertAvailability_Defaults(t *testing.T) {
	svc, _, _ := newDoctorFixture()

	av, err := svc.UpsertAvailability("doc-1", db.RoleDoctor, mondayRange("09:00", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, 30, av.SlotDurationMinutes)
	assert.Equal(t, "doc-1", av.DoctorID)
}

func TestUpsertAvailability_FullReplace(t *testing.T) {
	svc, _, _ := newDoctorFixture()

	_, err := svc.UpsertAvailability("doc-1", db.RoleDoctor, mondayRange("09:00", "10:00"))
	require.NoError(t, err)

	second := entities.PublishAvailabilityRequest{
		Days: []schedule.DayAvailability{
			{DayOfWeek: 2, TimeRanges: []schedule.TimeRange{{StartTime: "14:00", EndTime: "16:00"}}},
		},
	}
	_, err = svc.UpsertAvailability("doc-1", db.RoleDoctor, second)
	require.NoError(t, err)

	stored, err := svc.MyAvailability("doc-1", db.RoleDoctor)
	require.NoError(t, err)
	require.Len(t, stored.Days, 1)
	assert.Equal(t, 2, stored.Days[0].DayOfWeek, "second publication replaces the first, no merge")

	// Monday no longer has slots
	slots, err := svc.AvailableSlots("doc-1", "2026-02-02")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestMyAvailability_NotFound(t *testing.T) {
	svc, _, _ := newDoctorFixture()
	_, err := svc.MyAvailability("doc-1", db.RoleDoctor)
	assert.Equal(t, http.StatusNotFound, httpCode(t, err))
}

func TestAvailableSlots_Deterministic(t *testing.T) {
	svc, _, appts := newDoctorFixture()

	_, err := svc.UpsertAvailability("doc-1", db.RoleDoctor, mondayRange("09:00", "10:00"))
	require.NoError(t, err)

	slots, err := svc.AvailableSlots("doc-1", "2026-02-02")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC), slots[0].StartAt)
	assert.Equal(t, time.Date(2026, 2, 2, 9, 30, 0, 0, time.UTC), slots[0].EndAt)
	assert.Equal(t, time.Date(2026, 2, 2, 9, 30, 0, 0, time.UTC), slots[1].StartAt)
	assert.Equal(t, time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC), slots[1].EndAt)

	// one existing 09:15-09:45 appointment knocks out both candidates
	require.NoError(t, appts.Create(&db.Appointment{
		ID:              "appt-1",
		PatientID:       "pat-1",
		DoctorID:        "doc-1",
		StartAt:         time.Date(2026, 2, 2, 9, 15, 0, 0, time.UTC),
		DurationMinutes: 30,
		Status:          db.StatusPending,
	}))
	slots, err = svc.AvailableSlots("doc-1", "2026-02-02")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailableSlots_BackToBackIsFree(t *testing.T) {
	svc, _, appts := newDoctorFixture()

	_, err := svc.UpsertAvailability("doc-1", db.RoleDoctor, mondayRange("09:00", "10:00"))
	require.NoError(t, err)

	// 09:30-10:00 booked, the adjacent 09:00-09:30 slot stays free
	require.NoError(t, appts.Create(&db.Appointment{
		ID:              "appt-1",
		PatientID:       "pat-1",
		DoctorID:        "doc-1",
		StartAt:         time.Date(2026, 2, 2, 9, 30, 0, 0, time.UTC),
		DurationMinutes: 30,
		Status:          db.StatusConfirmed,
	}))

	slots, err := svc.AvailableSlots("doc-1", "2026-02-02")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC), slots[0].StartAt)
}

func TestAvailableSlots_CancelledDoesNotBlock(t *testing.T) {
	svc, _, appts := newDoctorFixture()

	_, err := svc.UpsertAvailability("doc-1", db.RoleDoctor, mondayRange("09:00", "10:00"))
	require.NoError(t, err)

	require.NoError(t, appts.Create(&db.Appointment{
		ID:              "appt-1",
		PatientID:       "pat-1",
		DoctorID:        "doc-1",
		StartAt:         time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Status:          db.StatusCancelled,
	}))

	slots, err := svc.AvailableSlots("doc-1", "2026-02-02")
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}

func TestAvailableSlots_EmptyCases(t *testing.T) {
	svc, _, _ := newDoctorFixture()

	// no availability published at all
	slots, err := svc.AvailableSlots("doc-1", "2026-02-02")
	require.NoError(t, err)
	assert.Empty(t, slots)

	_, err = svc.AvailableSlots("doc-1", "")
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))

	_, err = svc.AvailableSlots("doc-1", "02/02/2026")
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))

	// published, but the requested date falls on another weekday
	_, err = svc.UpsertAvailability("doc-1", db.RoleDoctor, mondayRange("09:00", "10:00"))
	require.NoError(t, err)
	slots, err = svc.AvailableSlots("doc-1", "2026-02-03")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestListDoctors(t *testing.T) {
	svc, _, _ := newDoctorFixture()
	doctors, err := svc.ListDoctors()
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "doc-1", doctors[0].ID)
}
