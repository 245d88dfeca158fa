package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"medibook/internal/auth"
	"medibook/internal/entities"
	"medibook/internal/service"
)

type AppointmentHandler struct {
	Service *service.AppointmentService
}

func NewAppointmentHandler(svc *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Service: svc}
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req entities.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.Service.Book(auth.UserID(r.Context()), auth.Role(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

func (h *AppointmentHandler) My(w http.ResponseWriter, r *http.Request) {
	appts, err := h.Service.MyAppointments(auth.UserID(r.Context()), auth.Role(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

func (h *AppointmentHandler) Doctor(w http.ResponseWriter, r *http.Request) {
	appts, err := h.Service.DoctorAppointments(auth.UserID(r.Context()), auth.Role(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req entities.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.Service.UpdateStatus(auth.UserID(r.Context()), auth.Role(r.Context()), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}
