package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"medibook/internal/auth"
	"medibook/internal/entities"
	"medibook/internal/service"
)

type DoctorHandler struct {
	Service *service.DoctorService
}

func NewDoctorHandler(svc *service.DoctorService) *DoctorHandler {
	return &DoctorHandler{Service: svc}
}

func (h *DoctorHandler) List(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.Service.ListDoctors()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doctors)
}

func (h *DoctorHandler) GetMyAvailability(w http.ResponseWriter, r *http.Request) {
	availability, err := h.Service.MyAvailability(auth.UserID(r.Context()), auth.Role(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, availability)
}

func (h *DoctorHandler) UpsertMyAvailability(w http.ResponseWriter, r *http.Request) {
	var req entities.PublishAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	availability, err := h.Service.UpsertAvailability(auth.UserID(r.Context()), auth.Role(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, availability)
}

func (h *DoctorHandler) AvailabilityForDate(w http.ResponseWriter, r *http.Request) {
	doctorID := mux.Vars(r)["id"]
	date := r.URL.Query().Get("date")

	slots, err := h.Service.AvailableSlots(doctorID, date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.SlotsResponse{Slots: slots})
}
