package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"medibook/internal/auth"
	"medibook/internal/entities"
	"medibook/internal/service"
)

type MedicationHandler struct {
	Service *service.MedicationService
}

func NewMedicationHandler(svc *service.MedicationService) *MedicationHandler {
	return &MedicationHandler{Service: svc}
}

func (h *MedicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req entities.PrescribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	med, err := h.Service.Prescribe(auth.UserID(r.Context()), auth.Role(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, med)
}

func (h *MedicationHandler) My(w http.ResponseWriter, r *http.Request) {
	meds, err := h.Service.MyMedications(auth.UserID(r.Context()), auth.Role(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meds)
}

func (h *MedicationHandler) ForPatient(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["id"]
	meds, err := h.Service.PatientMedications(auth.Role(r.Context()), patientID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meds)
}
