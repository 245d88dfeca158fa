package api

import (
	"net/http"

	"medibook/internal/auth"
	"medibook/internal/service"
)

type AdminHandler struct {
	Service *service.AppointmentService
}

func NewAdminHandler(svc *service.AppointmentService) *AdminHandler {
	return &AdminHandler{Service: svc}
}

func (h *AdminHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	status := r.URL.Query().Get("status")

	appts, err := h.Service.AdminList(auth.Role(r.Context()), date, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appts)
}
