package httpapi

import (
	"net/http"
	"time"

	"avicenna.org/internal/hospital"
	"avicenna.org/internal/obs"
)

type appointmentRequest struct {
	PatientID string    `json:"patient_id"`
	StartsAt  time.Time `json:"starts_at"`
	Type      string    `json:"type"`
}

func (a *API) handleAppointmentsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		appts, err := a.facade.ListAppointments(r.Context())
		obs.ObserveOperation("appointment", "list", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"appointments": appts})

	case http.MethodPost:
		var req appointmentRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		created, err := a.facade.ScheduleAppointment(r.Context(), hospital.Appointment{
			PatientID: req.PatientID,
			StartsAt:  req.StartsAt,
			Type:      req.Type,
		})
		obs.ObserveOperation("appointment", "schedule", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		a.audit(r.Context(), "appointment.schedule", "appointment", created.ID, map[string]string{
			"patient_id": created.PatientID,
			"type":       created.Type,
		})
		w.Header().Set("Location", "/v1/appointments/"+created.ID)
		writeJSON(w, http.StatusCreated, created)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleAppointmentResource(w http.ResponseWriter, r *http.Request) {
	id, action, ok := resourcePath(r.URL.Path, "/v1/appointments")
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch action {
	case "":
	case "complete":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		updated, err := a.facade.CompleteAppointment(r.Context(), id)
		obs.ObserveOperation("appointment", "complete", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		a.audit(r.Context(), "appointment.complete", "appointment", id, nil)
		writeJSON(w, http.StatusOK, updated)
		return
	case "cancel":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		cancelled, err := a.facade.CancelAppointment(r.Context(), id)
		obs.ObserveOperation("appointment", "cancel", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		a.audit(r.Context(), "appointment.cancel", "appointment", id, nil)
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "cancelled": cancelled})
		return
	default:
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		appt, err := a.facade.FindAppointmentByID(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)

	case http.MethodPut:
		var req appointmentRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := a.facade.UpdateAppointment(r.Context(), hospital.Appointment{
			ID:       id,
			StartsAt: req.StartsAt,
			Type:     req.Type,
		})
		obs.ObserveOperation("appointment", "update", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		a.audit(r.Context(), "appointment.update", "appointment", id, nil)
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		removed, err := a.facade.DeleteAppointment(r.Context(), id)
		obs.ObserveOperation("appointment", "delete", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !removed {
			writeError(w, http.StatusNotFound, "appointment not found")
			return
		}
		a.audit(r.Context(), "appointment.delete", "appointment", id, nil)
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
