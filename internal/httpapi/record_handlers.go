package httpapi

import (
	"net/http"
	"time"

	"avicenna.org/internal/hospital"
	"avicenna.org/internal/obs"
)

type recordRequest struct {
	PatientID     string    `json:"patient_id"`
	AppointmentID string    `json:"appointment_id"`
	Diagnosis     string    `json:"diagnosis"`
	Notes         string    `json:"notes"`
	Date          time.Time `json:"date"`
}

func (a *API) handleRecordsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		records, err := a.facade.ListMedicalRecords(r.Context())
		obs.ObserveOperation("record", "list", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"records": records})

	case http.MethodPost:
		var req recordRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		created, err := a.facade.AddMedicalRecord(r.Context(), hospital.MedicalRecord{
			PatientID:     req.PatientID,
			AppointmentID: req.AppointmentID,
			Diagnosis:     req.Diagnosis,
			Notes:         req.Notes,
			Date:          req.Date,
		})
		obs.ObserveOperation("record", "add", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		a.audit(r.Context(), "record.add", "record", created.ID, map[string]string{
			"patient_id":     created.PatientID,
			"appointment_id": created.AppointmentID,
		})
		w.Header().Set("Location", "/v1/records/"+created.ID)
		writeJSON(w, http.StatusCreated, created)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleRecordResource(w http.ResponseWriter, r *http.Request) {
	id, action, ok := resourcePath(r.URL.Path, "/v1/records")
	if !ok || action != "" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		rec, err := a.facade.FindMedicalRecordByID(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)

	case http.MethodPut:
		var req recordRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Linkage is immutable; the service keeps the stored patient and
		// appointment IDs regardless of what the request carries.
		updated, err := a.facade.UpdateMedicalRecord(r.Context(), hospital.MedicalRecord{
			ID:        id,
			Diagnosis: req.Diagnosis,
			Notes:     req.Notes,
			Date:      req.Date,
		})
		obs.ObserveOperation("record", "update", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		a.audit(r.Context(), "record.update", "record", id, nil)
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		removed, err := a.facade.DeleteMedicalRecord(r.Context(), id)
		obs.ObserveOperation("record", "delete", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !removed {
			writeError(w, http.StatusNotFound, "medical record not found")
			return
		}
		a.audit(r.Context(), "record.delete", "record", id, nil)
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
