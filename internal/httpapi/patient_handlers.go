package httpapi

import (
	"net/http"
	"time"

	"avicenna.org/internal/hospital"
	"avicenna.org/internal/obs"
)

const dateOnly = "2006-01-02"

type patientRequest struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
}

type patientResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
	Admitted    bool   `json:"admitted"`
	Age         int    `json:"age"`
}

func toPatientResponse(p hospital.Patient) patientResponse {
	return patientResponse{
		ID:          p.ID,
		Name:        p.Name,
		DateOfBirth: p.DateOfBirth.Format(dateOnly),
		Admitted:    p.Admitted,
		Age:         p.Age(time.Now().UTC()),
	}
}

func (req patientRequest) toPatient() (hospital.Patient, error) {
	var p hospital.Patient
	p.Name = req.Name
	if req.DateOfBirth != "" {
		dob, err := time.Parse(dateOnly, req.DateOfBirth)
		if err != nil {
			return hospital.Patient{}, err
		}
		p.DateOfBirth = dob
	}
	return p, nil
}

func (a *API) handlePatientsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		patients, err := a.facade.ListPatients(r.Context())
		obs.ObserveOperation("patient", "list", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		out := make([]patientResponse, 0, len(patients))
		for _, p := range patients {
			out = append(out, toPatientResponse(p))
		}
		writeJSON(w, http.StatusOK, map[string]any{"patients": out})

	case http.MethodPost:
		var req patientRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		p, err := req.toPatient()
		if err != nil {
			writeError(w, http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
			return
		}
		created, err := a.facade.RegisterPatient(r.Context(), p)
		obs.ObserveOperation("patient", "register", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		a.audit(r.Context(), "patient.register", "patient", created.ID, map[string]string{
			"name": created.Name,
		})
		w.Header().Set("Location", "/v1/patients/"+created.ID)
		writeJSON(w, http.StatusCreated, toPatientResponse(created))

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handlePatientResource(w http.ResponseWriter, r *http.Request) {
	id, action, ok := resourcePath(r.URL.Path, "/v1/patients")
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch action {
	case "":
	case "admit", "discharge":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		var (
			updated hospital.Patient
			err     error
		)
		if action == "admit" {
			updated, err = a.facade.AdmitPatient(r.Context(), id)
		} else {
			updated, err = a.facade.DischargePatient(r.Context(), id)
		}
		obs.ObserveOperation("patient", action, err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		a.audit(r.Context(), "patient."+action, "patient", id, nil)
		writeJSON(w, http.StatusOK, toPatientResponse(updated))
		return
	default:
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := a.facade.FindPatientByID(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponse(p))

	case http.MethodPut:
		var req patientRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		p, err := req.toPatient()
		if err != nil {
			writeError(w, http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
			return
		}
		// Admission status changes only through admit/discharge.
		current, err := a.facade.FindPatientByID(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		p.ID = id
		p.Admitted = current.Admitted
		updated, err := a.facade.UpdatePatient(r.Context(), p)
		obs.ObserveOperation("patient", "update", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		a.audit(r.Context(), "patient.update", "patient", id, nil)
		writeJSON(w, http.StatusOK, toPatientResponse(updated))

	case http.MethodDelete:
		removed, err := a.facade.DeletePatient(r.Context(), id)
		obs.ObserveOperation("patient", "delete", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !removed {
			writeError(w, http.StatusNotFound, "patient not found")
			return
		}
		a.audit(r.Context(), "patient.delete", "patient", id, nil)
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
