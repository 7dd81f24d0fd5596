package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"avicenna.org/internal/audit"
	"avicenna.org/internal/hospital"
	"avicenna.org/internal/obs"
)

// ReadyProbe reports whether downstream dependencies are reachable
// (e.g., a DB ping when a durable store is configured).
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer over the hospital facade. It renders results
// and maps error kinds to status codes; all business rules live below
// the facade.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	facade     *hospital.Facade
	version    string

	rateBurst  int
	ratePerSec int
}

func New(rp ReadyProbe, version string, facade *hospital.Facade) *API {
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: rp,
		facade:     facade,
		version:    version,
		rateBurst:  20,
		ratePerSec: 10,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)
	a.mux.HandleFunc("/v1/auth/token", a.handleAuthToken)

	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/v1/patients", a.handlePatientsCollection)
	a.mux.HandleFunc("/v1/patients/", a.handlePatientResource)
	a.mux.HandleFunc("/v1/appointments", a.handleAppointmentsCollection)
	a.mux.HandleFunc("/v1/appointments/", a.handleAppointmentResource)
	a.mux.HandleFunc("/v1/records", a.handleRecordsCollection)
	a.mux.HandleFunc("/v1/records/", a.handleRecordResource)
	a.mux.HandleFunc("/v1/bills", a.handleBillsCollection)
	a.mux.HandleFunc("/v1/bills/", a.handleBillResource)
	a.mux.HandleFunc("/v1/inventory", a.handleInventoryCollection)
	a.mux.HandleFunc("/v1/inventory/", a.handleInventoryResource)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the full middleware chain around the mux.
func (a *API) Handler() http.Handler {
	h := http.Handler(a.mux)
	h = a.withAuth(h)
	h = MaxBodyBytes(h, 1<<20)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = SecurityHeaders(h)
	h = CORS(h)
	h = Logging(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- Health and info ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "avicenna-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		obs.SetReady(false)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "avicenna-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// The facade passes service errors through unchanged, so errors.Is is
// reliable here.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, hospital.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, hospital.ErrReferenceNotFound),
		errors.Is(err, hospital.ErrReferenceMismatch):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, hospital.ErrInvalidTransition),
		errors.Is(err, hospital.ErrInvalidState),
		errors.Is(err, hospital.ErrDuplicateKey):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, hospital.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, hospital.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// resourcePath splits "/v1/<base>/<id>[/<action>]" into id and action.
// ok is false when the path has more segments than that.
func resourcePath(path, base string) (id, action string, ok bool) {
	rest := strings.TrimPrefix(path, base)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return "", "", false
	}
	parts := strings.Split(rest, "/")
	switch len(parts) {
	case 1:
		return parts[0], "", true
	case 2:
		return parts[0], parts[1], true
	default:
		return "", "", false
	}
}

func (a *API) audit(ctx context.Context, event, resourceType, resourceID string, meta map[string]string) {
	fields := map[string]any{
		"resource_type": resourceType,
		"resource_id":   resourceID,
	}
	for k, v := range meta {
		fields[k] = v
	}
	_ = audit.LogEvent(ctx, event, fields)
}
