package httpapi

import (
	"net/http"
	"strconv"

	"avicenna.org/internal/hospital"
	"avicenna.org/internal/obs"
)

type createBillRequest struct {
	PatientID string `json:"patient_id"`
}

type lineItemRequest struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"` // minor units
}

type payBillRequest struct {
	PaymentRef string `json:"payment_ref"`
}

type billResponse struct {
	ID         string              `json:"id"`
	PatientID  string              `json:"patient_id"`
	LineItems  []hospital.LineItem `json:"line_items"`
	Status     hospital.BillStatus `json:"status"`
	PaymentRef string              `json:"payment_ref,omitempty"`
	Total      int64               `json:"total"`
}

func toBillResponse(b hospital.Bill) billResponse {
	items := b.LineItems
	if items == nil {
		items = []hospital.LineItem{}
	}
	return billResponse{
		ID:         b.ID,
		PatientID:  b.PatientID,
		LineItems:  items,
		Status:     b.Status,
		PaymentRef: b.PaymentRef,
		Total:      b.Total(),
	}
}

func (a *API) handleBillsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		bills, err := a.facade.ListBills(r.Context())
		obs.ObserveOperation("bill", "list", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		out := make([]billResponse, 0, len(bills))
		for _, b := range bills {
			out = append(out, toBillResponse(b))
		}
		writeJSON(w, http.StatusOK, map[string]any{"bills": out})

	case http.MethodPost:
		var req createBillRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		created, err := a.facade.CreateBill(r.Context(), req.PatientID)
		obs.ObserveOperation("bill", "create", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		a.audit(r.Context(), "bill.create", "bill", created.ID, map[string]string{
			"patient_id": created.PatientID,
		})
		w.Header().Set("Location", "/v1/bills/"+created.ID)
		writeJSON(w, http.StatusCreated, toBillResponse(created))

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleBillResource(w http.ResponseWriter, r *http.Request) {
	id, action, ok := resourcePath(r.URL.Path, "/v1/bills")
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch action {
	case "":
	case "items":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		var req lineItemRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := a.facade.AddLineItem(r.Context(), id, hospital.LineItem{
			Description: req.Description,
			Amount:      req.Amount,
		})
		obs.ObserveOperation("bill", "add_line_item", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		a.audit(r.Context(), "bill.add_line_item", "bill", id, map[string]string{
			"amount": strconv.FormatInt(req.Amount, 10),
		})
		writeJSON(w, http.StatusOK, toBillResponse(updated))
		return
	case "pay":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		var req payBillRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := a.facade.MarkBillPaid(r.Context(), id, req.PaymentRef)
		obs.ObserveOperation("bill", "mark_paid", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		a.audit(r.Context(), "bill.mark_paid", "bill", id, map[string]string{
			"payment_ref": req.PaymentRef,
			"total":       strconv.FormatInt(updated.Total(), 10),
		})
		writeJSON(w, http.StatusOK, toBillResponse(updated))
		return
	default:
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		b, err := a.facade.FindBillByID(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBillResponse(b))

	case http.MethodDelete:
		removed, err := a.facade.DeleteBill(r.Context(), id)
		obs.ObserveOperation("bill", "delete", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !removed {
			writeError(w, http.StatusNotFound, "bill not found")
			return
		}
		a.audit(r.Context(), "bill.delete", "bill", id, nil)
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodDelete)
	}
}
