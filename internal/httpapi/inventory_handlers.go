package httpapi

import (
	"net/http"
	"strconv"

	"avicenna.org/internal/hospital"
	"avicenna.org/internal/obs"
)

type inventoryItemRequest struct {
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"` // minor units
}

type stockRequest struct {
	Amount int64 `json:"amount"`
}

func (a *API) handleInventoryCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := a.facade.ListInventoryItems(r.Context())
		obs.ObserveOperation("inventory", "list", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})

	case http.MethodPost:
		var req inventoryItemRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		created, err := a.facade.AddInventoryItem(r.Context(), hospital.InventoryItem{
			Name:      req.Name,
			Quantity:  req.Quantity,
			UnitPrice: req.UnitPrice,
		})
		obs.ObserveOperation("inventory", "add", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		a.audit(r.Context(), "inventory.add", "inventory_item", created.ID, map[string]string{
			"name": created.Name,
		})
		w.Header().Set("Location", "/v1/inventory/"+created.ID)
		writeJSON(w, http.StatusCreated, created)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleInventoryResource(w http.ResponseWriter, r *http.Request) {
	id, action, ok := resourcePath(r.URL.Path, "/v1/inventory")
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch action {
	case "":
	case "add-stock", "remove-stock":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		var req stockRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var (
			updated hospital.InventoryItem
			err     error
			op      string
		)
		if action == "add-stock" {
			op = "add_stock"
			updated, err = a.facade.AddStock(r.Context(), id, req.Amount)
		} else {
			op = "remove_stock"
			updated, err = a.facade.RemoveStock(r.Context(), id, req.Amount)
		}
		obs.ObserveOperation("inventory", op, err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		a.audit(r.Context(), "inventory."+op, "inventory_item", id, map[string]string{
			"amount":   strconv.FormatInt(req.Amount, 10),
			"quantity": strconv.FormatInt(updated.Quantity, 10),
		})
		writeJSON(w, http.StatusOK, updated)
		return
	default:
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		item, err := a.facade.FindInventoryItemByID(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)

	case http.MethodPut:
		var req inventoryItemRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Quantity changes only through add-stock and remove-stock; the
		// service keeps the stored quantity.
		updated, err := a.facade.UpdateInventoryItem(r.Context(), hospital.InventoryItem{
			ID:        id,
			Name:      req.Name,
			UnitPrice: req.UnitPrice,
		})
		obs.ObserveOperation("inventory", "update", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		a.audit(r.Context(), "inventory.update", "inventory_item", id, nil)
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		removed, err := a.facade.DeleteInventoryItem(r.Context(), id)
		obs.ObserveOperation("inventory", "delete", err)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !removed {
			writeError(w, http.StatusNotFound, "inventory item not found")
			return
		}
		a.audit(r.Context(), "inventory.delete", "inventory_item", id, nil)
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
