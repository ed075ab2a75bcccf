package cart

import (
	"net/http"

	"sushiwave-be/internal/httpapi"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type cartRequest struct {
	Items []ItemInput `json:"items"`
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}

	cart, err := h.svc.Quote(r.Context(), req.Items)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}

	httpapi.WriteData(w, http.StatusOK, cart)
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}

	validItems, lineErrors, err := h.svc.Validate(r.Context(), req.Items)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}

	if len(lineErrors) > 0 {
		httpapi.WriteError(w, r, &httpapi.Error{
			Status:  http.StatusBadRequest,
			Message: "Cart validation failed",
			Fields:  lineErrors,
		})
		return
	}

	httpapi.WriteMessage(w, http.StatusOK, "Cart is valid", map[string]any{"items": validItems})
}

func (h *Handler) Totals(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}

	totals, err := h.svc.GetTotals(r.Context(), req.Items)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}

	httpapi.WriteData(w, http.StatusOK, totals)
}
