package order

import (
	"net/http"
	"strconv"
	"strings"

	"sushiwave-be/internal/auth"
	"sushiwave-be/internal/httpapi"
	"sushiwave-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) mapErr(w http.ResponseWriter, r *http.Request, err error) {
	switch err {
	case ErrNotFound:
		httpapi.WriteError(w, r, httpapi.NotFound("Order not found"))
	case ErrForbidden:
		httpapi.WriteError(w, r, httpapi.Forbidden("Not allowed to access this order"))
	case ErrEmptyOrder:
		httpapi.WriteError(w, r, httpapi.BadRequest("Order must contain at least one item"))
	case ErrNotCancellable:
		httpapi.WriteError(w, r, httpapi.BadRequest("Order can no longer be cancelled"))
	case ErrAlreadyCancelled:
		httpapi.WriteError(w, r, httpapi.BadRequest("Order is already cancelled"))
	case ErrAlreadyPaid:
		httpapi.WriteError(w, r, httpapi.BadRequest("Order is already paid"))
	case ErrInvalidTransition:
		httpapi.WriteError(w, r, httpapi.BadRequest("Invalid status transition"))
	case ErrPaymentFailed:
		httpapi.WriteError(w, r, httpapi.BadRequest("Payment failed"))
	default:
		httpapi.WriteError(w, r, err)
	}
}

func caller(r *http.Request) (id string, isAdmin bool) {
	id, _ = utils.GetUserIDFromContext(r.Context())
	role := utils.GetUserRoleFromContext(r.Context())
	return id, role == auth.RoleAdmin
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func validateCreate(input CreateInput) []httpapi.FieldError {
	var fields []httpapi.FieldError
	required := []struct {
		field, value string
	}{
		{"firstName", input.FirstName},
		{"lastName", input.LastName},
		{"phone", input.Phone},
		{"address", input.Address},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			fields = append(fields, httpapi.FieldError{Field: f.field, Message: f.field + " is required"})
		}
	}
	if !strings.Contains(input.Email, "@") {
		fields = append(fields, httpapi.FieldError{Field: "email", Message: "a valid email is required"})
	}
	if !ValidPaymentMethod(input.PaymentMethod) {
		fields = append(fields, httpapi.FieldError{Field: "paymentMethod", Message: "paymentMethod must be CARD, CASH or ONLINE"})
	}
	return fields
}

// Create places an order. Works for guests too; when the caller is
// authenticated the order is attached to their account.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input CreateInput
	if err := httpapi.DecodeJSON(r, &input); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	if fields := validateCreate(input); len(fields) > 0 {
		httpapi.WriteError(w, r, httpapi.ValidationError(fields))
		return
	}

	var userID *string
	if id, ok := utils.GetUserIDFromContext(r.Context()); ok {
		userID = &id
	}

	o, lineErrors, err := h.svc.Create(r.Context(), userID, input)
	if err != nil {
		h.mapErr(w, r, err)
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
	httpapi.WriteMessage(w, http.StatusCreated, "Order created successfully", map[string]any{"order": o})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, isAdmin := caller(r)
	o, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"), id, isAdmin)
	if err != nil {
		h.mapErr(w, r, err)
		return
	}
	httpapi.WriteData(w, http.StatusOK, map[string]any{"order": o})
}

// List is the admin view over all orders, filterable by status.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	opts := ListOptions{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", defaultLimit),
	}
	if v := r.URL.Query().Get("status"); v != "" {
		s := Status(v)
		if !ValidStatus(s) {
			httpapi.WriteError(w, r, httpapi.BadRequest("Invalid status filter"))
			return
		}
		opts.Status = &s
	}
	if v := r.URL.Query().Get("paymentStatus"); v != "" {
		p := PaymentStatus(v)
		if !ValidPaymentStatus(p) {
			httpapi.WriteError(w, r, httpapi.BadRequest("Invalid payment status filter"))
			return
		}
		opts.PaymentStatus = &p
	}
	opts.Page, opts.Limit = normalizePaging(opts.Page, opts.Limit)

	orders, total, err := h.svc.List(r.Context(), opts)
	if err != nil {
		h.mapErr(w, r, err)
		return
	}
	httpapi.WritePaged(w, http.StatusOK, orders, httpapi.NewMeta(opts.Page, opts.Limit, total))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())
	page, limit := normalizePaging(queryInt(r, "page", 1), queryInt(r, "limit", defaultLimit))

	orders, total, err := h.svc.ListMine(r.Context(), userID, page, limit)
	if err != nil {
		h.mapErr(w, r, err)
		return
	}
	httpapi.WritePaged(w, http.StatusOK, orders, httpapi.NewMeta(page, limit, total))
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, isAdmin := caller(r)
	o, err := h.svc.Cancel(r.Context(), chi.URLParam(r, "id"), id, isAdmin)
	if err != nil {
		h.mapErr(w, r, err)
		return
	}
	httpapi.WriteMessage(w, http.StatusOK, "Order cancelled successfully", map[string]any{"order": o})
}

func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	id, isAdmin := caller(r)
	o, err := h.svc.Pay(r.Context(), chi.URLParam(r, "id"), id, isAdmin)
	if err != nil {
		h.mapErr(w, r, err)
		return
	}
	httpapi.WriteMessage(w, http.StatusOK, "Payment successful", map[string]any{"order": o})
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	var input AdminUpdateInput
	if err := httpapi.DecodeJSON(r, &input); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	if input.Status == nil && input.PaymentStatus == nil && input.AdminNote == nil {
		httpapi.WriteError(w, r, httpapi.BadRequest("No fields to update"))
		return
	}

	o, err := h.svc.AdminUpdate(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.mapErr(w, r, err)
		return
	}
	httpapi.WriteMessage(w, http.StatusOK, "Order updated successfully", map[string]any{"order": o})
}
