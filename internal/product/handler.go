package product

import (
	"net/http"
	"strconv"

	"sushiwave-be/internal/httpapi"

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
		httpapi.WriteError(w, r, httpapi.NotFound("Product not found"))
	case ErrSlugExists:
		httpapi.WriteError(w, r, httpapi.Conflict("Product with this slug already exists"))
	case ErrCategoryNotFound:
		httpapi.WriteError(w, r, httpapi.NotFound("Category not found"))
	default:
		httpapi.WriteError(w, r, err)
	}
}

func queryString(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

func queryFloat(r *http.Request, key string) *float64 {
	if v := r.URL.Query().Get(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return &f
		}
	}
	return nil
}

func queryBool(r *http.Request, key string) *bool {
	if v := r.URL.Query().Get(key); v != "" {
		b := v == "true"
		return &b
	}
	return nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	opts := QueryOptions{
		CategorySlug: queryString(r, "categorySlug"),
		MinPrice:     queryFloat(r, "minPrice"),
		MaxPrice:     queryFloat(r, "maxPrice"),
		IsNew:        queryBool(r, "isNew"),
		IsBestseller: queryBool(r, "isBestseller"),
		Search:       queryString(r, "search"),
		SortBy:       r.URL.Query().Get("sortBy"),
		SortOrder:    r.URL.Query().Get("sortOrder"),
		Page:         queryInt(r, "page", 1),
		Limit:        queryInt(r, "limit", defaultLimit),
	}
	opts = normalize(opts)

	products, total, err := h.svc.GetProducts(r.Context(), opts)
	if err != nil {
		h.mapErr(w, r, err)
		return
	}

	httpapi.WritePaged(w, http.StatusOK, products, httpapi.NewMeta(opts.Page, opts.Limit, total))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.mapErr(w, r, err)
		return
	}
	httpapi.WriteData(w, http.StatusOK, map[string]any{"product": p})
}

func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.mapErr(w, r, err)
		return
	}
	httpapi.WriteData(w, http.StatusOK, map[string]any{"product": p})
}

func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	featured, err := h.svc.GetFeatured(r.Context(), queryInt(r, "limit", 8))
	if err != nil {
		h.mapErr(w, r, err)
		return
	}
	httpapi.WriteData(w, http.StatusOK, featured)
}

func validateProduct(input ProductInput) []httpapi.FieldError {
	var fields []httpapi.FieldError
	if input.Name == "" {
		fields = append(fields, httpapi.FieldError{Field: "name", Message: "name is required"})
	}
	if input.Price <= 0 {
		fields = append(fields, httpapi.FieldError{Field: "price", Message: "price must be positive"})
	}
	if input.StockQuantity < 0 {
		fields = append(fields, httpapi.FieldError{Field: "stockQuantity", Message: "stock quantity cannot be negative"})
	}
	if input.CategoryID == "" {
		fields = append(fields, httpapi.FieldError{Field: "categoryId", Message: "category is required"})
	}
	return fields
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input ProductInput
	if err := httpapi.DecodeJSON(r, &input); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	if fields := validateProduct(input); len(fields) > 0 {
		httpapi.WriteError(w, r, httpapi.ValidationError(fields))
		return
	}

	p, err := h.svc.CreateProduct(r.Context(), input)
	if err != nil {
		h.mapErr(w, r, err)
		return
	}
	httpapi.WriteMessage(w, http.StatusCreated, "Product created successfully", map[string]any{"product": p})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var input ProductInput
	if err := httpapi.DecodeJSON(r, &input); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	if fields := validateProduct(input); len(fields) > 0 {
		httpapi.WriteError(w, r, httpapi.ValidationError(fields))
		return
	}

	p, err := h.svc.UpdateProduct(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.mapErr(w, r, err)
		return
	}
	httpapi.WriteMessage(w, http.StatusOK, "Product updated successfully", map[string]any{"product": p})
}

func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	var input PatchInput
	if err := httpapi.DecodeJSON(r, &input); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	if !input.HasAnyField() {
		httpapi.WriteError(w, r, httpapi.BadRequest("No fields to update"))
		return
	}
	if input.StockQuantity != nil && *input.StockQuantity < 0 {
		httpapi.WriteError(w, r, httpapi.ValidationError([]httpapi.FieldError{
			{Field: "stockQuantity", Message: "stock quantity cannot be negative"},
		}))
		return
	}

	p, err := h.svc.PatchProduct(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.mapErr(w, r, err)
		return
	}
	httpapi.WriteMessage(w, http.StatusOK, "Product updated successfully", map[string]any{"product": p})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.mapErr(w, r, err)
		return
	}
	httpapi.WriteMessage(w, http.StatusOK, "Product deleted successfully", nil)
}
