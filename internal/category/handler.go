package category

import (
	"net/http"

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
		httpapi.WriteError(w, r, httpapi.NotFound("Category not found"))
	case ErrSlugExists:
		httpapi.WriteError(w, r, httpapi.Conflict("Category with this slug already exists"))
	case ErrHasProducts:
		httpapi.WriteError(w, r, httpapi.BadRequest("Cannot delete category with products"))
	default:
		httpapi.WriteError(w, r, err)
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.GetCategories(r.Context())
	if err != nil {
		h.mapErr(w, r, err)
		return
	}
	httpapi.WriteData(w, http.StatusOK, map[string]any{"categories": categories})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.mapErr(w, r, err)
		return
	}
	httpapi.WriteData(w, http.StatusOK, map[string]any{"category": c})
}

func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCategoryBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.mapErr(w, r, err)
		return
	}
	httpapi.WriteData(w, http.StatusOK, map[string]any{"category": c})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input CategoryInput
	if err := httpapi.DecodeJSON(r, &input); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	if input.Name == "" {
		httpapi.WriteError(w, r, httpapi.ValidationError([]httpapi.FieldError{
			{Field: "name", Message: "name is required"},
		}))
		return
	}

	c, err := h.svc.AddCategory(r.Context(), input)
	if err != nil {
		h.mapErr(w, r, err)
		return
	}
	httpapi.WriteMessage(w, http.StatusCreated, "Category created successfully", map[string]any{"category": c})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var input CategoryInput
	if err := httpapi.DecodeJSON(r, &input); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}

	c, err := h.svc.UpdateCategory(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.mapErr(w, r, err)
		return
	}
	httpapi.WriteMessage(w, http.StatusOK, "Category updated successfully", map[string]any{"category": c})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.mapErr(w, r, err)
		return
	}
	httpapi.WriteMessage(w, http.StatusOK, "Category deleted successfully", nil)
}
