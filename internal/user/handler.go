package user

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"sushiwave-be/internal/auth"
	"sushiwave-be/internal/httpapi"
	"sushiwave-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

// CookieConfig controls how the auth cookies are written.
type CookieConfig struct {
	Domain     string
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Handler struct {
	svc     Service
	cookies CookieConfig
}

func NewHandler(svc Service, cookies CookieConfig) *Handler {
	return &Handler{svc: svc, cookies: cookies}
}

func (h *Handler) setAuthCookies(w http.ResponseWriter, pair TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		Domain:   h.cookies.Domain,
		MaxAge:   int(h.cookies.AccessTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     auth.RefreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		Domain:   h.cookies.Domain,
		MaxAge:   int(h.cookies.RefreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{auth.AccessTokenCookie, auth.RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Domain:   h.cookies.Domain,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.cookies.Secure,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

func validateRegister(input RegisterInput) []httpapi.FieldError {
	var fields []httpapi.FieldError
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		fields = append(fields, httpapi.FieldError{Field: "email", Message: "valid email is required"})
	}
	if len(input.Password) < 8 {
		fields = append(fields, httpapi.FieldError{Field: "password", Message: "password must be at least 8 characters"})
	}
	if input.FirstName == "" {
		fields = append(fields, httpapi.FieldError{Field: "firstName", Message: "first name is required"})
	}
	if input.LastName == "" {
		fields = append(fields, httpapi.FieldError{Field: "lastName", Message: "last name is required"})
	}
	return fields
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var input RegisterInput
	if err := httpapi.DecodeJSON(r, &input); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}

	if fields := validateRegister(input); len(fields) > 0 {
		httpapi.WriteError(w, r, httpapi.ValidationError(fields))
		return
	}

	u, pair, err := h.svc.Register(r.Context(), input)
	if err != nil {
		if err == ErrEmailExists {
			httpapi.WriteError(w, r, httpapi.Conflict("User with this email already exists"))
			return
		}
		httpapi.WriteError(w, r, err)
		return
	}

	h.setAuthCookies(w, pair)
	httpapi.WriteMessage(w, http.StatusCreated, "User registered successfully", map[string]any{
		"user":   u,
		"tokens": pair,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := httpapi.DecodeJSON(r, &input); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}

	u, pair, err := h.svc.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		if err == ErrInvalidCredentials {
			httpapi.WriteError(w, r, httpapi.Unauthorized("Invalid email or password"))
			return
		}
		httpapi.WriteError(w, r, err)
		return
	}

	h.setAuthCookies(w, pair)
	httpapi.WriteMessage(w, http.StatusOK, "Login successful", map[string]any{
		"user":   u,
		"tokens": pair,
	})
}

// refreshTokenFrom prefers the cookie, falling back to the request body.
func refreshTokenFrom(r *http.Request) string {
	if token := auth.ExtractRefreshToken(r); token != "" {
		return token
	}
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	_ = httpapi.DecodeJSON(r, &body)
	return body.RefreshToken
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := refreshTokenFrom(r)
	if token == "" {
		httpapi.WriteError(w, r, httpapi.Unauthorized("Refresh token is required"))
		return
	}

	_, pair, err := h.svc.Refresh(r.Context(), token)
	if err != nil {
		if err == ErrInvalidRefresh {
			httpapi.WriteError(w, r, httpapi.Unauthorized("Invalid or expired refresh token"))
			return
		}
		httpapi.WriteError(w, r, err)
		return
	}

	h.setAuthCookies(w, pair)
	httpapi.WriteMessage(w, http.StatusOK, "Token refreshed successfully", map[string]any{
		"tokens": pair,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), refreshTokenFrom(r)); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}

	h.clearAuthCookies(w)
	httpapi.WriteMessage(w, http.StatusOK, "Logout successful", nil)
}

func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		httpapi.WriteError(w, r, httpapi.Unauthorized("Authentication required"))
		return
	}

	if err := h.svc.LogoutAll(r.Context(), userID); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}

	h.clearAuthCookies(w)
	httpapi.WriteMessage(w, http.StatusOK, "Logged out from all devices successfully", nil)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		httpapi.WriteError(w, r, httpapi.Unauthorized("Authentication required"))
		return
	}

	u, err := h.svc.GetByID(r.Context(), userID)
	if err != nil {
		if err == ErrUserNotFound {
			httpapi.WriteError(w, r, httpapi.NotFound("User not found"))
			return
		}
		httpapi.WriteError(w, r, err)
		return
	}

	httpapi.WriteData(w, http.StatusOK, map[string]any{"user": u})
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	users, total, err := h.svc.ListUsers(r.Context(), page, limit)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	httpapi.WritePaged(w, http.StatusOK, users, httpapi.NewMeta(page, limit, total))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if err == ErrUserNotFound {
			httpapi.WriteError(w, r, httpapi.NotFound("User not found"))
			return
		}
		httpapi.WriteError(w, r, err)
		return
	}
	httpapi.WriteData(w, http.StatusOK, map[string]any{"user": u})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		httpapi.WriteError(w, r, httpapi.Unauthorized("Authentication required"))
		return
	}

	var input ProfileInput
	if err := httpapi.DecodeJSON(r, &input); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}

	var fields []httpapi.FieldError
	if input.FirstName == "" {
		fields = append(fields, httpapi.FieldError{Field: "firstName", Message: "first name is required"})
	}
	if input.LastName == "" {
		fields = append(fields, httpapi.FieldError{Field: "lastName", Message: "last name is required"})
	}
	if len(fields) > 0 {
		httpapi.WriteError(w, r, httpapi.ValidationError(fields))
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), userID, input)
	if err != nil {
		if err == ErrUserNotFound {
			httpapi.WriteError(w, r, httpapi.NotFound("User not found"))
			return
		}
		httpapi.WriteError(w, r, err)
		return
	}
	httpapi.WriteMessage(w, http.StatusOK, "Profile updated successfully", map[string]any{"user": u})
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		httpapi.WriteError(w, r, httpapi.Unauthorized("Authentication required"))
		return
	}

	var input PasswordInput
	if err := httpapi.DecodeJSON(r, &input); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	if len(input.NewPassword) < 8 {
		httpapi.WriteError(w, r, httpapi.ValidationError([]httpapi.FieldError{
			{Field: "newPassword", Message: "password must be at least 8 characters"},
		}))
		return
	}

	if err := h.svc.UpdatePassword(r.Context(), userID, input); err != nil {
		switch err {
		case ErrWrongPassword:
			httpapi.WriteError(w, r, httpapi.BadRequest("Current password is incorrect"))
		case ErrUserNotFound:
			httpapi.WriteError(w, r, httpapi.NotFound("User not found"))
		default:
			httpapi.WriteError(w, r, err)
		}
		return
	}
	httpapi.WriteMessage(w, http.StatusOK, "Password updated successfully", nil)
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	callerID, _ := utils.GetUserIDFromContext(r.Context())

	var input struct {
		Role string `json:"role"`
	}
	if err := httpapi.DecodeJSON(r, &input); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	if input.Role != auth.RoleUser && input.Role != auth.RoleAdmin {
		httpapi.WriteError(w, r, httpapi.ValidationError([]httpapi.FieldError{
			{Field: "role", Message: "role must be USER or ADMIN"},
		}))
		return
	}

	u, err := h.svc.UpdateRole(r.Context(), callerID, chi.URLParam(r, "id"), input.Role)
	if err != nil {
		switch err {
		case ErrOwnRole:
			httpapi.WriteError(w, r, httpapi.BadRequest("Cannot change your own role"))
		case ErrUserNotFound:
			httpapi.WriteError(w, r, httpapi.NotFound("User not found"))
		default:
			httpapi.WriteError(w, r, err)
		}
		return
	}
	httpapi.WriteMessage(w, http.StatusOK, "User role updated successfully", map[string]any{"user": u})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	callerID, _ := utils.GetUserIDFromContext(r.Context())

	if err := h.svc.DeleteUser(r.Context(), callerID, chi.URLParam(r, "id")); err != nil {
		switch err {
		case ErrOwnAccount:
			httpapi.WriteError(w, r, httpapi.BadRequest("Cannot delete your own account"))
		case ErrUserNotFound:
			httpapi.WriteError(w, r, httpapi.NotFound("User not found"))
		default:
			httpapi.WriteError(w, r, err)
		}
		return
	}
	httpapi.WriteMessage(w, http.StatusOK, "User deleted successfully", nil)
}
