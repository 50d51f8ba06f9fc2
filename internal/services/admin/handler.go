package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pizzeria/internal/auth"
	"pizzeria/internal/logger"
	"pizzeria/internal/models"
)

// Handler exposes the back office over HTTP. All routes except /health
// sit behind basic auth verified by the auth service.
type Handler struct {
	service *Service
	auth    auth.Service
	logger  *logger.Logger
}

func NewHandler(service *Service, authService auth.Service, log *logger.Logger) *Handler {
	return &Handler{service: service, auth: authService, logger: log}
}

// Routes mounts the admin-service endpoints.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/health", h.health)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAdmin)

		r.Get("/admin/orders", h.listOrders)
		r.Get("/admin/orders/{id}", h.getOrder)
		r.Post("/admin/orders/{id}/status", h.transition)

		r.Post("/admin/menu", h.createMenuItem)
		r.Put("/admin/menu/{id}", h.updateMenuItem)
		r.Delete("/admin/menu/{id}", h.deleteMenuItem)

		r.Post("/admin/ingredients", h.createIngredient)
		r.Put("/admin/ingredients/{id}", h.updateIngredient)
		r.Delete("/admin/ingredients/{id}", h.deleteIngredient)

		r.Get("/admin/settings", h.getSettings)
		r.Put("/admin/settings", h.updateSettings)
	})
	return r
}

// requireAdmin rejects requests without valid basic-auth credentials.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="pizzeria admin"`)
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			return
		}
		if err := h.auth.VerifyAdmin(r.Context(), username, password); err != nil {
			h.logger.Debug("auth_rejected", "", "Admin credentials rejected",
				map[string]interface{}{"username": username})
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context(), models.RoleAdmin)
	if err != nil {
		h.writeServiceError(w, logger.GenerateRequestID(), err)
		return
	}
	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, history, err := h.service.GetOrder(r.Context(), models.RoleAdmin, chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, logger.GenerateRequestID(), err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"order":   order,
		"history": history,
	})
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, requestID, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	req.OrderID = chi.URLParam(r, "id")

	order, err := h.service.Transition(r.Context(), models.RoleAdmin, &req, requestID)
	if err != nil {
		h.writeServiceError(w, requestID, err)
		return
	}
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var item models.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		h.writeError(w, requestID, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	if err := h.service.CreateMenuItem(r.Context(), models.RoleAdmin, &item); err != nil {
		h.writeServiceError(w, requestID, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var item models.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		h.writeError(w, requestID, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	item.ID = chi.URLParam(r, "id")
	if err := h.service.UpdateMenuItem(r.Context(), models.RoleAdmin, &item); err != nil {
		h.writeServiceError(w, requestID, err)
		return
	}
	h.writeJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMenuItem(r.Context(), models.RoleAdmin, chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, logger.GenerateRequestID(), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createIngredient(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var ing models.Ingredient
	if err := json.NewDecoder(r.Body).Decode(&ing); err != nil {
		h.writeError(w, requestID, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	if err := h.service.CreateIngredient(r.Context(), models.RoleAdmin, &ing); err != nil {
		h.writeServiceError(w, requestID, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, ing)
}

func (h *Handler) updateIngredient(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var ing models.Ingredient
	if err := json.NewDecoder(r.Body).Decode(&ing); err != nil {
		h.writeError(w, requestID, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	ing.ID = chi.URLParam(r, "id")
	if err := h.service.UpdateIngredient(r.Context(), models.RoleAdmin, &ing); err != nil {
		h.writeServiceError(w, requestID, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ing)
}

func (h *Handler) deleteIngredient(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteIngredient(r.Context(), models.RoleAdmin, chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, logger.GenerateRequestID(), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.GetSettings(r.Context(), models.RoleAdmin)
	if err != nil {
		h.writeServiceError(w, logger.GenerateRequestID(), err)
		return
	}
	h.writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var settings models.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		h.writeError(w, requestID, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	if err := h.service.UpdateSettings(r.Context(), models.RoleAdmin, settings); err != nil {
		h.writeServiceError(w, requestID, err)
		return
	}
	h.writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, requestID string, err error) {
	switch {
	case models.IsValidationError(err), errors.Is(err, models.ErrInvalidTransition):
		h.writeError(w, requestID, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, models.ErrNotFound):
		h.writeError(w, requestID, http.StatusNotFound, "not found", err)
	case errors.Is(err, models.ErrForbidden):
		h.writeError(w, requestID, http.StatusForbidden, "forbidden", err)
	default:
		h.writeError(w, requestID, http.StatusInternalServerError, "internal error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, requestID string, status int, message string, err error) {
	h.logger.Error("http_error", requestID, message, err, map[string]interface{}{"status": status})
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("response_encode_failed", "", "Failed to encode response", err, nil)
	}
}
