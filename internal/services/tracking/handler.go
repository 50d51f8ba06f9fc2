package tracking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pizzeria/internal/logger"
	"pizzeria/internal/models"
)

// Handler exposes the tracking service over HTTP.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// Routes mounts the tracking-service endpoints.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/orders/{number}/status", h.orderStatus)
	r.Get("/orders/{number}/history", h.orderHistory)
	r.Get("/my/orders", h.myOrders)
	r.Get("/menu", h.menu)
	r.Post("/wheel/spin", h.spinWheel)
	r.Get("/health", h.health)
	return r
}

func (h *Handler) orderStatus(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		h.writeError(w, requestID, http.StatusBadRequest, "order number must be numeric", err)
		return
	}

	status, err := h.service.GetOrderStatus(r.Context(), number)
	if err != nil {
		h.writeServiceError(w, requestID, err)
		return
	}
	h.writeJSON(w, http.StatusOK, status)
}

func (h *Handler) orderHistory(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		h.writeError(w, requestID, http.StatusBadRequest, "order number must be numeric", err)
		return
	}

	history, err := h.service.GetOrderHistory(r.Context(), number)
	if err != nil {
		h.writeServiceError(w, requestID, err)
		return
	}
	h.writeJSON(w, http.StatusOK, history)
}

func (h *Handler) myOrders(w http.ResponseWriter, r *http.Request) {
	customerID := r.Header.Get("X-Customer-ID")

	orders, err := h.service.ListMyOrders(r.Context(), customerID)
	if err != nil {
		h.writeServiceError(w, logger.GenerateRequestID(), err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) menu(w http.ResponseWriter, r *http.Request) {
	items, ingredients, err := h.service.GetMenu(r.Context())
	if err != nil {
		h.writeServiceError(w, logger.GenerateRequestID(), err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":       items,
		"ingredients": ingredients,
	})
}

func (h *Handler) spinWheel(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, requestID, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	result, err := h.service.SpinWheel(r.Context(), req.SessionID, requestID)
	if err != nil {
		h.writeServiceError(w, requestID, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if !h.service.HealthCheck(r.Context()) {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, requestID string, err error) {
	switch {
	case models.IsValidationError(err):
		h.writeError(w, requestID, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, models.ErrNotFound):
		h.writeError(w, requestID, http.StatusNotFound, "not found", err)
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
