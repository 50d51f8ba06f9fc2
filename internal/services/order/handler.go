package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pizzeria/internal/logger"
	"pizzeria/internal/models"
)

// Handler exposes the checkout service over HTTP.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// Routes mounts the order-service endpoints.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Post("/orders", h.checkout)
	r.Post("/orders/quote", h.quote)
	r.Post("/orders/builder", h.buildPizza)
	r.Get("/health", h.health)
	return r
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, requestID, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	resp, err := h.service.Checkout(r.Context(), &req, requestID)
	if err != nil {
		h.writeServiceError(w, requestID, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, requestID, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	resp, err := h.service.Quote(r.Context(), &req, requestID)
	if err != nil {
		h.writeServiceError(w, requestID, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) buildPizza(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req BuildPizzaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, requestID, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	line, err := h.service.BuildPizza(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, requestID, err)
		return
	}
	h.writeJSON(w, http.StatusOK, line)
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
