// Package tracking is the customer-facing read side: order status by
// number, status history, the caller's own orders, menu browsing and
// the lucky wheel.
package tracking

import (
	"context"
	"fmt"
	"time"

	"pizzeria/internal/logger"
	"pizzeria/internal/models"
	"pizzeria/internal/repository"
	"pizzeria/internal/wheel"
)

// Service answers tracking queries over the order store.
type Service struct {
	orders repository.OrderRepository
	menu   repository.MenuRepository
	wheel  *wheel.Wheel
	logger *logger.Logger
}

func NewService(orders repository.OrderRepository, menu repository.MenuRepository, w *wheel.Wheel, log *logger.Logger) *Service {
	return &Service{orders: orders, menu: menu, wheel: w, logger: log}
}

// StatusResponse is the public view of one order's progress. It never
// exposes customer contact details.
type StatusResponse struct {
	OrderNumber      int                `json:"order_number"`
	Status           models.OrderStatus `json:"status"`
	EstimatedMinutes *int               `json:"estimated_minutes,omitempty"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// GetOrderStatus looks an order up by its 6-digit number.
func (s *Service) GetOrderStatus(ctx context.Context, orderNumber int) (*StatusResponse, error) {
	if !models.ValidOrderNumber(orderNumber) {
		return nil, models.NewValidationError("order_number", "must be a 6-digit number")
	}

	order, err := s.orders.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	return &StatusResponse{
		OrderNumber:      order.OrderNumber,
		Status:           order.Status,
		EstimatedMinutes: order.EstimatedMinutes,
		UpdatedAt:        order.UpdatedAt,
	}, nil
}

// GetOrderHistory returns the recorded status transitions for an order,
// oldest first.
func (s *Service) GetOrderHistory(ctx context.Context, orderNumber int) ([]models.StatusLogEntry, error) {
	if !models.ValidOrderNumber(orderNumber) {
		return nil, models.NewValidationError("order_number", "must be a 6-digit number")
	}

	order, err := s.orders.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return s.orders.History(ctx, order.ID)
}

// ListMyOrders returns the orders visible to the caller. Customers see
// only their own orders; guests see nothing by listing.
func (s *Service) ListMyOrders(ctx context.Context, customerID string) ([]models.Order, error) {
	if customerID == "" || customerID == models.GuestCustomerID {
		return nil, nil
	}
	return s.orders.List(ctx, models.RoleCustomer, customerID)
}

// GetMenu returns the browsable menu and builder ingredients.
func (s *Service) GetMenu(ctx context.Context) ([]models.MenuItem, []models.Ingredient, error) {
	items, err := s.menu.ListMenuItems(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list menu: %w", err)
	}
	ingredients, err := s.menu.ListIngredients(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return items, ingredients, nil
}

// SpinWheel runs one lucky-wheel spin for the session.
func (s *Service) SpinWheel(ctx context.Context, sessionID, requestID string) (*wheel.Result, error) {
	result, err := s.wheel.Spin(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if result.Won {
		s.logger.Info("wheel_won", requestID, "Wheel spin won a discount",
			map[string]interface{}{"session_id": sessionID, "code": result.Award.Code})
	}
	return result, nil
}

// HealthCheck reports whether the order store answers queries.
func (s *Service) HealthCheck(ctx context.Context) bool {
	_, err := s.orders.List(ctx, models.RoleAdmin, "")
	return err == nil
}
