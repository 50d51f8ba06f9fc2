// Package admin implements the back office: advancing and cancelling
// orders, and managing the menu, ingredients and restaurant settings.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pizzeria/internal/logger"
	"pizzeria/internal/models"
	"pizzeria/internal/repository"
)

// Publisher publishes status-change notifications. May be nil; a
// transition never fails because the broker is unreachable.
type Publisher interface {
	PublishStatusUpdate(ctx context.Context, msg *models.StatusUpdateMessage) error
}

// Service implements the admin operations. Every mutating call checks
// the caller's role first.
type Service struct {
	orders    repository.OrderRepository
	menu      repository.MenuRepository
	settings  repository.SettingsRepository
	publisher Publisher
	logger    *logger.Logger
}

func NewService(
	orders repository.OrderRepository,
	menu repository.MenuRepository,
	settings repository.SettingsRepository,
	publisher Publisher,
	log *logger.Logger,
) *Service {
	return &Service{
		orders:    orders,
		menu:      menu,
		settings:  settings,
		publisher: publisher,
		logger:    log,
	}
}

// TransitionRequest advances or cancels one order.
type TransitionRequest struct {
	OrderID          string             `json:"order_id"`
	NewStatus        models.OrderStatus `json:"new_status"`
	EstimatedMinutes *int               `json:"estimated_minutes,omitempty"`
	ChangedBy        string             `json:"changed_by"`
}

// Transition moves an order to a new status, enforcing the lifecycle
// table, and records the change in the status log. Only admins may
// change order status.
func (s *Service) Transition(ctx context.Context, role models.Role, req *TransitionRequest, requestID string) (*models.Order, error) {
	if role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins may change order status", models.ErrForbidden)
	}

	order, err := s.orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	old := order.Status
	if err := order.TransitionTo(req.NewStatus, req.EstimatedMinutes); err != nil {
		return nil, err
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	changedBy := req.ChangedBy
	if changedBy == "" {
		changedBy = "admin"
	}
	entry := models.StatusLogEntry{
		OrderID:   order.ID,
		From:      old,
		To:        order.Status,
		ChangedBy: changedBy,
		ChangedAt: time.Now().UTC(),
	}
	if err := s.orders.AppendStatusLog(ctx, entry); err != nil {
		s.logger.Error("status_log_failed", requestID, "Failed to append status log", err,
			map[string]interface{}{"order_id": order.ID})
	}

	if s.publisher != nil {
		if err := s.publisher.PublishStatusUpdate(ctx, models.NewStatusUpdateMessage(order, old, changedBy)); err != nil {
			s.logger.Error("status_publish_failed", requestID, "Failed to publish status update", err,
				map[string]interface{}{"order_number": order.OrderNumber})
		}
	}

	s.logger.Info("order_transitioned", requestID, "Order status changed",
		map[string]interface{}{
			"order_number": order.OrderNumber,
			"from":         string(old),
			"to":           string(order.Status),
		})

	return order, nil
}

// ListOrders returns all orders, newest first.
func (s *Service) ListOrders(ctx context.Context, role models.Role) ([]models.Order, error) {
	if role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins may list all orders", models.ErrForbidden)
	}
	return s.orders.List(ctx, models.RoleAdmin, "")
}

// GetOrder returns one order with its status history.
func (s *Service) GetOrder(ctx context.Context, role models.Role, id string) (*models.Order, []models.StatusLogEntry, error) {
	if role != models.RoleAdmin {
		return nil, nil, fmt.Errorf("%w: only admins may inspect orders", models.ErrForbidden)
	}
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	history, err := s.orders.History(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return order, history, nil
}

// CreateMenuItem validates and stores a new menu item.
func (s *Service) CreateMenuItem(ctx context.Context, role models.Role, item *models.MenuItem) error {
	if role != models.RoleAdmin {
		return fmt.Errorf("%w: only admins may manage the menu", models.ErrForbidden)
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	if err := item.Validate(); err != nil {
		return err
	}
	return s.menu.CreateMenuItem(ctx, item)
}

// UpdateMenuItem validates and stores changes to an existing menu item.
func (s *Service) UpdateMenuItem(ctx context.Context, role models.Role, item *models.MenuItem) error {
	if role != models.RoleAdmin {
		return fmt.Errorf("%w: only admins may manage the menu", models.ErrForbidden)
	}
	if err := item.Validate(); err != nil {
		return err
	}
	return s.menu.UpdateMenuItem(ctx, item)
}

// DeleteMenuItem removes a menu item.
func (s *Service) DeleteMenuItem(ctx context.Context, role models.Role, id string) error {
	if role != models.RoleAdmin {
		return fmt.Errorf("%w: only admins may manage the menu", models.ErrForbidden)
	}
	return s.menu.DeleteMenuItem(ctx, id)
}

// CreateIngredient validates and stores a new pizza-builder ingredient.
func (s *Service) CreateIngredient(ctx context.Context, role models.Role, ing *models.Ingredient) error {
	if role != models.RoleAdmin {
		return fmt.Errorf("%w: only admins may manage ingredients", models.ErrForbidden)
	}
	if ing.ID == "" {
		ing.ID = uuid.NewString()
	}
	if err := ing.Validate(); err != nil {
		return err
	}
	return s.menu.CreateIngredient(ctx, ing)
}

// UpdateIngredient validates and stores changes to an ingredient.
func (s *Service) UpdateIngredient(ctx context.Context, role models.Role, ing *models.Ingredient) error {
	if role != models.RoleAdmin {
		return fmt.Errorf("%w: only admins may manage ingredients", models.ErrForbidden)
	}
	if err := ing.Validate(); err != nil {
		return err
	}
	return s.menu.UpdateIngredient(ctx, ing)
}

// DeleteIngredient removes an ingredient.
func (s *Service) DeleteIngredient(ctx context.Context, role models.Role, id string) error {
	if role != models.RoleAdmin {
		return fmt.Errorf("%w: only admins may manage ingredients", models.ErrForbidden)
	}
	return s.menu.DeleteIngredient(ctx, id)
}

// GetSettings returns the restaurant settings.
func (s *Service) GetSettings(ctx context.Context, role models.Role) (models.Settings, error) {
	if role != models.RoleAdmin {
		return models.Settings{}, fmt.Errorf("%w: only admins may read settings", models.ErrForbidden)
	}
	return s.settings.Get(ctx)
}

// UpdateSettings validates and stores new restaurant settings. Changes
// apply to future quotes only; placed orders keep their stored amounts.
func (s *Service) UpdateSettings(ctx context.Context, role models.Role, settings models.Settings) error {
	if role != models.RoleAdmin {
		return fmt.Errorf("%w: only admins may change settings", models.ErrForbidden)
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	return s.settings.Update(ctx, settings)
}
