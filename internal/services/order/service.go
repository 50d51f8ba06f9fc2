// Package order implements checkout: pricing a cart, redeeming wheel
// awards, and appending new orders to the order store.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pizzeria/internal/logger"
	"pizzeria/internal/models"
	"pizzeria/internal/pricing"
	"pizzeria/internal/repository"
)

// maxNumberAttempts bounds the retry-on-collision loop for the random
// 6-digit order number.
const maxNumberAttempts = 10

// Publisher publishes placed-order messages. May be nil, in which case
// publishing is skipped; checkout never fails because the broker is
// unreachable.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, msg *models.OrderPlacedMessage) error
}

// Service implements checkout and quoting.
type Service struct {
	orders    repository.OrderRepository
	menu      repository.MenuRepository
	settings  repository.SettingsRepository
	awards    repository.AwardStore
	registry  pricing.DiscountRegistry
	publisher Publisher
	logger    *logger.Logger
}

// NewService wires the checkout service.
func NewService(
	orders repository.OrderRepository,
	menu repository.MenuRepository,
	settings repository.SettingsRepository,
	awards repository.AwardStore,
	registry pricing.DiscountRegistry,
	publisher Publisher,
	log *logger.Logger,
) *Service {
	return &Service{
		orders:    orders,
		menu:      menu,
		settings:  settings,
		awards:    awards,
		registry:  registry,
		publisher: publisher,
		logger:    log,
	}
}

// QuoteRequest prices a cart without placing an order.
type QuoteRequest struct {
	Items          []models.CartLine `json:"items"`
	DiscountCode   string            `json:"discount_code,omitempty"`
	WheelSessionID string            `json:"wheel_session_id,omitempty"`
}

// QuoteResponse carries the computed amounts. DiscountRejected is set
// when the supplied code was unknown; the amounts are then computed
// without any discount.
type QuoteResponse struct {
	Pricing          pricing.Breakdown `json:"pricing"`
	DiscountRejected bool              `json:"discount_rejected,omitempty"`
}

// CheckoutRequest places an order.
type CheckoutRequest struct {
	Items          []models.CartLine   `json:"items"`
	Customer       models.CustomerInfo `json:"customer"`
	CustomerID     string              `json:"customer_id,omitempty"`
	DiscountCode   string              `json:"discount_code,omitempty"`
	WheelSessionID string              `json:"wheel_session_id,omitempty"`
}

// CheckoutResponse reports the placed order.
type CheckoutResponse struct {
	Order            *models.Order `json:"order"`
	DiscountRejected bool          `json:"discount_rejected,omitempty"`
}

// Quote prices the cart with the current restaurant settings.
func (s *Service) Quote(ctx context.Context, req *QuoteRequest, requestID string) (*QuoteResponse, error) {
	if err := models.ValidateCartLines(req.Items); err != nil {
		return nil, err
	}

	breakdown, rejected, err := s.price(ctx, req.Items, req.DiscountCode, req.WheelSessionID, requestID)
	if err != nil {
		return nil, err
	}
	return &QuoteResponse{Pricing: breakdown, DiscountRejected: rejected}, nil
}

// Checkout validates the request, prices the cart, assigns identifiers
// and appends the order with status pending. The cart lines are
// snapshotted: later cart mutations never reach the stored order.
func (s *Service) Checkout(ctx context.Context, req *CheckoutRequest, requestID string) (*CheckoutResponse, error) {
	if err := models.ValidateCartLines(req.Items); err != nil {
		return nil, err
	}
	if err := req.Customer.Validate(); err != nil {
		return nil, err
	}

	breakdown, rejected, err := s.price(ctx, req.Items, req.DiscountCode, req.WheelSessionID, requestID)
	if err != nil {
		return nil, err
	}

	number, err := s.uniqueOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	customerID := req.CustomerID
	if customerID == "" {
		customerID = models.GuestCustomerID
	}

	now := time.Now().UTC()
	items := make([]models.CartLine, len(req.Items))
	copy(items, req.Items)

	order := &models.Order{
		ID:             uuid.NewString(),
		OrderNumber:    number,
		CustomerID:     customerID,
		Customer:       req.Customer,
		Items:          items,
		Subtotal:       breakdown.Subtotal,
		DeliveryFee:    breakdown.DeliveryFee,
		DiscountAmount: breakdown.DiscountAmount,
		Total:          breakdown.Total,
		DiscountCode:   breakdown.AppliedCode,
		Status:         models.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to store order: %w", err)
	}

	// A redeemed wheel award is consumed on use.
	if req.WheelSessionID != "" && breakdown.AppliedCode != "" && req.DiscountCode == "" {
		if err := s.awards.Delete(ctx, req.WheelSessionID); err != nil {
			s.logger.Error("award_consume_failed", requestID, "Failed to consume wheel award", err,
				map[string]interface{}{"session_id": req.WheelSessionID})
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, models.NewOrderPlacedMessage(order)); err != nil {
			s.logger.Error("order_publish_failed", requestID, "Failed to publish placed order", err,
				map[string]interface{}{"order_number": order.OrderNumber})
		}
	}

	s.logger.Info("order_placed", requestID, "Order placed",
		map[string]interface{}{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"total":        order.Total.String(),
		})

	return &CheckoutResponse{Order: order, DiscountRejected: rejected}, nil
}

// BuildPizzaRequest prices a pizza-builder creation into a cart line.
type BuildPizzaRequest struct {
	Name          string      `json:"name"`
	BaseItemID    string      `json:"base_item_id"`
	IngredientIDs []string    `json:"ingredient_ids"`
	Size          models.Size `json:"size"`
	Quantity      int         `json:"quantity"`
}

// BuildPizza resolves the base item and ingredients from the menu and
// returns the priced cart line.
func (s *Service) BuildPizza(ctx context.Context, req *BuildPizzaRequest) (models.CartLine, error) {
	base, err := s.menu.GetMenuItem(ctx, req.BaseItemID)
	if err != nil {
		return models.CartLine{}, err
	}
	if !base.Available {
		return models.CartLine{}, models.NewValidationError("base_item_id", "menu item %s is not available", base.ID)
	}

	ingredients := make([]models.Ingredient, 0, len(req.IngredientIDs))
	for _, id := range req.IngredientIDs {
		ing, err := s.menu.GetIngredient(ctx, id)
		if err != nil {
			return models.CartLine{}, err
		}
		ingredients = append(ingredients, *ing)
	}

	name := req.Name
	if name == "" {
		name = "Custom " + base.Name
	}
	return pricing.BuildCustomPizza(name, base.BasePrice, ingredients, req.Size, req.Quantity)
}

// price builds a calculator from the current settings and quotes the
// cart. The discount code comes from the request, or failing that from
// a live wheel award for the session. An unknown explicit code is
// reported but does not abort the quote.
func (s *Service) price(ctx context.Context, items []models.CartLine, code, wheelSessionID, requestID string) (pricing.Breakdown, bool, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return pricing.Breakdown{}, false, fmt.Errorf("failed to load settings: %w", err)
	}
	calc := pricing.New(settings.DeliveryFee, settings.FreeDeliveryThreshold, s.registry)

	if code == "" && wheelSessionID != "" {
		award, err := s.awards.Get(ctx, wheelSessionID)
		if err != nil {
			return pricing.Breakdown{}, false, fmt.Errorf("failed to read wheel award: %w", err)
		}
		if award != nil {
			code = award.Code
		}
	}

	breakdown, err := calc.Quote(items, code)
	if err != nil {
		if errors.Is(err, models.ErrInvalidDiscountCode) {
			s.logger.Debug("discount_rejected", requestID, "Unknown discount code, quoting without discount",
				map[string]interface{}{"code": code})
			return breakdown, true, nil
		}
		return pricing.Breakdown{}, false, err
	}
	return breakdown, false, nil
}

// uniqueOrderNumber draws random 6-digit numbers until one is free.
func (s *Service) uniqueOrderNumber(ctx context.Context) (int, error) {
	for i := 0; i < maxNumberAttempts; i++ {
		number := models.GenerateOrderNumber()
		exists, err := s.orders.NumberExists(ctx, number)
		if err != nil {
			return 0, fmt.Errorf("failed to check order number: %w", err)
		}
		if !exists {
			return number, nil
		}
	}
	return 0, fmt.Errorf("failed to generate a unique order number after %d attempts", maxNumberAttempts)
}

// HealthCheck reports whether the order store is reachable.
func (s *Service) HealthCheck(ctx context.Context) bool {
	_, err := s.settings.Get(ctx)
	return err == nil
}
