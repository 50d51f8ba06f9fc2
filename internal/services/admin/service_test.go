package admin

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzeria/internal/logger"
	"pizzeria/internal/models"
	"pizzeria/internal/repository/inmem"
)

type capturingPublisher struct {
	messages []*models.StatusUpdateMessage
}

func (p *capturingPublisher) PublishStatusUpdate(_ context.Context, msg *models.StatusUpdateMessage) error {
	p.messages = append(p.messages, msg)
	return nil
}

func seedOrder(t *testing.T, orders *inmem.OrderStore, status models.OrderStatus) *models.Order {
	t.Helper()
	now := time.Now().UTC()
	order := &models.Order{
		ID:          "order-1",
		OrderNumber: 123456,
		CustomerID:  models.GuestCustomerID,
		Customer:    models.CustomerInfo{Name: "Kari", City: "Oslo"},
		Items: []models.CartLine{{
			ItemID: "item-1", Name: "Margherita",
			UnitPrice: decimal.NewFromInt(89), Size: models.SizeMedium, Quantity: 1,
		}},
		Subtotal:  decimal.RequireFromString("102.35"),
		Total:     decimal.RequireFromString("141.35"),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, orders.Create(context.Background(), order))
	return order
}

func newTestService(t *testing.T) (*Service, *inmem.OrderStore, *capturingPublisher) {
	t.Helper()
	orders := inmem.NewOrderStore()
	pub := &capturingPublisher{}
	svc := NewService(orders, inmem.NewMenuStore(), inmem.NewSettingsStore(), pub, logger.New("admin-service-test"))
	return svc, orders, pub
}

func TestTransitionAdvancesAndLogs(t *testing.T) {
	svc, orders, pub := newTestService(t)
	ctx := context.Background()
	seedOrder(t, orders, models.StatusPending)

	order, err := svc.Transition(ctx, models.RoleAdmin, &TransitionRequest{
		OrderID:   "order-1",
		NewStatus: models.StatusPreparing,
		ChangedBy: "chef_mario",
	}, "req-1")
	require.NoError(t, err)

	assert.Equal(t, models.StatusPreparing, order.Status)
	require.NotNil(t, order.EstimatedMinutes)
	assert.Equal(t, 30, *order.EstimatedMinutes)

	stored, err := orders.GetByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, stored.Status)

	history, err := orders.History(ctx, "order-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.StatusPending, history[0].From)
	assert.Equal(t, models.StatusPreparing, history[0].To)
	assert.Equal(t, "chef_mario", history[0].ChangedBy)

	require.Len(t, pub.messages, 1)
	assert.Equal(t, 123456, pub.messages[0].OrderNumber)
	assert.Equal(t, models.StatusPreparing, pub.messages[0].NewStatus)
}

func TestTransitionRejectsSkipsAndCancels(t *testing.T) {
	svc, orders, _ := newTestService(t)
	ctx := context.Background()
	seedOrder(t, orders, models.StatusPending)

	_, err := svc.Transition(ctx, models.RoleAdmin, &TransitionRequest{
		OrderID:   "order-1",
		NewStatus: models.StatusReady,
	}, "req-1")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	// The failed attempt leaves the order unchanged and unlogged.
	stored, err := orders.GetByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	history, err := orders.History(ctx, "order-1")
	require.NoError(t, err)
	assert.Empty(t, history)

	// Cancelling from pending is allowed.
	_, err = svc.Transition(ctx, models.RoleAdmin, &TransitionRequest{
		OrderID:   "order-1",
		NewStatus: models.StatusCancelled,
	}, "req-1")
	require.NoError(t, err)

	// But nothing moves out of a terminal state.
	_, err = svc.Transition(ctx, models.RoleAdmin, &TransitionRequest{
		OrderID:   "order-1",
		NewStatus: models.StatusPreparing,
	}, "req-1")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestTransitionRequiresAdmin(t *testing.T) {
	svc, orders, _ := newTestService(t)
	seedOrder(t, orders, models.StatusPending)

	_, err := svc.Transition(context.Background(), models.RoleCustomer, &TransitionRequest{
		OrderID:   "order-1",
		NewStatus: models.StatusPreparing,
	}, "req-1")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestTransitionEstimatedMinutesOverride(t *testing.T) {
	svc, orders, _ := newTestService(t)
	seedOrder(t, orders, models.StatusPending)

	override := 45
	order, err := svc.Transition(context.Background(), models.RoleAdmin, &TransitionRequest{
		OrderID:          "order-1",
		NewStatus:        models.StatusPreparing,
		EstimatedMinutes: &override,
	}, "req-1")
	require.NoError(t, err)
	require.NotNil(t, order.EstimatedMinutes)
	assert.Equal(t, 45, *order.EstimatedMinutes)
}

func TestTransitionUnknownOrder(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Transition(context.Background(), models.RoleAdmin, &TransitionRequest{
		OrderID:   "missing",
		NewStatus: models.StatusPreparing,
	}, "req-1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMenuCRUD(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	item := &models.MenuItem{
		Name:      "Quattro Formaggi",
		Category:  models.CategoryPizza,
		BasePrice: decimal.NewFromInt(119),
		Available: true,
	}
	require.NoError(t, svc.CreateMenuItem(ctx, models.RoleAdmin, item))
	assert.NotEmpty(t, item.ID)

	item.BasePrice = decimal.NewFromInt(129)
	require.NoError(t, svc.UpdateMenuItem(ctx, models.RoleAdmin, item))
	require.NoError(t, svc.DeleteMenuItem(ctx, models.RoleAdmin, item.ID))

	err := svc.CreateMenuItem(ctx, models.RoleAdmin, &models.MenuItem{Name: "", Category: models.CategoryPizza})
	assert.True(t, models.IsValidationError(err))

	err = svc.CreateMenuItem(ctx, models.RoleCustomer, &models.MenuItem{
		Name: "Nope", Category: models.CategoryPizza,
	})
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestIngredientCRUD(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	ing := &models.Ingredient{
		Name:      "Jalapeno",
		Category:  models.IngredientVegetable,
		Price:     decimal.NewFromInt(8),
		Available: true,
	}
	require.NoError(t, svc.CreateIngredient(ctx, models.RoleAdmin, ing))
	assert.NotEmpty(t, ing.ID)

	ing.Available = false
	require.NoError(t, svc.UpdateIngredient(ctx, models.RoleAdmin, ing))
	require.NoError(t, svc.DeleteIngredient(ctx, models.RoleAdmin, ing.ID))

	err := svc.CreateIngredient(ctx, models.RoleAdmin, &models.Ingredient{Name: "Bad", Category: "plastic"})
	assert.True(t, models.IsValidationError(err))
}

func TestSettingsUpdateAffectsOnlyFutureQuotes(t *testing.T) {
	svc, orders, _ := newTestService(t)
	ctx := context.Background()
	order := seedOrder(t, orders, models.StatusPending)

	settings, err := svc.GetSettings(ctx, models.RoleAdmin)
	require.NoError(t, err)

	settings.DeliveryFee = decimal.NewFromInt(49)
	require.NoError(t, svc.UpdateSettings(ctx, models.RoleAdmin, settings))

	updated, err := svc.GetSettings(ctx, models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, updated.DeliveryFee.Equal(decimal.NewFromInt(49)))

	// The stored order keeps the amounts computed at checkout time.
	stored, err := orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, stored.Total.Equal(decimal.RequireFromString("141.35")))

	settings.DeliveryFee = decimal.NewFromInt(-1)
	err = svc.UpdateSettings(ctx, models.RoleAdmin, settings)
	assert.True(t, models.IsValidationError(err))
}
