package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzeria/internal/logger"
	"pizzeria/internal/models"
	"pizzeria/internal/pricing"
	"pizzeria/internal/repository/inmem"
	"pizzeria/internal/wheel"
)

func newTestService(t *testing.T) (*Service, *inmem.OrderStore, *inmem.AwardStore) {
	t.Helper()
	orders := inmem.NewOrderStore()
	awards := inmem.NewAwardStore()
	w, err := wheel.New(wheel.DefaultSegments(), pricing.NewDefaultRegistry(), awards)
	require.NoError(t, err)
	svc := NewService(orders, inmem.NewMenuStore(), w, logger.New("tracking-service-test"))
	return svc, orders, awards
}

func seedOrder(t *testing.T, orders *inmem.OrderStore, id string, number int, customerID string) *models.Order {
	t.Helper()
	now := time.Now().UTC()
	order := &models.Order{
		ID:          id,
		OrderNumber: number,
		CustomerID:  customerID,
		Customer:    models.CustomerInfo{Name: "Kari", City: "Oslo"},
		Items: []models.CartLine{{
			ItemID: "item-1", Name: "Margherita",
			UnitPrice: decimal.NewFromInt(89), Size: models.SizeSmall, Quantity: 1,
		}},
		Subtotal:  decimal.NewFromInt(89),
		Total:     decimal.NewFromInt(128),
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, orders.Create(context.Background(), order))
	return order
}

func TestGetOrderStatus(t *testing.T) {
	svc, orders, _ := newTestService(t)
	ctx := context.Background()
	order := seedOrder(t, orders, "order-1", 123456, "cust-1")

	est := 30
	require.NoError(t, order.TransitionTo(models.StatusPreparing, &est))
	require.NoError(t, orders.Update(ctx, order))

	status, err := svc.GetOrderStatus(ctx, 123456)
	require.NoError(t, err)
	assert.Equal(t, 123456, status.OrderNumber)
	assert.Equal(t, models.StatusPreparing, status.Status)
	require.NotNil(t, status.EstimatedMinutes)
	assert.Equal(t, 30, *status.EstimatedMinutes)

	_, err = svc.GetOrderStatus(ctx, 654321)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.GetOrderStatus(ctx, 42)
	assert.True(t, models.IsValidationError(err))
}

func TestGetOrderHistory(t *testing.T) {
	svc, orders, _ := newTestService(t)
	ctx := context.Background()
	seedOrder(t, orders, "order-1", 123456, "cust-1")

	require.NoError(t, orders.AppendStatusLog(ctx, models.StatusLogEntry{
		OrderID: "order-1", From: models.StatusPending, To: models.StatusPreparing,
		ChangedBy: "admin", ChangedAt: time.Now().UTC(),
	}))

	history, err := svc.GetOrderHistory(ctx, 123456)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.StatusPreparing, history[0].To)
}

func TestListMyOrders(t *testing.T) {
	svc, orders, _ := newTestService(t)
	ctx := context.Background()
	seedOrder(t, orders, "order-1", 123456, "cust-1")
	seedOrder(t, orders, "order-2", 234567, "cust-2")
	seedOrder(t, orders, "order-3", 345678, models.GuestCustomerID)

	mine, err := svc.ListMyOrders(ctx, "cust-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "order-1", mine[0].ID)

	// Guests cannot enumerate orders; they track by order number.
	guest, err := svc.ListMyOrders(ctx, models.GuestCustomerID)
	require.NoError(t, err)
	assert.Empty(t, guest)
}

func TestSpinWheelStoresRedeemableAward(t *testing.T) {
	svc, _, awards := newTestService(t)
	ctx := context.Background()

	// Spin until a prize lands; the default wheel pays out 70% of the
	// time, so this terminates fast.
	var won bool
	for i := 0; i < 200 && !won; i++ {
		result, err := svc.SpinWheel(ctx, "sess-1", "req-1")
		require.NoError(t, err)
		won = result.Won
	}
	require.True(t, won)

	award, err := awards.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, award)
	assert.NotEmpty(t, award.Code)

	_, err = svc.SpinWheel(ctx, "", "req-1")
	assert.True(t, models.IsValidationError(err))
}
