package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingOrder() *Order {
	return &Order{
		ID:          "ord-1",
		OrderNumber: 123456,
		Status:      StatusPending,
		Subtotal:    decimal.NewFromInt(100),
		DeliveryFee: decimal.NewFromInt(39),
		Total:       decimal.NewFromInt(139),
	}
}

func TestOrderLifecycle_HappyPath(t *testing.T) {
	o := pendingOrder()

	path := []OrderStatus{StatusPreparing, StatusReady, StatusDelivering, StatusDelivered}
	for _, next := range path {
		require.NoError(t, o.TransitionTo(next, nil), "transition to %s", next)
		assert.Equal(t, next, o.Status)
	}
	assert.True(t, o.Status.Terminal())
}

func TestOrderLifecycle_EstimatedMinutes(t *testing.T) {
	o := pendingOrder()

	require.NoError(t, o.TransitionTo(StatusPreparing, nil))
	require.NotNil(t, o.EstimatedMinutes)
	assert.Equal(t, 30, *o.EstimatedMinutes)

	require.NoError(t, o.TransitionTo(StatusReady, nil))
	assert.Equal(t, 15, *o.EstimatedMinutes)

	override := 25
	require.NoError(t, o.TransitionTo(StatusDelivering, &override))
	assert.Equal(t, 25, *o.EstimatedMinutes)
}

func TestOrderLifecycle_CancelOnlyFromPending(t *testing.T) {
	o := pendingOrder()
	require.NoError(t, o.TransitionTo(StatusCancelled, nil))
	assert.Equal(t, StatusCancelled, o.Status)

	o = pendingOrder()
	require.NoError(t, o.TransitionTo(StatusPreparing, nil))
	err := o.TransitionTo(StatusCancelled, nil)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusPreparing, o.Status, "failed transition must not change state")
}

func TestOrderLifecycle_NoSkipping(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{StatusPending, StatusReady},
		{StatusPending, StatusDelivering},
		{StatusPending, StatusDelivered},
		{StatusPreparing, StatusDelivering},
		{StatusPreparing, StatusDelivered},
		{StatusReady, StatusDelivered},
		{StatusReady, StatusPreparing}, // no going back either
		{StatusDelivering, StatusPending},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			o := pendingOrder()
			o.Status = tt.from
			err := o.TransitionTo(tt.to, nil)
			require.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tt.from, o.Status)
		})
	}
}

func TestOrderLifecycle_TerminalStates(t *testing.T) {
	for _, terminal := range []OrderStatus{StatusDelivered, StatusCancelled} {
		o := pendingOrder()
		o.Status = terminal

		for _, next := range []OrderStatus{StatusPending, StatusPreparing, StatusReady, StatusDelivering, StatusDelivered, StatusCancelled} {
			err := o.TransitionTo(next, nil)
			require.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", terminal, next)
			assert.Equal(t, terminal, o.Status)
		}
	}
}

func TestOrderLifecycle_UnknownStatus(t *testing.T) {
	o := pendingOrder()
	err := o.TransitionTo(OrderStatus("parbaked"), nil)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusPending, o.Status)
}

func TestGenerateOrderNumber_Range(t *testing.T) {
	for i := 0; i < 1000; i++ {
		n := GenerateOrderNumber()
		require.True(t, ValidOrderNumber(n), "order number %d out of range", n)
	}
}

func TestOrderVisibility(t *testing.T) {
	own := &Order{ID: "a", CustomerID: "cust-1"}
	other := &Order{ID: "b", CustomerID: "cust-2"}
	guest := &Order{ID: "c", CustomerID: GuestCustomerID}

	assert.True(t, own.VisibleTo(RoleAdmin, ""))
	assert.True(t, other.VisibleTo(RoleAdmin, "cust-1"))

	assert.True(t, own.VisibleTo(RoleCustomer, "cust-1"))
	assert.False(t, other.VisibleTo(RoleCustomer, "cust-1"))
	assert.True(t, guest.VisibleTo(RoleCustomer, GuestCustomerID))
}

func TestCustomerInfoValidate(t *testing.T) {
	valid := CustomerInfo{
		Name:    "Ola Nordmann",
		Email:   "ola@example.com",
		Phone:   "+47 912 34 567",
		Address: "Storgata 1",
		City:    "Oslo",
		ZipCode: "0155",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*CustomerInfo)
		field  string
	}{
		{"empty name", func(c *CustomerInfo) { c.Name = "  " }, "name"},
		{"bad email", func(c *CustomerInfo) { c.Email = "not-an-email" }, "email"},
		{"bad phone", func(c *CustomerInfo) { c.Phone = "abc" }, "phone"},
		{"empty address", func(c *CustomerInfo) { c.Address = "" }, "address"},
		{"empty city", func(c *CustomerInfo) { c.City = "" }, "city"},
		{"bad zip", func(c *CustomerInfo) { c.ZipCode = "12" }, "zip_code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidateCartLines(t *testing.T) {
	valid := []CartLine{{
		ItemID:    "itm-1",
		Name:      "Margherita",
		UnitPrice: decimal.NewFromInt(89),
		Size:      SizeMedium,
		Quantity:  1,
	}}
	require.NoError(t, ValidateCartLines(valid))

	tests := []struct {
		name   string
		mutate func([]CartLine)
	}{
		{"zero quantity", func(l []CartLine) { l[0].Quantity = 0 }},
		{"negative quantity", func(l []CartLine) { l[0].Quantity = -1 }},
		{"negative price", func(l []CartLine) { l[0].UnitPrice = decimal.NewFromInt(-1) }},
		{"unknown size", func(l []CartLine) { l[0].Size = "family" }},
		{"missing item id", func(l []CartLine) { l[0].ItemID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := make([]CartLine, len(valid))
			copy(lines, valid)
			tt.mutate(lines)
			err := ValidateCartLines(lines)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
		})
	}

	require.Error(t, ValidateCartLines(nil))
}
