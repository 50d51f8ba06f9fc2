package models

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Size represents the chosen pizza size for a cart line.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

var sizeMultipliers = map[Size]decimal.Decimal{
	SizeSmall:  decimal.NewFromInt(1),
	SizeMedium: decimal.RequireFromString("1.15"),
	SizeLarge:  decimal.RequireFromString("1.3"),
}

// Valid reports whether the size is one of the known sizes.
func (s Size) Valid() bool {
	_, ok := sizeMultipliers[s]
	return ok
}

// Multiplier returns the price factor for the size. Unknown sizes
// fall back to the small multiplier; callers validate first.
func (s Size) Multiplier() decimal.Decimal {
	if m, ok := sizeMultipliers[s]; ok {
		return m
	}
	return sizeMultipliers[SizeSmall]
}

// OrderStatus represents the status of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusPreparing  OrderStatus = "preparing"
	StatusReady      OrderStatus = "ready"
	StatusDelivering OrderStatus = "delivering"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// happyPath maps each status to its single legal successor. Cancellation
// is handled separately since it is only reachable from pending.
var happyPath = map[OrderStatus]OrderStatus{
	StatusPending:    StatusPreparing,
	StatusPreparing:  StatusReady,
	StatusReady:      StatusDelivering,
	StatusDelivering: StatusDelivered,
}

// defaultEstimatedMinutes holds the minutes set when an order enters a
// status, unless the caller supplies an override.
var defaultEstimatedMinutes = map[OrderStatus]int{
	StatusPreparing:  30,
	StatusReady:      15,
	StatusDelivering: 10,
}

// Valid reports whether the status is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusDelivering, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status has no outbound transitions.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether next is reachable from s in a single
// step. Skipping states is never allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == StatusPending && next == StatusCancelled {
		return true
	}
	return happyPath[s] == next
}

// Next returns the single legal successor on the happy path, if any.
func (s OrderStatus) Next() (OrderStatus, bool) {
	next, ok := happyPath[s]
	return next, ok
}

// Role represents the capability of a caller.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// GuestCustomerID marks orders placed without an account.
const GuestCustomerID = "guest"

// CartLine is one priced, sized, quantified entry snapshotted into an
// order at checkout. The pricing calculator treats lines as read-only.
type CartLine struct {
	ItemID    string          `json:"item_id" db:"item_id"`
	Name      string          `json:"name" db:"name"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
	Size      Size            `json:"size" db:"size"`
	Quantity  int             `json:"quantity" db:"quantity"`
}

// LineTotal returns unit price x size multiplier x quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(l.Size.Multiplier()).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CustomerInfo is captured at checkout and immutable thereafter.
type CustomerInfo struct {
	Name    string `json:"name" db:"customer_name"`
	Email   string `json:"email" db:"customer_email"`
	Phone   string `json:"phone" db:"customer_phone"`
	Address string `json:"address" db:"customer_address"`
	City    string `json:"city" db:"customer_city"`
	ZipCode string `json:"zip_code" db:"customer_zip"`
}

// Order represents a placed purchase. Amounts are computed once at
// checkout and stored immutably; only Status, EstimatedMinutes and
// UpdatedAt change afterwards.
type Order struct {
	ID               string          `json:"id" db:"id"`
	OrderNumber      int             `json:"order_number" db:"order_number"`
	CustomerID       string          `json:"customer_id,omitempty" db:"customer_id"`
	Customer         CustomerInfo    `json:"customer"`
	Items            []CartLine      `json:"items"`
	Subtotal         decimal.Decimal `json:"subtotal" db:"subtotal"`
	DeliveryFee      decimal.Decimal `json:"delivery_fee" db:"delivery_fee"`
	DiscountAmount   decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	Total            decimal.Decimal `json:"total" db:"total"`
	DiscountCode     string          `json:"discount_code,omitempty" db:"discount_code"`
	Status           OrderStatus     `json:"status" db:"status"`
	EstimatedMinutes *int            `json:"estimated_minutes,omitempty" db:"estimated_minutes"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// TransitionTo moves the order to next, enforcing the lifecycle table.
// estimated overrides the default minutes for statuses that carry one.
// On failure the order is left unchanged.
func (o *Order) TransitionTo(next OrderStatus, estimated *int) error {
	if !next.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}
	if !o.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}

	o.Status = next
	o.UpdatedAt = time.Now().UTC()

	if estimated != nil {
		o.EstimatedMinutes = estimated
	} else if minutes, ok := defaultEstimatedMinutes[next]; ok {
		o.EstimatedMinutes = &minutes
	}

	return nil
}

// VisibleTo reports whether a caller may read this order. Admins see
// everything; customers only their own orders, guests the guest marker.
func (o *Order) VisibleTo(role Role, callerID string) bool {
	if role == RoleAdmin {
		return true
	}
	return o.CustomerID != "" && o.CustomerID == callerID
}

// StatusLogEntry records one status change for tracking history.
type StatusLogEntry struct {
	OrderID   string      `json:"order_id" db:"order_id"`
	From      OrderStatus `json:"from" db:"from_status"`
	To        OrderStatus `json:"to" db:"to_status"`
	ChangedBy string      `json:"changed_by" db:"changed_by"`
	ChangedAt time.Time   `json:"changed_at" db:"changed_at"`
}

const (
	orderNumberMin = 100000
	orderNumberMax = 999999
)

// GenerateOrderNumber returns a random human-facing 6-digit order
// number. Uniqueness is enforced by the caller against the repository.
func GenerateOrderNumber() int {
	return orderNumberMin + rand.Intn(orderNumberMax-orderNumberMin+1)
}

// ValidOrderNumber reports whether n is in the 6-digit range.
func ValidOrderNumber(n int) bool {
	return n >= orderNumberMin && n <= orderNumberMax
}

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9 \-]{8,15}$`)
	zipPattern   = regexp.MustCompile(`^[0-9]{4,5}$`)
)

// Validate checks the required checkout fields.
func (c CustomerInfo) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("name", "is required")
	}
	if !emailPattern.MatchString(c.Email) {
		return NewValidationError("email", "is not a valid email address")
	}
	if !phonePattern.MatchString(c.Phone) {
		return NewValidationError("phone", "is not a valid phone number")
	}
	if strings.TrimSpace(c.Address) == "" {
		return NewValidationError("address", "is required")
	}
	if strings.TrimSpace(c.City) == "" {
		return NewValidationError("city", "is required")
	}
	if !zipPattern.MatchString(c.ZipCode) {
		return NewValidationError("zip_code", "must be a 4 or 5 digit code")
	}
	return nil
}

// ValidateCartLines checks every line before pricing. A quantity below
// one is rejected rather than treated as a no-op.
func ValidateCartLines(lines []CartLine) error {
	if len(lines) == 0 {
		return NewValidationError("items", "cart cannot be empty")
	}
	for i, line := range lines {
		prefix := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(line.ItemID) == "" {
			return NewValidationError(prefix+".item_id", "is required")
		}
		if line.Quantity < 1 {
			return NewValidationError(prefix+".quantity", "must be at least 1")
		}
		if line.UnitPrice.IsNegative() {
			return NewValidationError(prefix+".unit_price", "must not be negative")
		}
		if !line.Size.Valid() {
			return NewValidationError(prefix+".size", "must be one of: small, medium, large")
		}
	}
	return nil
}
