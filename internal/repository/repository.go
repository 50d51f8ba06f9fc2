// Package repository defines the storage contracts the core logic is
// written against. The order lifecycle and pricing code never touch a
// storage mechanism directly; implementations live in the inmem,
// postgres and redisstore subpackages.
package repository

import (
	"context"

	"pizzeria/internal/models"
)

// OrderRepository stores placed orders. Orders are never deleted:
// cancellation is a terminal status, not a removal.
type OrderRepository interface {
	// Create persists a new order keyed by its id.
	Create(ctx context.Context, order *models.Order) error
	// GetByID returns the order or models.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// GetByNumber returns the order with the human-facing number or
	// models.ErrNotFound.
	GetByNumber(ctx context.Context, number int) (*models.Order, error)
	// List returns the orders visible to the caller, newest first.
	// Admins see all orders, customers only their own.
	List(ctx context.Context, role models.Role, callerID string) ([]models.Order, error)
	// Update persists status, estimated minutes and updated-at after a
	// transition.
	Update(ctx context.Context, order *models.Order) error
	// NumberExists reports whether an order already carries the number.
	NumberExists(ctx context.Context, number int) (bool, error)
	// AppendStatusLog records one status change.
	AppendStatusLog(ctx context.Context, entry models.StatusLogEntry) error
	// History returns the status log for an order, oldest first.
	History(ctx context.Context, orderID string) ([]models.StatusLogEntry, error)
}

// MenuRepository stores menu items and builder ingredients.
type MenuRepository interface {
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	UpdateMenuItem(ctx context.Context, item *models.MenuItem) error
	DeleteMenuItem(ctx context.Context, id string) error

	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id string) (*models.Ingredient, error)
	CreateIngredient(ctx context.Context, ing *models.Ingredient) error
	UpdateIngredient(ctx context.Context, ing *models.Ingredient) error
	DeleteIngredient(ctx context.Context, id string) error
}

// SettingsRepository stores the restaurant settings the admin can edit.
type SettingsRepository interface {
	Get(ctx context.Context) (models.Settings, error)
	Update(ctx context.Context, settings models.Settings) error
}

// AwardStore keeps lucky-wheel discount awards for 24 hours per
// spinning session. Get returns nil when no live award exists.
type AwardStore interface {
	Put(ctx context.Context, sessionID string, award models.DiscountAward) error
	Get(ctx context.Context, sessionID string) (*models.DiscountAward, error)
	Delete(ctx context.Context, sessionID string) error
}
