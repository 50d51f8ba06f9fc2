// Package inmem provides mutex-guarded in-memory implementations of the
// repository contracts. Used as the reference implementation in tests
// and for running the system without external services.
package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"pizzeria/internal/models"
)

// OrderStore is the in-memory OrderRepository.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]models.Order
	logs   map[string][]models.StatusLogEntry
}

// NewOrderStore creates an empty order store.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders: make(map[string]models.Order),
		logs:   make(map[string][]models.StatusLogEntry),
	}
}

func (s *OrderStore) Create(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return fmt.Errorf("order %s already exists", order.ID)
	}
	s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (s *OrderStore) GetByID(_ context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, models.ErrNotFound)
	}
	out := cloneOrder(&order)
	return &out, nil
}

func (s *OrderStore) GetByNumber(_ context.Context, number int) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, order := range s.orders {
		if order.OrderNumber == number {
			out := cloneOrder(&order)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("order %d: %w", number, models.ErrNotFound)
}

func (s *OrderStore) List(_ context.Context, role models.Role, callerID string) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Order
	for _, order := range s.orders {
		if order.VisibleTo(role, callerID) {
			out = append(out, cloneOrder(&order))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *OrderStore) Update(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.ID]; !ok {
		return fmt.Errorf("order %s: %w", order.ID, models.ErrNotFound)
	}
	s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (s *OrderStore) NumberExists(_ context.Context, number int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, order := range s.orders {
		if order.OrderNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (s *OrderStore) AppendStatusLog(_ context.Context, entry models.StatusLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs[entry.OrderID] = append(s.logs[entry.OrderID], entry)
	return nil
}

func (s *OrderStore) History(_ context.Context, orderID string) ([]models.StatusLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.orders[orderID]; !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, models.ErrNotFound)
	}
	entries := make([]models.StatusLogEntry, len(s.logs[orderID]))
	copy(entries, s.logs[orderID])
	return entries, nil
}

// cloneOrder copies the order deeply enough that cart mutations after
// checkout never reach a stored order.
func cloneOrder(o *models.Order) models.Order {
	out := *o
	out.Items = make([]models.CartLine, len(o.Items))
	copy(out.Items, o.Items)
	if o.EstimatedMinutes != nil {
		m := *o.EstimatedMinutes
		out.EstimatedMinutes = &m
	}
	return out
}

// MenuStore is the in-memory MenuRepository.
type MenuStore struct {
	mu          sync.RWMutex
	items       map[string]models.MenuItem
	ingredients map[string]models.Ingredient
}

// NewMenuStore creates an empty menu store.
func NewMenuStore() *MenuStore {
	return &MenuStore{
		items:       make(map[string]models.MenuItem),
		ingredients: make(map[string]models.Ingredient),
	}
}

func (s *MenuStore) ListMenuItems(_ context.Context) ([]models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.MenuItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MenuStore) GetMenuItem(_ context.Context, id string) (*models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("menu item %s: %w", id, models.ErrNotFound)
	}
	return &item, nil
}

func (s *MenuStore) CreateMenuItem(_ context.Context, item *models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[item.ID] = *item
	return nil
}

func (s *MenuStore) UpdateMenuItem(_ context.Context, item *models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[item.ID]; !ok {
		return fmt.Errorf("menu item %s: %w", item.ID, models.ErrNotFound)
	}
	s.items[item.ID] = *item
	return nil
}

func (s *MenuStore) DeleteMenuItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("menu item %s: %w", id, models.ErrNotFound)
	}
	delete(s.items, id)
	return nil
}

func (s *MenuStore) ListIngredients(_ context.Context) ([]models.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Ingredient, 0, len(s.ingredients))
	for _, ing := range s.ingredients {
		out = append(out, ing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MenuStore) GetIngredient(_ context.Context, id string) (*models.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ing, ok := s.ingredients[id]
	if !ok {
		return nil, fmt.Errorf("ingredient %s: %w", id, models.ErrNotFound)
	}
	return &ing, nil
}

func (s *MenuStore) CreateIngredient(_ context.Context, ing *models.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ingredients[ing.ID] = *ing
	return nil
}

func (s *MenuStore) UpdateIngredient(_ context.Context, ing *models.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ingredients[ing.ID]; !ok {
		return fmt.Errorf("ingredient %s: %w", ing.ID, models.ErrNotFound)
	}
	s.ingredients[ing.ID] = *ing
	return nil
}

func (s *MenuStore) DeleteIngredient(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ingredients[id]; !ok {
		return fmt.Errorf("ingredient %s: %w", id, models.ErrNotFound)
	}
	delete(s.ingredients, id)
	return nil
}

// SettingsStore is the in-memory SettingsRepository, seeded with the
// restaurant defaults.
type SettingsStore struct {
	mu       sync.RWMutex
	settings models.Settings
}

// NewSettingsStore creates a settings store with default values.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{
		settings: models.Settings{
			RestaurantName:        "Pizzeria",
			OpeningHours:          "11:00-22:00",
			DeliveryFee:           decimal.NewFromInt(39),
			FreeDeliveryThreshold: decimal.NewFromInt(150),
		},
	}
}

func (s *SettingsStore) Get(_ context.Context) (models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *SettingsStore) Update(_ context.Context, settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}

// AwardStore is the in-memory lucky-wheel award store. Expiry is
// checked on read; Redis handles it with a TTL in production.
type AwardStore struct {
	mu     sync.RWMutex
	awards map[string]models.DiscountAward
	now    func() time.Time
}

// NewAwardStore creates an empty award store.
func NewAwardStore() *AwardStore {
	return &AwardStore{
		awards: make(map[string]models.DiscountAward),
		now:    time.Now,
	}
}

func (s *AwardStore) Put(_ context.Context, sessionID string, award models.DiscountAward) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.awards[sessionID] = award
	return nil
}

func (s *AwardStore) Get(_ context.Context, sessionID string) (*models.DiscountAward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	award, ok := s.awards[sessionID]
	if !ok || award.Expired(s.now()) {
		return nil, nil
	}
	return &award, nil
}

func (s *AwardStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.awards, sessionID)
	return nil
}
