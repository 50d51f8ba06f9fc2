package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MenuCategory groups menu items on the menu page.
type MenuCategory string

const (
	CategoryPizza   MenuCategory = "pizza"
	CategorySide    MenuCategory = "side"
	CategoryDrink   MenuCategory = "drink"
	CategoryDessert MenuCategory = "dessert"
)

// MenuItem is one orderable product on the menu.
type MenuItem struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Category    MenuCategory    `json:"category" db:"category"`
	BasePrice   decimal.Decimal `json:"base_price" db:"base_price"`
	Ingredients []string        `json:"ingredients,omitempty"`
	Available   bool            `json:"available" db:"available"`
	CreatedAt   time.Time       `json:"created_at,omitempty" db:"created_at"`
}

// IngredientCategory groups ingredients in the pizza builder.
type IngredientCategory string

const (
	IngredientCheese    IngredientCategory = "cheese"
	IngredientMeat      IngredientCategory = "meat"
	IngredientVegetable IngredientCategory = "vegetable"
	IngredientSauce     IngredientCategory = "sauce"
)

// Ingredient is a pizza-builder topping with its own price.
type Ingredient struct {
	ID        string             `json:"id" db:"id"`
	Name      string             `json:"name" db:"name"`
	Category  IngredientCategory `json:"category" db:"category"`
	Price     decimal.Decimal    `json:"price" db:"price"`
	Available bool               `json:"available" db:"available"`
}

// Settings holds the restaurant configuration the admin can change at
// runtime. DeliveryFee and FreeDeliveryThreshold feed the pricing
// calculator.
type Settings struct {
	RestaurantName        string          `json:"restaurant_name" db:"restaurant_name"`
	Phone                 string          `json:"phone" db:"phone"`
	Address               string          `json:"address" db:"address"`
	OpeningHours          string          `json:"opening_hours" db:"opening_hours"`
	DeliveryFee           decimal.Decimal `json:"delivery_fee" db:"delivery_fee"`
	FreeDeliveryThreshold decimal.Decimal `json:"free_delivery_threshold" db:"free_delivery_threshold"`
}

// Validate checks a menu item before it is created or updated.
func (m MenuItem) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return NewValidationError("name", "is required")
	}
	switch m.Category {
	case CategoryPizza, CategorySide, CategoryDrink, CategoryDessert:
	default:
		return NewValidationError("category", "must be one of: pizza, side, drink, dessert")
	}
	if m.BasePrice.IsNegative() {
		return NewValidationError("base_price", "must not be negative")
	}
	return nil
}

// Validate checks an ingredient before it is created or updated.
func (i Ingredient) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return NewValidationError("name", "is required")
	}
	switch i.Category {
	case IngredientCheese, IngredientMeat, IngredientVegetable, IngredientSauce:
	default:
		return NewValidationError("category", "must be one of: cheese, meat, vegetable, sauce")
	}
	if i.Price.IsNegative() {
		return NewValidationError("price", "must not be negative")
	}
	return nil
}

// Validate checks restaurant settings before they are saved.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.RestaurantName) == "" {
		return NewValidationError("restaurant_name", "is required")
	}
	if s.DeliveryFee.IsNegative() {
		return NewValidationError("delivery_fee", "must not be negative")
	}
	if s.FreeDeliveryThreshold.IsNegative() {
		return NewValidationError("free_delivery_threshold", "must not be negative")
	}
	return nil
}
