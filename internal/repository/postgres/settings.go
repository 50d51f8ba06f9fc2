package postgres

import (
	"context"
	"fmt"

	"pizzeria/internal/database"
	"pizzeria/internal/models"
)

// SettingsRepo is the PostgreSQL SettingsRepository. The settings table
// holds a single row, seeded from configuration on first start.
type SettingsRepo struct {
	db *database.DB
}

// NewSettingsRepo creates a settings repository on the shared pool.
func NewSettingsRepo(db *database.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Seed inserts the initial settings row if none exists yet. Settings
// already changed by the admin are left untouched.
func (r *SettingsRepo) Seed(ctx context.Context, s models.Settings) error {
	err := r.db.Exec(ctx, database.SeedSettingsSQL,
		s.RestaurantName, s.Phone, s.Address, s.OpeningHours,
		s.DeliveryFee, s.FreeDeliveryThreshold,
	)
	if err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}
	return nil
}

func (r *SettingsRepo) Get(ctx context.Context) (models.Settings, error) {
	var s models.Settings
	err := r.db.QueryRow(ctx, database.GetSettingsSQL).Scan(
		&s.RestaurantName, &s.Phone, &s.Address, &s.OpeningHours,
		&s.DeliveryFee, &s.FreeDeliveryThreshold,
	)
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to query settings: %w", err)
	}
	return s, nil
}

func (r *SettingsRepo) Update(ctx context.Context, s models.Settings) error {
	err := r.db.Exec(ctx, database.UpdateSettingsSQL,
		s.RestaurantName, s.Phone, s.Address, s.OpeningHours,
		s.DeliveryFee, s.FreeDeliveryThreshold,
	)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}
