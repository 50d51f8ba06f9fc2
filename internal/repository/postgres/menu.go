package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pizzeria/internal/database"
	"pizzeria/internal/models"
)

// MenuRepo is the PostgreSQL MenuRepository.
type MenuRepo struct {
	db *database.DB
}

// NewMenuRepo creates a menu repository on the shared pool.
func NewMenuRepo(db *database.DB) *MenuRepo {
	return &MenuRepo{db: db}
}

func (r *MenuRepo) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := r.db.Query(ctx, database.ListMenuItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *MenuRepo) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	item, err := scanMenuItem(r.db.QueryRow(ctx, database.GetMenuItemSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("menu item %s: %w", id, models.ErrNotFound)
		}
		return nil, err
	}
	return item, nil
}

func (r *MenuRepo) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	err := r.db.Exec(ctx, database.InsertMenuItemSQL,
		item.ID, item.Name, item.Description, item.Category,
		item.BasePrice, item.Ingredients, item.Available, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

func (r *MenuRepo) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	tag, err := r.db.Pool.Exec(ctx, database.UpdateMenuItemSQL,
		item.ID, item.Name, item.Description, item.Category,
		item.BasePrice, item.Ingredients, item.Available)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("menu item %s: %w", item.ID, models.ErrNotFound)
	}
	return nil
}

func (r *MenuRepo) DeleteMenuItem(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, database.DeleteMenuItemSQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("menu item %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *MenuRepo) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	rows, err := r.db.Query(ctx, database.ListIngredientsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []models.Ingredient
	for rows.Next() {
		var ing models.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Category, &ing.Price, &ing.Available); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}

func (r *MenuRepo) GetIngredient(ctx context.Context, id string) (*models.Ingredient, error) {
	var ing models.Ingredient
	err := r.db.QueryRow(ctx, database.GetIngredientSQL, id).
		Scan(&ing.ID, &ing.Name, &ing.Category, &ing.Price, &ing.Available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ingredient %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query ingredient: %w", err)
	}
	return &ing, nil
}

func (r *MenuRepo) CreateIngredient(ctx context.Context, ing *models.Ingredient) error {
	err := r.db.Exec(ctx, database.InsertIngredientSQL,
		ing.ID, ing.Name, ing.Category, ing.Price, ing.Available)
	if err != nil {
		return fmt.Errorf("failed to insert ingredient: %w", err)
	}
	return nil
}

func (r *MenuRepo) UpdateIngredient(ctx context.Context, ing *models.Ingredient) error {
	tag, err := r.db.Pool.Exec(ctx, database.UpdateIngredientSQL,
		ing.ID, ing.Name, ing.Category, ing.Price, ing.Available)
	if err != nil {
		return fmt.Errorf("failed to update ingredient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ingredient %s: %w", ing.ID, models.ErrNotFound)
	}
	return nil
}

func (r *MenuRepo) DeleteIngredient(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, database.DeleteIngredientSQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ingredient %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func scanMenuItem(row pgx.Row) (*models.MenuItem, error) {
	var item models.MenuItem
	err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Category,
		&item.BasePrice, &item.Ingredients, &item.Available, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
