// Package postgres implements the repository contracts on PostgreSQL
// through the shared pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pizzeria/internal/database"
	"pizzeria/internal/models"
)

// OrderRepo is the PostgreSQL OrderRepository.
type OrderRepo struct {
	db *database.DB
}

// NewOrderRepo creates an order repository on the shared pool.
func NewOrderRepo(db *database.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create inserts the order and its item snapshot in one transaction.
func (r *OrderRepo) Create(ctx context.Context, order *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, database.InsertOrderSQL,
		order.ID, order.OrderNumber, order.CustomerID,
		order.Customer.Name, order.Customer.Email, order.Customer.Phone,
		order.Customer.Address, order.Customer.City, order.Customer.ZipCode,
		order.Subtotal, order.DeliveryFee, order.DiscountAmount, order.Total,
		order.DiscountCode, order.Status, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i, item := range order.Items {
		_, err = tx.Exec(ctx, database.InsertOrderItemSQL,
			order.ID, i, item.ItemID, item.Name, item.UnitPrice, item.Size, item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetByID returns the order or models.ErrNotFound.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	return r.getOrder(ctx, database.GetOrderByIDSQL, id)
}

// GetByNumber returns the order with the human-facing number.
func (r *OrderRepo) GetByNumber(ctx context.Context, number int) (*models.Order, error) {
	return r.getOrder(ctx, database.GetOrderByNumberSQL, number)
}

func (r *OrderRepo) getOrder(ctx context.Context, sql string, arg interface{}) (*models.Order, error) {
	row := r.db.QueryRow(ctx, sql, arg)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %v: %w", arg, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// List returns the orders visible to the caller, newest first.
func (r *OrderRepo) List(ctx context.Context, role models.Role, callerID string) ([]models.Order, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if role == models.RoleAdmin {
		rows, err = r.db.Query(ctx, database.ListAllOrdersSQL)
	} else {
		rows, err = r.db.Query(ctx, database.ListOrdersByCustomerSQL, callerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// Update persists the mutable order fields after a status transition.
func (r *OrderRepo) Update(ctx context.Context, order *models.Order) error {
	tag, err := r.db.Pool.Exec(ctx, database.UpdateOrderStatusSQL,
		order.Status, order.EstimatedMinutes, order.UpdatedAt, order.ID)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s: %w", order.ID, models.ErrNotFound)
	}
	return nil
}

// NumberExists reports whether an order already carries the number.
func (r *OrderRepo) NumberExists(ctx context.Context, number int) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, database.OrderNumberExistsSQL, number).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check order number: %w", err)
	}
	return exists, nil
}

// AppendStatusLog records one status change.
func (r *OrderRepo) AppendStatusLog(ctx context.Context, entry models.StatusLogEntry) error {
	err := r.db.Exec(ctx, database.InsertStatusLogSQL,
		entry.OrderID, entry.From, entry.To, entry.ChangedBy, entry.ChangedAt)
	if err != nil {
		return fmt.Errorf("failed to insert status log: %w", err)
	}
	return nil
}

// History returns the status log for an order, oldest first.
func (r *OrderRepo) History(ctx context.Context, orderID string) ([]models.StatusLogEntry, error) {
	if _, err := r.GetByID(ctx, orderID); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, database.GetStatusLogSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status log: %w", err)
	}
	defer rows.Close()

	var entries []models.StatusLogEntry
	for rows.Next() {
		var entry models.StatusLogEntry
		if err := rows.Scan(&entry.OrderID, &entry.From, &entry.To, &entry.ChangedBy, &entry.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status log: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *OrderRepo) loadItems(ctx context.Context, order *models.Order) error {
	rows, err := r.db.Query(ctx, database.GetOrderItemsSQL, order.ID)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.CartLine
		if err := rows.Scan(&item.ItemID, &item.Name, &item.UnitPrice, &item.Size, &item.Quantity); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var order models.Order
	err := row.Scan(
		&order.ID, &order.OrderNumber, &order.CustomerID,
		&order.Customer.Name, &order.Customer.Email, &order.Customer.Phone,
		&order.Customer.Address, &order.Customer.City, &order.Customer.ZipCode,
		&order.Subtotal, &order.DeliveryFee, &order.DiscountAmount, &order.Total,
		&order.DiscountCode, &order.Status, &order.EstimatedMinutes,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
