package database

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (id, order_number, customer_id, customer_name, customer_email,
			customer_phone, customer_address, customer_city, customer_zip,
			subtotal, delivery_fee, discount_amount, total, discount_code,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, position, item_id, name, unit_price, size, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	selectOrderColumns = `
		SELECT id, order_number, customer_id, customer_name, customer_email,
			   customer_phone, customer_address, customer_city, customer_zip,
			   subtotal, delivery_fee, discount_amount, total, discount_code,
			   status, estimated_minutes, created_at, updated_at
		FROM orders`

	GetOrderByIDSQL     = selectOrderColumns + ` WHERE id = $1`
	GetOrderByNumberSQL = selectOrderColumns + ` WHERE order_number = $1`
	ListAllOrdersSQL    = selectOrderColumns + ` ORDER BY created_at DESC`
	ListOrdersByCustomerSQL = selectOrderColumns + ` WHERE customer_id = $1 ORDER BY created_at DESC`

	GetOrderItemsSQL = `
		SELECT item_id, name, unit_price, size, quantity
		FROM order_items WHERE order_id = $1 ORDER BY position ASC`

	UpdateOrderStatusSQL = `
		UPDATE orders SET status = $1, estimated_minutes = $2, updated_at = $3
		WHERE id = $4`

	OrderNumberExistsSQL = `
		SELECT EXISTS(SELECT 1 FROM orders WHERE order_number = $1)`

	InsertStatusLogSQL = `
		INSERT INTO order_status_log (order_id, from_status, to_status, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5)`

	GetStatusLogSQL = `
		SELECT order_id, from_status, to_status, changed_by, changed_at
		FROM order_status_log WHERE order_id = $1 ORDER BY changed_at ASC`
)

// Menu queries
const (
	ListMenuItemsSQL = `
		SELECT id, name, description, category, base_price, ingredients, available, created_at
		FROM menu_items ORDER BY name ASC`

	GetMenuItemSQL = `
		SELECT id, name, description, category, base_price, ingredients, available, created_at
		FROM menu_items WHERE id = $1`

	InsertMenuItemSQL = `
		INSERT INTO menu_items (id, name, description, category, base_price, ingredients, available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	UpdateMenuItemSQL = `
		UPDATE menu_items
		SET name = $2, description = $3, category = $4, base_price = $5, ingredients = $6, available = $7
		WHERE id = $1`

	DeleteMenuItemSQL = `DELETE FROM menu_items WHERE id = $1`

	ListIngredientsSQL = `
		SELECT id, name, category, price, available
		FROM ingredients ORDER BY name ASC`

	GetIngredientSQL = `
		SELECT id, name, category, price, available
		FROM ingredients WHERE id = $1`

	InsertIngredientSQL = `
		INSERT INTO ingredients (id, name, category, price, available)
		VALUES ($1, $2, $3, $4, $5)`

	UpdateIngredientSQL = `
		UPDATE ingredients SET name = $2, category = $3, price = $4, available = $5
		WHERE id = $1`

	DeleteIngredientSQL = `DELETE FROM ingredients WHERE id = $1`
)

// Settings queries; the settings table holds a single row.
const (
	SeedSettingsSQL = `
		INSERT INTO settings (id, restaurant_name, phone, address, opening_hours,
			delivery_fee, free_delivery_threshold)
		VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`

	GetSettingsSQL = `
		SELECT restaurant_name, phone, address, opening_hours, delivery_fee, free_delivery_threshold
		FROM settings WHERE id = 1`

	UpdateSettingsSQL = `
		UPDATE settings
		SET restaurant_name = $1, phone = $2, address = $3, opening_hours = $4,
			delivery_fee = $5, free_delivery_threshold = $6
		WHERE id = 1`
)
