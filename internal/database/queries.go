package database

// Menu item queries
const (
	InsertMenuItemSQL = `
		INSERT INTO menu_items (name, category, price, description, image_url, is_available, is_best, is_veg, is_spicy)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	UpdateMenuItemSQL = `
		UPDATE menu_items
		SET name = $1, category = $2, price = $3, description = $4, image_url = $5,
		    is_available = $6, is_best = $7, is_veg = $8, is_spicy = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING created_at, updated_at`

	DeleteMenuItemSQL = `DELETE FROM menu_items WHERE id = $1`

	GetMenuItemSQL = `
		SELECT id, name, category, price, description, image_url,
		       is_available, is_best, is_veg, is_spicy, created_at, updated_at
		FROM menu_items WHERE id = $1`

	ListMenuItemsSQL = `
		SELECT id, name, category, price, description, image_url,
		       is_available, is_best, is_veg, is_spicy, created_at, updated_at
		FROM menu_items
		WHERE ($1 = '' OR category = $1)
		  AND (NOT $2 OR is_available)
		ORDER BY category, name`

	ListMenuCategoriesSQL = `SELECT DISTINCT category FROM menu_items ORDER BY category`
)

// Table queries
const (
	InsertTableSQL = `
		INSERT INTO tables (name, table_code, seats)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	UpdateTableSQL = `
		UPDATE tables SET name = $1, table_code = $2, seats = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING created_at, updated_at`

	DeleteTableSQL = `DELETE FROM tables WHERE id = $1`

	GetTableSQL = `
		SELECT id, name, table_code, seats, created_at, updated_at
		FROM tables WHERE id = $1`

	GetTableByCodeSQL = `
		SELECT id, name, table_code, seats, created_at, updated_at
		FROM tables WHERE table_code = $1`

	ListTablesSQL = `
		SELECT id, name, table_code, seats, created_at, updated_at
		FROM tables ORDER BY name`

	CountTableCodeSQL = `SELECT COUNT(*) FROM tables WHERE table_code = $1 AND id <> $2`
)

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (table_code, order_type, number_of_people, buyer_name, buyer_email,
		                    buyer_note, order_date, subtotal, discount, order_total, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, menu_item_id, name, image_url, price, quantity, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	InsertOrderStatusLogSQL = `
		INSERT INTO order_status_log (order_id, status, changed_by, notes)
		VALUES ($1, $2, $3, $4)`

	GetOrderSQL = `
		SELECT id, table_code, order_type, number_of_people, buyer_name, buyer_email,
		       buyer_note, order_date, subtotal, discount, order_total, status, created_at, updated_at
		FROM orders WHERE id = $1`

	GetOrderForUpdateSQL = `
		SELECT status FROM orders WHERE id = $1 FOR UPDATE`

	UpdateOrderStatusSQL = `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`

	ListOrderItemsSQL = `
		SELECT id, menu_item_id, name, image_url, price, quantity, note
		FROM order_items WHERE order_id = $1 ORDER BY id`

	ListOrdersSQL = `
		SELECT id, table_code, order_type, number_of_people, buyer_name, buyer_email,
		       buyer_note, order_date, subtotal, discount, order_total, status, created_at, updated_at
		FROM orders
		WHERE ($1 = '' OR table_code = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY order_date DESC, id DESC
		LIMIT $3 OFFSET $4`

	CountOrdersSQL = `
		SELECT COUNT(*) FROM orders
		WHERE ($1 = '' OR table_code = $1)
		  AND ($2 = '' OR status = $2)`

	ListOrdersByTableCodeSQL = `
		SELECT id, table_code, order_type, number_of_people, buyer_name, buyer_email,
		       buyer_note, order_date, subtotal, discount, order_total, status, created_at, updated_at
		FROM orders WHERE table_code = $1
		ORDER BY order_date DESC, id DESC`

	ListActiveOrdersForUpdateSQL = `
		SELECT id, subtotal, discount, order_total
		FROM orders
		WHERE table_code = $1 AND status NOT IN ('Paid', 'Cancelled')
		ORDER BY id
		FOR UPDATE`

	GetOrderStatusHistorySQL = `
		SELECT status, changed_by, changed_at, notes
		FROM order_status_log
		WHERE order_id = $1
		ORDER BY changed_at ASC, id ASC`
)
