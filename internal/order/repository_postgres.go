package order

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	orderColumns = `id, user_id, status, subtotal, shipping, total, customer_name, customer_whatsapp, customer_email, notes, created_at, updated_at`
	itemColumns  = `product_id, product_name, unit_price, qty, line_total`

	insertOrderQuery = `
		INSERT INTO orders (id, user_id, status, subtotal, shipping, total, customer_name, customer_whatsapp, customer_email, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`
	insertItemQuery = `
		INSERT INTO order_items (order_id, product_id, product_name, unit_price, qty, line_total)
		VALUES ($1,$2,$3,$4,$5,$6)
	`
	getOrderByIDQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`
	listOrdersByUserQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	listAllOrdersQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC
	`
	listItemsQuery = `
		SELECT ` + itemColumns + `
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`
	updateOrderStatusQuery = `
		UPDATE orders
		SET status = $1,
			updated_at = $2
		WHERE id = $3
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create writes the order and its items in one transaction so a failed item
// insert never leaves a headless order behind.
func (r *PostgresRepository) Create(o Order) (Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		insertOrderQuery,
		o.ID,
		o.UserID,
		o.Status,
		o.Subtotal,
		o.Shipping,
		o.Total,
		o.CustomerName,
		o.CustomerWhatsApp,
		o.CustomerEmail,
		o.Notes,
		o.CreatedAt,
		o.UpdatedAt,
	); err != nil {
		return Order{}, err
	}

	for _, item := range o.Items {
		if _, err := tx.Exec(
			insertItemQuery,
			o.ID,
			item.ProductID,
			item.ProductNameSnapshot,
			item.UnitPriceSnapshot,
			item.Qty,
			item.LineTotal,
		); err != nil {
			return Order{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *PostgresRepository) GetByID(id string) (Order, error) {
	o, err := scanOrder(r.db.QueryRow(getOrderByIDQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}

	items, err := r.loadItems(id)
	if err != nil {
		return Order{}, err
	}
	o.Items = items
	return o, nil
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	return r.list(listOrdersByUserQuery, userID)
}

func (r *PostgresRepository) ListAll() ([]Order, error) {
	return r.list(listAllOrdersQuery)
}

func (r *PostgresRepository) list(query string, args ...any) ([]Order, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		items, err := r.loadItems(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (r *PostgresRepository) loadItems(orderID string) ([]Item, error) {
	rows, err := r.db.Query(listItemsQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ProductID,
			&item.ProductNameSnapshot,
			&item.UnitPriceSnapshot,
			&item.Qty,
			&item.LineTotal,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(id, status, updatedAt string) (Order, error) {
	result, err := r.db.Exec(updateOrderStatusQuery, status, updatedAt, id)
	if err != nil {
		return Order{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Order{}, err
	}
	if affected == 0 {
		return Order{}, ErrNotFound
	}
	return r.GetByID(id)
}

func scanOrder(scanner rowScanner) (Order, error) {
	o := Order{}
	var (
		notes     sql.NullString
		createdAt sql.NullString
		updatedAt sql.NullString
	)

	if err := scanner.Scan(
		&o.ID,
		&o.UserID,
		&o.Status,
		&o.Subtotal,
		&o.Shipping,
		&o.Total,
		&o.CustomerName,
		&o.CustomerWhatsApp,
		&o.CustomerEmail,
		&notes,
		&createdAt,
		&updatedAt,
	); err != nil {
		return Order{}, err
	}

	if notes.Valid {
		o.Notes = &notes.String
	}
	if createdAt.Valid {
		o.CreatedAt = createdAt.String
	}
	if updatedAt.Valid {
		o.UpdatedAt = updatedAt.String
	}
	return o, nil
}
