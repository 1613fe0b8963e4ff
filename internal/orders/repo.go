package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements Store on postgres.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) FindProductByName(ctx context.Context, name string) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, price_cents, created_at FROM products WHERE name=$1`, name).
		Scan(&p.ID, &p.Name, &p.PriceCents, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) CreateOrder(ctx context.Context, customerID string) (*Order, error) {
	o := Order{ID: uuid.NewString(), CustomerID: customerID, Status: StatusPending}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO orders(id, customer_id, status)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`, o.ID, o.CustomerID, string(o.Status)).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repo) AddLineItem(ctx context.Context, orderID string, p *Product, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("invalid qty %d for product %s", qty, p.ID)
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO order_items(order_id, product_id, qty, price_cents)
		VALUES ($1, $2, $3, $4)`,
		orderID, p.ID, qty, p.PriceCents,
	)
	return err
}

func (r *Repo) SetBillingAddress(ctx context.Context, orderID string, addr Address) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE orders SET billing_first_name=$2, billing_email=$3, updated_at=NOW()
		WHERE id=$1`,
		orderID, addr.FirstName, addr.Email,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order not found: %s", orderID)
	}
	return nil
}

// CalculateTotals recomputes the order total from its line items and
// persists it.
func (r *Repo) CalculateTotals(ctx context.Context, orderID string) (int, error) {
	var total int
	err := r.DB.QueryRow(ctx, `
		UPDATE orders SET total_cents = (
			SELECT COALESCE(SUM(qty * price_cents), 0)
			FROM order_items WHERE order_id = $1
		), updated_at = NOW()
		WHERE id = $1
		RETURNING total_cents
	`, orderID).Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("order not found: %s", orderID)
	}
	return total, err
}

// UpdateStatus transitions the order and records the note in the same
// transaction. The row is locked so concurrent transitions serialize.
func (r *Repo) UpdateStatus(ctx context.Context, orderID string, to Status, note string) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current string
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, orderID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("order not found: %s", orderID)
	}
	if err != nil {
		return err
	}
	if !CanTransition(Status(current), to) {
		return fmt.Errorf("invalid transition %s -> %s for order %s", current, to, orderID)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE orders SET status=$2, updated_at=NOW() WHERE id=$1`, orderID, string(to)); err != nil {
		return err
	}
	if note != "" {
		if _, err := tx.Exec(ctx,
			`INSERT INTO order_notes(order_id, note) VALUES ($1, $2)`, orderID, note); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *Repo) SetMetadata(ctx context.Context, orderID, key, value string) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO order_meta(order_id, meta_key, meta_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (order_id, meta_key) DO UPDATE SET meta_value = EXCLUDED.meta_value
	`, orderID, key, value)
	return err
}

// QueryByMetadata returns orders carrying the given metadata pair. A
// nil status list matches every status.
func (r *Repo) QueryByMetadata(ctx context.Context, key, value string, statuses []Status) ([]Order, error) {
	q := `
		SELECT o.id, o.customer_id, o.status, o.total_cents,
		       o.billing_first_name, o.billing_email, o.created_at, o.updated_at
		FROM orders o
		JOIN order_meta m ON m.order_id = o.id
		WHERE m.meta_key = $1 AND m.meta_value = $2`
	args := []any{key, value}
	if len(statuses) > 0 {
		ss := make([]string, len(statuses))
		for i, s := range statuses {
			ss[i] = string(s)
		}
		q += ` AND o.status = ANY($3)`
		args = append(args, ss)
	}
	q += ` ORDER BY o.created_at`

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		var status string
		if err := rows.Scan(&o.ID, &o.CustomerID, &status, &o.TotalCents,
			&o.Billing.FirstName, &o.Billing.Email, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		o.Status = Status(status)
		out = append(out, o)
	}
	return out, rows.Err()
}
