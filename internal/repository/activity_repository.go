package repository

import (
	"context"
	"database/sql"

	"github.com/burgergo/loyalty-service/internal/model"
)

// ActivityRepo persists the append-only `stamp_activity` log. Rows are
// written once per ledger mutation and never updated or deleted. The
// append is best-effort from the caller's point of view: a failed insert
// must not roll back the stamp mutation it describes.
type ActivityRepo struct{ DB *sql.DB }

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{DB: db} }

// Append records one activity entry for a customer.
func (r *ActivityRepo) Append(ctx context.Context, customerID uint64, reason string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO stamp_activity (customer_id, reason) VALUES (?,?)",
		customerID, reason)
	return err
}

// ListByCustomer returns up to limit entries for a customer, newest first.
func (r *ActivityRepo) ListByCustomer(ctx context.Context, customerID uint64, limit int) ([]model.ActivityEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, customer_id, reason, created_at FROM stamp_activity WHERE customer_id=? ORDER BY created_at DESC, id DESC LIMIT ?",
		customerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ActivityEntry, 0, limit)
	for rows.Next() {
		var e model.ActivityEntry
		if err := rows.Scan(&e.ID, &e.CustomerID, &e.Reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
