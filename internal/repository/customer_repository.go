package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/burgergo/loyalty-service/internal/model"
)

// CustomerRepo provides access to the `customers` table. It is the only
// component that issues writes against the stamp counter; the ledger
// service drives it through a compare-and-swap update so that two staff
// terminals stamping the same customer cannot silently overwrite each
// other.
type CustomerRepo struct{ DB *sql.DB }

func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{DB: db} }

const customerColumns = "id,name,phone_full,phone_last4,stamps,free_item_available,created_at,updated_at"

func scanCustomer(row interface{ Scan(...any) error }) (model.Customer, error) {
	var c model.Customer
	err := row.Scan(&c.ID, &c.Name, &c.PhoneFull, &c.PhoneLast4,
		&c.Stamps, &c.FreeItemAvailable, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// GetByID fetches a single customer by primary key.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (model.Customer, error) {
	c, err := scanCustomer(r.DB.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.Customer{}, ErrCustomerNotFound
	}
	return c, err
}

// FindByPhoneSuffix returns all customers whose phone ends with the given
// four digits, newest registration first. Suffix collisions are expected;
// the lookup protocol disambiguates them.
func (r *CustomerRepo) FindByPhoneSuffix(ctx context.Context, last4 string) ([]model.Customer, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE phone_last4=? ORDER BY created_at DESC, id DESC",
		last4)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCustomers(rows)
}

// FindByNameSubstring returns up to limit customers whose name contains the
// given text case-insensitively, newest registration first.
func (r *CustomerRepo) FindByNameSubstring(ctx context.Context, text string, limit int) ([]model.Customer, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(text)) + "%"
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE LOWER(name) LIKE ? ORDER BY created_at DESC, id DESC LIMIT ?",
		pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCustomers(rows)
}

// FindByPhoneFull fetches the customer registered under an exact normalized
// phone string. The second return value reports whether a row was found.
func (r *CustomerRepo) FindByPhoneFull(ctx context.Context, phone string) (model.Customer, bool, error) {
	c, err := scanCustomer(r.DB.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE phone_full=? LIMIT 1", phone))
	if err == sql.ErrNoRows {
		return model.Customer{}, false, nil
	}
	if err != nil {
		return model.Customer{}, false, err
	}
	return c, true, nil
}

// Insert creates a customer with zero stamps. A duplicate phone_full is
// reported as ErrPhoneExists via the MySQL 1062 duplicate-key error.
func (r *CustomerRepo) Insert(ctx context.Context, name, phoneFull, phoneLast4 string) (model.Customer, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO customers (name, phone_full, phone_last4, stamps, free_item_available) VALUES (?,?,?,0,FALSE)",
		strings.TrimSpace(name), phoneFull, phoneLast4)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.Customer{}, ErrPhoneExists
		}
		return model.Customer{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Customer{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// UpdateStampsCAS writes the new stamp count and derived flag in a single
// atomic row update, guarded by the previously read counter value. When no
// row matched, the method distinguishes a vanished customer from a
// concurrent write and returns ErrCustomerNotFound or ErrStaleUpdate
// accordingly.
func (r *CustomerRepo) UpdateStampsCAS(ctx context.Context, id uint64, prevStamps, newStamps int, freeItem bool) (model.Customer, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE customers SET stamps=?, free_item_available=?, updated_at=NOW() WHERE id=? AND stamps=?",
		newStamps, freeItem, id, prevStamps)
	if err != nil {
		return model.Customer{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Customer{}, err
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return model.Customer{}, err
		}
		return model.Customer{}, ErrStaleUpdate
	}
	return r.GetByID(ctx, id)
}

func collectCustomers(rows *sql.Rows) ([]model.Customer, error) {
	out := make([]model.Customer, 0, 4)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
