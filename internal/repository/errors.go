// Package repository defines sentinel error values shared across the data
// access layer. These allow higher layers such as handlers to distinguish
// between failure scenarios: ErrCustomerNotFound maps to an HTTP 404,
// ErrPhoneExists to an HTTP 409, and ErrStaleUpdate signals that a
// compare-and-swap stamp update lost a race and should be retried.
package repository

import "errors"

// ErrCustomerNotFound is returned when an operation targets a customer id
// that does not exist.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrPhoneExists is returned when a registration collides with an existing
// phone_full value. The lookup protocol attempts a secondary resolution
// before surfacing this to the caller.
var ErrPhoneExists = errors.New("phone already registered")

// ErrStaleUpdate is returned when a stamp update observed a different
// counter value than the one previously read. The ledger re-reads the row
// and retries a bounded number of times.
var ErrStaleUpdate = errors.New("stale stamp update")
