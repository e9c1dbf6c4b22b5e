// Package service holds the core business rules of the loyalty program:
// the stamp ledger engine and the lookup/disambiguation protocol. Both
// operate on narrow store interfaces so they can be exercised without a
// database.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/burgergo/loyalty-service/internal/model"
	"github.com/burgergo/loyalty-service/internal/queue"
	"github.com/burgergo/loyalty-service/internal/repository"
)

// ErrNotEnoughStamps is returned by RedeemFreeItem when the customer has
// fewer than ten stamps. Redemption is rejected outright rather than
// floored; the caller decides how to present the refusal.
var ErrNotEnoughStamps = errors.New("not enough stamps to redeem")

// CustomerStore is the slice of the record store the ledger needs.
type CustomerStore interface {
	GetByID(ctx context.Context, id uint64) (model.Customer, error)
	UpdateStampsCAS(ctx context.Context, id uint64, prevStamps, newStamps int, freeItem bool) (model.Customer, error)
}

// ActivityLog appends one entry per ledger mutation. Failures are
// best-effort: they are surfaced as a warning, never as a failed mutation.
type ActivityLog interface {
	Append(ctx context.Context, customerID uint64, reason string) error
}

// EventPublisher pushes a stamp activity event to the message broker.
// Like the activity log it is best-effort; errors are logged and dropped.
type EventPublisher func(ctx context.Context, ev queue.StampActivityEvent) error

// Ledger applies the three loyalty transactions to a customer while
// maintaining the free_item_available invariant. No other component may
// mutate the stamp counter.
type Ledger struct {
	Store   CustomerStore
	Log     ActivityLog
	Publish EventPublisher // optional
}

func NewLedger(store CustomerStore, activity ActivityLog, publish EventPublisher) *Ledger {
	if store == nil || activity == nil {
		panic("nil dependency passed to NewLedger")
	}
	return &Ledger{Store: store, Log: activity, Publish: publish}
}

// LedgerResult carries the updated customer plus an optional warning when
// the best-effort activity append failed.
type LedgerResult struct {
	Customer model.Customer
	Warning  string
}

// casAttempts bounds the read-then-write retry loop. Two terminals
// stamping the same customer serialize within one or two retries.
const casAttempts = 3

// AddStamp increments the stamp counter by one. There is no upper cap: a
// customer with 23 stamps has earned two free items and holds 3 toward the
// next.
func (l *Ledger) AddStamp(ctx context.Context, customerID uint64) (LedgerResult, error) {
	return l.apply(ctx, customerID, model.ReasonStampAdded, func(stamps int) (int, error) {
		return stamps + 1, nil
	})
}

// RedeemFreeItem consumes ten stamps in exchange for a free item. It
// rejects with ErrNotEnoughStamps below ten; on success the counter is
// floored at zero so it can never go negative.
func (l *Ledger) RedeemFreeItem(ctx context.Context, customerID uint64) (LedgerResult, error) {
	return l.apply(ctx, customerID, model.ReasonFreeItemRedeemed, func(stamps int) (int, error) {
		if stamps < model.FreeItemThreshold {
			return 0, ErrNotEnoughStamps
		}
		next := stamps - model.FreeItemThreshold
		if next < 0 {
			next = 0
		}
		return next, nil
	})
}

// PurchaseWhileEligible records a paid visit by a customer who has a free
// item available but chose not to redeem it. The counter still increments.
func (l *Ledger) PurchaseWhileEligible(ctx context.Context, customerID uint64) (LedgerResult, error) {
	return l.apply(ctx, customerID, model.ReasonPurchaseEligible, func(stamps int) (int, error) {
		return stamps + 1, nil
	})
}

// apply runs one transaction: read the customer, compute the next counter
// value, commit it atomically with the recomputed eligibility flag, then
// append the activity entry and publish the broker event best-effort.
func (l *Ledger) apply(ctx context.Context, customerID uint64, reason string, next func(int) (int, error)) (LedgerResult, error) {
	var updated model.Customer
	for attempt := 0; ; attempt++ {
		current, err := l.Store.GetByID(ctx, customerID)
		if err != nil {
			return LedgerResult{}, err
		}
		newStamps, err := next(current.Stamps)
		if err != nil {
			return LedgerResult{}, err
		}
		updated, err = l.Store.UpdateStampsCAS(ctx, customerID, current.Stamps, newStamps,
			newStamps >= model.FreeItemThreshold)
		if err == repository.ErrStaleUpdate && attempt < casAttempts-1 {
			continue // another terminal got there first; re-read and retry
		}
		if err != nil {
			return LedgerResult{}, err
		}
		break
	}

	res := LedgerResult{Customer: updated}
	if err := l.Log.Append(ctx, customerID, reason); err != nil {
		log.Printf("ledger: activity append failed for customer=%d reason=%s: %v", customerID, reason, err)
		res.Warning = "activity log entry could not be recorded"
	}
	if l.Publish != nil {
		ev := queue.StampActivityEvent{
			CustomerID:        updated.ID,
			CustomerName:      updated.Name,
			Reason:            reason,
			Stamps:            updated.Stamps,
			FreeItemAvailable: updated.FreeItemAvailable,
			OccurredAt:        time.Now().UTC().Format(time.RFC3339),
		}
		if err := l.Publish(ctx, ev); err != nil {
			log.Printf("ledger: event publish failed for customer=%d: %v", customerID, err)
		}
	}
	return res, nil
}
