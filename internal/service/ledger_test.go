package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burgergo/loyalty-service/internal/model"
	"github.com/burgergo/loyalty-service/internal/queue"
	"github.com/burgergo/loyalty-service/internal/repository"
)

// fakeStore is an in-memory CustomerStore/CustomerDirectory used by the
// service tests. It honors the compare-and-swap contract of the real
// repository, including ErrStaleUpdate on a lost race.
type fakeStore struct {
	customers map[uint64]model.Customer
	nextID    uint64
	casCalls  int
	// beforeCAS runs before each CAS attempt, letting tests interleave a
	// concurrent writer.
	beforeCAS func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{customers: map[uint64]model.Customer{}, nextID: 1}
}

func (f *fakeStore) add(name, phone string, stamps int) model.Customer {
	c := model.Customer{
		ID:                f.nextID,
		Name:              name,
		PhoneFull:         phone,
		PhoneLast4:        PhoneLast4(phone),
		Stamps:            stamps,
		FreeItemAvailable: stamps >= model.FreeItemThreshold,
		CreatedAt:         time.Now().UTC().Add(time.Duration(f.nextID) * time.Second),
		UpdatedAt:         time.Now().UTC(),
	}
	f.customers[c.ID] = c
	f.nextID++
	return c
}

func (f *fakeStore) GetByID(_ context.Context, id uint64) (model.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return model.Customer{}, repository.ErrCustomerNotFound
	}
	return c, nil
}

func (f *fakeStore) UpdateStampsCAS(_ context.Context, id uint64, prevStamps, newStamps int, freeItem bool) (model.Customer, error) {
	if f.beforeCAS != nil {
		f.beforeCAS()
	}
	f.casCalls++
	c, ok := f.customers[id]
	if !ok {
		return model.Customer{}, repository.ErrCustomerNotFound
	}
	if c.Stamps != prevStamps {
		return model.Customer{}, repository.ErrStaleUpdate
	}
	c.Stamps = newStamps
	c.FreeItemAvailable = freeItem
	c.UpdatedAt = time.Now().UTC()
	f.customers[id] = c
	return c, nil
}

// fakeActivity records appends and can be told to fail.
type fakeActivity struct {
	entries []string
	fail    bool
}

func (f *fakeActivity) Append(_ context.Context, _ uint64, reason string) error {
	if f.fail {
		return errors.New("activity table unavailable")
	}
	f.entries = append(f.entries, reason)
	return nil
}

func newTestLedger(store *fakeStore, activity *fakeActivity) *Ledger {
	return NewLedger(store, activity, nil)
}

func TestAddStampIncrementsWithoutCap(t *testing.T) {
	store := newFakeStore()
	activity := &fakeActivity{}
	ledger := newTestLedger(store, activity)
	c := store.add("Hong Gildong", "01012345678", 9)

	res, err := ledger.AddStamp(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, res.Customer.Stamps)
	assert.True(t, res.Customer.FreeItemAvailable)

	// No upper cap: keep stamping past ten.
	for i := 0; i < 13; i++ {
		res, err = ledger.AddStamp(context.Background(), c.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 23, res.Customer.Stamps)
	assert.True(t, res.Customer.FreeItemAvailable)
	assert.Len(t, activity.entries, 14)
	assert.Equal(t, model.ReasonStampAdded, activity.entries[0])
}

func TestRedeemRejectsBelowThreshold(t *testing.T) {
	store := newFakeStore()
	activity := &fakeActivity{}
	ledger := newTestLedger(store, activity)
	c := store.add("Hong Gildong", "01012345678", 9)

	_, err := ledger.RedeemFreeItem(context.Background(), c.ID)
	assert.ErrorIs(t, err, ErrNotEnoughStamps)

	// The rejection leaves the counter untouched and writes no activity.
	got, _ := store.GetByID(context.Background(), c.ID)
	assert.Equal(t, 9, got.Stamps)
	assert.Empty(t, activity.entries)
}

func TestRedeemConsumesTenStamps(t *testing.T) {
	store := newFakeStore()
	activity := &fakeActivity{}
	ledger := newTestLedger(store, activity)

	exact := store.add("A", "01011112222", 10)
	res, err := ledger.RedeemFreeItem(context.Background(), exact.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Customer.Stamps)
	assert.False(t, res.Customer.FreeItemAvailable)

	banked := store.add("B", "01033334444", 23)
	res, err = ledger.RedeemFreeItem(context.Background(), banked.ID)
	require.NoError(t, err)
	assert.Equal(t, 13, res.Customer.Stamps)
	assert.True(t, res.Customer.FreeItemAvailable)

	assert.Equal(t, []string{model.ReasonFreeItemRedeemed, model.ReasonFreeItemRedeemed}, activity.entries)
}

func TestPurchaseWhileEligibleKeepsFlag(t *testing.T) {
	store := newFakeStore()
	activity := &fakeActivity{}
	ledger := newTestLedger(store, activity)
	c := store.add("Hong Gildong", "01012345678", 10)

	res, err := ledger.PurchaseWhileEligible(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, 11, res.Customer.Stamps)
	assert.True(t, res.Customer.FreeItemAvailable)
	assert.Equal(t, []string{model.ReasonPurchaseEligible}, activity.entries)
}

func TestFlagInvariantAcrossSequences(t *testing.T) {
	store := newFakeStore()
	ledger := newTestLedger(store, &fakeActivity{})
	c := store.add("Hong Gildong", "01012345678", 0)
	ctx := context.Background()

	ops := []func(context.Context, uint64) (LedgerResult, error){}
	for i := 0; i < 12; i++ {
		ops = append(ops, ledger.AddStamp)
	}
	ops = append(ops, ledger.PurchaseWhileEligible, ledger.RedeemFreeItem, ledger.AddStamp,
		ledger.AddStamp, ledger.RedeemFreeItem)

	for i, op := range ops {
		res, err := op(ctx, c.ID)
		if errors.Is(err, ErrNotEnoughStamps) {
			continue
		}
		require.NoError(t, err, "op %d", i)
		assert.Equal(t, res.Customer.Stamps >= model.FreeItemThreshold, res.Customer.FreeItemAvailable,
			"op %d: flag must equal stamps>=10", i)
		assert.GreaterOrEqual(t, res.Customer.Stamps, 0, "op %d", i)
	}
}

func TestActivityAppendFailureIsWarningOnly(t *testing.T) {
	store := newFakeStore()
	activity := &fakeActivity{fail: true}
	ledger := newTestLedger(store, activity)
	c := store.add("Hong Gildong", "01012345678", 4)

	res, err := ledger.AddStamp(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Customer.Stamps)
	assert.NotEmpty(t, res.Warning)
}

func TestConcurrentStampUpdateRetries(t *testing.T) {
	store := newFakeStore()
	ledger := newTestLedger(store, &fakeActivity{})
	c := store.add("Hong Gildong", "01012345678", 3)

	// Another terminal stamps the same customer right before our first CAS
	// attempt lands.
	fired := false
	store.beforeCAS = func() {
		if fired {
			return
		}
		fired = true
		cur := store.customers[c.ID]
		cur.Stamps++
		store.customers[c.ID] = cur
	}

	res, err := ledger.AddStamp(context.Background(), c.ID)
	require.NoError(t, err)
	// Both increments landed: the concurrent one and ours.
	assert.Equal(t, 5, res.Customer.Stamps)
	assert.Equal(t, 2, store.casCalls)
}

func TestLedgerUnknownCustomer(t *testing.T) {
	ledger := newTestLedger(newFakeStore(), &fakeActivity{})
	_, err := ledger.AddStamp(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrCustomerNotFound)
}

func TestEventPublishFailureIsIgnored(t *testing.T) {
	store := newFakeStore()
	c := store.add("Hong Gildong", "01012345678", 0)
	published := 0
	ledger := NewLedger(store, &fakeActivity{}, func(_ context.Context, ev queue.StampActivityEvent) error {
		published++
		assert.Equal(t, model.ReasonStampAdded, ev.Reason)
		return errors.New("broker down")
	})

	res, err := ledger.AddStamp(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Customer.Stamps)
	assert.Equal(t, 1, published)
	assert.Empty(t, res.Warning) // broker trouble is not even a warning
}
