package service

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burgergo/loyalty-service/internal/model"
	"github.com/burgergo/loyalty-service/internal/repository"
)

// fakeDirectory backs the lookup tests with a slice, replicating the
// repository's newest-first ordering and the duplicate-phone error.
type fakeDirectory struct {
	customers []model.Customer
	nextID    uint64
	now       time.Time
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{nextID: 1, now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeDirectory) add(name, phone string) model.Customer {
	c := model.Customer{
		ID:         f.nextID,
		Name:       name,
		PhoneFull:  phone,
		PhoneLast4: PhoneLast4(phone),
		CreatedAt:  f.now,
		UpdatedAt:  f.now,
	}
	f.customers = append(f.customers, c)
	f.nextID++
	f.now = f.now.Add(time.Minute) // later inserts are newer
	return c
}

func (f *fakeDirectory) newestFirst(matches []model.Customer) []model.Customer {
	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID > matches[j].ID
	})
	return matches
}

func (f *fakeDirectory) FindByPhoneSuffix(_ context.Context, last4 string) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range f.customers {
		if c.PhoneLast4 == last4 {
			out = append(out, c)
		}
	}
	return f.newestFirst(out), nil
}

func (f *fakeDirectory) FindByNameSubstring(_ context.Context, text string, limit int) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range f.customers {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(text)) {
			out = append(out, c)
		}
	}
	out = f.newestFirst(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeDirectory) FindByPhoneFull(_ context.Context, phone string) (model.Customer, bool, error) {
	for _, c := range f.customers {
		if c.PhoneFull == phone {
			return c, true, nil
		}
	}
	return model.Customer{}, false, nil
}

func (f *fakeDirectory) Insert(_ context.Context, name, phoneFull, phoneLast4 string) (model.Customer, error) {
	for _, c := range f.customers {
		if c.PhoneFull == phoneFull {
			return model.Customer{}, repository.ErrPhoneExists
		}
	}
	return f.add(name, phoneFull), nil
}

func TestResolveSuffixRejectsBadInput(t *testing.T) {
	lookup := NewLookup(newFakeDirectory())
	for _, in := range []string{"", "123", "12345", "12a4", "일이삼사"} {
		_, err := lookup.ResolveSuffix(context.Background(), in)
		assert.ErrorIs(t, err, ErrInvalidSuffix, "input %q", in)
	}
}

func TestResolveSuffixStates(t *testing.T) {
	dir := newFakeDirectory()
	lookup := NewLookup(dir)
	ctx := context.Background()

	// No customers yet: registration prompt.
	res, err := lookup.ResolveSuffix(ctx, "5678")
	require.NoError(t, err)
	assert.Equal(t, StateNeedsRegistration, res.State)
	assert.Nil(t, res.Customer)

	// One match binds immediately.
	only := dir.add("Kim Minji", "01012345678")
	dir.add("Lee Junho", "01000001111") // different suffix, must not appear
	res, err = lookup.ResolveSuffix(ctx, "5678")
	require.NoError(t, err)
	assert.Equal(t, StateAutoSelected, res.State)
	require.NotNil(t, res.Customer)
	assert.Equal(t, only.ID, res.Customer.ID)
	assert.Empty(t, res.Candidates)

	// A second customer sharing the suffix forces a manual pick,
	// newest-first.
	second := dir.add("Park Seojun", "01099995678")
	res, err = lookup.ResolveSuffix(ctx, "5678")
	require.NoError(t, err)
	assert.Equal(t, StateNeedsDisambiguation, res.State)
	assert.Nil(t, res.Customer)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, second.ID, res.Candidates[0].ID)
	assert.Equal(t, only.ID, res.Candidates[1].ID)
}

func TestStaffSearchRejectsShortQuery(t *testing.T) {
	lookup := NewLookup(newFakeDirectory())
	for _, in := range []string{"", " ", "a", " a "} {
		_, err := lookup.StaffSearch(context.Background(), in)
		assert.ErrorIs(t, err, ErrQueryTooShort, "input %q", in)
	}

	// A single two-rune Hangul name is long enough.
	_, err := lookup.StaffSearch(context.Background(), "민지")
	assert.NoError(t, err)
}

func TestStaffSearchNeverAutoSelects(t *testing.T) {
	dir := newFakeDirectory()
	dir.add("Kim Minji", "01012345678")
	lookup := NewLookup(dir)

	// Even a unique hit comes back as a list, not a bound customer.
	results, err := lookup.StaffSearch(context.Background(), "minji")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Kim Minji", results[0].Name)
}

func TestStaffSearchUnionsSuffixForFourDigits(t *testing.T) {
	dir := newFakeDirectory()
	byName := dir.add("Studio 5678", "01000002222")
	bySuffix := dir.add("Kim Minji", "01012345678")
	dir.add("Lee Junho", "01000001111")
	lookup := NewLookup(dir)

	results, err := lookup.StaffSearch(context.Background(), "5678")
	require.NoError(t, err)
	require.Len(t, results, 2)
	// Newest-first across both sources, deduplicated.
	assert.Equal(t, bySuffix.ID, results[0].ID)
	assert.Equal(t, byName.ID, results[1].ID)
}

func TestStaffSearchDeduplicatesUnion(t *testing.T) {
	dir := newFakeDirectory()
	both := dir.add("5678 Kim", "01012345678") // matches by name and suffix
	lookup := NewLookup(dir)

	results, err := lookup.StaffSearch(context.Background(), "5678")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, both.ID, results[0].ID)
}

func TestRegisterCreatesCustomer(t *testing.T) {
	dir := newFakeDirectory()
	lookup := NewLookup(dir)

	res, created, err := lookup.Register(context.Background(), "Hong Gildong", "010-9999-8888")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, StateAutoSelected, res.State)
	require.NotNil(t, res.Customer)
	assert.Equal(t, "01099998888", res.Customer.PhoneFull)
	assert.Equal(t, "8888", res.Customer.PhoneLast4)
	assert.Equal(t, 0, res.Customer.Stamps)
}

func TestRegisterValidation(t *testing.T) {
	lookup := NewLookup(newFakeDirectory())
	ctx := context.Background()

	_, _, err := lookup.Register(ctx, "  ", "01099998888")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, _, err = lookup.Register(ctx, "Hong Gildong", "1234")
	assert.ErrorIs(t, err, ErrInvalidPhone)

	_, _, err = lookup.Register(ctx, "Hong Gildong", "not a phone")
	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestRegisterDuplicateSameNameResolvesToExisting(t *testing.T) {
	dir := newFakeDirectory()
	original := dir.add("Hong Gildong", "01099998888")
	lookup := NewLookup(dir)

	// Same person re-registers their own number; the name comparison is
	// case-insensitive and the stored record wins.
	res, created, err := lookup.Register(context.Background(), "hong gildong", "010 9999 8888")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, StateAutoSelected, res.State)
	require.NotNil(t, res.Customer)
	assert.Equal(t, original.ID, res.Customer.ID)
	assert.Len(t, dir.customers, 1)
}

func TestRegisterDuplicateDifferentNameConflicts(t *testing.T) {
	dir := newFakeDirectory()
	dir.add("Hong Gildong", "01099998888")
	lookup := NewLookup(dir)

	_, created, err := lookup.Register(context.Background(), "Kim Minji", "01099998888")
	assert.ErrorIs(t, err, repository.ErrPhoneExists)
	assert.False(t, created)
	assert.Len(t, dir.customers, 1)
}
