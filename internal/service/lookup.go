package service

import (
	"context"
	"sort"
	"strings"

	"github.com/burgergo/loyalty-service/internal/model"
	"github.com/burgergo/loyalty-service/internal/repository"
)

// State names the outcome of a lookup step. AutoSelected is terminal with
// a bound customer; NeedsDisambiguation and NeedsRegistration require
// further caller input to progress.
type State string

const (
	StateAutoSelected        State = "auto_selected"
	StateNeedsDisambiguation State = "needs_disambiguation"
	StateNeedsRegistration   State = "needs_registration"
)

// Resolution is the result of one protocol transition: the new state plus
// any bound customer or candidate list.
type Resolution struct {
	State      State            `json:"state"`
	Customer   *model.Customer  `json:"customer,omitempty"`
	Candidates []model.Customer `json:"candidates,omitempty"`
}

// CustomerDirectory is the slice of the record store the lookup protocol
// needs.
type CustomerDirectory interface {
	FindByPhoneSuffix(ctx context.Context, last4 string) ([]model.Customer, error)
	FindByNameSubstring(ctx context.Context, text string, limit int) ([]model.Customer, error)
	FindByPhoneFull(ctx context.Context, phone string) (model.Customer, bool, error)
	Insert(ctx context.Context, name, phoneFull, phoneLast4 string) (model.Customer, error)
}

// staffSearchLimit caps the staff search result set.
const staffSearchLimit = 10

// Lookup resolves partial identifiers (phone suffixes, free-text names)
// into a concrete customer selection or a registration prompt.
type Lookup struct {
	Dir CustomerDirectory
}

func NewLookup(dir CustomerDirectory) *Lookup {
	if dir == nil {
		panic("nil directory passed to NewLookup")
	}
	return &Lookup{Dir: dir}
}

// ResolveSuffix is the kiosk path: an exact phone_last4 match ordered
// newest-first. Zero matches prompt registration, a single match is bound
// immediately, two or more require a manual pick.
func (s *Lookup) ResolveSuffix(ctx context.Context, last4 string) (Resolution, error) {
	last4 = strings.TrimSpace(last4)
	if len(last4) != 4 || !isDigits(last4) {
		return Resolution{}, ErrInvalidSuffix
	}
	matches, err := s.Dir.FindByPhoneSuffix(ctx, last4)
	if err != nil {
		return Resolution{}, err
	}
	switch len(matches) {
	case 0:
		return Resolution{State: StateNeedsRegistration}, nil
	case 1:
		return Resolution{State: StateAutoSelected, Customer: &matches[0]}, nil
	default:
		return Resolution{State: StateNeedsDisambiguation, Candidates: matches}, nil
	}
}

// StaffSearch is the employee path. Free text of length >= 2 searches names
// case-insensitively; when the text is exactly four digits the suffix
// matches are unioned in as well. The result is always a candidate list,
// even for a single hit: staff must confirm identity explicitly, so this
// path never auto-selects.
func (s *Lookup) StaffSearch(ctx context.Context, query string) ([]model.Customer, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return nil, ErrQueryTooShort
	}

	byName, err := s.Dir.FindByNameSubstring(ctx, query, staffSearchLimit)
	if err != nil {
		return nil, err
	}
	if len(query) == 4 && isDigits(query) {
		bySuffix, err := s.Dir.FindByPhoneSuffix(ctx, query)
		if err != nil {
			return nil, err
		}
		byName = mergeNewestFirst(byName, bySuffix, staffSearchLimit)
	}
	return byName, nil
}

// Register creates a customer after validating and normalizing the input.
// A duplicate phone triggers a secondary resolution: an existing customer
// with the same suffix whose stored name contains the supplied name
// (case-insensitive) is treated as the same person re-entering their own
// number, and is bound instead of raising a conflict. The boolean reports
// whether a new record was created.
func (s *Lookup) Register(ctx context.Context, name, phone string) (Resolution, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Resolution{}, false, ErrInvalidName
	}
	digits := NormalizePhone(phone)
	if !validPhone(digits) {
		return Resolution{}, false, ErrInvalidPhone
	}
	last4 := PhoneLast4(digits)

	created, err := s.Dir.Insert(ctx, name, digits, last4)
	if err == repository.ErrPhoneExists {
		if existing, ok, rerr := s.resolveExisting(ctx, name, last4); rerr != nil {
			return Resolution{}, false, rerr
		} else if ok {
			return Resolution{State: StateAutoSelected, Customer: &existing}, false, nil
		}
		return Resolution{}, false, repository.ErrPhoneExists
	}
	if err != nil {
		return Resolution{}, false, err
	}
	return Resolution{State: StateAutoSelected, Customer: &created}, true, nil
}

// resolveExisting looks for a same-suffix customer whose name contains the
// supplied name, ignoring case and surrounding whitespace.
func (s *Lookup) resolveExisting(ctx context.Context, name, last4 string) (model.Customer, bool, error) {
	candidates, err := s.Dir.FindByPhoneSuffix(ctx, last4)
	if err != nil {
		return model.Customer{}, false, err
	}
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			return c, true, nil
		}
	}
	return model.Customer{}, false, nil
}

// mergeNewestFirst unions two result sets by id, re-sorts newest-first and
// applies the limit. Newest-first ordering only affects display position,
// not correctness.
func mergeNewestFirst(a, b []model.Customer, limit int) []model.Customer {
	seen := make(map[uint64]struct{}, len(a)+len(b))
	merged := make([]model.Customer, 0, len(a)+len(b))
	for _, list := range [][]model.Customer{a, b} {
		for _, c := range list {
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}
			merged = append(merged, c)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].CreatedAt.Equal(merged[j].CreatedAt) {
			return merged[i].CreatedAt.After(merged[j].CreatedAt)
		}
		return merged[i].ID > merged[j].ID
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
