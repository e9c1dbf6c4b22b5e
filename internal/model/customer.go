// Package model defines the persisted entities of the loyalty program.
package model

import "time"

// Activity reasons recorded in the stamp_activity log and carried on
// broker events. Stored as strings so the log stays readable in SQL.
const (
	ReasonStampAdded       = "stamp-added"
	ReasonFreeItemRedeemed = "free-item-redeemed"
	ReasonPurchaseEligible = "purchase-with-free-available"
)

// FreeItemThreshold is the number of stamps that earns one free item.
const FreeItemThreshold = 10

// Customer is a loyalty program member. PhoneFull is the normalized
// digits-only number and is unique; PhoneLast4 is the suffix customers
// identify themselves with at the kiosk and is expected to collide.
// FreeItemAvailable is derived: it must always equal Stamps >= 10.
// The full phone number never leaves the server.
type Customer struct {
	ID                uint64    `json:"id"`
	Name              string    `json:"name"`
	PhoneFull         string    `json:"-"`
	PhoneLast4        string    `json:"phone_last4"`
	Stamps            int       `json:"stamps"`
	FreeItemAvailable bool      `json:"free_item_available"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ActivityEntry is one row of the append-only stamp_activity log.
type ActivityEntry struct {
	ID         uint64    `json:"id"`
	CustomerID uint64    `json:"customer_id"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}
