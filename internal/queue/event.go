// Package queue defines message payloads exchanged over the message broker
// plus the publisher and background consumer for them.
package queue

// StampActivityEvent is published after every successful ledger mutation.
// It carries enough information for downstream consumers to log or notify
// without querying the primary database.
type StampActivityEvent struct {
	CustomerID        uint64 `json:"customer_id"`
	CustomerName      string `json:"customer_name"`
	Reason            string `json:"reason"`
	Stamps            int    `json:"stamps"`
	FreeItemAvailable bool   `json:"free_item_available"`
	OccurredAt        string `json:"occurred_at"`
}
