package models

import "time"

// Transaction is one append-only history entry of an item's ledger.
type Transaction struct {
	ID          int             `json:"id" db:"id"`
	ItemID      int             `json:"item_id" db:"item_id"`
	Type        TransactionType `json:"type" db:"type"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Reference   string          `json:"reference" db:"reference"`
	Notes       string          `json:"notes,omitempty" db:"notes"`
	PerformedBy string          `json:"performed_by" db:"performed_by"`
	Date        time.Time       `json:"date" db:"created_at"`
}
