package domain

import "github.com/shopspring/decimal"

// DailySummary is the derived per-day aggregate of the sales ledger. It is the
// only ledger-derived record that may be deleted and rebuilt.
type DailySummary struct {
	Date      string          `json:"date"`
	Revenue   decimal.Decimal `json:"revenue"`
	Count     int             `json:"count"`
	Quantity  int             `json:"quantity"`
	AvgTicket decimal.Decimal `json:"avg_ticket"`
	TopItem   string          `json:"top_item,omitempty"`
}
