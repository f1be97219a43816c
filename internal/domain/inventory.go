package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UnitOfMeasure is the fixed set of stock and purchasing units.
type UnitOfMeasure string

const (
	UnitGram       UnitOfMeasure = "g"
	UnitMilliliter UnitOfMeasure = "ml"
	UnitEach       UnitOfMeasure = "ea"
	UnitKilogram   UnitOfMeasure = "kg"
	UnitLiter      UnitOfMeasure = "l"
)

var unitAliases = map[string]UnitOfMeasure{
	"g":           UnitGram,
	"gram":        UnitGram,
	"grams":       UnitGram,
	"ml":          UnitMilliliter,
	"milliliter":  UnitMilliliter,
	"milliliters": UnitMilliliter,
	"ea":          UnitEach,
	"each":        UnitEach,
	"pcs":         UnitEach,
	"kg":          UnitKilogram,
	"kilogram":    UnitKilogram,
	"kilograms":   UnitKilogram,
	"l":           UnitLiter,
	"liter":       UnitLiter,
	"liters":      UnitLiter,
}

// ParseUnit accepts the canonical symbols and their spelled-out aliases.
func ParseUnit(value string) (UnitOfMeasure, error) {
	if unit, ok := unitAliases[strings.ToLower(strings.TrimSpace(value))]; ok {
		return unit, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidUnit, value)
}

// InventoryItem is a mutable stock record. Coverage and status are computed
// on read by the inventory engine and never stored here.
type InventoryItem struct {
	ID                   string        `json:"id" db:"id"`
	MaterialID           string        `json:"material_id,omitempty" db:"material_id"`
	Category             string        `json:"category" db:"category"`
	NameLocalized        string        `json:"name" db:"name_localized"`
	CurrentStock         float64       `json:"current_stock" db:"current_stock"`
	Unit                 UnitOfMeasure `json:"unit" db:"unit"`
	LeadTimeDays         int           `json:"lead_time_days" db:"lead_time_days"`
	SafetyStockThreshold float64       `json:"safety_stock_threshold" db:"safety_stock_threshold"`
	MaxStockLevel        float64       `json:"max_stock_level" db:"max_stock_level"`
	AvgDailyUsage        *float64      `json:"avg_daily_usage,omitempty" db:"avg_daily_usage"`
}

// InventoryIntake records stock received from a supplier.
type InventoryIntake struct {
	ID         string          `json:"id" db:"id"`
	ItemID     string          `json:"item_id" db:"item_id"`
	Quantity   float64         `json:"quantity" db:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	ReceivedAt time.Time       `json:"received_at" db:"received_at"`
}

// Editable reports whether the intake is still inside the edit window at now.
func (i InventoryIntake) Editable(now time.Time, window time.Duration) bool {
	return now.Sub(i.ReceivedAt) <= window
}
