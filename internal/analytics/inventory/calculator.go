package inventory

import (
	"math"
	"time"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
)

// Status is the stock-out risk of an inventory item.
type Status string

const (
	StatusCritical   Status = "critical"
	StatusWarning    Status = "warning"
	StatusSufficient Status = "sufficient"
)

// AllStatuses is the fixed reporting order.
var AllStatuses = []Status{StatusCritical, StatusWarning, StatusSufficient}

// warningBufferDays is the early-warning margin past lead time.
const warningBufferDays = 2

// Cover is the number of days current stock lasts. Infinite is set when there
// is no usage to divide by; Days is then zero and must not be used.
type Cover struct {
	Days     float64 `json:"days"`
	Infinite bool    `json:"infinite"`
}

// DaysCover divides stock by average daily usage. Negative stock is passed
// through and yields a negative cover.
func DaysCover(currentStock, avgDailyUsage float64) Cover {
	if avgDailyUsage <= 0 {
		return Cover{Infinite: true}
	}
	return Cover{Days: currentStock / avgDailyUsage}
}

// ClassifyStatus compares cover against lead time.
func ClassifyStatus(cover Cover, leadTimeDays int) Status {
	if cover.Infinite {
		return StatusSufficient
	}
	lead := float64(leadTimeDays)
	switch {
	case cover.Days < lead:
		return StatusCritical
	case cover.Days < lead+warningBufferDays:
		return StatusWarning
	default:
		return StatusSufficient
	}
}

// ReorderPoint says an order must be placed LeadTimeDays before stock-out.
// Presentation decides how to phrase it.
type ReorderPoint struct {
	AsOf         time.Time `json:"as_of"`
	LeadTimeDays int       `json:"lead_time_days"`
}

func ReorderPointFor(today time.Time, leadTimeDays int) ReorderPoint {
	return ReorderPoint{AsOf: today, LeadTimeDays: leadTimeDays}
}

// OrderBy is the last day an order can be placed before the projected
// stock-out. It is undefined for infinite cover.
func (r ReorderPoint) OrderBy(cover Cover) (time.Time, bool) {
	if cover.Infinite {
		return time.Time{}, false
	}
	days := int(math.Floor(cover.Days)) - r.LeadTimeDays
	return r.AsOf.AddDate(0, 0, days), true
}

// Health is the assessed state of one inventory item.
type Health struct {
	ItemID            string               `json:"item_id"`
	Name              string               `json:"name"`
	Category          string               `json:"category"`
	Unit              domain.UnitOfMeasure `json:"unit"`
	CurrentStock      float64              `json:"current_stock"`
	AvgDailyUsage     float64              `json:"avg_daily_usage"`
	Cover             Cover                `json:"cover"`
	Status            Status               `json:"status"`
	ReorderPoint      ReorderPoint         `json:"reorder_point"`
	OrderBy           *time.Time           `json:"order_by,omitempty"`
	BelowSafetyStock  bool                 `json:"below_safety_stock"`
	OverMaxLevel      bool                 `json:"over_max_level"`
	SuggestedOrderQty float64              `json:"suggested_order_qty"`
}

// Calculator assesses inventory items. EstimatedUsage fills AvgDailyUsage
// for items that do not carry one, keyed by item ID or material ID.
type Calculator struct {
	estimatedUsage map[string]float64
}

func NewCalculator(estimatedUsage map[string]float64) *Calculator {
	return &Calculator{estimatedUsage: estimatedUsage}
}

func (c *Calculator) Assess(item domain.InventoryItem, today time.Time) Health {
	usage := c.usageFor(item)
	cover := DaysCover(item.CurrentStock, usage)
	status := ClassifyStatus(cover, item.LeadTimeDays)
	rp := ReorderPointFor(today, item.LeadTimeDays)

	h := Health{
		ItemID:           item.ID,
		Name:             item.NameLocalized,
		Category:         item.Category,
		Unit:             item.Unit,
		CurrentStock:     item.CurrentStock,
		AvgDailyUsage:    usage,
		Cover:            cover,
		Status:           status,
		ReorderPoint:     rp,
		BelowSafetyStock: item.CurrentStock < item.SafetyStockThreshold,
		OverMaxLevel:     item.MaxStockLevel > 0 && item.CurrentStock > item.MaxStockLevel,
	}

	if orderBy, ok := rp.OrderBy(cover); ok {
		h.OrderBy = &orderBy
	}

	// Top up to the max level once the item leaves the sufficient band.
	if status != StatusSufficient && item.MaxStockLevel > 0 {
		h.SuggestedOrderQty = math.Max(0, math.Ceil(item.MaxStockLevel-item.CurrentStock))
	}

	return h
}

// AssessAll assesses items in input order.
func (c *Calculator) AssessAll(items []domain.InventoryItem, today time.Time) []Health {
	out := make([]Health, 0, len(items))
	for _, item := range items {
		out = append(out, c.Assess(item, today))
	}
	return out
}

func (c *Calculator) usageFor(item domain.InventoryItem) float64 {
	if item.AvgDailyUsage != nil {
		return *item.AvgDailyUsage
	}
	if c == nil || c.estimatedUsage == nil {
		return 0
	}
	if u, ok := c.estimatedUsage[item.ID]; ok {
		return u
	}
	if item.MaterialID != "" {
		return c.estimatedUsage[item.MaterialID]
	}
	return 0
}

// StatusCount is one row of the status summary.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

// Summarize counts assessments per status, always returning every status.
func Summarize(items []Health) []StatusCount {
	counts := make(map[Status]int, len(AllStatuses))
	for _, h := range items {
		counts[h.Status]++
	}
	out := make([]StatusCount, 0, len(AllStatuses))
	for _, s := range AllStatuses {
		out = append(out, StatusCount{Status: s, Count: counts[s]})
	}
	return out
}
