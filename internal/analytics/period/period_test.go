package period

import (
	"testing"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ids = domain.NewSequenceGenerator("period-test")

func sale(t *testing.T, date, clock, item, category string, qty int, price int64) domain.SaleRecord {
	t.Helper()
	s, err := domain.NewSaleRecord(ids, domain.SaleInput{
		Date:      date,
		Time:      clock,
		ItemName:  item,
		Category:  category,
		Quantity:  qty,
		UnitPrice: decimal.NewFromInt(price),
	})
	require.NoError(t, err)
	return s
}

func TestFilterByDateRangeIsInclusiveAndCopies(t *testing.T) {
	sales := []domain.SaleRecord{
		sale(t, "2025-10-31", "09:00:00", "Latte", "coffee", 1, 4500),
		sale(t, "2025-11-01", "09:00:00", "Latte", "coffee", 1, 4500),
		sale(t, "2025-11-07", "09:00:00", "Latte", "coffee", 1, 4500),
		sale(t, "2025-11-08", "09:00:00", "Latte", "coffee", 1, 4500),
	}

	got := FilterByDateRange(sales, "2025-11-01", "2025-11-07")
	require.Len(t, got, 2)
	assert.Equal(t, "2025-11-01", got[0].Date)
	assert.Equal(t, "2025-11-07", got[1].Date)

	got[0].ItemName = "changed"
	assert.Equal(t, "Latte", sales[1].ItemName)
}

func TestByWeekdayEmptyLedger(t *testing.T) {
	buckets := ByWeekday(nil)
	require.Len(t, buckets, 7)
	for i, b := range buckets {
		assert.Equal(t, domain.AllWeekdays[i], b.Weekday)
		assert.True(t, b.Revenue.IsZero())
		assert.Zero(t, b.Count)
	}
}

func TestByWeekdayAttributesWeekendOnly(t *testing.T) {
	sales := []domain.SaleRecord{
		sale(t, "2025-11-01", "10:00:00", "Americano", "coffee", 1, 4000),
		sale(t, "2025-11-02", "11:00:00", "Latte", "coffee", 1, 5000),
	}

	week := FilterByDateRange(sales, "2025-11-01", "2025-11-07")
	buckets := ByWeekday(week)

	for _, b := range buckets {
		switch b.Weekday {
		case domain.Saturday:
			assert.True(t, b.Revenue.Equal(decimal.NewFromInt(4000)))
		case domain.Sunday:
			assert.True(t, b.Revenue.Equal(decimal.NewFromInt(5000)))
		default:
			assert.True(t, b.Revenue.IsZero(), "weekday %s", b.Weekday)
		}
	}
}

func TestByHourPeakTieGoesToEarlierHour(t *testing.T) {
	sales := []domain.SaleRecord{
		sale(t, "2025-11-03", "09:15:00", "Latte", "coffee", 1, 5000),
		sale(t, "2025-11-03", "14:40:00", "Latte", "coffee", 1, 5000),
	}

	got := ByHour(sales, 8, 18)
	require.Len(t, got.Buckets, 11)
	require.NotNil(t, got.Peak)
	require.NotNil(t, got.Low)
	assert.Equal(t, 9, got.Peak.Hour)
	assert.Equal(t, 8, got.Low.Hour)
}

func TestByHourWindowBounds(t *testing.T) {
	got := ByHour(nil, -3, 40)
	assert.Len(t, got.Buckets, 24)

	empty := ByHour(nil, 12, 11)
	assert.Empty(t, empty.Buckets)
	assert.Nil(t, empty.Peak)
	assert.Nil(t, empty.Low)
}

func TestPreviousRange(t *testing.T) {
	prev, days, err := PreviousRange("2025-11-01", "2025-11-24")
	require.NoError(t, err)
	assert.Equal(t, 24, days)
	assert.Equal(t, DateRange{Start: "2025-10-08", End: "2025-10-31"}, prev)

	prev, days, err = PreviousRange("2025-11-03", "2025-11-03")
	require.NoError(t, err)
	assert.Equal(t, 1, days)
	assert.Equal(t, DateRange{Start: "2025-11-02", End: "2025-11-02"}, prev)
}

func TestPreviousRangeRejectsReversedRange(t *testing.T) {
	_, _, err := PreviousRange("2025-11-24", "2025-11-01")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, _, err = PreviousRange("11/01/2025", "2025-11-24")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestCompare(t *testing.T) {
	sales := []domain.SaleRecord{
		sale(t, "2025-10-30", "10:00:00", "Latte", "coffee", 2, 5000),
		sale(t, "2025-11-02", "10:00:00", "Latte", "coffee", 3, 5000),
	}

	got, err := Compare(sales, "2025-11-01", "2025-11-03")
	require.NoError(t, err)
	assert.Equal(t, DateRange{Start: "2025-10-29", End: "2025-10-31"}, got.Previous)
	assert.True(t, got.CurrentRevenue.Equal(decimal.NewFromInt(15000)))
	assert.True(t, got.PreviousRevenue.Equal(decimal.NewFromInt(10000)))
	assert.True(t, got.RevenueDiff.Equal(decimal.NewFromInt(5000)))
	assert.InDelta(t, 50.0, got.PercentageChange, 1e-9)
}

func TestCompareZeroPreviousRevenue(t *testing.T) {
	sales := []domain.SaleRecord{
		sale(t, "2025-11-02", "10:00:00", "Latte", "coffee", 1, 5000),
	}

	got, err := Compare(sales, "2025-11-01", "2025-11-03")
	require.NoError(t, err)
	assert.Zero(t, got.PercentageChange)
}

func TestSummarize(t *testing.T) {
	empty := Summarize(nil)
	assert.True(t, empty.Revenue.IsZero())
	assert.Zero(t, empty.Count)
	assert.True(t, empty.AvgTicket.IsZero())

	got := Summarize([]domain.SaleRecord{
		sale(t, "2025-11-01", "10:00:00", "Americano", "coffee", 1, 4000),
		sale(t, "2025-11-01", "10:05:00", "Americano", "coffee", 1, 4000),
		sale(t, "2025-11-01", "10:10:00", "Latte", "coffee", 1, 4501),
	})
	assert.Equal(t, 3, got.Count)
	assert.True(t, got.Revenue.Equal(decimal.NewFromInt(12501)))
	assert.True(t, got.AvgTicket.Equal(decimal.NewFromInt(4167)), got.AvgTicket.String())
}

func TestSelectorMatches(t *testing.T) {
	cases := []struct {
		sel  Selector
		date string
		want bool
	}{
		{Month(2025, 11), "2025-11-30", true},
		{Month(2025, 11), "2025-10-30", false},
		{Year(2025), "2025-01-01", true},
		{Year(2025), "2024-12-31", false},
		{Quarter(2025, 4), "2025-10-01", true},
		{Quarter(2025, 4), "2025-12-31", true},
		{Quarter(2025, 4), "2025-09-30", false},
		{Quarter(2025, 1), "2024-02-01", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.sel.Matches(tc.date), "%s %s", tc.sel, tc.date)
	}
}

func TestParseSelector(t *testing.T) {
	got, err := ParseSelector("2025-11")
	require.NoError(t, err)
	assert.Equal(t, Month(2025, 11), got)

	got, err = ParseSelector("2025-q4")
	require.NoError(t, err)
	assert.Equal(t, Quarter(2025, 4), got)

	got, err = ParseSelector("2025")
	require.NoError(t, err)
	assert.Equal(t, Year(2025), got)

	for _, bad := range []string{"", "25-11", "2025-13", "2025-Q5", "2025-1"} {
		_, err := ParseSelector(bad)
		assert.ErrorIs(t, err, ErrInvalidPeriod, bad)
	}
}

func TestSelectorPrevious(t *testing.T) {
	assert.Equal(t, Month(2024, 12), Month(2025, 1).Previous())
	assert.Equal(t, Quarter(2024, 4), Quarter(2025, 1).Previous())
	assert.Equal(t, Quarter(2025, 2), Quarter(2025, 3).Previous())
	assert.Equal(t, Year(2024), Year(2025).Previous())
}

func TestCategoryBreakdown(t *testing.T) {
	sales := []domain.SaleRecord{
		sale(t, "2025-11-01", "10:00:00", "Croissant", "bakery", 2, 3000),
		sale(t, "2025-11-01", "10:00:00", "Latte", "coffee", 2, 5000),
		sale(t, "2025-11-02", "10:00:00", "Scone", "bakery", 1, 4000),
		sale(t, "2025-10-02", "10:00:00", "Latte", "coffee", 9, 5000),
	}

	got := CategoryBreakdown(sales, Month(2025, 11))
	require.Len(t, got, 2)
	assert.Equal(t, "bakery", got[0].Category)
	assert.Equal(t, "coffee", got[1].Category)
	assert.True(t, got[0].Revenue.Equal(decimal.NewFromInt(10000)))
	assert.InDelta(t, 50.0, got[0].Share, 1e-9)
	assert.InDelta(t, 50.0, got[1].Share, 1e-9)

	assert.Empty(t, CategoryBreakdown(sales, Month(2025, 9)))
}

func TestCompareCategories(t *testing.T) {
	sales := []domain.SaleRecord{
		sale(t, "2025-11-01", "10:00:00", "Latte", "coffee", 2, 5000),
		sale(t, "2025-10-01", "10:00:00", "Latte", "coffee", 1, 5000),
		sale(t, "2025-10-01", "10:00:00", "Scone", "bakery", 1, 4000),
	}

	got := CompareCategories(sales, Month(2025, 11), Month(2025, 10))
	require.Len(t, got, 2)
	assert.Equal(t, "coffee", got[0].Category)
	assert.InDelta(t, 100.0, got[0].PercentageChange, 1e-9)
	assert.Equal(t, "bakery", got[1].Category)
	assert.True(t, got[1].Current.IsZero())
	assert.InDelta(t, -100.0, got[1].PercentageChange, 1e-9)
}

func TestTopItemsByQuantityTiesKeepFirstSeenOrder(t *testing.T) {
	sales := []domain.SaleRecord{
		sale(t, "2025-11-01", "10:00:00", "Scone", "bakery", 2, 4000),
		sale(t, "2025-11-01", "10:00:00", "Latte", "coffee", 1, 5000),
		sale(t, "2025-11-01", "10:00:00", "Americano", "coffee", 2, 4000),
		sale(t, "2025-11-02", "10:00:00", "Latte", "coffee", 4, 5000),
	}

	got := TopItemsByQuantity(sales, 0)
	require.Len(t, got, 3)
	assert.Equal(t, "Latte", got[0].ItemName)
	assert.Equal(t, 5, got[0].Quantity)
	assert.Equal(t, "Scone", got[1].ItemName)
	assert.Equal(t, "Americano", got[2].ItemName)
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].Rank, got[1].Rank, got[2].Rank})

	assert.Len(t, TopItemsByQuantity(sales, 1), 1)
}

func TestCompareTopItems(t *testing.T) {
	sales := []domain.SaleRecord{
		sale(t, "2025-11-01", "10:00:00", "Latte", "coffee", 3, 5000),
		sale(t, "2025-11-01", "10:00:00", "Mocha", "coffee", 1, 5500),
		sale(t, "2025-10-01", "10:00:00", "Scone", "bakery", 5, 4000),
		sale(t, "2025-10-01", "10:00:00", "Latte", "coffee", 2, 5000),
	}

	got := CompareTopItems(sales, Month(2025, 11), Month(2025, 10), 5)
	require.Len(t, got, 2)
	assert.Equal(t, "Latte", got[0].ItemName)
	assert.Equal(t, 2, got[0].PreviousRank)
	assert.Equal(t, 2, got[0].PreviousQuantity)
	assert.Equal(t, "Mocha", got[1].ItemName)
	assert.Zero(t, got[1].PreviousRank)
}

func TestSeriesKeys(t *testing.T) {
	sales := []domain.SaleRecord{
		sale(t, "2025-11-01", "09:00:00", "Latte", "coffee", 1, 5000),
		sale(t, "2025-11-05", "13:00:00", "Latte", "coffee", 1, 5000),
		sale(t, "2025-12-01", "09:30:00", "Latte", "coffee", 1, 5000),
	}

	weekly := Series(sales, Weekly)
	require.Len(t, weekly, 3)
	assert.Equal(t, "2025-10-27", weekly[0].Key)
	assert.Equal(t, "2025-11-03", weekly[1].Key)
	assert.Equal(t, "2025-12-01", weekly[2].Key)

	monthly := Series(sales, Monthly)
	require.Len(t, monthly, 2)
	assert.Equal(t, 2, monthly[0].Count)

	quarterly := Series(sales, Quarterly)
	require.Len(t, quarterly, 1)
	assert.Equal(t, "2025-Q4", quarterly[0].Key)

	hourly := Series(sales, Hourly)
	require.Len(t, hourly, 2)
	assert.Equal(t, "09", hourly[0].Key)
	assert.Equal(t, 2, hourly[0].Count)
}

func TestDailySeriesFillsGaps(t *testing.T) {
	sales := []domain.SaleRecord{
		sale(t, "2025-11-01", "09:00:00", "Latte", "coffee", 1, 5000),
		sale(t, "2025-11-03", "09:00:00", "Latte", "coffee", 2, 5000),
	}

	got, err := DailySeries(sales, "2025-11-01", "2025-11-04")
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "2025-11-02", got[1].Key)
	assert.True(t, got[1].Revenue.IsZero())
	assert.True(t, got[2].Revenue.Equal(decimal.NewFromInt(10000)))

	_, err = DailySeries(sales, "2025-11-04", "2025-11-01")
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestDailyRollup(t *testing.T) {
	sales := []domain.SaleRecord{
		sale(t, "2025-11-01", "09:00:00", "Latte", "coffee", 1, 5000),
		sale(t, "2025-11-01", "10:00:00", "Scone", "bakery", 3, 4000),
		sale(t, "2025-11-02", "10:00:00", "Latte", "coffee", 9, 5000),
	}

	got := DailyRollup(sales, "2025-11-01")
	assert.Equal(t, "2025-11-01", got.Date)
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, 4, got.Quantity)
	assert.True(t, got.Revenue.Equal(decimal.NewFromInt(17000)))
	assert.True(t, got.AvgTicket.Equal(decimal.NewFromInt(8500)))
	assert.Equal(t, "Scone", got.TopItem)

	empty := DailyRollup(sales, "2025-11-05")
	assert.Zero(t, empty.Count)
	assert.Empty(t, empty.TopItem)
}

func TestSelectorBounds(t *testing.T) {
	assert.Equal(t, DateRange{Start: "2024-02-01", End: "2024-02-29"}, Month(2024, 2).Bounds())
	assert.Equal(t, DateRange{Start: "2025-10-01", End: "2025-12-31"}, Quarter(2025, 4).Bounds())
	assert.Equal(t, DateRange{Start: "2025-01-01", End: "2025-12-31"}, Year(2025).Bounds())
}
