// Package expense sums fixed costs and expenditures for monthly reports.
package expense

import (
	"github.com/IMC-ERP/ERP-FE-sub000/internal/analytics/period"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// MonthlyFixedCost sums the utilities that apply to month (YYYY-MM).
// Recurring entries apply from the month of their date onwards; one-time
// entries apply only to their own month.
func MonthlyFixedCost(utilities []domain.UtilityExpense, month string) decimal.Decimal {
	total := decimal.Zero
	for _, u := range utilities {
		if len(u.Date) < 7 {
			continue
		}
		start := u.Date[:7]
		switch u.Recurrence {
		case domain.RecurrenceRecurring:
			if start <= month {
				total = total.Add(u.Amount)
			}
		case domain.RecurrenceOneTime:
			if start == month {
				total = total.Add(u.Amount)
			}
		}
	}
	return total
}

type ProofTotal struct {
	ProofType  domain.ProofType `json:"proof_type"`
	Amount     decimal.Decimal  `json:"amount"`
	Count      int              `json:"count"`
	Deductible bool             `json:"deductible"`
}

type Totals struct {
	ByProof       []ProofTotal    `json:"by_proof"`
	Deductible    decimal.Decimal `json:"deductible"`
	NonDeductible decimal.Decimal `json:"non_deductible"`
	Total         decimal.Decimal `json:"total"`
}

// ExpenditureTotals groups the period's expenditures by proof type in
// domain.AllProofTypes order. Unknown proof types are counted as none.
func ExpenditureTotals(records []domain.ExpenditureRecord, sel period.Selector) Totals {
	byProof := make(map[domain.ProofType]*ProofTotal, len(domain.AllProofTypes))
	out := Totals{
		ByProof:       make([]ProofTotal, len(domain.AllProofTypes)),
		Deductible:    decimal.Zero,
		NonDeductible: decimal.Zero,
		Total:         decimal.Zero,
	}
	for i, p := range domain.AllProofTypes {
		out.ByProof[i] = ProofTotal{ProofType: p, Amount: decimal.Zero, Deductible: p.Deductible()}
		byProof[p] = &out.ByProof[i]
	}

	for _, r := range records {
		if !sel.Matches(r.Date) {
			continue
		}
		pt, ok := byProof[r.ProofType]
		if !ok {
			pt = byProof[domain.ProofNone]
		}
		pt.Amount = pt.Amount.Add(r.Amount)
		pt.Count++

		out.Total = out.Total.Add(r.Amount)
		if pt.Deductible {
			out.Deductible = out.Deductible.Add(r.Amount)
		} else {
			out.NonDeductible = out.NonDeductible.Add(r.Amount)
		}
	}
	return out
}

type Result struct {
	Revenue         decimal.Decimal `json:"revenue"`
	Cogs            decimal.Decimal `json:"cogs"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	FixedCost       decimal.Decimal `json:"fixed_cost"`
	Expenditures    decimal.Decimal `json:"expenditures"`
	OperatingProfit decimal.Decimal `json:"operating_profit"`
	OperatingMargin float64         `json:"operating_margin"`
}

// OperatingResult derives gross and operating profit. OperatingMargin is a
// percentage of revenue and zero when revenue is not positive.
func OperatingResult(revenue, cogs, fixed, expenditures decimal.Decimal) Result {
	gross := revenue.Sub(cogs)
	operating := gross.Sub(fixed).Sub(expenditures)

	margin := 0.0
	if revenue.IsPositive() {
		margin = operating.Div(revenue).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	return Result{
		Revenue:         revenue,
		Cogs:            cogs,
		GrossProfit:     gross,
		FixedCost:       fixed,
		Expenditures:    expenditures,
		OperatingProfit: operating,
		OperatingMargin: margin,
	}
}
