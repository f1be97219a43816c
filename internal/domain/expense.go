package domain

import "github.com/shopspring/decimal"

type Recurrence string

const (
	RecurrenceRecurring Recurrence = "recurring"
	RecurrenceOneTime   Recurrence = "one_time"
)

// UtilityExpense is a monthly fixed cost such as rent, power or internet.
type UtilityExpense struct {
	ID         string          `json:"id" db:"id"`
	Name       string          `json:"name" db:"name"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Recurrence Recurrence      `json:"recurrence" db:"recurrence"`
	Date       string          `json:"date" db:"expense_date"`
}

// ProofType classifies the document backing an expenditure.
type ProofType string

const (
	ProofTaxInvoice    ProofType = "tax_invoice"
	ProofCardSlip      ProofType = "card_slip"
	ProofCashReceipt   ProofType = "cash_receipt"
	ProofSimpleReceipt ProofType = "simple_receipt"
	ProofNone          ProofType = "none"
)

// AllProofTypes is the reporting order of proof types.
var AllProofTypes = []ProofType{ProofTaxInvoice, ProofCardSlip, ProofCashReceipt, ProofSimpleReceipt, ProofNone}

// Deductible reports whether the proof qualifies the expense for tax deduction.
func (p ProofType) Deductible() bool {
	switch p {
	case ProofTaxInvoice, ProofCardSlip, ProofCashReceipt:
		return true
	default:
		return false
	}
}

// ExpenditureRecord is an ad-hoc business expense.
type ExpenditureRecord struct {
	ID          string          `json:"id" db:"id"`
	Description string          `json:"description" db:"description"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	ProofType   ProofType       `json:"proof_type" db:"proof_type"`
	Date        string          `json:"date" db:"expense_date"`
}
