package postgres

import (
	"context"
	"fmt"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository"
)

type expenseRepository struct {
	db *DB
}

func NewExpenseRepository(db *DB) repository.ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) ListUtilities(ctx context.Context) ([]domain.UtilityExpense, error) {
	var out []domain.UtilityExpense
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, name, amount, recurrence, to_char(expense_date, 'YYYY-MM-DD') AS expense_date
		FROM utility_expenses
		ORDER BY expense_date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("error listing utility expenses: %w", err)
	}
	return out, nil
}

func (r *expenseRepository) SaveUtility(ctx context.Context, u domain.UtilityExpense) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO utility_expenses (id, name, amount, recurrence, expense_date)
		VALUES ($1, $2, $3, $4, $5::date)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			amount = EXCLUDED.amount,
			recurrence = EXCLUDED.recurrence,
			expense_date = EXCLUDED.expense_date
	`, u.ID, u.Name, u.Amount, string(u.Recurrence), u.Date)
	if err != nil {
		return fmt.Errorf("error saving utility expense %s: %w", u.ID, err)
	}
	return nil
}

func (r *expenseRepository) ListExpenditures(ctx context.Context) ([]domain.ExpenditureRecord, error) {
	var out []domain.ExpenditureRecord
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, description, amount, proof_type, to_char(expense_date, 'YYYY-MM-DD') AS expense_date
		FROM expenditures
		ORDER BY expense_date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("error listing expenditures: %w", err)
	}
	return out, nil
}

func (r *expenseRepository) SaveExpenditure(ctx context.Context, e domain.ExpenditureRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenditures (id, description, amount, proof_type, expense_date)
		VALUES ($1, $2, $3, $4, $5::date)
		ON CONFLICT (id) DO UPDATE SET
			description = EXCLUDED.description,
			amount = EXCLUDED.amount,
			proof_type = EXCLUDED.proof_type,
			expense_date = EXCLUDED.expense_date
	`, e.ID, e.Description, e.Amount, string(e.ProofType), e.Date)
	if err != nil {
		return fmt.Errorf("error saving expenditure %s: %w", e.ID, err)
	}
	return nil
}
