// internal/repository/postgres/sales_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository"
	"github.com/jmoiron/sqlx"
)

const saleColumns = `
	id,
	to_char(sale_date, 'YYYY-MM-DD') AS sale_date,
	to_char(sale_time, 'HH24:MI:SS') AS sale_time,
	item_name, category, quantity, unit_price, revenue, weekday, source
`

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) repository.SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) ListSales(ctx context.Context, filter repository.SaleFilter) ([]domain.SaleRecord, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE 1=1`

	var args []interface{}
	var conditions []string
	argCounter := 1

	if filter.Start != "" {
		conditions = append(conditions, fmt.Sprintf("sale_date >= $%d::date", argCounter))
		args = append(args, filter.Start)
		argCounter++
	}
	if filter.End != "" {
		conditions = append(conditions, fmt.Sprintf("sale_date <= $%d::date", argCounter))
		args = append(args, filter.End)
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY sale_date, sale_time, id"

	var sales []domain.SaleRecord
	if err := r.db.SelectContext(ctx, &sales, query, args...); err != nil {
		return nil, fmt.Errorf("error listing sales: %w", err)
	}
	return sales, nil
}

func (r *salesRepository) GetSale(ctx context.Context, id string) (domain.SaleRecord, error) {
	var sale domain.SaleRecord
	err := r.db.GetContext(ctx, &sale, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SaleRecord{}, fmt.Errorf("sale %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.SaleRecord{}, fmt.Errorf("error getting sale %s: %w", id, err)
	}
	return sale, nil
}

func (r *salesRepository) CreateSales(ctx context.Context, sales []domain.SaleRecord) error {
	if len(sales) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		return insertSales(ctx, tx, sales)
	})
}

func (r *salesRepository) ReplaceSourceSales(ctx context.Context, source string, sales []domain.SaleRecord) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sales WHERE source = $1`, source); err != nil {
			return fmt.Errorf("failed to clear sales from %s: %w", source, err)
		}
		tagged := make([]domain.SaleRecord, len(sales))
		for i, sale := range sales {
			sale.Source = source
			tagged[i] = sale
		}
		return insertSales(ctx, tx, tagged)
	})
}

func insertSales(ctx context.Context, tx *sqlx.Tx, sales []domain.SaleRecord) error {
	if len(sales) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sales (
			id, sale_date, sale_time, item_name, category,
			quantity, unit_price, revenue, weekday, source
		) VALUES ($1, $2::date, $3::time, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			sale_date = EXCLUDED.sale_date,
			sale_time = EXCLUDED.sale_time,
			item_name = EXCLUDED.item_name,
			category = EXCLUDED.category,
			quantity = EXCLUDED.quantity,
			unit_price = EXCLUDED.unit_price,
			revenue = EXCLUDED.revenue,
			weekday = EXCLUDED.weekday,
			source = EXCLUDED.source,
			updated_at = NOW()
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range sales {
		if _, err := stmt.ExecContext(ctx,
			s.ID, s.Date, s.Time, s.ItemName, s.Category,
			s.Quantity, s.UnitPrice, s.Revenue, int(s.Weekday), s.Source,
		); err != nil {
			return fmt.Errorf("failed to insert sale %s: %w", s.ID, err)
		}
	}
	return nil
}

func (r *salesRepository) UpdateSale(ctx context.Context, s domain.SaleRecord) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sales SET
			sale_date = $2::date,
			sale_time = $3::time,
			item_name = $4,
			category = $5,
			quantity = $6,
			unit_price = $7,
			revenue = $8,
			weekday = $9,
			updated_at = NOW()
		WHERE id = $1
	`, s.ID, s.Date, s.Time, s.ItemName, s.Category, s.Quantity, s.UnitPrice, s.Revenue, int(s.Weekday))
	if err != nil {
		return fmt.Errorf("error updating sale %s: %w", s.ID, err)
	}
	return requireAffected(res, fmt.Sprintf("sale %s", s.ID))
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for %s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}
