package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository"
	"github.com/shopspring/decimal"
)

type summaryRow struct {
	Date      string          `db:"date"`
	Revenue   decimal.Decimal `db:"revenue"`
	Count     int             `db:"count"`
	Quantity  int             `db:"quantity"`
	AvgTicket decimal.Decimal `db:"avg_ticket"`
	TopItem   string          `db:"top_item"`
}

type summaryRepository struct {
	db *DB
}

func NewSummaryRepository(db *DB) repository.SummaryRepository {
	return &summaryRepository{db: db}
}

func (r *summaryRepository) SaveDailySummary(ctx context.Context, s domain.DailySummary) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO daily_summaries (summary_date, revenue, sale_count, quantity, avg_ticket, top_item)
		VALUES ($1::date, $2, $3, $4, $5, $6)
		ON CONFLICT (summary_date) DO UPDATE SET
			revenue = EXCLUDED.revenue,
			sale_count = EXCLUDED.sale_count,
			quantity = EXCLUDED.quantity,
			avg_ticket = EXCLUDED.avg_ticket,
			top_item = EXCLUDED.top_item,
			updated_at = NOW()
	`, s.Date, s.Revenue, s.Count, s.Quantity, s.AvgTicket, s.TopItem)
	if err != nil {
		return fmt.Errorf("error saving daily summary %s: %w", s.Date, err)
	}
	return nil
}

func (r *summaryRepository) ListDailySummaries(ctx context.Context, filter repository.SaleFilter) ([]domain.DailySummary, error) {
	query := `
		SELECT
			to_char(summary_date, 'YYYY-MM-DD') AS date,
			revenue,
			sale_count AS count,
			quantity,
			avg_ticket,
			top_item
		FROM daily_summaries WHERE 1=1`

	var args []interface{}
	var conditions []string
	if filter.Start != "" {
		args = append(args, filter.Start)
		conditions = append(conditions, fmt.Sprintf("summary_date >= $%d::date", len(args)))
	}
	if filter.End != "" {
		args = append(args, filter.End)
		conditions = append(conditions, fmt.Sprintf("summary_date <= $%d::date", len(args)))
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY summary_date"

	var rows []summaryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("error listing daily summaries: %w", err)
	}

	out := make([]domain.DailySummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.DailySummary{
			Date: row.Date, Revenue: row.Revenue, Count: row.Count,
			Quantity: row.Quantity, AvgTicket: row.AvgTicket, TopItem: row.TopItem,
		})
	}
	return out, nil
}

func (r *summaryRepository) DeleteDailySummary(ctx context.Context, date string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM daily_summaries WHERE summary_date = $1::date`, date)
	if err != nil {
		return fmt.Errorf("error deleting daily summary %s: %w", date, err)
	}
	return requireAffected(res, fmt.Sprintf("daily summary %s", date))
}
