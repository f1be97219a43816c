package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository"
	"github.com/jmoiron/sqlx"
)

type inventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	err := r.db.SelectContext(ctx, &items, `
		SELECT
			id, material_id, category, name_localized, current_stock, unit,
			lead_time_days, safety_stock_threshold, max_stock_level, avg_daily_usage
		FROM inventory_items
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("error listing inventory items: %w", err)
	}
	return items, nil
}

func (r *inventoryRepository) SaveItem(ctx context.Context, item domain.InventoryItem) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inventory_items (
			id, material_id, category, name_localized, current_stock, unit,
			lead_time_days, safety_stock_threshold, max_stock_level, avg_daily_usage
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			material_id = EXCLUDED.material_id,
			category = EXCLUDED.category,
			name_localized = EXCLUDED.name_localized,
			current_stock = EXCLUDED.current_stock,
			unit = EXCLUDED.unit,
			lead_time_days = EXCLUDED.lead_time_days,
			safety_stock_threshold = EXCLUDED.safety_stock_threshold,
			max_stock_level = EXCLUDED.max_stock_level,
			avg_daily_usage = EXCLUDED.avg_daily_usage
	`,
		item.ID, item.MaterialID, item.Category, item.NameLocalized, item.CurrentStock, string(item.Unit),
		item.LeadTimeDays, item.SafetyStockThreshold, item.MaxStockLevel, item.AvgDailyUsage,
	)
	if err != nil {
		return fmt.Errorf("error saving inventory item %s: %w", item.ID, err)
	}
	return nil
}

func (r *inventoryRepository) GetIntake(ctx context.Context, id string) (domain.InventoryIntake, error) {
	var intake domain.InventoryIntake
	err := r.db.GetContext(ctx, &intake, `
		SELECT id, item_id, quantity, unit_cost, received_at
		FROM inventory_intakes
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.InventoryIntake{}, fmt.Errorf("intake %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.InventoryIntake{}, fmt.Errorf("error getting intake %s: %w", id, err)
	}
	return intake, nil
}

func (r *inventoryRepository) CreateIntake(ctx context.Context, intake domain.InventoryIntake) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE inventory_items SET current_stock = current_stock + $2 WHERE id = $1
		`, intake.ItemID, intake.Quantity)
		if err != nil {
			return fmt.Errorf("failed to add stock to %s: %w", intake.ItemID, err)
		}
		if err := requireAffected(res, fmt.Sprintf("inventory item %s", intake.ItemID)); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO inventory_intakes (id, item_id, quantity, unit_cost, received_at)
			VALUES ($1, $2, $3, $4, $5)
		`, intake.ID, intake.ItemID, intake.Quantity, intake.UnitCost, intake.ReceivedAt); err != nil {
			return fmt.Errorf("failed to insert intake %s: %w", intake.ID, err)
		}
		return nil
	})
}

func (r *inventoryRepository) DeleteIntake(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var intake domain.InventoryIntake
		err := tx.GetContext(ctx, &intake, `
			DELETE FROM inventory_intakes WHERE id = $1
			RETURNING id, item_id, quantity, unit_cost, received_at
		`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("intake %s: %w", id, domain.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to delete intake %s: %w", id, err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE inventory_items SET current_stock = current_stock - $2 WHERE id = $1
		`, intake.ItemID, intake.Quantity); err != nil {
			return fmt.Errorf("failed to revert stock of %s: %w", intake.ItemID, err)
		}
		return nil
	})
}
