// internal/repository/repository.go
package repository

import (
	"context"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
)

// SaleFilter bounds a ledger read to [Start, End]. Empty bounds are open.
type SaleFilter struct {
	Start string
	End   string
}

// Contains reports whether date lies inside the filter bounds.
func (f SaleFilter) Contains(date string) bool {
	if f.Start != "" && date < f.Start {
		return false
	}
	if f.End != "" && date > f.End {
		return false
	}
	return true
}

type SalesRepository interface {
	ListSales(ctx context.Context, filter SaleFilter) ([]domain.SaleRecord, error)
	GetSale(ctx context.Context, id string) (domain.SaleRecord, error)
	CreateSales(ctx context.Context, sales []domain.SaleRecord) error
	// ReplaceSourceSales atomically removes every sale imported from source
	// and stores sales in their place.
	ReplaceSourceSales(ctx context.Context, source string, sales []domain.SaleRecord) error
	UpdateSale(ctx context.Context, sale domain.SaleRecord) error
}

type CatalogRepository interface {
	ListMaterials(ctx context.Context) ([]domain.RawMaterial, error)
	SaveMaterial(ctx context.Context, m domain.RawMaterial) error
	ListRecipes(ctx context.Context) ([]domain.MenuRecipe, error)
	GetRecipe(ctx context.Context, id string) (domain.MenuRecipe, error)
	SaveRecipe(ctx context.Context, r domain.MenuRecipe) error
}

type InventoryRepository interface {
	ListItems(ctx context.Context) ([]domain.InventoryItem, error)
	SaveItem(ctx context.Context, item domain.InventoryItem) error
	GetIntake(ctx context.Context, id string) (domain.InventoryIntake, error)
	CreateIntake(ctx context.Context, intake domain.InventoryIntake) error
	// DeleteIntake removes the intake and takes its quantity back out of the
	// item's current stock.
	DeleteIntake(ctx context.Context, id string) error
}

type ExpenseRepository interface {
	ListUtilities(ctx context.Context) ([]domain.UtilityExpense, error)
	SaveUtility(ctx context.Context, u domain.UtilityExpense) error
	ListExpenditures(ctx context.Context) ([]domain.ExpenditureRecord, error)
	SaveExpenditure(ctx context.Context, e domain.ExpenditureRecord) error
}

// SummaryRepository archives derived daily aggregates. Saving a date that
// already exists replaces it.
type SummaryRepository interface {
	SaveDailySummary(ctx context.Context, s domain.DailySummary) error
	ListDailySummaries(ctx context.Context, filter SaleFilter) ([]domain.DailySummary, error)
	DeleteDailySummary(ctx context.Context, date string) error
}

// Store bundles the ledger repositories the analytics service reads from.
type Store struct {
	Sales     SalesRepository
	Catalog   CatalogRepository
	Inventory InventoryRepository
	Expenses  ExpenseRepository
	Summaries SummaryRepository
}
