// Package fixture generates a deterministic demo cafe: catalog, inventory,
// expenses and a sales ledger.
package fixture

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository"
	"github.com/shopspring/decimal"
)

type Dataset struct {
	Materials    []domain.RawMaterial
	Recipes      []domain.MenuRecipe
	Items        []domain.InventoryItem
	Utilities    []domain.UtilityExpense
	Expenditures []domain.ExpenditureRecord
	Sales        []domain.SaleRecord
}

type Options struct {
	Seed int64
	Days int
	// End is the last ledger day; the ledger covers [End-Days+1, End].
	End time.Time
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func materials() []domain.RawMaterial {
	return []domain.RawMaterial{
		{ID: "mat-bean", Category: "coffee", Name: "Espresso beans", PurchasePrice: d(32000), PurchaseUnitQty: d(1000), Unit: domain.UnitGram},
		{ID: "mat-milk", Category: "dairy", Name: "Whole milk", PurchasePrice: d(2900), PurchaseUnitQty: d(900), Unit: domain.UnitMilliliter},
		{ID: "mat-choco", Category: "syrup", Name: "Chocolate sauce", PurchasePrice: d(12000), PurchaseUnitQty: d(1000), Unit: domain.UnitMilliliter},
		{ID: "mat-vanilla", Category: "syrup", Name: "Vanilla syrup", PurchasePrice: d(15000), PurchaseUnitQty: d(1000), Unit: domain.UnitMilliliter},
		{ID: "mat-tea", Category: "tea", Name: "Earl grey leaves", PurchasePrice: d(18000), PurchaseUnitQty: d(200), Unit: domain.UnitGram},
		{ID: "mat-cup", Category: "packaging", Name: "Paper cup", PurchasePrice: d(9000), PurchaseUnitQty: d(100), Unit: domain.UnitEach},
		{ID: "mat-scone", Category: "bakery", Name: "Frozen scone", PurchasePrice: d(24000), PurchaseUnitQty: d(20), Unit: domain.UnitEach},
	}
}

func ing(material string, qty, waste int64) domain.RecipeIngredient {
	return domain.RecipeIngredient{MaterialID: material, QuantityUsed: d(qty), WastePercentage: d(waste)}
}

func recipes() []domain.MenuRecipe {
	return []domain.MenuRecipe{
		{ID: "menu-americano", Name: "Americano", Category: "coffee", SalePrice: d(4000),
			Ingredients: []domain.RecipeIngredient{ing("mat-bean", 20, 2), ing("mat-cup", 1, 0)}},
		{ID: "menu-latte", Name: "Cafe Latte", Category: "coffee", SalePrice: d(5500),
			Ingredients: []domain.RecipeIngredient{ing("mat-bean", 20, 2), ing("mat-milk", 230, 5), ing("mat-cup", 1, 0)}},
		{ID: "menu-vanilla", Name: "Vanilla Latte", Category: "coffee", SalePrice: d(5000),
			Ingredients: []domain.RecipeIngredient{ing("mat-bean", 20, 2), ing("mat-milk", 220, 5), ing("mat-vanilla", 20, 0), ing("mat-cup", 1, 0)}},
		{ID: "menu-mocha", Name: "Cafe Mocha", Category: "coffee", SalePrice: d(3500),
			Ingredients: []domain.RecipeIngredient{ing("mat-bean", 20, 2), ing("mat-milk", 200, 5), ing("mat-choco", 40, 0), ing("mat-cup", 1, 0)}},
		{ID: "menu-tea", Name: "Earl Grey", Category: "tea", SalePrice: d(4000),
			Ingredients: []domain.RecipeIngredient{ing("mat-tea", 3, 0), ing("mat-cup", 1, 0)}},
		{ID: "menu-scone", Name: "Scone", Category: "bakery", SalePrice: d(3500),
			Ingredients: []domain.RecipeIngredient{ing("mat-scone", 1, 0)}},
	}
}

func items() []domain.InventoryItem {
	return []domain.InventoryItem{
		{ID: "inv-bean", MaterialID: "mat-bean", Category: "coffee", NameLocalized: "Espresso beans", CurrentStock: 4200, Unit: domain.UnitGram, LeadTimeDays: 3, SafetyStockThreshold: 2000, MaxStockLevel: 10000},
		{ID: "inv-milk", MaterialID: "mat-milk", Category: "dairy", NameLocalized: "Whole milk", CurrentStock: 9000, Unit: domain.UnitMilliliter, LeadTimeDays: 1, SafetyStockThreshold: 5000, MaxStockLevel: 27000},
		{ID: "inv-choco", MaterialID: "mat-choco", Category: "syrup", NameLocalized: "Chocolate sauce", CurrentStock: 3000, Unit: domain.UnitMilliliter, LeadTimeDays: 5, MaxStockLevel: 4000},
		{ID: "inv-vanilla", MaterialID: "mat-vanilla", Category: "syrup", NameLocalized: "Vanilla syrup", CurrentStock: 150, Unit: domain.UnitMilliliter, LeadTimeDays: 5, MaxStockLevel: 3000},
		{ID: "inv-tea", MaterialID: "mat-tea", Category: "tea", NameLocalized: "Earl grey leaves", CurrentStock: 400, Unit: domain.UnitGram, LeadTimeDays: 7, MaxStockLevel: 600},
		{ID: "inv-cup", MaterialID: "mat-cup", Category: "packaging", NameLocalized: "Paper cups", CurrentStock: 500, Unit: domain.UnitEach, LeadTimeDays: 2, SafetyStockThreshold: 200, MaxStockLevel: 2000},
		{ID: "inv-scone", MaterialID: "mat-scone", Category: "bakery", NameLocalized: "Frozen scones", CurrentStock: 12, Unit: domain.UnitEach, LeadTimeDays: 2, MaxStockLevel: 60},
	}
}

// menuWeights skews demand towards coffee.
var menuWeights = []int{30, 25, 12, 10, 8, 15}

// hourWeights covers 08:00 to 21:00 with a morning and a lunch peak.
var hourWeights = []int{10, 14, 9, 6, 10, 12, 7, 5, 6, 7, 6, 4, 3, 2}

const openHour = 8

func pick(r *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	n := r.Intn(total)
	for i, w := range weights {
		if n < w {
			return i
		}
		n -= w
	}
	return len(weights) - 1
}

// Generate builds the same dataset for the same options.
func Generate(opts Options, ids domain.IDGenerator) (Dataset, error) {
	if opts.Days <= 0 {
		opts.Days = 56
	}
	if opts.End.IsZero() {
		return Dataset{}, fmt.Errorf("fixture end date is required")
	}
	r := rand.New(rand.NewSource(opts.Seed))
	menu := recipes()
	end := time.Date(opts.End.Year(), opts.End.Month(), opts.End.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(opts.Days - 1))

	ds := Dataset{
		Materials: materials(),
		Recipes:   menu,
		Items:     items(),
		Utilities: []domain.UtilityExpense{
			{ID: "util-rent", Name: "Rent", Amount: d(1800000), Recurrence: domain.RecurrenceRecurring, Date: start.Format(domain.DateLayout)},
			{ID: "util-power", Name: "Electricity", Amount: d(240000), Recurrence: domain.RecurrenceRecurring, Date: start.Format(domain.DateLayout)},
			{ID: "util-internet", Name: "Internet", Amount: d(33000), Recurrence: domain.RecurrenceRecurring, Date: start.Format(domain.DateLayout)},
			{ID: "util-repair", Name: "Grinder repair", Amount: d(150000), Recurrence: domain.RecurrenceOneTime, Date: end.Format(domain.DateLayout)},
		},
	}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(domain.DateLayout)
		tickets := 25 + r.Intn(20)
		if wd := domain.WeekdayOf(day); wd == domain.Saturday || wd == domain.Sunday {
			tickets += 15
		}

		for i := 0; i < tickets; i++ {
			item := menu[pick(r, menuWeights)]
			hour := openHour + pick(r, hourWeights)
			clock := fmt.Sprintf("%02d:%02d:%02d", hour, r.Intn(60), r.Intn(60))
			qty := 1
			if r.Intn(5) == 0 {
				qty = 2
			}

			sale, err := domain.NewSaleRecord(ids, domain.SaleInput{
				Date:      date,
				Time:      clock,
				ItemName:  item.Name,
				Category:  item.Category,
				Quantity:  qty,
				UnitPrice: item.SalePrice,
			})
			if err != nil {
				return Dataset{}, err
			}
			ds.Sales = append(ds.Sales, sale)
		}

		if day.Day() == 1 || day.Day() == 15 {
			proof := domain.AllProofTypes[r.Intn(len(domain.AllProofTypes))]
			ds.Expenditures = append(ds.Expenditures, domain.ExpenditureRecord{
				ID:          ids.NewID(),
				Description: "Cleaning supplies",
				Amount:      d(int64(20000 + 1000*r.Intn(30))),
				ProofType:   proof,
				Date:        date,
			})
		}
	}
	return ds, nil
}

// Load writes the dataset into the repositories.
func Load(ctx context.Context, store repository.Store, ds Dataset) error {
	for _, m := range ds.Materials {
		if err := store.Catalog.SaveMaterial(ctx, m); err != nil {
			return fmt.Errorf("save material %s: %w", m.ID, err)
		}
	}
	for _, r := range ds.Recipes {
		if err := store.Catalog.SaveRecipe(ctx, r); err != nil {
			return fmt.Errorf("save recipe %s: %w", r.ID, err)
		}
	}
	for _, item := range ds.Items {
		if err := store.Inventory.SaveItem(ctx, item); err != nil {
			return fmt.Errorf("save inventory item %s: %w", item.ID, err)
		}
	}
	for _, u := range ds.Utilities {
		if err := store.Expenses.SaveUtility(ctx, u); err != nil {
			return fmt.Errorf("save utility %s: %w", u.ID, err)
		}
	}
	for _, e := range ds.Expenditures {
		if err := store.Expenses.SaveExpenditure(ctx, e); err != nil {
			return fmt.Errorf("save expenditure %s: %w", e.ID, err)
		}
	}
	if len(ds.Sales) > 0 {
		if err := store.Sales.CreateSales(ctx, ds.Sales); err != nil {
			return fmt.Errorf("save sales: %w", err)
		}
	}
	return nil
}
