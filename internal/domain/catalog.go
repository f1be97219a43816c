package domain

import "github.com/shopspring/decimal"

// RawMaterial is a purchasing record: a lot of PurchaseUnitQty units bought
// for PurchasePrice.
type RawMaterial struct {
	ID              string          `json:"id" db:"id"`
	Category        string          `json:"category" db:"category"`
	Name            string          `json:"name" db:"name"`
	PurchasePrice   decimal.Decimal `json:"purchase_price" db:"purchase_price"`
	PurchaseUnitQty decimal.Decimal `json:"purchase_unit_qty" db:"purchase_unit_qty"`
	Unit            UnitOfMeasure   `json:"unit" db:"unit"`
}

// RecipeIngredient links a menu item to the material it consumes. MaterialID
// is a reference only; the material may have been deleted since.
type RecipeIngredient struct {
	MaterialID      string          `json:"material_id" db:"material_id"`
	QuantityUsed    decimal.Decimal `json:"quantity_used" db:"quantity_used"`
	WastePercentage decimal.Decimal `json:"waste_percentage" db:"waste_percentage"`
}

// MenuRecipe is the bill of materials of one menu item.
type MenuRecipe struct {
	ID          string             `json:"id" db:"id"`
	Name        string             `json:"name" db:"name"`
	Category    string             `json:"category" db:"category"`
	SalePrice   decimal.Decimal    `json:"sale_price" db:"sale_price"`
	Ingredients []RecipeIngredient `json:"ingredients" db:"-"`
}
