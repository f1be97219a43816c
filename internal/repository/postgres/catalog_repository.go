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

type catalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) repository.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListMaterials(ctx context.Context) ([]domain.RawMaterial, error) {
	var materials []domain.RawMaterial
	err := r.db.SelectContext(ctx, &materials, `
		SELECT id, category, name, purchase_price, purchase_unit_qty, unit
		FROM raw_materials
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("error listing raw materials: %w", err)
	}
	return materials, nil
}

func (r *catalogRepository) SaveMaterial(ctx context.Context, m domain.RawMaterial) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO raw_materials (id, category, name, purchase_price, purchase_unit_qty, unit)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			category = EXCLUDED.category,
			name = EXCLUDED.name,
			purchase_price = EXCLUDED.purchase_price,
			purchase_unit_qty = EXCLUDED.purchase_unit_qty,
			unit = EXCLUDED.unit
	`, m.ID, m.Category, m.Name, m.PurchasePrice, m.PurchaseUnitQty, string(m.Unit))
	if err != nil {
		return fmt.Errorf("error saving raw material %s: %w", m.ID, err)
	}
	return nil
}

type ingredientRow struct {
	RecipeID string `db:"recipe_id"`
	domain.RecipeIngredient
}

func (r *catalogRepository) ListRecipes(ctx context.Context) ([]domain.MenuRecipe, error) {
	var recipes []domain.MenuRecipe
	if err := r.db.SelectContext(ctx, &recipes, `
		SELECT id, name, category, sale_price
		FROM menu_recipes
		ORDER BY position
	`); err != nil {
		return nil, fmt.Errorf("error listing recipes: %w", err)
	}

	var rows []ingredientRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT recipe_id, material_id, quantity_used, waste_percentage
		FROM recipe_ingredients
		ORDER BY recipe_id, material_id
	`); err != nil {
		return nil, fmt.Errorf("error listing recipe ingredients: %w", err)
	}

	byRecipe := make(map[string][]domain.RecipeIngredient, len(recipes))
	for _, row := range rows {
		byRecipe[row.RecipeID] = append(byRecipe[row.RecipeID], row.RecipeIngredient)
	}
	for i := range recipes {
		recipes[i].Ingredients = byRecipe[recipes[i].ID]
	}
	return recipes, nil
}

func (r *catalogRepository) GetRecipe(ctx context.Context, id string) (domain.MenuRecipe, error) {
	var recipe domain.MenuRecipe
	err := r.db.GetContext(ctx, &recipe, `
		SELECT id, name, category, sale_price FROM menu_recipes WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MenuRecipe{}, fmt.Errorf("recipe %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.MenuRecipe{}, fmt.Errorf("error getting recipe %s: %w", id, err)
	}

	if err := r.db.SelectContext(ctx, &recipe.Ingredients, `
		SELECT material_id, quantity_used, waste_percentage
		FROM recipe_ingredients
		WHERE recipe_id = $1
		ORDER BY material_id
	`, id); err != nil {
		return domain.MenuRecipe{}, fmt.Errorf("error getting ingredients of %s: %w", id, err)
	}
	return recipe, nil
}

// SaveRecipe upserts the recipe and replaces its ingredient list.
func (r *catalogRepository) SaveRecipe(ctx context.Context, recipe domain.MenuRecipe) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO menu_recipes (id, name, category, sale_price)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				category = EXCLUDED.category,
				sale_price = EXCLUDED.sale_price
		`, recipe.ID, recipe.Name, recipe.Category, recipe.SalePrice); err != nil {
			return fmt.Errorf("failed to upsert recipe %s: %w", recipe.ID, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipe.ID); err != nil {
			return fmt.Errorf("failed to clear ingredients of %s: %w", recipe.ID, err)
		}

		for _, ing := range recipe.Ingredients {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO recipe_ingredients (recipe_id, material_id, quantity_used, waste_percentage)
				VALUES ($1, $2, $3, $4)
			`, recipe.ID, ing.MaterialID, ing.QuantityUsed, ing.WastePercentage); err != nil {
				return fmt.Errorf("failed to insert ingredient %s of %s: %w", ing.MaterialID, recipe.ID, err)
			}
		}
		return nil
	})
}
