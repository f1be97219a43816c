// Package memory keeps the ledger in process memory. It backs local runs,
// the offline analytics command and service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository"
)

type Store struct {
	mu           sync.RWMutex
	sales        []domain.SaleRecord
	saleIndex    map[string]int
	materials    map[string]domain.RawMaterial
	recipes      map[string]domain.MenuRecipe
	recipeOrder  []string
	items        map[string]domain.InventoryItem
	itemOrder    []string
	intakes      map[string]domain.InventoryIntake
	utilities    []domain.UtilityExpense
	expenditures []domain.ExpenditureRecord
	summaries    map[string]domain.DailySummary
}

func New() *Store {
	return &Store{
		saleIndex: make(map[string]int),
		materials: make(map[string]domain.RawMaterial),
		recipes:   make(map[string]domain.MenuRecipe),
		items:     make(map[string]domain.InventoryItem),
		intakes:   make(map[string]domain.InventoryIntake),
		summaries: make(map[string]domain.DailySummary),
	}
}

// Repositories exposes the store through every repository interface.
func (s *Store) Repositories() repository.Store {
	return repository.Store{
		Sales:     s,
		Catalog:   s,
		Inventory: s,
		Expenses:  s,
		Summaries: s,
	}
}

func (s *Store) ListSales(_ context.Context, filter repository.SaleFilter) ([]domain.SaleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SaleRecord, 0, len(s.sales))
	for _, sale := range s.sales {
		if filter.Contains(sale.Date) {
			out = append(out, sale)
		}
	}
	return out, nil
}

func (s *Store) GetSale(_ context.Context, id string) (domain.SaleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.saleIndex[id]
	if !ok {
		return domain.SaleRecord{}, fmt.Errorf("sale %s: %w", id, domain.ErrNotFound)
	}
	return s.sales[i], nil
}

func (s *Store) CreateSales(_ context.Context, sales []domain.SaleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sale := range sales {
		if i, ok := s.saleIndex[sale.ID]; ok {
			s.sales[i] = sale
			continue
		}
		s.saleIndex[sale.ID] = len(s.sales)
		s.sales = append(s.sales, sale)
	}
	return nil
}

func (s *Store) ReplaceSourceSales(_ context.Context, source string, sales []domain.SaleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.sales[:0]
	for _, sale := range s.sales {
		if sale.Source != source {
			kept = append(kept, sale)
		}
	}
	s.sales = kept
	s.saleIndex = make(map[string]int, len(s.sales)+len(sales))
	for i, sale := range s.sales {
		s.saleIndex[sale.ID] = i
	}

	for _, sale := range sales {
		sale.Source = source
		if i, ok := s.saleIndex[sale.ID]; ok {
			s.sales[i] = sale
			continue
		}
		s.saleIndex[sale.ID] = len(s.sales)
		s.sales = append(s.sales, sale)
	}
	return nil
}

func (s *Store) UpdateSale(_ context.Context, sale domain.SaleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.saleIndex[sale.ID]
	if !ok {
		return fmt.Errorf("sale %s: %w", sale.ID, domain.ErrNotFound)
	}
	s.sales[i] = sale
	return nil
}

func (s *Store) ListMaterials(_ context.Context) ([]domain.RawMaterial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.RawMaterial, 0, len(s.materials))
	for _, m := range s.materials {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SaveMaterial(_ context.Context, m domain.RawMaterial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.materials[m.ID] = m
	return nil
}

func (s *Store) ListRecipes(_ context.Context) ([]domain.MenuRecipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.MenuRecipe, 0, len(s.recipeOrder))
	for _, id := range s.recipeOrder {
		out = append(out, cloneRecipe(s.recipes[id]))
	}
	return out, nil
}

func (s *Store) GetRecipe(_ context.Context, id string) (domain.MenuRecipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return domain.MenuRecipe{}, fmt.Errorf("recipe %s: %w", id, domain.ErrNotFound)
	}
	return cloneRecipe(r), nil
}

func (s *Store) SaveRecipe(_ context.Context, r domain.MenuRecipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[r.ID]; !ok {
		s.recipeOrder = append(s.recipeOrder, r.ID)
	}
	s.recipes[r.ID] = cloneRecipe(r)
	return nil
}

func (s *Store) ListItems(_ context.Context) ([]domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.InventoryItem, 0, len(s.itemOrder))
	for _, id := range s.itemOrder {
		out = append(out, s.items[id])
	}
	return out, nil
}

func (s *Store) SaveItem(_ context.Context, item domain.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[item.ID]; !ok {
		s.itemOrder = append(s.itemOrder, item.ID)
	}
	s.items[item.ID] = item
	return nil
}

func (s *Store) GetIntake(_ context.Context, id string) (domain.InventoryIntake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	in, ok := s.intakes[id]
	if !ok {
		return domain.InventoryIntake{}, fmt.Errorf("intake %s: %w", id, domain.ErrNotFound)
	}
	return in, nil
}

func (s *Store) CreateIntake(_ context.Context, intake domain.InventoryIntake) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[intake.ItemID]
	if !ok {
		return fmt.Errorf("inventory item %s: %w", intake.ItemID, domain.ErrNotFound)
	}
	item.CurrentStock += intake.Quantity
	s.items[item.ID] = item
	s.intakes[intake.ID] = intake
	return nil
}

func (s *Store) DeleteIntake(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, ok := s.intakes[id]
	if !ok {
		return fmt.Errorf("intake %s: %w", id, domain.ErrNotFound)
	}
	if item, ok := s.items[in.ItemID]; ok {
		item.CurrentStock -= in.Quantity
		s.items[item.ID] = item
	}
	delete(s.intakes, id)
	return nil
}

func (s *Store) ListUtilities(_ context.Context) ([]domain.UtilityExpense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.UtilityExpense(nil), s.utilities...), nil
}

func (s *Store) SaveUtility(_ context.Context, u domain.UtilityExpense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.utilities = append(s.utilities, u)
	return nil
}

func (s *Store) ListExpenditures(_ context.Context) ([]domain.ExpenditureRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ExpenditureRecord(nil), s.expenditures...), nil
}

func (s *Store) SaveExpenditure(_ context.Context, e domain.ExpenditureRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenditures = append(s.expenditures, e)
	return nil
}

func (s *Store) SaveDailySummary(_ context.Context, sum domain.DailySummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[sum.Date] = sum
	return nil
}

func (s *Store) ListDailySummaries(_ context.Context, filter repository.SaleFilter) ([]domain.DailySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.DailySummary, 0, len(s.summaries))
	for date, sum := range s.summaries {
		if filter.Contains(date) {
			out = append(out, sum)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *Store) DeleteDailySummary(_ context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.summaries[date]; !ok {
		return fmt.Errorf("daily summary %s: %w", date, domain.ErrNotFound)
	}
	delete(s.summaries, date)
	return nil
}

func cloneRecipe(r domain.MenuRecipe) domain.MenuRecipe {
	r.Ingredients = append([]domain.RecipeIngredient(nil), r.Ingredients...)
	return r
}
