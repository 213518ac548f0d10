package services

import (
	"sync"

	"growlokal/internal/domain"
	"growlokal/internal/repos"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Cats.List()
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	return s.Prods.Get(id)
}

// Section is one marketplace shelf: a category with its products.
type Section struct {
	Category domain.Category
	Products []domain.Product
}

// MarketplaceSections fetches every category's products concurrently.
// Categories are disjoint, so results merge by index with no ordering
// concerns; the first error wins.
func (s *CatalogService) MarketplaceSections(perCategory int) ([]Section, error) {
	if perCategory <= 0 {
		perCategory = 12
	}
	cats, err := s.Cats.List()
	if err != nil {
		return nil, err
	}

	sections := make([]Section, len(cats))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for i, cat := range cats {
		wg.Add(1)
		go func(i int, cat domain.Category) {
			defer wg.Done()
			prods, err := s.Prods.ListByCategory(cat.ID, perCategory, 0)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			sections[i] = Section{Category: cat, Products: prods}
		}(i, cat)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return sections, nil
}
