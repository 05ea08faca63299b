package services

import (
	"threadline/internal/domain"
	"threadline/internal/repos"
)

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

func (s *CatalogService) ListProducts(category, q string, page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	offset := (page - 1) * pageSize
	return s.Prods.List(category, q, pageSize, offset)
}

// Featured returns the newest products for the home page.
func (s *CatalogService) Featured(n int) ([]domain.Product, error) {
	if n <= 0 {
		n = 6
	}
	return s.Prods.List("", "", n, 0)
}

// ProductPage joins a product with its variants for the detail view.
type ProductPage struct {
	Product  domain.Product
	Variants []domain.ProductVariant
}

func (s *CatalogService) GetBySlug(slug string) (ProductPage, error) {
	p, err := s.Prods.GetBySlug(slug)
	if err != nil {
		return ProductPage{}, err
	}
	vs, err := s.Prods.Variants(p.ID)
	if err != nil {
		return ProductPage{}, err
	}
	return ProductPage{Product: p, Variants: vs}, nil
}
