package services

import (
	"database/sql"
	"errors"

	"threadline/internal/domain"
	"threadline/internal/repos"
)

type InventoryService struct {
	Prods *repos.ProductRepo
}

func NewInventoryService(prods *repos.ProductRepo) *InventoryService {
	return &InventoryService{Prods: prods}
}

// Availability is the JSON shape of the public stock probe used by the
// product detail page.
type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Stock  int    `json:"stock,omitempty"`
}

// CheckAvailability maps a variant's stock onto a coarse status. A missing
// variant row counts as out of stock.
func (s *InventoryService) CheckAvailability(productID, size string) (Availability, error) {
	v, err := s.Prods.Variant(productID, size)
	if errors.Is(err, sql.ErrNoRows) {
		return Availability{Status: "OUT_OF_STOCK"}, nil
	}
	if err != nil {
		return Availability{}, err
	}

	status := "OUT_OF_STOCK"
	switch {
	case v.Stock >= 5:
		status = "IN_STOCK"
	case v.Stock > 0:
		status = "LOW_STOCK"
	}
	return Availability{Status: status, Stock: v.Stock}, nil
}

func (s *InventoryService) ListAll() ([]repos.InventoryRow, error) {
	return s.Prods.ListInventory()
}

// SetStock overwrites a variant's stock (admin inventory edit).
func (s *InventoryService) SetStock(productID, size string, stock int) error {
	if !domain.ValidSize(size) {
		return errors.New("unknown size")
	}
	if stock < 0 {
		return errors.New("stock must be non-negative")
	}
	return s.Prods.SetStock(productID, size, stock)
}
