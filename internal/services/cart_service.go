package services

import (
	"threadline/internal/cart"
	"threadline/internal/domain"
	"threadline/internal/repos"
)

// CartService loads a session's cart store and applies shopper mutations.
// Line snapshots (name, image, price) are taken from the catalog at add time;
// the variant price wins over the product base price when it differs.
type CartService struct {
	Persist cart.Persister
	Prods   *repos.ProductRepo
}

func NewCartService(p cart.Persister, prods *repos.ProductRepo) *CartService {
	return &CartService{Persist: p, Prods: prods}
}

func (s *CartService) Load(sessionID string) (*cart.Store, error) {
	return cart.Load(sessionID, s.Persist)
}

func (s *CartService) Add(sessionID, productID, size string, qty int) error {
	p, err := s.Prods.Get(productID)
	if err != nil {
		return err
	}
	price := p.Price
	if v, err := s.Prods.Variant(productID, size); err == nil {
		price = v.Price
	}

	st, err := s.Load(sessionID)
	if err != nil {
		return err
	}
	st.Add(domain.CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Image:     p.MainImage(),
		Size:      size,
		Quantity:  qty,
		Price:     price,
	})
	return nil
}

func (s *CartService) Remove(sessionID, productID, size string) error {
	st, err := s.Load(sessionID)
	if err != nil {
		return err
	}
	st.Remove(productID, size)
	return nil
}

func (s *CartService) UpdateQuantity(sessionID, productID, size string, qty int) error {
	st, err := s.Load(sessionID)
	if err != nil {
		return err
	}
	st.UpdateQuantity(productID, size, qty)
	return nil
}

func (s *CartService) Clear(sessionID string) error {
	st, err := s.Load(sessionID)
	if err != nil {
		return err
	}
	st.Clear()
	return nil
}
