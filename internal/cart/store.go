// Package cart holds the shopper's in-progress selection. The Store is a
// plain in-memory reducer over cart lines; persistence is an injected
// collaborator so handlers can back it with the database and tests with a
// fake.
package cart

import "threadline/internal/domain"

// Persister mirrors the store's contents. Save receives the full item list
// after every mutation; an empty list means the snapshot must be removed,
// not stored empty.
type Persister interface {
	Load(sessionID string) ([]domain.CartItem, error)
	Save(sessionID string, items []domain.CartItem) error
}

type Store struct {
	sid     string
	items   []domain.CartItem
	persist Persister
}

// Load hydrates a store from its persisted snapshot, once, at the start of a
// request. A missing snapshot yields an empty cart.
func Load(sessionID string, p Persister) (*Store, error) {
	items, err := p.Load(sessionID)
	if err != nil {
		return nil, err
	}
	return &Store{sid: sessionID, items: items, persist: p}, nil
}

// Add merges the item into the cart: an existing (productID, size) line has
// its quantity incremented, anything else is appended. Mutations never fail;
// persistence errors are deliberately dropped (single browser, best-effort
// mirror).
func (s *Store) Add(item domain.CartItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	for i, it := range s.items {
		if it.ProductID == item.ProductID && it.Size == item.Size {
			s.items[i].Quantity += item.Quantity
			s.save()
			return
		}
	}
	s.items = append(s.items, item)
	s.save()
}

// Remove deletes the matching line; absent lines are a no-op.
func (s *Store) Remove(productID, size string) {
	for i, it := range s.items {
		if it.ProductID == productID && it.Size == size {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.save()
			return
		}
	}
}

// UpdateQuantity sets (not adds to) the line's quantity. A quantity of zero
// or less behaves as Remove.
func (s *Store) UpdateQuantity(productID, size string, qty int) {
	if qty <= 0 {
		s.Remove(productID, size)
		return
	}
	for i, it := range s.items {
		if it.ProductID == productID && it.Size == size {
			s.items[i].Quantity = qty
			s.save()
			return
		}
	}
}

// Clear empties the store; used after a successful checkout.
func (s *Store) Clear() {
	s.items = nil
	s.save()
}

// Items returns a copy of the current lines.
func (s *Store) Items() []domain.CartItem {
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total is recomputed from the current lines on every call.
func (s *Store) Total() float64 {
	t := 0.0
	for _, it := range s.items {
		t += it.Subtotal()
	}
	return t
}

// Count sums the quantities across all lines.
func (s *Store) Count() int {
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *Store) save() {
	_ = s.persist.Save(s.sid, s.items)
}
