package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"rendezvous/internal/domain"
)

// Store holds the cart lines of one ordering session. There is at most one
// line per item id and no line ever holds a quantity below one.
type Store struct {
	mu    sync.RWMutex
	lines []domain.CartLineItem
}

func NewStore() *Store {
	return &Store{}
}

// Add puts one more of item into the cart and returns the resulting line.
func (s *Store) Add(item domain.MenuItem) domain.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(item.ID); i >= 0 {
		s.lines[i].Quantity++
		return copyLine(s.lines[i])
	}
	ingredients := item.Ingredients
	if ingredients == nil {
		ingredients = []domain.Ingredient{}
	}
	l := domain.CartLineItem{
		ItemID:      item.ID,
		Name:        item.Name,
		Price:       item.Price,
		Quantity:    1,
		Description: item.Description,
		Category:    item.Category,
		MenuType:    item.MenuType,
		ImageURL:    item.ImageURL,
		Ingredients: append([]domain.Ingredient(nil), ingredients...),
	}
	s.lines = append(s.lines, l)
	return copyLine(l)
}

// UpdateQuantity shifts a line's quantity by delta. Going to zero or below
// removes the line instead.
func (s *Store) UpdateQuantity(itemID string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(itemID)
	if i < 0 {
		return
	}
	q := s.lines[i].Quantity + delta
	if q <= 0 {
		s.removeAt(i)
		return
	}
	s.lines[i].Quantity = max(1, q)
}

func (s *Store) Remove(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(itemID); i >= 0 {
		s.removeAt(i)
	}
}

func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// Count is the number of units across all lines.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

// Lines returns a copy safe to keep after the cart changes.
func (s *Store) Lines() []domain.CartLineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CartLineItem, 0, len(s.lines))
	for _, l := range s.lines {
		out = append(out, copyLine(l))
	}
	return out
}

// Subtract takes submitted lines back out of the cart, lowering each matching
// line by the submitted quantity. Lines added or topped up after the snapshot
// keep the difference.
func (s *Store) Subtract(submitted []domain.CartLineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range submitted {
		i := s.index(sub.ItemID)
		if i < 0 {
			continue
		}
		if q := s.lines[i].Quantity - sub.Quantity; q > 0 {
			s.lines[i].Quantity = q
		} else {
			s.removeAt(i)
		}
	}
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

func (s *Store) index(itemID string) int {
	for i, l := range s.lines {
		if l.ItemID == itemID {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
}

func copyLine(l domain.CartLineItem) domain.CartLineItem {
	l.Ingredients = append([]domain.Ingredient{}, l.Ingredients...)
	return l
}
