// Package cart holds the in-memory shopping cart. The store is fully
// synchronous and never talks to the document store; its only side effect
// is the change notification used for the badge.
package cart

import (
	"github.com/shopspring/decimal"
)

// ProductInfo is the slice of a catalog product the cart captures when a
// line is first added. A later catalog price change does not touch lines
// already in the cart.
type ProductInfo struct {
	Name  string
	Price decimal.Decimal
	Image string
}

// ProductLookup resolves a product id against the latest catalog snapshot.
type ProductLookup func(productID string) (ProductInfo, bool)

// Line is one cart entry. Quantity is always >= 1; a line that would drop
// to zero is deleted instead.
type Line struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Image     string
	Quantity  int
}

// Summary accompanies every change notification.
type Summary struct {
	Count int
}

// Store maps product ids to lines, preserving first-add order so rendering
// is deterministic.
type Store struct {
	lookup   ProductLookup
	lines    map[string]*Line
	order    []string
	onChange func(Summary)
}

func New(lookup ProductLookup, onChange func(Summary)) *Store {
	if lookup == nil {
		lookup = func(string) (ProductInfo, bool) { return ProductInfo{}, false }
	}
	return &Store{
		lookup:   lookup,
		lines:    map[string]*Line{},
		onChange: onChange,
	}
}

// AddItem increments the line for the product, creating it at quantity 1
// from the product's current name/price/image. An id missing from the
// latest catalog snapshot is dropped silently, even when a line for it
// already exists: the click raced a catalog refresh. An existing line keeps
// its first-add price.
func (s *Store) AddItem(productID string) {
	info, ok := s.lookup(productID)
	if !ok {
		return
	}

	if line, ok := s.lines[productID]; ok {
		line.Quantity++
		s.notify()
		return
	}

	s.lines[productID] = &Line{
		ProductID: productID,
		Name:      info.Name,
		Price:     info.Price,
		Image:     info.Image,
		Quantity:  1,
	}
	s.order = append(s.order, productID)
	s.notify()
}

// ChangeQuantity adds delta to an existing line's quantity, deleting the
// line when the result is zero or below. Unknown ids are a no-op.
func (s *Store) ChangeQuantity(productID string, delta int) {
	line, ok := s.lines[productID]
	if !ok {
		return
	}
	line.Quantity += delta
	if line.Quantity <= 0 {
		s.delete(productID)
	}
	s.notify()
}

// RemoveItem deletes the line unconditionally if present.
func (s *Store) RemoveItem(productID string) {
	if _, ok := s.lines[productID]; !ok {
		return
	}
	s.delete(productID)
	s.notify()
}

// Clear empties the cart. Used only after a successful order submission.
func (s *Store) Clear() {
	s.lines = map[string]*Line{}
	s.order = nil
	s.notify()
}

// Total is Σ(price × quantity) over surviving lines, recomputed on demand.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Count is the total item count across lines.
func (s *Store) Count() int {
	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// Empty reports whether the cart has no lines.
func (s *Store) Empty() bool {
	return len(s.lines) == 0
}

// Quantity returns the quantity for a product id, 0 when absent.
func (s *Store) Quantity(productID string) int {
	if line, ok := s.lines[productID]; ok {
		return line.Quantity
	}
	return 0
}

// Lines returns value copies of every line in first-add order. Callers can
// hold the result across later cart mutations.
func (s *Store) Lines() []Line {
	out := make([]Line, 0, len(s.order))
	for _, id := range s.order {
		if line, ok := s.lines[id]; ok {
			out = append(out, *line)
		}
	}
	return out
}

func (s *Store) delete(productID string) {
	delete(s.lines, productID)
	for i, id := range s.order {
		if id == productID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange(Summary{Count: s.Count()})
	}
}
