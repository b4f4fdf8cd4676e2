package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Store holds the line items for one cart token and writes the full snapshot
// back to storage on every mutation. A corrupt snapshot loads as an empty
// cart rather than failing.
type Store struct {
	storage Storage
	token   string
	lines   []Line
}

// Open loads the snapshot for token, validating its structure.
func Open(ctx context.Context, storage Storage, token string) (*Store, error) {
	if storage == nil {
		return nil, errors.New("cart storage is required")
	}
	if token == "" {
		return nil, errors.New("cart token is required")
	}

	store := &Store{storage: storage, token: token}

	payload, err := storage.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return store, nil
		}
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal([]byte(payload), &lines); err != nil {
		// Unreadable snapshots reset to an empty cart.
		return store, nil
	}
	for _, line := range lines {
		if line.ProductID == "" || line.Quantity < 1 {
			return &Store{storage: storage, token: token}, nil
		}
	}
	store.lines = lines
	return store, nil
}

// AddLine merges quantity into an existing line with the same identity key,
// or appends a new line.
func (s *Store) AddLine(ctx context.Context, item Line, quantity int) error {
	if quantity <= 0 {
		quantity = 1
	}
	if item.ProductID == "" {
		return errors.New("product id is required")
	}

	for i := range s.lines {
		if s.lines[i].Matches(item.ProductID, item.Variant) {
			s.lines[i].Quantity += quantity
			return s.persist(ctx)
		}
	}

	item.Quantity = quantity
	s.lines = append(s.lines, item)
	return s.persist(ctx)
}

// UpdateQuantity sets the quantity for a line; zero or negative removes it.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, variant Variant, quantity int) error {
	if quantity <= 0 {
		return s.RemoveLine(ctx, productID, variant)
	}
	for i := range s.lines {
		if s.lines[i].Matches(productID, variant) {
			s.lines[i].Quantity = quantity
			return s.persist(ctx)
		}
	}
	return nil
}

// RemoveLine drops the matching line. Removing an absent line is a no-op.
func (s *Store) RemoveLine(ctx context.Context, productID string, variant Variant) error {
	for i := range s.lines {
		if s.lines[i].Matches(productID, variant) {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return s.persist(ctx)
		}
	}
	return nil
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	s.lines = nil
	if err := s.storage.Del(ctx, s.token); err != nil {
		return fmt.Errorf("clear cart snapshot: %w", err)
	}
	return nil
}

// Lines returns a copy of the current line items.
func (s *Store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Totals recomputes the aggregate on every call; nothing is cached.
func (s *Store) Totals() Totals {
	total := decimal.Zero
	count := 0
	for _, line := range s.lines {
		count += line.Quantity
		total = total.Add(line.Subtotal())
	}
	return Totals{
		ItemCount: count,
		Total:     total.Round(2),
	}
}

func (s *Store) persist(ctx context.Context) error {
	payload, err := json.Marshal(s.lines)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	if err := s.storage.Set(ctx, s.token, string(payload)); err != nil {
		return fmt.Errorf("persist cart snapshot: %w", err)
	}
	return nil
}
