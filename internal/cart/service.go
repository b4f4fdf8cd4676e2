package cart

import (
	"context"

	pkgerrors "github.com/brightloom/storefront-backend/pkg/errors"
)

// Snapshot is the cart state returned to clients.
type Snapshot struct {
	Items  []Line `json:"items"`
	Totals Totals `json:"totals"`
}

// Service exposes the cart surface used by the HTTP controllers. Every call
// operates on the snapshot identified by the caller's cart token.
type Service interface {
	Fetch(ctx context.Context, token string) (*Snapshot, error)
	Replace(ctx context.Context, token string, lines []Line) (*Snapshot, error)
	Clear(ctx context.Context, token string) error
}

type service struct {
	storage Storage
}

// NewService builds a cart service over the provided storage port.
func NewService(storage Storage) (Service, error) {
	if storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart storage required")
	}
	return &service{storage: storage}, nil
}

func (s *service) Fetch(ctx context.Context, token string) (*Snapshot, error) {
	store, err := s.open(ctx, token)
	if err != nil {
		return nil, err
	}
	return snapshotOf(store), nil
}

// Replace swaps the entire cart for the supplied lines. Duplicate identities
// in the payload accumulate quantity, matching AddLine semantics.
func (s *service) Replace(ctx context.Context, token string, lines []Line) (*Snapshot, error) {
	store, err := s.open(ctx, token)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		if line.ProductID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line product id required")
		}
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be at least 1")
		}
	}

	if err := store.Clear(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset cart")
	}
	for _, line := range lines {
		if err := store.AddLine(ctx, line, line.Quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write cart line")
		}
	}
	return snapshotOf(store), nil
}

func (s *service) Clear(ctx context.Context, token string) error {
	store, err := s.open(ctx, token)
	if err != nil {
		return err
	}
	if err := store.Clear(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) open(ctx context.Context, token string) (*Store, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token required")
	}
	store, err := Open(ctx, s.storage, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open cart")
	}
	return store, nil
}

func snapshotOf(store *Store) *Snapshot {
	return &Snapshot{
		Items:  store.Lines(),
		Totals: store.Totals(),
	}
}
