package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"Storefront/internal/auth"
	"Storefront/internal/cart"
)

// State encodes the storefront records as JSON on top of a Store.
type State struct {
	store Store
}

func NewState(store Store) *State {
	return &State{store: store}
}

func (s *State) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *State) LoadSession(ctx context.Context) (auth.Identity, bool, error) {
	var id auth.Identity
	found, err := s.load(ctx, KeySession, &id)
	return id, found, err
}

// SaveSession writes the identity, or removes the record when id is nil.
func (s *State) SaveSession(ctx context.Context, id *auth.Identity) error {
	if id == nil {
		if err := s.store.Delete(ctx, KeySession); err != nil {
			return fmt.Errorf("delete %s: %w", KeySession, err)
		}
		return nil
	}
	return s.save(ctx, KeySession, id)
}

func (s *State) LoadCart(ctx context.Context) ([]cart.Line, error) {
	var lines []cart.Line
	_, err := s.load(ctx, KeyCart, &lines)
	return lines, err
}

func (s *State) SaveCart(ctx context.Context, lines []cart.Line) error {
	if lines == nil {
		lines = []cart.Line{}
	}
	return s.save(ctx, KeyCart, lines)
}

func (s *State) LoadOrders(ctx context.Context) ([]cart.Order, error) {
	var orders []cart.Order
	_, err := s.load(ctx, KeyOrders, &orders)
	return orders, err
}

func (s *State) SaveOrders(ctx context.Context, orders []cart.Order) error {
	if orders == nil {
		orders = []cart.Order{}
	}
	return s.save(ctx, KeyOrders, orders)
}

func (s *State) load(ctx context.Context, key string, dst any) (bool, error) {
	raw, found, err := s.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *State) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.store.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
