package store

import (
	"context"
	"fmt"
)

const counterTotalMinted = "total_minted"

// CounterStore holds the global mint counter. The counter doubles as the
// next item identifier and as the supply-cap check, and it only ever grows.
type CounterStore struct {
	q Querier
}

func NewCounterStore(q Querier) *CounterStore {
	return &CounterStore{q: q}
}

func (s *CounterStore) TotalMinted(ctx context.Context) (int64, error) {
	var v int64
	err := s.q.QueryRowContext(ctx, `
		SELECT value FROM counters WHERE name = ?
	`, counterTotalMinted).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("failed to read mint counter: %w", err)
	}
	return v, nil
}

// NextItemID increments the mint counter and returns its new value, which
// becomes the freshly minted item's identifier.
func (s *CounterStore) NextItemID(ctx context.Context) (int64, error) {
	var v int64
	err := s.q.QueryRowContext(ctx, `
		UPDATE counters SET value = value + 1 WHERE name = ? RETURNING value
	`, counterTotalMinted).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("failed to advance mint counter: %w", err)
	}
	return v, nil
}
