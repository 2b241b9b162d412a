package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/vbonduro/relicforge/internal/domain"
)

type ParticipantStore struct {
	q Querier
}

func NewParticipantStore(q Querier) *ParticipantStore {
	return &ParticipantStore{q: q}
}

func (s *ParticipantStore) Get(ctx context.Context, address string) (*domain.Participant, error) {
	p := &domain.Participant{}
	var last sql.NullTime
	err := s.q.QueryRowContext(ctx, `
		SELECT address, total_explorations, total_items_found, last_exploration_time
		FROM participants WHERE address = ?
	`, address).Scan(&p.Address, &p.TotalExplorations, &p.TotalItemsFound, &last)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	if last.Valid {
		p.LastExplorationTime = last.Time
	}
	return p, nil
}

// RecordExploration bumps the exploration and items-found counters and
// advances the cooldown timestamp, creating the participant row lazily.
func (s *ParticipantStore) RecordExploration(ctx context.Context, address string, at time.Time) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO participants (address, total_explorations, total_items_found, last_exploration_time)
		VALUES (?, 1, 1, ?)
		ON CONFLICT (address) DO UPDATE SET
			total_explorations = total_explorations + 1,
			total_items_found = total_items_found + 1,
			last_exploration_time = excluded.last_exploration_time
	`, address, at)
	if err != nil {
		return fmt.Errorf("failed to record exploration: %w", err)
	}
	return nil
}

// RecordItemFound bumps only the items-found counter; upgrades award items
// without counting as explorations.
func (s *ParticipantStore) RecordItemFound(ctx context.Context, address string) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO participants (address, total_explorations, total_items_found)
		VALUES (?, 0, 1)
		ON CONFLICT (address) DO UPDATE SET
			total_items_found = total_items_found + 1
	`, address)
	if err != nil {
		return fmt.Errorf("failed to record item found: %w", err)
	}
	return nil
}

// IncrementRarityCount bumps the per-rarity collection counter for address.
func (s *ParticipantStore) IncrementRarityCount(ctx context.Context, address string, rarity domain.Rarity) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO participant_rarities (address, rarity, count)
		VALUES (?, ?, 1)
		ON CONFLICT (address, rarity) DO UPDATE SET count = count + 1
	`, address, rarity)
	if err != nil {
		return fmt.Errorf("failed to increment rarity count: %w", err)
	}
	return nil
}

// RarityCounts returns the per-rarity collection counters for address.
// Rarities never received are absent from the map.
func (s *ParticipantStore) RarityCounts(ctx context.Context, address string) (map[domain.Rarity]int64, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT rarity, count FROM participant_rarities WHERE address = ?
	`, address)
	if err != nil {
		return nil, fmt.Errorf("failed to list rarity counts: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	counts := make(map[domain.Rarity]int64)
	for rows.Next() {
		var r domain.Rarity
		var c int64
		if err := rows.Scan(&r, &c); err != nil {
			return nil, fmt.Errorf("failed to scan rarity count: %w", err)
		}
		counts[r] = c
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rarity counts: %w", err)
	}

	return counts, nil
}
