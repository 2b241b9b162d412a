package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/vbonduro/relicforge/internal/domain"
)

type ItemStore struct {
	q Querier
}

func NewItemStore(q Querier) *ItemStore {
	return &ItemStore{q: q}
}

// Create inserts an item under its pre-assigned identifier. Identifiers come
// from the mint counter, never from autoincrement, so a burned id is never
// handed out again.
func (s *ItemStore) Create(ctx context.Context, item *domain.Item) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO items (id, name, rarity, item_type, power, defense, magic, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.Name, item.Rarity, item.Type, item.Power, item.Defense, item.Magic, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

func (s *ItemStore) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	item := &domain.Item{}
	err := s.q.QueryRowContext(ctx, `
		SELECT id, name, rarity, item_type, power, defense, magic, created_at
		FROM items WHERE id = ?
	`, id).Scan(&item.ID, &item.Name, &item.Rarity, &item.Type, &item.Power, &item.Defense, &item.Magic, &item.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

// ListByOwner returns every item currently held by owner, oldest first.
func (s *ItemStore) ListByOwner(ctx context.Context, owner string) ([]*domain.Item, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT i.id, i.name, i.rarity, i.item_type, i.power, i.defense, i.magic, i.created_at
		FROM items i
		JOIN ownership o ON o.item_id = i.id
		WHERE o.owner = ?
		ORDER BY i.id ASC
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var items []*domain.Item
	for rows.Next() {
		item := &domain.Item{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Rarity, &item.Type, &item.Power, &item.Defense, &item.Magic, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

func (s *ItemStore) Delete(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM items WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("item %d not found", id)
	}

	return nil
}
