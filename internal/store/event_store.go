package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/relicforge/internal/domain"
)

// EventStore is the append-only workflow event log. Entries are never
// updated or deleted.
type EventStore struct {
	q Querier
}

func NewEventStore(q Querier) *EventStore {
	return &EventStore{q: q}
}

func (s *EventStore) Append(ctx context.Context, kind string, payload any, at time.Time) (*domain.Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event payload: %w", err)
	}

	ev := &domain.Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		Payload:   data,
		CreatedAt: at,
	}

	_, err = s.q.ExecContext(ctx, `
		INSERT INTO events (id, kind, payload, created_at) VALUES (?, ?, ?, ?)
	`, ev.ID, ev.Kind, string(ev.Payload), ev.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	return ev, nil
}

// ListRecent returns up to limit events, newest first. The table is
// append-only, so rowid order is append order and keeps same-timestamp
// events deterministic.
func (s *EventStore) ListRecent(ctx context.Context, limit int) ([]*domain.Event, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, kind, payload, created_at FROM events
		ORDER BY rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var events []*domain.Event
	for rows.Next() {
		ev := &domain.Event{}
		var payload string
		if err := rows.Scan(&ev.ID, &ev.Kind, &payload, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Payload = []byte(payload)
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}
