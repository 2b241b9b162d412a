// Package registry is the non-fungible ownership ledger: each minted item id
// maps to exactly one owner. Mint creates the mapping, burn removes it, and
// transfer rebinds it. Workflows bind the registry to their transaction so a
// registry failure aborts the whole invocation.
package registry

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vbonduro/relicforge/internal/store"
)

type Registry struct {
	q store.Querier
}

func New(q store.Querier) *Registry {
	return &Registry{q: q}
}

// Mint records owner as the holder of itemID. Fails if the id is already
// minted; ids are assigned by the mint counter and never reused.
func (r *Registry) Mint(ctx context.Context, owner string, itemID int64) error {
	if owner == "" {
		return fmt.Errorf("cannot mint to empty owner")
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO ownership (item_id, owner) VALUES (?, ?)
	`, itemID, owner)
	if err != nil {
		return fmt.Errorf("failed to mint item %d: %w", itemID, err)
	}
	return nil
}

func (r *Registry) Burn(ctx context.Context, itemID int64) error {
	result, err := r.q.ExecContext(ctx, `
		DELETE FROM ownership WHERE item_id = ?
	`, itemID)
	if err != nil {
		return fmt.Errorf("failed to burn item %d: %w", itemID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("item %d is not minted", itemID)
	}

	return nil
}

// Transfer rebinds itemID from one owner to another. Fails unless from is
// the current owner.
func (r *Registry) Transfer(ctx context.Context, from, to string, itemID int64) error {
	if to == "" {
		return fmt.Errorf("cannot transfer to empty owner")
	}
	result, err := r.q.ExecContext(ctx, `
		UPDATE ownership SET owner = ? WHERE item_id = ? AND owner = ?
	`, to, itemID, from)
	if err != nil {
		return fmt.Errorf("failed to transfer item %d: %w", itemID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("item %d is not owned by %s", itemID, from)
	}

	return nil
}

// OwnerOf returns the current owner of itemID, or "" if the id is not
// minted.
func (r *Registry) OwnerOf(ctx context.Context, itemID int64) (string, error) {
	var owner string
	err := r.q.QueryRowContext(ctx, `
		SELECT owner FROM ownership WHERE item_id = ?
	`, itemID).Scan(&owner)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get owner of item %d: %w", itemID, err)
	}

	return owner, nil
}
