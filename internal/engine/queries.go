package engine

import (
	"context"

	"github.com/vbonduro/relicforge/internal/domain"
)

// ParticipantStats bundles a participant's progression counters with their
// per-rarity collection counts.
type ParticipantStats struct {
	*domain.Participant
	RarityCounts map[domain.Rarity]int64
}

// TotalMinted reports how many items have ever been minted, including burned
// ones.
func (e *Engine) TotalMinted(ctx context.Context) (int64, error) {
	return e.newDeps(e.db).counters.TotalMinted(ctx)
}

// GetItem returns the item record, or nil if the id was never minted or has
// been burned.
func (e *Engine) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	return e.newDeps(e.db).items.GetByID(ctx, id)
}

// OwnerOf returns the current owner of id, or "" if it is not minted.
func (e *Engine) OwnerOf(ctx context.Context, id int64) (string, error) {
	return e.newDeps(e.db).registry.OwnerOf(ctx, id)
}

// GetParticipantStats returns progression stats for address, or nil if the
// address has never participated.
func (e *Engine) GetParticipantStats(ctx context.Context, address string) (*ParticipantStats, error) {
	d := e.newDeps(e.db)

	participant, err := d.participants.Get(ctx, address)
	if err != nil {
		return nil, err
	}
	if participant == nil {
		return nil, nil
	}

	counts, err := d.participants.RarityCounts(ctx, address)
	if err != nil {
		return nil, err
	}

	return &ParticipantStats{Participant: participant, RarityCounts: counts}, nil
}

// ListItemsByOwner returns every item address currently holds.
func (e *Engine) ListItemsByOwner(ctx context.Context, address string) ([]*domain.Item, error) {
	return e.newDeps(e.db).items.ListByOwner(ctx, address)
}

// ListEvents returns up to limit recent workflow events, newest first.
func (e *Engine) ListEvents(ctx context.Context, limit int) ([]*domain.Event, error) {
	return e.newDeps(e.db).events.ListRecent(ctx, limit)
}

// BalanceOf returns address's fungible balance.
func (e *Engine) BalanceOf(ctx context.Context, address string) (int64, error) {
	return e.newDeps(e.db).bank.BalanceOf(ctx, address)
}

// Deposit credits amount to address. This is the funding entry point for a
// self-contained deployment; a real deployment would settle against an
// external ledger instead.
func (e *Engine) Deposit(ctx context.Context, address string, amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.inTx(ctx, func(d deps) error {
		return d.bank.Deposit(ctx, address, amount)
	})
}

// WithdrawFees drains the accumulated platform fees to the given admin
// account and returns the amount moved.
func (e *Engine) WithdrawFees(ctx context.Context, to string) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var amount int64
	err := e.inTx(ctx, func(d deps) error {
		balance, err := d.bank.BalanceOf(ctx, bankTreasury)
		if err != nil {
			return err
		}
		if balance == 0 {
			return nil
		}
		if err := d.bank.Pay(ctx, bankTreasury, to, balance); err != nil {
			return err
		}
		amount = balance
		return nil
	})
	if err != nil {
		return 0, err
	}

	e.logger.Info("platform fees withdrawn", "to", to, "amount", amount)
	return amount, nil
}
