package engine

import (
	"context"

	"github.com/vbonduro/relicforge/internal/domain"
	"github.com/vbonduro/relicforge/internal/gen"
	"github.com/vbonduro/relicforge/internal/random"
)

// Explore runs one cooldown-gated exploration for caller at the given
// difficulty level and returns the freshly minted item. payment is the
// amount the caller submits; anything above baseFee*level is refunded.
func (e *Engine) Explore(ctx context.Context, caller string, level int, payment int64) (*domain.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused {
		return nil, ErrPaused
	}
	if caller == "" {
		return nil, ErrInvalidCaller
	}
	if level < 1 || level > maxLevel {
		return nil, ErrInvalidLevel
	}

	var item *domain.Item
	err := e.inTx(ctx, func(d deps) error {
		minted, err := d.counters.TotalMinted(ctx)
		if err != nil {
			return err
		}
		if minted >= e.rules.MaxSupply {
			return ErrSupplyExhausted
		}

		now := e.src.Now()

		participant, err := d.participants.Get(ctx, caller)
		if err != nil {
			return err
		}
		if participant != nil && participant.TotalExplorations > 0 &&
			now.Before(participant.LastExplorationTime.Add(e.rules.Cooldown)) {
			return ErrCooldownActive
		}

		fee := e.rules.BaseFee * int64(level)
		if payment < fee {
			return ErrInsufficientPayment
		}

		digest := random.NewSeed().
			Time(now).
			Uint64(e.src.Nonce()).
			String(caller).
			Int64(minted).
			Int(level).
			Digest()

		rarity := gen.Rarity(digest, level)
		itemType := gen.ItemType(digest)
		power, defense, magic := gen.Stats(digest, rarity)

		id, err := d.counters.NextItemID(ctx)
		if err != nil {
			return err
		}

		item = &domain.Item{
			ID:        id,
			Name:      gen.Name(digest, rarity, itemType),
			Rarity:    rarity,
			Type:      itemType,
			Power:     power,
			Defense:   defense,
			Magic:     magic,
			CreatedAt: now,
		}

		if err := d.items.Create(ctx, item); err != nil {
			return err
		}
		if err := d.registry.Mint(ctx, caller, id); err != nil {
			return err
		}

		if err := d.participants.RecordExploration(ctx, caller, now); err != nil {
			return err
		}
		if err := d.participants.IncrementRarityCount(ctx, caller, rarity); err != nil {
			return err
		}

		// Capture the full submitted payment, then return the excess.
		// A failure in either leg aborts the whole workflow.
		if err := d.bank.Pay(ctx, caller, bankTreasury, payment); err != nil {
			return err
		}
		if excess := payment - fee; excess > 0 {
			if err := d.bank.Pay(ctx, bankTreasury, caller, excess); err != nil {
				return err
			}
		}

		_, err = d.events.Append(ctx, domain.EventExplorationCompleted, domain.ExplorationCompleted{
			Caller: caller,
			Level:  level,
			ItemID: id,
			Rarity: rarity,
		}, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("exploration complete",
		"caller", caller,
		"level", level,
		"item_id", item.ID,
		"rarity", item.Rarity.String(),
	)
	return item, nil
}
