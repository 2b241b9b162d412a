package engine

import (
	"context"
	"fmt"

	"github.com/vbonduro/relicforge/internal/domain"
	"github.com/vbonduro/relicforge/internal/gen"
	"github.com/vbonduro/relicforge/internal/random"
)

// Upgrade burns 2–5 of the caller's items and mints one merged item with
// their summed stats boosted by 20%, the highest input rarity (with a 25%
// chance of one extra tier, capped at Legendary), and the dominant input
// type. Payment above upgradeFee*count is refunded.
func (e *Engine) Upgrade(ctx context.Context, caller string, itemIDs []int64, payment int64) (*domain.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused {
		return nil, ErrPaused
	}
	if len(itemIDs) < minUpgradeItems || len(itemIDs) > maxUpgradeItems {
		return nil, ErrInvalidItemCount
	}
	seen := make(map[int64]bool, len(itemIDs))
	for _, id := range itemIDs {
		if seen[id] {
			return nil, ErrInvalidItemCount
		}
		seen[id] = true
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

		for _, id := range itemIDs {
			owner, err := d.registry.OwnerOf(ctx, id)
			if err != nil {
				return err
			}
			if owner != caller {
				return ErrNotOwnerOfAll
			}
		}

		fee := e.rules.UpgradeFee * int64(len(itemIDs))
		if payment < fee {
			return ErrInsufficientPayment
		}

		// Aggregate in input order. The dominant type is the FIRST item's
		// type: the replacement branch only fires while typeCount is still
		// zero, which never happens after the first item is seen. Later
		// different-typed items are counted against the dominant type but
		// can never displace it. This is deliberately not a majority vote.
		var sumPower, sumDefense, sumMagic int64
		var maxRarity domain.Rarity
		var dominantType domain.ItemType
		typeCount := 0
		for _, id := range itemIDs {
			input, err := d.items.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if input == nil {
				return fmt.Errorf("item %d is minted but has no record", id)
			}
			sumPower += input.Power
			sumDefense += input.Defense
			sumMagic += input.Magic
			if input.Rarity > maxRarity {
				maxRarity = input.Rarity
			}
			switch {
			case input.Type == dominantType:
				typeCount++
			case typeCount == 0:
				dominantType = input.Type
				typeCount = 1
			}
		}

		// Burn only after every ownership check has passed. The burns sit
		// in the same transaction as the mint below, so a later failure
		// unwinds them too.
		for _, id := range itemIDs {
			if err := d.registry.Burn(ctx, id); err != nil {
				return err
			}
			if err := d.items.Delete(ctx, id); err != nil {
				return err
			}
		}

		now := e.src.Now()
		seed := random.NewSeed().Time(now).String(caller)
		for _, id := range itemIDs {
			seed.Int64(id)
		}
		digest := seed.Digest()

		newRarity := maxRarity
		if uint64(digest)%100 < 25 && maxRarity < domain.RarityLegendary {
			newRarity++
		}

		id, err := d.counters.NextItemID(ctx)
		if err != nil {
			return err
		}

		item = &domain.Item{
			ID:        id,
			Name:      gen.Name(digest, newRarity, dominantType),
			Rarity:    newRarity,
			Type:      dominantType,
			Power:     sumPower * 120 / 100,
			Defense:   sumDefense * 120 / 100,
			Magic:     sumMagic * 120 / 100,
			CreatedAt: now,
		}

		if err := d.items.Create(ctx, item); err != nil {
			return err
		}
		if err := d.registry.Mint(ctx, caller, id); err != nil {
			return err
		}

		if err := d.participants.RecordItemFound(ctx, caller); err != nil {
			return err
		}
		if err := d.participants.IncrementRarityCount(ctx, caller, newRarity); err != nil {
			return err
		}

		if err := d.bank.Pay(ctx, caller, bankTreasury, payment); err != nil {
			return err
		}
		if excess := payment - fee; excess > 0 {
			if err := d.bank.Pay(ctx, bankTreasury, caller, excess); err != nil {
				return err
			}
		}

		_, err = d.events.Append(ctx, domain.EventItemsUpgraded, domain.ItemsUpgraded{
			Caller:    caller,
			BurnedIDs: itemIDs,
			NewItemID: id,
		}, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("items upgraded",
		"caller", caller,
		"burned", itemIDs,
		"new_item_id", item.ID,
		"rarity", item.Rarity.String(),
	)
	return item, nil
}
