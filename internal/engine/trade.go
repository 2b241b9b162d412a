package engine

import (
	"context"

	"github.com/vbonduro/relicforge/internal/domain"
)

// Trade transfers ownership of itemID from caller to recipient at the agreed
// price. The platform keeps feePercent of the price; the rest is paid out to
// the caller as the original owner, and payment above the price is refunded.
// The item record itself is untouched.
func (e *Engine) Trade(ctx context.Context, caller string, itemID int64, recipient string, price, payment int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused {
		return ErrPaused
	}

	err := e.inTx(ctx, func(d deps) error {
		owner, err := d.registry.OwnerOf(ctx, itemID)
		if err != nil {
			return err
		}
		if owner == "" || owner != caller {
			return ErrNotOwner
		}
		if recipient == "" {
			return ErrInvalidRecipient
		}
		if recipient == caller {
			return ErrSelfTrade
		}
		if payment < price {
			return ErrInsufficientPayment
		}

		// Floor division; sellerAmount absorbs the remainder so the two
		// always sum to price exactly.
		platformFee := price * e.rules.FeePercent / 100
		sellerAmount := price - platformFee

		if err := d.registry.Transfer(ctx, caller, recipient, itemID); err != nil {
			return err
		}

		if err := d.bank.Pay(ctx, caller, bankTreasury, payment); err != nil {
			return err
		}
		if err := d.bank.Pay(ctx, bankTreasury, caller, sellerAmount); err != nil {
			return err
		}
		if excess := payment - price; excess > 0 {
			if err := d.bank.Pay(ctx, bankTreasury, caller, excess); err != nil {
				return err
			}
		}

		_, err = d.events.Append(ctx, domain.EventItemTraded, domain.ItemTraded{
			ItemID: itemID,
			From:   caller,
			To:     recipient,
			Price:  price,
		}, e.src.Now())
		return err
	})
	if err != nil {
		return err
	}

	e.logger.Info("item traded",
		"item_id", itemID,
		"from", caller,
		"to", recipient,
		"price", price,
	)
	return nil
}
