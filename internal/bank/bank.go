// Package bank is the fungible value-transfer ledger. Payments can fail on
// insufficient funds; workflows bind the bank to their transaction so a
// failed payout rolls back every state change already staged.
package bank

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vbonduro/relicforge/internal/store"
)

// Treasury is the account that accumulates platform fees.
const Treasury = "treasury"

var ErrInsufficientFunds = errors.New("insufficient funds")

type Bank struct {
	q store.Querier
}

func New(q store.Querier) *Bank {
	return &Bank{q: q}
}

func (b *Bank) BalanceOf(ctx context.Context, address string) (int64, error) {
	var balance int64
	err := b.q.QueryRowContext(ctx, `
		SELECT balance FROM balances WHERE address = ?
	`, address).Scan(&balance)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}

	return balance, nil
}

// Deposit credits amount to address, creating the account if needed.
func (b *Bank) Deposit(ctx context.Context, to string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("deposit amount must be positive, got %d", amount)
	}
	_, err := b.q.ExecContext(ctx, `
		INSERT INTO balances (address, balance) VALUES (?, ?)
		ON CONFLICT (address) DO UPDATE SET balance = balance + excluded.balance
	`, to, amount)
	if err != nil {
		return fmt.Errorf("failed to deposit: %w", err)
	}
	return nil
}

// Pay moves amount from one account to another. Returns
// ErrInsufficientFunds when the payer's balance cannot cover it.
func (b *Bank) Pay(ctx context.Context, from, to string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("payment amount must be non-negative, got %d", amount)
	}
	if amount == 0 {
		return nil
	}

	result, err := b.q.ExecContext(ctx, `
		UPDATE balances SET balance = balance - ? WHERE address = ? AND balance >= ?
	`, amount, from, amount)
	if err != nil {
		return fmt.Errorf("failed to debit %s: %w", from, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("pay %d from %s: %w", amount, from, ErrInsufficientFunds)
	}

	if err := b.Deposit(ctx, to, amount); err != nil {
		return fmt.Errorf("failed to credit %s: %w", to, err)
	}

	return nil
}
