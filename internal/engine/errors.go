package engine

import "errors"

// Workflow precondition failures. Every one of these is checked before any
// state mutation, so a failed invocation has zero observable effect.
var (
	ErrPaused              = errors.New("engine is paused")
	ErrInvalidCaller       = errors.New("caller identity is required")
	ErrInvalidLevel        = errors.New("level must be between 1 and 10")
	ErrSupplyExhausted     = errors.New("maximum item supply reached")
	ErrCooldownActive      = errors.New("exploration cooldown is active")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrNotOwner            = errors.New("caller does not own the item")
	ErrInvalidRecipient    = errors.New("invalid trade recipient")
	ErrSelfTrade           = errors.New("cannot trade an item to yourself")
	ErrInvalidItemCount    = errors.New("upgrade requires between 2 and 5 distinct items")
	ErrNotOwnerOfAll       = errors.New("caller does not own every listed item")
)
