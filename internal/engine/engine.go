// Package engine is the transactional core of the item economy: exploration,
// trade, and upgrade workflows plus their read-only queries. Every workflow
// runs inside one sqlite transaction under one mutex, so invocations are
// strictly serialized and either every effect lands or none does.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vbonduro/relicforge/internal/bank"
	"github.com/vbonduro/relicforge/internal/domain"
	"github.com/vbonduro/relicforge/internal/random"
	"github.com/vbonduro/relicforge/internal/registry"
	"github.com/vbonduro/relicforge/internal/store"
)

const (
	maxLevel        = 10
	minUpgradeItems = 2
	maxUpgradeItems = 5

	// bankTreasury collects captured payments and platform fees.
	bankTreasury = bank.Treasury
)

// Rules are the economy parameters. They are fixed at startup; changing them
// requires a restart.
type Rules struct {
	BaseFee    int64         // exploration fee per level
	UpgradeFee int64         // upgrade fee per input item
	FeePercent int64         // platform cut of each trade, in percent
	Cooldown   time.Duration // minimum wait between explorations
	MaxSupply  int64         // items ever mintable
}

func DefaultRules() Rules {
	return Rules{
		BaseFee:    10,
		UpgradeFee: 25,
		FeePercent: 5,
		Cooldown:   time.Minute,
		MaxSupply:  10000,
	}
}

// itemRepository is the subset of store.ItemStore the engine requires.
type itemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	ListByOwner(ctx context.Context, owner string) ([]*domain.Item, error)
	Delete(ctx context.Context, id int64) error
}

// participantRepository is the subset of store.ParticipantStore the engine requires.
type participantRepository interface {
	Get(ctx context.Context, address string) (*domain.Participant, error)
	RecordExploration(ctx context.Context, address string, at time.Time) error
	RecordItemFound(ctx context.Context, address string) error
	IncrementRarityCount(ctx context.Context, address string, rarity domain.Rarity) error
	RarityCounts(ctx context.Context, address string) (map[domain.Rarity]int64, error)
}

// counterRepository is the subset of store.CounterStore the engine requires.
type counterRepository interface {
	TotalMinted(ctx context.Context) (int64, error)
	NextItemID(ctx context.Context) (int64, error)
}

// eventRepository is the subset of store.EventStore the engine requires.
type eventRepository interface {
	Append(ctx context.Context, kind string, payload any, at time.Time) (*domain.Event, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Event, error)
}

// ownershipRegistry is the external token ledger: one owner per minted id.
type ownershipRegistry interface {
	Mint(ctx context.Context, owner string, itemID int64) error
	Burn(ctx context.Context, itemID int64) error
	Transfer(ctx context.Context, from, to string, itemID int64) error
	OwnerOf(ctx context.Context, itemID int64) (string, error)
}

// valueLedger is the external value-transfer primitive; Pay may fail, which
// aborts the enclosing workflow.
type valueLedger interface {
	BalanceOf(ctx context.Context, address string) (int64, error)
	Deposit(ctx context.Context, to string, amount int64) error
	Pay(ctx context.Context, from, to string, amount int64) error
}

// deps bundles every collaborator bound to one transaction.
type deps struct {
	items        itemRepository
	participants participantRepository
	counters     counterRepository
	events       eventRepository
	registry     ownershipRegistry
	bank         valueLedger
}

type Engine struct {
	db     *sql.DB
	src    random.Source
	rules  Rules
	logger *slog.Logger

	// mu serializes workflow invocations. Holding it for the whole
	// invocation also rules out re-entrant calls observing stale cooldown
	// or supply state.
	mu     sync.Mutex
	paused bool

	// newDeps binds collaborators to a transaction; tests swap it to
	// inject failing registries or ledgers.
	newDeps func(q store.Querier) deps
}

func New(db *sql.DB, src random.Source, rules Rules, logger *slog.Logger) *Engine {
	e := &Engine{db: db, src: src, rules: rules, logger: logger}
	e.newDeps = func(q store.Querier) deps {
		return deps{
			items:        store.NewItemStore(q),
			participants: store.NewParticipantStore(q),
			counters:     store.NewCounterStore(q),
			events:       store.NewEventStore(q),
			registry:     registry.New(q),
			bank:         bank.New(q),
		}
	}
	return e
}

// Pause stops all workflow entry until Unpause. Queries keep working.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = true
}

func (e *Engine) Unpause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = false
}

// inTx runs fn with transaction-bound collaborators and commits only if fn
// succeeds. Any error rolls everything back — the all-or-nothing rule every
// workflow relies on.
func (e *Engine) inTx(ctx context.Context, fn func(d deps) error) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(e.newDeps(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			e.logger.Error("failed to roll back transaction", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
