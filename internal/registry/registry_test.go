package registry

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/relicforge/internal/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })
	return d
}

func TestRegistryMintAndOwnerOf(t *testing.T) {
	r := New(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, r.Mint(ctx, "alice", 1))

	owner, err := r.OwnerOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)
}

func TestRegistryOwnerOf_Unminted(t *testing.T) {
	r := New(openTestDB(t))

	owner, err := r.OwnerOf(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, owner)
}

// Each token has exactly one owner; minting an already-minted id must fail.
func TestRegistryMint_Duplicate(t *testing.T) {
	r := New(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, r.Mint(ctx, "alice", 1))
	assert.Error(t, r.Mint(ctx, "bob", 1))

	owner, err := r.OwnerOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)
}

func TestRegistryMint_EmptyOwner(t *testing.T) {
	r := New(openTestDB(t))

	assert.Error(t, r.Mint(context.Background(), "", 1))
}

func TestRegistryTransfer(t *testing.T) {
	r := New(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, r.Mint(ctx, "alice", 1))
	require.NoError(t, r.Transfer(ctx, "alice", "bob", 1))

	owner, err := r.OwnerOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "bob", owner)
}

func TestRegistryTransfer_WrongOwner(t *testing.T) {
	r := New(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, r.Mint(ctx, "alice", 1))
	assert.Error(t, r.Transfer(ctx, "bob", "carol", 1))

	owner, err := r.OwnerOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)
}

func TestRegistryBurn(t *testing.T) {
	r := New(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, r.Mint(ctx, "alice", 1))
	require.NoError(t, r.Burn(ctx, 1))

	owner, err := r.OwnerOf(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, owner)
}

func TestRegistryBurn_Unminted(t *testing.T) {
	r := New(openTestDB(t))

	assert.Error(t, r.Burn(context.Background(), 42))
}
