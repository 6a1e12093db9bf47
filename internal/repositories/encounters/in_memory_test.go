package encounters_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfable/brawl-bot-discord/internal/domain/combat"
	"github.com/wildfable/brawl-bot-discord/internal/repositories/encounters"
)

func TestInMemoryStore_CreateIsIdempotentPerChannel(t *testing.T) {
	ctx := context.Background()
	store := encounters.NewInMemoryStore(encounters.InMemoryStoreConfig{})

	first := combat.NewEncounter("enc-1", "channel-1", "guild-1")
	result, err := store.Create(ctx, first)
	require.NoError(t, err)
	assert.False(t, result.Existing)
	assert.Same(t, first, result.Encounter)

	second := combat.NewEncounter("enc-2", "channel-1", "guild-1")
	result, err = store.Create(ctx, second)
	require.NoError(t, err)
	assert.True(t, result.Existing)
	assert.Same(t, first, result.Encounter, "existing encounter wins")
}

func TestInMemoryStore_GuildCapEvictsOldest(t *testing.T) {
	ctx := context.Background()
	store := encounters.NewInMemoryStore(encounters.InMemoryStoreConfig{GuildCap: 1})

	first := combat.NewEncounter("enc-1", "channel-1", "guild-1")
	first.CreatedAt = time.Now().Add(-time.Minute)
	_, err := store.Create(ctx, first)
	require.NoError(t, err)

	second := combat.NewEncounter("enc-2", "channel-2", "guild-1")
	result, err := store.Create(ctx, second)
	require.NoError(t, err)
	require.NotNil(t, result.Evicted)
	assert.Same(t, first, result.Evicted)
	assert.Nil(t, store.Get(ctx, "channel-1"))
	assert.Same(t, second, store.Get(ctx, "channel-2"))
}

func TestInMemoryStore_GuildCapIgnoresOtherGuilds(t *testing.T) {
	ctx := context.Background()
	store := encounters.NewInMemoryStore(encounters.InMemoryStoreConfig{GuildCap: 1})

	_, err := store.Create(ctx, combat.NewEncounter("enc-1", "channel-1", "guild-1"))
	require.NoError(t, err)

	result, err := store.Create(ctx, combat.NewEncounter("enc-2", "channel-2", "guild-2"))
	require.NoError(t, err)
	assert.Nil(t, result.Evicted)
}

func TestInMemoryStore_SweepRemovesEndedAndStale(t *testing.T) {
	ctx := context.Background()
	store := encounters.NewInMemoryStore(encounters.InMemoryStoreConfig{StaleAfter: time.Hour})

	ended := combat.NewEncounter("enc-1", "channel-1", "")
	ended.InitiativeOrder = []string{"a"}
	require.True(t, ended.Activate())
	require.True(t, ended.End(combat.EndReasonFlee))

	stale := combat.NewEncounter("enc-2", "channel-2", "")
	stale.InitiativeOrder = []string{"a"}
	require.True(t, stale.Activate())
	old := time.Now().Add(-2 * time.Hour)
	stale.StartedAt = &old

	fresh := combat.NewEncounter("enc-3", "channel-3", "")
	fresh.InitiativeOrder = []string{"a"}
	require.True(t, fresh.Activate())

	for _, enc := range []*combat.Encounter{ended, stale, fresh} {
		_, err := store.Create(ctx, enc)
		require.NoError(t, err)
	}

	removed := store.Sweep(ctx, time.Now())
	assert.Len(t, removed, 2)
	assert.Nil(t, store.Get(ctx, "channel-1"))
	assert.Nil(t, store.Get(ctx, "channel-2"))
	assert.Same(t, fresh, store.Get(ctx, "channel-3"))
}

func TestInMemoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := encounters.NewInMemoryStore(encounters.InMemoryStoreConfig{})

	_, err := store.Create(ctx, combat.NewEncounter("enc-1", "channel-1", ""))
	require.NoError(t, err)
	_, err = store.Create(ctx, combat.NewEncounter("enc-2", "channel-2", ""))
	require.NoError(t, err)

	all := store.Clear(ctx)
	assert.Len(t, all, 2)
	assert.Nil(t, store.Get(ctx, "channel-1"))
	assert.Empty(t, store.Clear(ctx))
}
