package encounters

//go:generate mockgen -destination=mock/mock_store.go -package=mockencstore -source=store.go

import (
	"context"
	"time"

	"github.com/wildfable/brawl-bot-discord/internal/domain/combat"
)

// CreateResult reports the outcome of a Create call.
type CreateResult struct {
	// Encounter is the registered encounter for the channel. When Existing
	// is true this is the encounter that was already registered, not the
	// one passed in.
	Encounter *combat.Encounter

	// Existing is true when the channel already had an encounter.
	Existing bool

	// Evicted is the oldest active encounter for the guild that was removed
	// to make room under the per-guild cap. The caller is responsible for
	// ending it.
	Evicted *combat.Encounter
}

// Store is the registry of active encounters, keyed by channel ID.
type Store interface {
	// Create registers an encounter for its channel. Idempotent: if the
	// channel already has a non-ended encounter, that one is returned
	// instead.
	Create(ctx context.Context, encounter *combat.Encounter) (*CreateResult, error)

	// Get retrieves the encounter for a channel, or nil if none exists
	Get(ctx context.Context, channelID string) *combat.Encounter

	// Remove drops the encounter for a channel
	Remove(ctx context.Context, channelID string)

	// Sweep removes encounters that have ended, or that are active but
	// older than the staleness threshold, and returns them.
	Sweep(ctx context.Context, now time.Time) []*combat.Encounter

	// Clear removes and returns every registered encounter
	Clear(ctx context.Context) []*combat.Encounter
}
