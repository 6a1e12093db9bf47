package encounters

import (
	"context"
	"sync"
	"time"

	"github.com/wildfable/brawl-bot-discord/internal/domain/combat"
)

type inMemoryStore struct {
	mu         sync.RWMutex
	encounters map[string]*combat.Encounter // channelID -> encounter
	guildCap   int
	staleAfter time.Duration
}

// InMemoryStoreConfig holds the capacity knobs for the store.
type InMemoryStoreConfig struct {
	// GuildCap limits concurrent non-ended encounters per guild. Zero or
	// negative means unlimited.
	GuildCap int

	// StaleAfter is the age past which an active encounter is swept.
	StaleAfter time.Duration
}

// NewInMemoryStore creates a new in-memory encounter store
func NewInMemoryStore(cfg InMemoryStoreConfig) Store {
	staleAfter := cfg.StaleAfter
	if staleAfter <= 0 {
		staleAfter = time.Hour
	}
	return &inMemoryStore{
		encounters: make(map[string]*combat.Encounter),
		guildCap:   cfg.GuildCap,
		staleAfter: staleAfter,
	}
}

// Create registers an encounter for its channel
func (s *inMemoryStore) Create(ctx context.Context, encounter *combat.Encounter) (*CreateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.encounters[encounter.ChannelID]; ok && !existing.Ended() {
		return &CreateResult{Encounter: existing, Existing: true}, nil
	}

	result := &CreateResult{Encounter: encounter}

	if s.guildCap > 0 && encounter.GuildID != "" {
		if evicted := s.evictForCapLocked(encounter.GuildID); evicted != nil {
			result.Evicted = evicted
		}
	}

	s.encounters[encounter.ChannelID] = encounter
	return result, nil
}

// evictForCapLocked removes the oldest active encounter for the guild when
// the cap is reached. Caller holds the write lock.
func (s *inMemoryStore) evictForCapLocked(guildID string) *combat.Encounter {
	var active []*combat.Encounter
	for _, enc := range s.encounters {
		if enc.GuildID == guildID && !enc.Ended() {
			active = append(active, enc)
		}
	}
	if len(active) < s.guildCap {
		return nil
	}

	oldest := active[0]
	for _, enc := range active[1:] {
		if enc.CreatedAt.Before(oldest.CreatedAt) {
			oldest = enc
		}
	}
	delete(s.encounters, oldest.ChannelID)
	return oldest
}

// Get retrieves the encounter for a channel
func (s *inMemoryStore) Get(ctx context.Context, channelID string) *combat.Encounter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.encounters[channelID]
}

// Remove drops the encounter for a channel
func (s *inMemoryStore) Remove(ctx context.Context, channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.encounters, channelID)
}

// Sweep removes ended and stale encounters
func (s *inMemoryStore) Sweep(ctx context.Context, now time.Time) []*combat.Encounter {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []*combat.Encounter
	for channelID, enc := range s.encounters {
		stale := enc.State == combat.StateActive && enc.StartedAt != nil && now.Sub(*enc.StartedAt) > s.staleAfter
		if enc.Ended() || stale {
			delete(s.encounters, channelID)
			removed = append(removed, enc)
		}
	}
	return removed
}

// Clear removes and returns every registered encounter
func (s *inMemoryStore) Clear(ctx context.Context) []*combat.Encounter {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*combat.Encounter, 0, len(s.encounters))
	for channelID, enc := range s.encounters {
		all = append(all, enc)
		delete(s.encounters, channelID)
	}
	return all
}
