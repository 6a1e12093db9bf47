package stats

//go:generate mockgen -destination=mock/mock_provider.go -package=mockstats -source=provider.go

import (
	"context"
)

// Stats is the subset of an avatar's sheet the combat engine cares about.
type Stats struct {
	Dexterity int
	Wisdom    int
	MaxHP     int
}

// Provider looks up (or lazily creates) combat stats for an avatar. Lookups
// may fail; callers degrade to defaults and never propagate the error.
type Provider interface {
	GetOrCreateStats(ctx context.Context, avatarID string) (*Stats, error)
}

// Modifier converts an ability score to its modifier, rounding down.
func Modifier(score int) int {
	return score/2 - 5
}

// PassivePerception is the difficulty a flee roll is measured against.
func PassivePerception(s *Stats) int {
	return 10 + Modifier(s.Wisdom)
}

// Default returns the stats used when a lookup fails.
func Default() *Stats {
	return &Stats{Dexterity: 10, Wisdom: 10, MaxHP: 20}
}

// StaticProvider always returns the same stats. Used as a fallback when no
// real avatar backend is wired.
type StaticProvider struct {
	Stats Stats
}

// NewStaticProvider creates a provider that returns the default stats
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{Stats: *Default()}
}

// GetOrCreateStats implements Provider
func (p *StaticProvider) GetOrCreateStats(ctx context.Context, avatarID string) (*Stats, error) {
	s := p.Stats
	return &s, nil
}
