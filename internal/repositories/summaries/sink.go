package summaries

//go:generate mockgen -destination=mock/mock_sink.go -package=mocksummaries -source=sink.go

import (
	"context"
	"time"
)

// CombatantSnapshot is the final state of one combatant in an ended encounter.
type CombatantSnapshot struct {
	AvatarID   string   `json:"avatar_id"`
	Name       string   `json:"name"`
	CurrentHP  int      `json:"current_hp"`
	MaxHP      int      `json:"max_hp"`
	Initiative int      `json:"initiative"`
	Side       string   `json:"side"`
	Conditions []string `json:"conditions,omitempty"`
}

// Summary is the append-only record written once per ended encounter.
type Summary struct {
	ID              string              `json:"id"`
	ChannelID       string              `json:"channel_id"`
	GuildID         string              `json:"guild_id,omitempty"`
	StartedAt       *time.Time          `json:"started_at,omitempty"`
	EndedAt         *time.Time          `json:"ended_at,omitempty"`
	Rounds          int                 `json:"rounds"`
	EndReason       string              `json:"end_reason"`
	Winner          string              `json:"winner,omitempty"`
	InitiativeOrder []string            `json:"initiative_order"`
	Combatants      []CombatantSnapshot `json:"combatants"`
	CombatLog       []string            `json:"combat_log,omitempty"`
	MediaURL        string              `json:"media_url,omitempty"`
}

// Sink persists encounter summaries. Writes are best-effort; the orchestrator
// logs and ignores failures.
type Sink interface {
	// Append writes one summary record
	Append(ctx context.Context, summary *Summary) error
}
