package announce

//go:generate mockgen -destination=mock/mock_announcer.go -package=mockannounce -source=announcer.go

import (
	"context"

	"github.com/wildfable/brawl-bot-discord/internal/repositories/summaries"
)

// Announcer is the sink the encounter engine narrates through. Every call is
// fire-and-forget from the state machine's perspective: the orchestrator logs
// failures and carries on.
type Announcer interface {
	// PostMessage posts a plain narration line to the channel
	PostMessage(ctx context.Context, channelID, content string) error

	// PostAs posts a line attributed to a combatant
	PostAs(ctx context.Context, channelID, combatantName, content string) error

	// PostSummary posts the end-of-encounter summary embed
	PostSummary(ctx context.Context, channelID string, summary *summaries.Summary) error
}
