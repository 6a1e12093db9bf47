package encounter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfable/brawl-bot-discord/internal/config"
	"github.com/wildfable/brawl-bot-discord/internal/domain/combat"
)

func TestCheckEnd_SingleSurvivorWins(t *testing.T) {
	f := newFixture(t, nil)
	enc := buildActiveEncounter(t, "a", "b")

	enc.Lock()
	defer enc.Unlock()

	enc.Combatants["b"].ApplyDamage(10)

	assert.True(t, f.svc.checkEndLocked(enc))
	assert.True(t, enc.Ended())
	assert.Equal(t, combat.EndReasonSingleCombatant, enc.EndReason)
	assert.Equal(t, "a", enc.Winner)
}

func TestCheckEnd_NobodyLeftStanding(t *testing.T) {
	f := newFixture(t, nil)
	enc := buildActiveEncounter(t, "a", "b")

	enc.Lock()
	defer enc.Unlock()

	enc.Combatants["a"].ApplyDamage(10)
	enc.Combatants["b"].ApplyDamage(10)

	assert.True(t, f.svc.checkEndLocked(enc))
	assert.Equal(t, combat.EndReasonSingleCombatant, enc.EndReason)
	assert.Empty(t, enc.Winner)
}

func TestCheckEnd_AllDefending(t *testing.T) {
	f := newFixture(t, nil)
	enc := buildActiveEncounter(t, "a", "b", "c")

	enc.Lock()
	defer enc.Unlock()

	for _, c := range enc.Combatants {
		c.IsDefending = true
	}

	assert.True(t, f.svc.checkEndLocked(enc))
	assert.Equal(t, combat.EndReasonAllDefending, enc.EndReason)
}

func TestCheckEnd_Idle(t *testing.T) {
	f := newFixture(t, func(cfg *config.CombatConfig) {
		cfg.IdleEndRounds = 2
		cfg.TurnTimeout = 10 * time.Millisecond
	})
	enc := buildActiveEncounter(t, "a", "b")

	enc.Lock()
	defer enc.Unlock()

	enc.LastHostileAt = time.Now().Add(-time.Minute)

	assert.True(t, f.svc.checkEndLocked(enc))
	assert.Equal(t, combat.EndReasonIdle, enc.EndReason)
}

func TestCheckEnd_KeepsGoing(t *testing.T) {
	f := newFixture(t, nil)
	enc := buildActiveEncounter(t, "a", "b")

	enc.Lock()
	defer enc.Unlock()

	enc.Combatants["a"].IsDefending = true

	assert.False(t, f.svc.checkEndLocked(enc))
	assert.False(t, enc.Ended())
}

func TestEndEncounter_WritesSummary(t *testing.T) {
	f := newFixture(t, nil)
	enc := f.startDuel(t, "channel-1", "guild-1")

	enc.Lock()
	enc.Combatants["bob"].ApplyDamage(7)
	enc.Winner = "Alice"
	f.svc.endEncounterLocked(enc, combat.EndReasonSingleCombatant)
	enc.Unlock()

	require.Eventually(t, func() bool {
		return len(f.sink.All()) == 1
	}, waitFor, tick)

	summary := f.sink.All()[0]
	assert.Equal(t, "channel-1", summary.ChannelID)
	assert.Equal(t, "guild-1", summary.GuildID)
	assert.Equal(t, string(combat.EndReasonSingleCombatant), summary.EndReason)
	assert.Equal(t, "Alice", summary.Winner)
	assert.Equal(t, []string{"alice", "bob"}, summary.InitiativeOrder)
	assert.NotEmpty(t, summary.ID)
	require.Len(t, summary.Combatants, 2)
	assert.Equal(t, 13, summary.Combatants[1].CurrentHP)
	assert.Contains(t, summary.CombatLog, "Combat ends: single_combatant")
}

func TestEndEncounter_Idempotent(t *testing.T) {
	f := newFixture(t, nil)
	enc := f.startDuel(t, "channel-1", "guild-1")

	enc.Lock()
	f.svc.endEncounterLocked(enc, combat.EndReasonIdle)
	f.svc.endEncounterLocked(enc, combat.EndReasonFlee)
	reason := enc.EndReason
	enc.Unlock()

	assert.Equal(t, combat.EndReasonIdle, reason)

	require.Eventually(t, func() bool {
		return len(f.sink.All()) >= 1
	}, waitFor, tick)
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, f.sink.All(), 1)
}

func TestClosingMessage(t *testing.T) {
	assert.Contains(t, closingMessage(combat.EndReasonSingleCombatant, "Alice"), "Alice")
	assert.Contains(t, closingMessage(combat.EndReasonSingleCombatant, ""), "Nobody")
	assert.NotEmpty(t, closingMessage(combat.EndReasonAllDefending, ""))
	assert.NotEmpty(t, closingMessage(combat.EndReasonIdle, ""))
	assert.NotEmpty(t, closingMessage(combat.EndReasonFlee, ""))
	assert.NotEmpty(t, closingMessage(combat.EndReasonRoundLimit, ""))
	assert.NotEmpty(t, closingMessage(combat.EndReasonCapacityReclaim, ""))
	assert.NotEmpty(t, closingMessage(combat.EndReason("???"), ""))
}
