package encounter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfable/brawl-bot-discord/internal/battle"
	"github.com/wildfable/brawl-bot-discord/internal/config"
	"github.com/wildfable/brawl-bot-discord/internal/domain/combat"
)

// buildActiveEncounter wires up an already-activated encounter without going
// through the store, for exercising the advance logic directly.
func buildActiveEncounter(t *testing.T, ids ...string) *combat.Encounter {
	t.Helper()

	enc := combat.NewEncounter("enc-1", "channel-1", "guild-1")
	for i, id := range ids {
		initiative := 20 - i
		require.True(t, enc.AddCombatant(&combat.Combatant{
			AvatarID:   id,
			Name:       id,
			Initiative: &initiative,
			CurrentHP:  10,
			MaxHP:      10,
			Mode:       combat.ModeManual,
		}))
	}
	enc.InitiativeOrder = append([]string(nil), ids...)
	require.True(t, enc.Activate())
	return enc
}

func TestAdvanceIndex_StepsThroughOrder(t *testing.T) {
	f := newFixture(t, nil)
	enc := buildActiveEncounter(t, "a", "b", "c")

	enc.Lock()
	defer enc.Unlock()

	wrapped, ok := f.svc.advanceIndexLocked(enc)
	require.True(t, ok)
	assert.False(t, wrapped)
	assert.Equal(t, "b", enc.CurrentCombatant().AvatarID)
	assert.Equal(t, 1, enc.Round)
}

func TestAdvanceIndex_WrapIncrementsRound(t *testing.T) {
	f := newFixture(t, nil)
	enc := buildActiveEncounter(t, "a", "b")

	enc.Lock()
	defer enc.Unlock()

	_, ok := f.svc.advanceIndexLocked(enc)
	require.True(t, ok)

	wrapped, ok := f.svc.advanceIndexLocked(enc)
	require.True(t, ok)
	assert.True(t, wrapped)
	assert.Equal(t, "a", enc.CurrentCombatant().AvatarID)
	assert.Equal(t, 2, enc.Round)
}

func TestAdvanceIndex_SkipsIncapacitated(t *testing.T) {
	f := newFixture(t, nil)
	enc := buildActiveEncounter(t, "a", "b", "c")

	enc.Lock()
	defer enc.Unlock()

	enc.Combatants["b"].ApplyDamage(10)

	wrapped, ok := f.svc.advanceIndexLocked(enc)
	require.True(t, ok)
	assert.False(t, wrapped)
	assert.Equal(t, "c", enc.CurrentCombatant().AvatarID)
}

func TestAdvanceIndex_EndsWhenNobodyCanAct(t *testing.T) {
	f := newFixture(t, nil)
	enc := buildActiveEncounter(t, "a", "b")

	enc.Lock()
	defer enc.Unlock()

	enc.Combatants["a"].ApplyDamage(10)
	enc.Combatants["b"].ApplyDamage(10)

	_, ok := f.svc.advanceIndexLocked(enc)
	assert.False(t, ok)
	assert.True(t, enc.Ended())
	assert.Equal(t, combat.EndReasonSingleCombatant, enc.EndReason)
}

func TestAdvanceIndex_RoundLimitEndsEncounter(t *testing.T) {
	f := newFixture(t, func(cfg *config.CombatConfig) {
		cfg.MaxRounds = 1
	})
	enc := buildActiveEncounter(t, "a", "b")

	enc.Lock()
	defer enc.Unlock()

	_, ok := f.svc.advanceIndexLocked(enc)
	require.True(t, ok)

	_, ok = f.svc.advanceIndexLocked(enc)
	assert.False(t, ok)
	assert.True(t, enc.Ended())
	assert.Equal(t, combat.EndReasonRoundLimit, enc.EndReason)
}

func TestTurnTimeout_DefendsAndAdvances(t *testing.T) {
	f := newFixture(t, func(cfg *config.CombatConfig) {
		cfg.TurnTimeout = 30 * time.Millisecond
	})
	enc := f.startDuel(t, "channel-1", "guild-1")

	require.Eventually(t, func() bool {
		return currentAvatarID(enc) == "bob"
	}, waitFor, tick)

	enc.Lock()
	defer enc.Unlock()
	assert.True(t, enc.Combatants["alice"].IsDefending)
}

func TestScheduleTurnStart_HonorsPacingGap(t *testing.T) {
	f := newFixture(t, func(cfg *config.CombatConfig) {
		cfg.MinTurnGap = 400 * time.Millisecond
		cfg.TurnTimeout = 100 * time.Millisecond
	})
	enc := f.startDuel(t, "channel-1", "guild-1")

	start := time.Now()
	err := f.svc.HandleAttackResult(context.Background(), &AttackResultInput{
		ChannelID: "channel-1",
		ActorID:   "alice",
		TargetID:  "bob",
		Result:    &battle.Result{Outcome: battle.OutcomeHit, Damage: 3, Message: "Alice clips Bob"},
	})
	require.NoError(t, err)

	// Halfway through the gap Bob's turn must not have opened: his turn
	// timeout (which would defend for him) cannot have been armed yet.
	time.Sleep(250 * time.Millisecond)
	enc.Lock()
	defending := enc.Combatants["bob"].IsDefending
	enc.Unlock()
	assert.False(t, defending)

	require.Eventually(t, func() bool {
		enc.Lock()
		defer enc.Unlock()
		return enc.Combatants["bob"].IsDefending
	}, waitFor, tick)

	// Turn open at gap, default-defend one timeout later.
	assert.GreaterOrEqual(t, time.Since(start), 400*time.Millisecond)
}

func TestScheduleTurnStart_AppliesRoundCooldownOnWrap(t *testing.T) {
	f := newFixture(t, func(cfg *config.CombatConfig) {
		cfg.RoundCooldown = 400 * time.Millisecond
		cfg.TurnTimeout = 200 * time.Millisecond
	})
	enc := f.startDuel(t, "channel-1", "guild-1")

	err := f.svc.HandleAttackResult(context.Background(), &AttackResultInput{
		ChannelID: "channel-1",
		ActorID:   "alice",
		TargetID:  "bob",
		Result:    &battle.Result{Outcome: battle.OutcomeHit, Damage: 2, Message: "Alice jabs Bob"},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return currentAvatarID(enc) == "bob"
	}, waitFor, tick)

	// Bob's action wraps into round 2, so Alice's next turn waits out the
	// round cooldown before opening.
	wrapAt := time.Now()
	err = f.svc.HandleAttackResult(context.Background(), &AttackResultInput{
		ChannelID: "channel-1",
		ActorID:   "bob",
		TargetID:  "alice",
		Result:    &battle.Result{Outcome: battle.OutcomeHit, Damage: 2, Message: "Bob jabs Alice"},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		enc.Lock()
		defer enc.Unlock()
		return enc.Round == 2
	}, waitFor, tick)

	time.Sleep(250 * time.Millisecond)
	enc.Lock()
	defending := enc.Combatants["alice"].IsDefending
	enc.Unlock()
	assert.False(t, defending)

	require.Eventually(t, func() bool {
		enc.Lock()
		defer enc.Unlock()
		return enc.Combatants["alice"].IsDefending
	}, waitFor, tick)

	assert.GreaterOrEqual(t, time.Since(wrapAt), 400*time.Millisecond)
}

func TestScheduleTurnStart_ManualGuardDefersTurnOpen(t *testing.T) {
	f := newFixture(t, func(cfg *config.CombatConfig) {
		cfg.MinTurnGap = 150 * time.Millisecond
		cfg.TurnTimeout = 100 * time.Millisecond
		cfg.ManualGuardBackoff = 20 * time.Millisecond
	})
	enc := f.startDuel(t, "channel-1", "guild-1")

	err := f.svc.HandleAttackResult(context.Background(), &AttackResultInput{
		ChannelID: "channel-1",
		ActorID:   "alice",
		TargetID:  "bob",
		Result:    &battle.Result{Outcome: battle.OutcomeHit, Damage: 3, Message: "Alice clips Bob"},
	})
	require.NoError(t, err)

	// Raise the guard during the pacing delay: the turn-start callback must
	// keep re-deferring instead of opening Bob's turn.
	f.svc.BeginManualAction(context.Background(), "channel-1")

	time.Sleep(450 * time.Millisecond)
	enc.Lock()
	defending := enc.Combatants["bob"].IsDefending
	enc.Unlock()
	assert.False(t, defending)

	released := time.Now()
	f.svc.EndManualAction(context.Background(), "channel-1")

	require.Eventually(t, func() bool {
		enc.Lock()
		defer enc.Unlock()
		return enc.Combatants["bob"].IsDefending
	}, waitFor, tick)

	// The turn opened only after the release, then timed out.
	assert.GreaterOrEqual(t, time.Since(released), 100*time.Millisecond)
}

func TestAutoAct_AttacksWeakestOpponent(t *testing.T) {
	f := newFixture(t, func(cfg *config.CombatConfig) {
		// Leave room to adjust Carol's HP before the auto-act fires.
		cfg.AutoActDelay = 50 * time.Millisecond
	})

	// Alice acts automatically: initiative 18 vs 5 and 9, then her attack
	// roll 15 and damage 4 against the weaker of the two targets.
	f.roller.SetRolls([]int{18, 5, 9, 15, 4})
	enc, err := f.svc.EnsureEncounterForAttack(context.Background(), &EnsureEncounterInput{
		ChannelID: "channel-1",
		GuildID:   "guild-1",
		Attacker:  Participant{AvatarID: "alice", Name: "Alice", Mode: combat.ModeAuto},
		Defenders: []Participant{manualParticipant("bob", "Bob"), manualParticipant("carol", "Carol")},
	})
	require.NoError(t, err)

	enc.Lock()
	enc.Combatants["carol"].CurrentHP = 8
	enc.Unlock()

	require.Eventually(t, func() bool {
		enc.Lock()
		defer enc.Unlock()
		return enc.Combatants["carol"].CurrentHP == 4
	}, waitFor, tick)

	// Bob was the healthier target and is untouched.
	enc.Lock()
	assert.Equal(t, 20, enc.Combatants["bob"].CurrentHP)
	enc.Unlock()
}

func TestAutoAct_DefendsWhenNoOpponentRemains(t *testing.T) {
	f := newFixture(t, nil)

	f.roller.SetRolls([]int{18, 5})
	enc, err := f.svc.EnsureEncounterForAttack(context.Background(), &EnsureEncounterInput{
		ChannelID: "channel-1",
		GuildID:   "guild-1",
		Attacker:  Participant{AvatarID: "alice", Name: "Alice", Mode: combat.ModeAuto, Side: "red"},
		Defenders: []Participant{{AvatarID: "bob", Name: "Bob", Mode: combat.ModeManual, Side: "red"}},
	})
	require.NoError(t, err)

	// Same side: nobody to hit, so Alice defends instead of attacking.
	require.Eventually(t, func() bool {
		enc.Lock()
		defer enc.Unlock()
		return enc.Combatants["alice"].IsDefending
	}, waitFor, tick)
}
