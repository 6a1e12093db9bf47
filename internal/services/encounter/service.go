package encounter

//go:generate mockgen -destination=mock/mock_service.go -package=mockencounter -source=service.go

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wildfable/brawl-bot-discord/internal/announce"
	"github.com/wildfable/brawl-bot-discord/internal/battle"
	"github.com/wildfable/brawl-bot-discord/internal/config"
	"github.com/wildfable/brawl-bot-discord/internal/dice"
	"github.com/wildfable/brawl-bot-discord/internal/domain/combat"
	apperr "github.com/wildfable/brawl-bot-discord/internal/errors"
	"github.com/wildfable/brawl-bot-discord/internal/repositories/encounters"
	"github.com/wildfable/brawl-bot-discord/internal/repositories/summaries"
	"github.com/wildfable/brawl-bot-discord/internal/stats"
	"github.com/wildfable/brawl-bot-discord/internal/uuid"
)

// Service is the public contract of the combat orchestrator. One encounter
// runs per channel; all its timers and action handling go through here.
type Service interface {
	// EnsureEncounterForAttack returns the channel's encounter, creating
	// and activating one (and late-joining missing participants) if needed.
	EnsureEncounterForAttack(ctx context.Context, input *EnsureEncounterInput) (*combat.Encounter, error)

	// PerformAttack resolves an attack via the battle resolver and feeds
	// the result through HandleAttackResult's path.
	PerformAttack(ctx context.Context, channelID, actorID, targetID string) (*battle.Result, error)

	// HandleAttackResult applies an externally resolved attack result.
	// Damage from a stale actor still lands, but only the current actor's
	// result advances the turn.
	HandleAttackResult(ctx context.Context, input *AttackResultInput) error

	// AttemptFlee resolves a flee attempt by the active combatant
	AttemptFlee(ctx context.Context, channelID, avatarID string) (*FleeResult, error)

	// IsTurn reports whether it is the avatar's turn in the channel
	IsTurn(ctx context.Context, channelID, avatarID string) bool

	// GetEncounter returns the channel's encounter, or nil
	GetEncounter(ctx context.Context, channelID string) *combat.Encounter

	// BeginManualAction pauses auto-act and turn-start scheduling while an
	// externally-triggered action is being processed.
	BeginManualAction(ctx context.Context, channelID string)

	// EndManualAction releases one in-flight manual action
	EndManualAction(ctx context.Context, channelID string)

	// CanEnterCombat reports whether the avatar's flee cooldown has lapsed
	CanEnterCombat(avatarID string) bool

	// Sweep evicts ended and stale encounters from the store
	Sweep(ctx context.Context, now time.Time)

	// StartSweeper runs Sweep periodically until the context is cancelled
	StartSweeper(ctx context.Context)

	// Destroy cancels every timer and clears the store
	Destroy(ctx context.Context)
}

// Participant describes one avatar entering combat.
type Participant struct {
	AvatarID string
	Name     string
	Side     string
	Mode     combat.Mode // empty means the configured default
	Avatar   any         // back-reference to the external avatar record
}

// EnsureEncounterForAttack input.
type EnsureEncounterInput struct {
	ChannelID string
	GuildID   string
	Attacker  Participant
	Defenders []Participant
}

// AttackResultInput carries an externally resolved attack result.
type AttackResultInput struct {
	ChannelID string
	ActorID   string
	TargetID  string
	Result    *battle.Result
}

// FleeResult is the outcome of a flee attempt. An out-of-turn attempt is
// silently ignored: Success false, empty message, no state change.
type FleeResult struct {
	Success bool
	Message string
}

// MediaEvent describes a moment worth generating media for.
type MediaEvent struct {
	ChannelID    string
	AttackerName string
	TargetName   string
	Outcome      battle.Outcome
}

// MediaGenerator opportunistically produces media (an image URL) for a
// combat moment. Optional; slow and unreliable by nature, which is why its
// completion goes through the advance gate rather than blocking inline.
type MediaGenerator interface {
	Generate(ctx context.Context, event *MediaEvent) (string, error)
}

type service struct {
	store     encounters.Store
	roller    dice.Roller
	stats     stats.Provider
	resolver  battle.Resolver
	announcer announce.Announcer
	summaries summaries.Sink
	media     MediaGenerator
	uuidGen   uuid.Generator
	cfg       config.CombatConfig

	cooldownMu    sync.Mutex
	fleeCooldowns map[string]time.Time
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Store     encounters.Store
	Roller    dice.Roller
	Stats     stats.Provider
	Resolver  battle.Resolver
	Announcer announce.Announcer
	Summaries summaries.Sink
	Media     MediaGenerator // optional
	UUIDGen   uuid.Generator
	Config    config.CombatConfig
}

// NewService creates a new encounter orchestrator
func NewService(cfg *ServiceConfig) Service {
	if cfg.Store == nil {
		panic("encounter store is required")
	}
	if cfg.Stats == nil {
		panic("stats provider is required")
	}
	if cfg.Announcer == nil {
		panic("announcer is required")
	}
	if cfg.Summaries == nil {
		panic("summary sink is required")
	}

	svc := &service{
		store:         cfg.Store,
		roller:        cfg.Roller,
		stats:         cfg.Stats,
		resolver:      cfg.Resolver,
		announcer:     cfg.Announcer,
		summaries:     cfg.Summaries,
		media:         cfg.Media,
		uuidGen:       cfg.UUIDGen,
		cfg:           cfg.Config,
		fleeCooldowns: make(map[string]time.Time),
	}

	if svc.roller == nil {
		svc.roller = dice.NewRandomRoller()
	}
	if svc.resolver == nil {
		svc.resolver = battle.NewResolver(svc.roller)
	}
	if svc.uuidGen == nil {
		svc.uuidGen = uuid.NewGoogleUUIDGenerator()
	}

	return svc
}

// EnsureEncounterForAttack returns the channel's encounter, creating one if needed
func (s *service) EnsureEncounterForAttack(ctx context.Context, input *EnsureEncounterInput) (*combat.Encounter, error) {
	if input == nil {
		return nil, apperr.InvalidArgument("input cannot be nil")
	}
	if strings.TrimSpace(input.ChannelID) == "" {
		return nil, apperr.InvalidArgument("channel ID is required")
	}
	if !s.CanEnterCombat(input.Attacker.AvatarID) {
		return nil, apperr.InvalidArgumentf("%s fled recently and cannot re-enter combat yet", input.Attacker.Name)
	}

	enc := combat.NewEncounter(s.uuidGen.New(), input.ChannelID, input.GuildID)
	result, err := s.store.Create(ctx, enc)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to register encounter")
	}

	if result.Evicted != nil {
		result.Evicted.Lock()
		s.endEncounterLocked(result.Evicted, combat.EndReasonCapacityReclaim)
		result.Evicted.Unlock()
	}

	enc = result.Encounter
	enc.Lock()
	defer enc.Unlock()

	participants := append([]Participant{input.Attacker}, input.Defenders...)

	if result.Existing {
		// Late joins: anyone not already in the fight rolls in mid-combat.
		for _, p := range participants {
			if _, ok := enc.Combatants[normalizeAvatarID(p.AvatarID)]; ok {
				continue
			}
			if !s.CanEnterCombat(p.AvatarID) {
				continue
			}
			s.insertCombatantLocked(ctx, enc, s.buildCombatant(ctx, p), true)
		}
		return enc, nil
	}

	for _, p := range participants {
		c := s.buildCombatant(ctx, p)
		if !enc.AddCombatant(c) {
			continue // de-duplicated by avatar ID
		}
		s.rollInitiative(c)
	}

	enc.InitiativeOrder = s.resolveOrder(enc)
	if !enc.Activate() {
		return nil, apperr.Internal("encounter could not be activated")
	}

	enc.AddCombatLogEntry("Combat begins!")
	s.announceMessage(enc.ChannelID, combatStartMessage(enc))
	s.scheduleTurnStartLocked(enc, false)

	return enc, nil
}

// buildCombatant constructs a combatant from a participant, degrading to
// default stats when the lookup fails.
func (s *service) buildCombatant(ctx context.Context, p Participant) *combat.Combatant {
	st, err := s.stats.GetOrCreateStats(ctx, p.AvatarID)
	if err != nil || st == nil {
		log.Printf("stats lookup failed for %s, using defaults: %v", p.AvatarID, err)
		st = stats.Default()
	}

	mode := p.Mode
	if mode == "" {
		mode = combat.ModeManual
		if s.cfg.DefaultAutoMode {
			mode = combat.ModeAuto
		}
	}
	side := p.Side
	if side == "" {
		side = combat.SideNeutral
	}

	dexMod := stats.Modifier(st.Dexterity)
	maxHP := st.MaxHP
	if maxHP < 1 {
		maxHP = 1
	}

	return &combat.Combatant{
		AvatarID:        normalizeAvatarID(p.AvatarID),
		Name:            p.Name,
		Avatar:          p.Avatar,
		InitiativeBonus: dexMod,
		ArmorClass:      10 + dexMod,
		CurrentHP:       maxHP,
		MaxHP:           maxHP,
		Side:            side,
		Mode:            mode,
	}
}

func normalizeAvatarID(avatarID string) string {
	return strings.TrimSpace(avatarID)
}

// PerformAttack resolves an attack and feeds it through the result path
func (s *service) PerformAttack(ctx context.Context, channelID, actorID, targetID string) (*battle.Result, error) {
	enc := s.store.Get(ctx, channelID)
	if enc == nil {
		return nil, apperr.NotFoundf("no encounter in channel %s", channelID)
	}

	enc.Lock()
	defer enc.Unlock()

	if enc.Ended() {
		return nil, apperr.InvalidArgument("encounter has ended")
	}

	actor, ok := enc.Combatants[actorID]
	if !ok {
		return nil, apperr.NotFoundf("combatant %s not in encounter", actorID)
	}
	target, ok := enc.Combatants[targetID]
	if !ok {
		return nil, apperr.NotFoundf("combatant %s not in encounter", targetID)
	}
	if actor.IsIncapacitated() {
		return nil, apperr.InvalidArgumentf("%s is in no state to attack", actor.Name)
	}

	enc.BeginManualAction()
	defer enc.EndManualAction()

	result, err := s.resolver.Attack(ctx, actor, target)
	if err != nil {
		return nil, apperr.Wrap(err, "attack resolution failed")
	}

	s.applyActionResultLocked(ctx, enc, actor, target, result)
	return result, nil
}

// HandleAttackResult applies an externally resolved attack result
func (s *service) HandleAttackResult(ctx context.Context, input *AttackResultInput) error {
	if input == nil || input.Result == nil {
		return apperr.InvalidArgument("attack result is required")
	}

	enc := s.store.Get(ctx, input.ChannelID)
	if enc == nil {
		return apperr.NotFoundf("no encounter in channel %s", input.ChannelID)
	}

	enc.Lock()
	defer enc.Unlock()

	if enc.Ended() {
		return apperr.InvalidArgument("encounter has ended")
	}

	actor, ok := enc.Combatants[input.ActorID]
	if !ok {
		return apperr.NotFoundf("combatant %s not in encounter", input.ActorID)
	}
	target, ok := enc.Combatants[input.TargetID]
	if !ok {
		return apperr.NotFoundf("combatant %s not in encounter", input.TargetID)
	}

	enc.BeginManualAction()
	defer enc.EndManualAction()

	s.applyActionResultLocked(ctx, enc, actor, target, input.Result)
	return nil
}

// applyActionResultLocked applies an attack result, registers media blockers,
// runs end conditions, and advances the turn when the actor still owns it.
func (s *service) applyActionResultLocked(ctx context.Context, enc *combat.Encounter, actor, target *combat.Combatant, result *battle.Result) {
	actor.IsDefending = false

	if result.IsHostile() {
		target.ApplyDamage(result.Damage)
		enc.TouchHostile()
	} else {
		enc.TouchAction()
	}

	msg := result.Message
	if msg == "" {
		msg = result.String()
	}
	enc.AddCombatLogEntry(msg)
	s.announceAs(enc.ChannelID, actor.Name, msg)

	if result.IsHostile() && !target.IsAlive() {
		enc.AddCombatLogEntry(target.Name + " was knocked out!")
		s.announceMessage(enc.ChannelID, "💥 **"+target.Name+"** goes down!")
		s.generateMediaLocked(enc, actor, target, result)
	}

	if s.checkEndLocked(enc) {
		return
	}

	// A stale result (the actor's turn has since passed) still applied its
	// damage above, but must not advance someone else's turn.
	if enc.IsTurn(actor.AvatarID) && enc.ClaimTurnResolution() {
		s.resolveTurnLocked(enc)
	}
}

// generateMediaLocked kicks off media generation for a knockout, holding the
// turn via an advance-gate blocker until it settles or the gate times out.
func (s *service) generateMediaLocked(enc *combat.Encounter, actor, target *combat.Combatant, result *battle.Result) {
	if s.media == nil {
		return
	}

	event := &MediaEvent{
		ChannelID:    enc.ChannelID,
		AttackerName: actor.Name,
		TargetName:   target.Name,
		Outcome:      result.Outcome,
	}
	blocker := enc.Gate.PreRegister()
	go func() {
		defer blocker.Settle()

		url, err := s.media.Generate(context.Background(), event)
		if err != nil {
			log.Printf("media generation failed for channel %s: %v", enc.ChannelID, err)
			return
		}
		if url == "" {
			return
		}
		enc.Lock()
		enc.MediaURL = url
		enc.Unlock()
	}()
}

// IsTurn reports whether it is the avatar's turn in the channel
func (s *service) IsTurn(ctx context.Context, channelID, avatarID string) bool {
	enc := s.store.Get(ctx, channelID)
	if enc == nil {
		return false
	}
	enc.Lock()
	defer enc.Unlock()
	return enc.IsTurn(avatarID)
}

// GetEncounter returns the channel's encounter, or nil
func (s *service) GetEncounter(ctx context.Context, channelID string) *combat.Encounter {
	return s.store.Get(ctx, channelID)
}

// BeginManualAction pauses auto-act and turn-start scheduling
func (s *service) BeginManualAction(ctx context.Context, channelID string) {
	if enc := s.store.Get(ctx, channelID); enc != nil {
		enc.Lock()
		enc.BeginManualAction()
		enc.Unlock()
	}
}

// EndManualAction releases one in-flight manual action
func (s *service) EndManualAction(ctx context.Context, channelID string) {
	if enc := s.store.Get(ctx, channelID); enc != nil {
		enc.Lock()
		enc.EndManualAction()
		enc.Unlock()
	}
}

// Sweep evicts ended and stale encounters from the store
func (s *service) Sweep(ctx context.Context, now time.Time) {
	for _, enc := range s.store.Sweep(ctx, now) {
		enc.Lock()
		if !enc.Ended() {
			s.endEncounterLocked(enc, combat.EndReasonIdle)
		}
		enc.Unlock()
	}
}

// StartSweeper runs Sweep periodically until the context is cancelled
func (s *service) StartSweeper(ctx context.Context) {
	interval := s.cfg.SweepInterval
	if interval <= 0 {
		interval = 60 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.Sweep(ctx, now)
			}
		}
	}()
}

// Destroy cancels every timer and clears the store
func (s *service) Destroy(ctx context.Context) {
	for _, enc := range s.store.Clear(ctx) {
		enc.Lock()
		enc.End(combat.EndReasonShutdown)
		enc.Unlock()
	}
}

// announceMessage posts a narration line, logging and swallowing failures
func (s *service) announceMessage(channelID, content string) {
	go func() {
		if err := s.announcer.PostMessage(context.Background(), channelID, content); err != nil {
			log.Printf("announcement failed for channel %s: %v", channelID, err)
		}
	}()
}

// announceAs posts a combatant-attributed line, best-effort
func (s *service) announceAs(channelID, name, content string) {
	go func() {
		if err := s.announcer.PostAs(context.Background(), channelID, name, content); err != nil {
			log.Printf("announcement failed for channel %s: %v", channelID, err)
		}
	}()
}

func combatStartMessage(enc *combat.Encounter) string {
	names := make([]string, 0, len(enc.InitiativeOrder))
	for _, id := range enc.InitiativeOrder {
		if c, ok := enc.Combatants[id]; ok {
			names = append(names, c.Name)
		}
	}
	return "⚔️ Combat begins! Initiative order: " + strings.Join(names, ", ")
}
