package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Discord DiscordConfig
	Redis   RedisConfig
	Combat  CombatConfig
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	Token   string
	AppID   string
	GuildID string // Optional: for guild-specific commands
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CombatConfig holds the timing and capacity knobs for the encounter engine.
type CombatConfig struct {
	// TurnTimeout is how long a combatant may sit on their turn before the
	// engine defends on their behalf and moves on.
	TurnTimeout time.Duration

	// MinTurnGap is the minimum wall-clock gap between the last action and
	// the next turn announcement.
	MinTurnGap time.Duration

	// RoundCooldown is added to the pacing delay when a turn start wraps
	// into a new round.
	RoundCooldown time.Duration

	// AutoActDelay is how long an auto-mode combatant waits after their
	// turn starts before acting.
	AutoActDelay time.Duration

	// ManualGuardBackoff is the retry interval used when a scheduled task
	// finds a manual action still in flight.
	ManualGuardBackoff time.Duration

	// AdvanceGateTimeout bounds how long a turn waits for outstanding
	// advance blockers before moving on without them.
	AdvanceGateTimeout time.Duration

	// IdleEndRounds is the number of turn-timeout multiples without a
	// hostile action after which the encounter ends as idle.
	IdleEndRounds int

	// MaxRounds ends the encounter when the round counter exceeds it.
	MaxRounds int

	// GuildEncounterCap limits concurrent non-ended encounters per guild.
	GuildEncounterCap int

	// StaleAfter is the age past which an active encounter is swept.
	StaleAfter time.Duration

	// SweepInterval is how often the store sweep runs.
	SweepInterval time.Duration

	// FleeCooldown keeps a fled avatar out of new encounters.
	FleeCooldown time.Duration

	// DefaultAutoMode controls whether combatants without an explicit mode
	// act automatically.
	DefaultAutoMode bool

	// EnforceTurnOrder requires actions like flee to come from the
	// combatant whose turn it is.
	EnforceTurnOrder bool
}

// DefaultCombatConfig returns the combat knobs with their defaults.
func DefaultCombatConfig() CombatConfig {
	return CombatConfig{
		TurnTimeout:        90 * time.Second,
		MinTurnGap:         6 * time.Second,
		RoundCooldown:      10 * time.Second,
		AutoActDelay:       4 * time.Second,
		ManualGuardBackoff: 3 * time.Second,
		AdvanceGateTimeout: 30 * time.Second,
		IdleEndRounds:      3,
		MaxRounds:          30,
		GuildEncounterCap:  4,
		StaleAfter:         time.Hour,
		SweepInterval:      60 * time.Second,
		FleeCooldown:       5 * time.Minute,
		DefaultAutoMode:    true,
		EnforceTurnOrder:   true,
	}
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	combat := DefaultCombatConfig()
	combat.TurnTimeout = getEnvAsDurationOrDefault("COMBAT_TURN_TIMEOUT", combat.TurnTimeout)
	combat.MinTurnGap = getEnvAsDurationOrDefault("COMBAT_MIN_TURN_GAP", combat.MinTurnGap)
	combat.RoundCooldown = getEnvAsDurationOrDefault("COMBAT_ROUND_COOLDOWN", combat.RoundCooldown)
	combat.AutoActDelay = getEnvAsDurationOrDefault("COMBAT_AUTO_ACT_DELAY", combat.AutoActDelay)
	combat.ManualGuardBackoff = getEnvAsDurationOrDefault("COMBAT_MANUAL_GUARD_BACKOFF", combat.ManualGuardBackoff)
	combat.AdvanceGateTimeout = getEnvAsDurationOrDefault("COMBAT_ADVANCE_GATE_TIMEOUT", combat.AdvanceGateTimeout)
	combat.IdleEndRounds = getEnvAsIntOrDefault("COMBAT_IDLE_END_ROUNDS", combat.IdleEndRounds)
	combat.MaxRounds = getEnvAsIntOrDefault("COMBAT_MAX_ROUNDS", combat.MaxRounds)
	combat.GuildEncounterCap = getEnvAsIntOrDefault("COMBAT_GUILD_ENCOUNTER_CAP", combat.GuildEncounterCap)
	combat.StaleAfter = getEnvAsDurationOrDefault("COMBAT_STALE_AFTER", combat.StaleAfter)
	combat.SweepInterval = getEnvAsDurationOrDefault("COMBAT_SWEEP_INTERVAL", combat.SweepInterval)
	combat.FleeCooldown = getEnvAsDurationOrDefault("COMBAT_FLEE_COOLDOWN", combat.FleeCooldown)
	combat.DefaultAutoMode = getEnvAsBoolOrDefault("COMBAT_DEFAULT_AUTO_MODE", combat.DefaultAutoMode)
	combat.EnforceTurnOrder = getEnvAsBoolOrDefault("COMBAT_ENFORCE_TURN_ORDER", combat.EnforceTurnOrder)

	cfg := &Config{
		Discord: DiscordConfig{
			Token:   os.Getenv("DISCORD_TOKEN"),
			AppID:   os.Getenv("DISCORD_APP_ID"),
			GuildID: os.Getenv("DISCORD_GUILD_ID"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
		},
		Combat: combat,
	}

	// Validate required fields
	if cfg.Discord.Token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}
	if cfg.Discord.AppID == "" {
		return nil, fmt.Errorf("DISCORD_APP_ID is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
