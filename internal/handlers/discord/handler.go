package discord

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/wildfable/brawl-bot-discord/internal/domain/combat"
	apperr "github.com/wildfable/brawl-bot-discord/internal/errors"
	"github.com/wildfable/brawl-bot-discord/internal/services/encounter"
)

// Handler routes Discord interactions to the encounter service.
type Handler struct {
	encounterService encounter.Service
}

// HandlerConfig holds configuration for the Discord handler
type HandlerConfig struct {
	EncounterService encounter.Service
}

// NewHandler creates a new Discord handler
func NewHandler(cfg *HandlerConfig) *Handler {
	if cfg.EncounterService == nil {
		panic("encounter service is required")
	}
	return &Handler{
		encounterService: cfg.EncounterService,
	}
}

// RegisterCommands registers the slash commands. An empty guildID registers
// them globally.
func (h *Handler) RegisterCommands(s *discordgo.Session, guildID string) error {
	for _, cmd := range commandDefinitions() {
		if _, err := s.ApplicationCommandCreate(s.State.User.ID, guildID, cmd); err != nil {
			return apperr.Wrapf(err, "failed to register command %s", cmd.Name)
		}
	}
	return nil
}

func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "brawl",
			Description: "Attack another avatar, starting a fight if none is running",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "target",
					Description: "Who to attack",
					Required:    true,
				},
			},
		},
		{
			Name:        "flee",
			Description: "Try to escape the current fight",
		},
	}
}

// HandleInteraction is the discordgo interaction callback
func (h *Handler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "brawl":
		h.handleBrawl(s, i)
	case "flee":
		h.handleFlee(s, i)
	}
}

func (h *Handler) handleBrawl(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	actorID, actorName := interactionActor(i)
	if actorID == "" {
		respond(s, i, "I can't tell who you are.")
		return
	}

	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		respond(s, i, "Pick a target to brawl with.")
		return
	}
	target := data.Options[0].UserValue(s)
	if target == nil {
		respond(s, i, "Pick a target to brawl with.")
		return
	}
	if target.ID == actorID {
		respond(s, i, "You swing at yourself and think better of it.")
		return
	}

	_, err := h.encounterService.EnsureEncounterForAttack(ctx, &encounter.EnsureEncounterInput{
		ChannelID: i.ChannelID,
		GuildID:   i.GuildID,
		Attacker: encounter.Participant{
			AvatarID: actorID,
			Name:     actorName,
			Mode:     combat.ModeManual,
		},
		Defenders: []encounter.Participant{
			{AvatarID: target.ID, Name: displayName(target)},
		},
	})
	if err != nil {
		if apperr.IsInvalidArgument(err) {
			respond(s, i, err.Error())
			return
		}
		log.Printf("failed to ensure encounter in channel %s: %v", i.ChannelID, err)
		respond(s, i, "Something went wrong starting the fight.")
		return
	}

	if !h.encounterService.IsTurn(ctx, i.ChannelID, actorID) {
		respond(s, i, "You square up against **"+displayName(target)+"**. Wait for your turn!")
		return
	}

	result, err := h.encounterService.PerformAttack(ctx, i.ChannelID, actorID, target.ID)
	if err != nil {
		if apperr.IsInvalidArgument(err) || apperr.IsNotFound(err) {
			respond(s, i, err.Error())
			return
		}
		log.Printf("attack failed in channel %s: %v", i.ChannelID, err)
		respond(s, i, "The attack fizzles.")
		return
	}

	respond(s, i, result.Message)
}

func (h *Handler) handleFlee(s *discordgo.Session, i *discordgo.InteractionCreate) {
	actorID, _ := interactionActor(i)
	if actorID == "" {
		respond(s, i, "I can't tell who you are.")
		return
	}

	result, err := h.encounterService.AttemptFlee(context.Background(), i.ChannelID, actorID)
	if err != nil {
		log.Printf("flee failed in channel %s: %v", i.ChannelID, err)
		respond(s, i, "You trip over your own feet.")
		return
	}
	if result.Message == "" {
		respond(s, i, "There's nothing to run from right now.")
		return
	}
	respond(s, i, result.Message)
}

// interactionActor resolves the invoking user's ID and display name for both
// guild and DM interactions.
func interactionActor(i *discordgo.InteractionCreate) (id, name string) {
	if i.Member != nil && i.Member.User != nil {
		name = i.Member.Nick
		if name == "" {
			name = i.Member.User.Username
		}
		return i.Member.User.ID, name
	}
	if i.User != nil {
		return i.User.ID, i.User.Username
	}
	return "", ""
}

func displayName(u *discordgo.User) string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
	if err != nil {
		log.Printf("failed to respond to interaction in channel %s: %v", i.ChannelID, err)
	}
}
