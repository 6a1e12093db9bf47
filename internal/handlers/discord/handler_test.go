package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandDefinitions(t *testing.T) {
	commands := commandDefinitions()
	require.Len(t, commands, 2)

	assert.Equal(t, "brawl", commands[0].Name)
	require.Len(t, commands[0].Options, 1)
	assert.Equal(t, discordgo.ApplicationCommandOptionUser, commands[0].Options[0].Type)
	assert.True(t, commands[0].Options[0].Required)

	assert.Equal(t, "flee", commands[1].Name)
}

func TestInteractionActor(t *testing.T) {
	t.Run("guild member with nick", func(t *testing.T) {
		i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			Member: &discordgo.Member{
				Nick: "Slugger",
				User: &discordgo.User{ID: "user-1", Username: "slugger_main"},
			},
		}}
		id, name := interactionActor(i)
		assert.Equal(t, "user-1", id)
		assert.Equal(t, "Slugger", name)
	})

	t.Run("guild member without nick", func(t *testing.T) {
		i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			Member: &discordgo.Member{
				User: &discordgo.User{ID: "user-1", Username: "slugger_main"},
			},
		}}
		id, name := interactionActor(i)
		assert.Equal(t, "user-1", id)
		assert.Equal(t, "slugger_main", name)
	})

	t.Run("direct message", func(t *testing.T) {
		i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			User: &discordgo.User{ID: "user-2", Username: "dm_user"},
		}}
		id, name := interactionActor(i)
		assert.Equal(t, "user-2", id)
		assert.Equal(t, "dm_user", name)
	})

	t.Run("unresolvable", func(t *testing.T) {
		i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}
		id, name := interactionActor(i)
		assert.Empty(t, id)
		assert.Empty(t, name)
	})
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Champ", displayName(&discordgo.User{GlobalName: "Champ", Username: "champ123"}))
	assert.Equal(t, "champ123", displayName(&discordgo.User{Username: "champ123"}))
}

func TestNewHandler_RequiresService(t *testing.T) {
	assert.Panics(t, func() {
		NewHandler(&HandlerConfig{})
	})
}
