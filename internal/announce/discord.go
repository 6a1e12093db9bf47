package announce

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/wildfable/brawl-bot-discord/internal/repositories/summaries"
)

// discordAnnouncer implements Announcer over a Discord session.
type discordAnnouncer struct {
	session *discordgo.Session
}

// NewDiscordAnnouncer creates an Announcer backed by a Discord session
func NewDiscordAnnouncer(session *discordgo.Session) Announcer {
	if session == nil {
		panic("discord session is required")
	}
	return &discordAnnouncer{session: session}
}

// PostMessage posts a plain narration line to the channel
func (a *discordAnnouncer) PostMessage(ctx context.Context, channelID, content string) error {
	_, err := a.session.ChannelMessageSend(channelID, content)
	return err
}

// PostAs posts a line attributed to a combatant
func (a *discordAnnouncer) PostAs(ctx context.Context, channelID, combatantName, content string) error {
	embed := &discordgo.MessageEmbed{
		Author:      &discordgo.MessageEmbedAuthor{Name: combatantName},
		Description: content,
		Color:       0xc0392b,
	}
	_, err := a.session.ChannelMessageSendEmbed(channelID, embed)
	return err
}

// PostSummary posts the end-of-encounter summary embed
func (a *discordAnnouncer) PostSummary(ctx context.Context, channelID string, summary *summaries.Summary) error {
	embed := &discordgo.MessageEmbed{
		Title: "⚔️ Encounter Summary",
		Color: 0x7f8c8d,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Rounds", Value: fmt.Sprintf("%d", summary.Rounds), Inline: true},
			{Name: "Ended", Value: summary.EndReason, Inline: true},
		},
	}
	if summary.Winner != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Winner", Value: summary.Winner, Inline: true,
		})
	}

	var lines []string
	for _, c := range summary.Combatants {
		status := fmt.Sprintf("%d/%d HP", c.CurrentHP, c.MaxHP)
		if c.CurrentHP == 0 {
			status = "down"
		}
		lines = append(lines, fmt.Sprintf("**%s** — %s", c.Name, status))
	}
	if len(lines) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Combatants", Value: strings.Join(lines, "\n"),
		})
	}
	if summary.MediaURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: summary.MediaURL}
	}

	_, err := a.session.ChannelMessageSendEmbed(channelID, embed)
	return err
}
