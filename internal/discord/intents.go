package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

var intentNames = map[string]discordgo.Intent{
	"GUILDS":                   discordgo.IntentGuilds,
	"GUILD_MEMBERS":            discordgo.IntentGuildMembers,
	"GUILD_MODERATION":         discordgo.IntentGuildModeration,
	"GUILD_EMOJIS":             discordgo.IntentGuildEmojis,
	"GUILD_INTEGRATIONS":       discordgo.IntentGuildIntegrations,
	"GUILD_WEBHOOKS":           discordgo.IntentGuildWebhooks,
	"GUILD_INVITES":            discordgo.IntentGuildInvites,
	"GUILD_VOICE_STATES":       discordgo.IntentGuildVoiceStates,
	"GUILD_PRESENCES":          discordgo.IntentGuildPresences,
	"GUILD_MESSAGES":           discordgo.IntentGuildMessages,
	"GUILD_MESSAGE_REACTIONS":  discordgo.IntentGuildMessageReactions,
	"GUILD_MESSAGE_TYPING":     discordgo.IntentGuildMessageTyping,
	"DIRECT_MESSAGES":          discordgo.IntentDirectMessages,
	"DIRECT_MESSAGE_REACTIONS": discordgo.IntentDirectMessageReactions,
	"DIRECT_MESSAGE_TYPING":    discordgo.IntentDirectMessageTyping,
	"MESSAGE_CONTENT":          discordgo.IntentMessageContent,
	"GUILD_SCHEDULED_EVENTS":   discordgo.IntentGuildScheduledEvents,
	"ALL":                      discordgo.IntentsAll,
}

// ParseIntents combines gateway intent names such as "GUILDS" or
// "guild_messages". An empty list yields zero.
func ParseIntents(names []string) (discordgo.Intent, error) {
	var out discordgo.Intent
	for _, name := range names {
		key := strings.ToUpper(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		intent, ok := intentNames[key]
		if !ok {
			return 0, fmt.Errorf("discord: unknown intent %q", name)
		}
		out |= intent
	}
	return out, nil
}
