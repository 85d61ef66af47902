package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/hotslash/pkg/command"
)

// ToEvent converts a gateway or webhook interaction. It returns nil for
// interaction types the runtime does not route.
func ToEvent(i *discordgo.Interaction) *command.Event {
	ev := &command.Event{
		ID:            i.ID,
		Token:         i.Token,
		ApplicationID: i.AppID,
		GuildID:       i.GuildID,
		ChannelID:     i.ChannelID,
		Locale:        string(i.Locale),
	}
	if i.Member != nil && i.Member.User != nil {
		ev.Caller = toUser(i.Member.User)
	} else if i.User != nil {
		ev.Caller = toUser(i.User)
	}

	switch i.Type {
	case discordgo.InteractionPing:
		ev.Type = command.InteractionPing
		return ev
	case discordgo.InteractionApplicationCommand:
		ev.Type = command.InteractionCommand
	case discordgo.InteractionApplicationCommandAutocomplete:
		ev.Type = command.InteractionAutocomplete
	default:
		return nil
	}

	data := i.ApplicationCommandData()
	ev.Kind = command.Kind(data.CommandType)
	if ev.Kind == 0 {
		ev.Kind = command.KindChatInput
	}
	ev.Name = data.Name
	ev.Options = toOptions(data.Options)
	ev.TargetID = data.TargetID

	if data.Resolved != nil && data.TargetID != "" {
		switch ev.Kind {
		case command.KindUser:
			if u, ok := data.Resolved.Users[data.TargetID]; ok {
				ev.TargetUser = toUser(u)
			}
		case command.KindMessage:
			if m, ok := data.Resolved.Messages[data.TargetID]; ok {
				ev.TargetMessage = toMessage(m)
			}
		}
	}
	return ev
}

func toOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) []*command.OptionValue {
	if len(opts) == 0 {
		return nil
	}
	out := make([]*command.OptionValue, 0, len(opts))
	for _, o := range opts {
		v := &command.OptionValue{
			Name:    o.Name,
			Type:    command.OptionType(o.Type),
			Value:   o.Value,
			Focused: o.Focused,
			Options: toOptions(o.Options),
		}
		// JSON numbers decode as float64.
		if f, ok := o.Value.(float64); ok && v.Type == command.OptionInteger {
			v.Value = int64(f)
		}
		out = append(out, v)
	}
	return out
}

func toUser(u *discordgo.User) *command.User {
	if u == nil {
		return nil
	}
	return &command.User{
		ID:            u.ID,
		Username:      u.Username,
		GlobalName:    u.GlobalName,
		Discriminator: u.Discriminator,
		Bot:           u.Bot,
	}
}

func toMessage(m *discordgo.Message) *command.Message {
	return &command.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
		Author:    toUser(m.Author),
	}
}
