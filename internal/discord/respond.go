package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/hotslash/internal/router"
	"github.com/keshon/hotslash/pkg/command"
)

// Responder answers one gateway interaction through the REST callback.
type Responder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
}

// Respond implements router.Responder.
func (r *Responder) Respond(ctx context.Context, _ *command.Event, resp *router.Response) error {
	out, err := ToResponse(resp)
	if err != nil {
		return err
	}
	if err := r.session.InteractionRespond(r.interaction, out, discordgo.WithContext(ctx)); err != nil {
		return wrapRESTError(err)
	}
	return nil
}

// ToResponse converts a router response into the interaction callback body.
func ToResponse(resp *router.Response) (*discordgo.InteractionResponse, error) {
	switch resp.Type {
	case router.ResponsePong:
		return &discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong}, nil

	case router.ResponseMessage:
		data := &discordgo.InteractionResponseData{}
		if resp.Reply != nil {
			data.Content = resp.Reply.Content
			for _, e := range resp.Reply.Embeds {
				data.Embeds = append(data.Embeds, &discordgo.MessageEmbed{
					Title:       e.Title,
					Description: e.Description,
					URL:         e.URL,
					Color:       e.Color,
				})
			}
			if resp.Reply.Ephemeral {
				data.Flags = discordgo.MessageFlagsEphemeral
			}
		}
		return &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: data,
		}, nil

	case router.ResponseAutocompleteResult:
		choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(resp.Choices))
		for _, c := range resp.Choices {
			choice := &discordgo.ApplicationCommandOptionChoice{Name: c.Name, Value: c.Value}
			if len(c.NameLocalizations) > 0 {
				choice.NameLocalizations = make(map[discordgo.Locale]string, len(c.NameLocalizations))
				for locale, name := range c.NameLocalizations {
					choice.NameLocalizations[discordgo.Locale(locale)] = name
				}
			}
			choices = append(choices, choice)
		}
		return &discordgo.InteractionResponse{
			Type: discordgo.InteractionApplicationCommandAutocompleteResult,
			Data: &discordgo.InteractionResponseData{Choices: choices},
		}, nil
	}
	return nil, fmt.Errorf("discord: unsupported response type %d", resp.Type)
}
