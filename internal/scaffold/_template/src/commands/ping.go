package ping

import "github.com/keshon/hotslash/pkg/command"

var Command = command.ChatInputCommand{
	Name:        "ping",
	Description: "Pong!",
	Execute: func(c *command.Context) error {
		return c.Interaction.Reply(command.Reply{Content: "Pong!"})
	},
}
