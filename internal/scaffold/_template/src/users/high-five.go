package highfive

import (
	"fmt"

	"github.com/keshon/hotslash/pkg/command"
)

var Command = command.UserCommand{
	Name: "High Five",
	Execute: func(c *command.Context) error {
		target := c.Interaction.Target()
		user := c.Interaction.Caller

		return c.Interaction.Reply(command.Reply{
			Content: fmt.Sprintf("<@%s> high fived <@%s>!", user.ID, target.ID),
		})
	},
}
