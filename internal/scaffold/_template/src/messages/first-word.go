package firstword

import (
	"fmt"
	"strings"

	"github.com/keshon/hotslash/pkg/command"
)

var Command = command.MessageCommand{
	Name: "First Word",
	Execute: func(c *command.Context) error {
		message := c.Interaction.TargetMessage
		firstWord, _, _ := strings.Cut(message.Content, " ")

		return c.Interaction.Reply(command.Reply{
			Content: fmt.Sprintf("The first word is: `%s`!", firstWord),
		})
	},
}
