// Package command is the contract between command source files and the runtime.
//
// Every file under the commands, users or messages directory exports a
// package-level Command value of one of the three variants below:
//
//	package ping
//
//	import "github.com/keshon/hotslash/pkg/command"
//
//	var Command = command.ChatInputCommand{
//		Name:        "ping",
//		Description: "Pong!",
//		Execute: func(c *command.Context) error {
//			return c.Interaction.Reply(command.Reply{Content: "Pong!"})
//		},
//	}
//
// The runtime validates the value once with Normalize and never probes it again.
//
// Files may import helper files by relative path ("../shared/words"). A
// helper shares its functions, variables and constants; its type
// declarations are not visible to the importing file. Two helpers that
// declare the same package name must be imported under distinct names:
//
//	import (
//		"../shared/words"
//		extra "../extra/words"
//	)
package command

// ExportName is the top-level identifier a command file exports its
// command under.
const ExportName = "Command"

// Kind is the invocation surface of a command. Values match Discord
// application command types.
type Kind int

const (
	KindChatInput Kind = 1
	KindUser      Kind = 2
	KindMessage   Kind = 3
)

// String returns the name used in handler keys.
func (k Kind) String() string {
	switch k {
	case KindChatInput:
		return "chat"
	case KindUser:
		return "user"
	case KindMessage:
		return "message"
	}
	return "unknown"
}

// OptionType values match Discord application command option types.
type OptionType int

const (
	OptionSubcommand      OptionType = 1
	OptionSubcommandGroup OptionType = 2
	OptionString          OptionType = 3
	OptionInteger         OptionType = 4
	OptionBoolean         OptionType = 5
	OptionUser            OptionType = 6
	OptionChannel         OptionType = 7
	OptionRole            OptionType = 8
	OptionMentionable     OptionType = 9
	OptionNumber          OptionType = 10
	OptionAttachment      OptionType = 11
)

// IsScalar reports whether the option carries a value rather than nesting.
func (t OptionType) IsScalar() bool {
	return t >= OptionString && t <= OptionAttachment
}

// ChannelType restricts Channel options.
type ChannelType int

const (
	ChannelGuildText          ChannelType = 0
	ChannelDM                 ChannelType = 1
	ChannelGuildVoice         ChannelType = 2
	ChannelGroupDM            ChannelType = 3
	ChannelGuildCategory      ChannelType = 4
	ChannelGuildAnnouncement  ChannelType = 5
	ChannelAnnouncementThread ChannelType = 10
	ChannelPublicThread       ChannelType = 11
	ChannelPrivateThread      ChannelType = 12
	ChannelGuildStageVoice    ChannelType = 13
	ChannelGuildDirectory     ChannelType = 14
	ChannelGuildForum         ChannelType = 15
	ChannelGuildMedia         ChannelType = 16
)

// Handler runs a command, a subcommand or an autocomplete query.
type Handler func(c *Context) error

// Choice is a static option choice or an autocomplete suggestion.
// Value is a string, an integer or a float depending on the option type.
type Choice struct {
	Name              string
	NameLocalizations map[string]string
	Value             any
}

// Option is one node of a chat-input command's option tree.
//
// Subcommand carries Execute and scalar Options. SubcommandGroup carries only
// Subcommand Options. Scalar options carry either Choices or Autocomplete.
type Option struct {
	Type                     OptionType
	Name                     string
	NameLocalizations        map[string]string
	Description              string
	DescriptionLocalizations map[string]string
	Required                 bool

	MinLength    *int
	MaxLength    *int
	MinValue     *float64
	MaxValue     *float64
	ChannelTypes []ChannelType

	Choices      []Choice
	Autocomplete Handler

	Execute Handler
	Options []*Option
}

// ChatInputCommand is a slash command. It has either Execute with scalar
// Options, or only Subcommand/SubcommandGroup Options.
type ChatInputCommand struct {
	Name                     string
	NameLocalizations        map[string]string
	Description              string
	DescriptionLocalizations map[string]string
	DefaultMemberPermissions Permission
	DMPermission             *bool
	NSFW                     bool

	Execute Handler
	Options []*Option
}

// UserCommand appears in the context menu of a user.
type UserCommand struct {
	Name                     string
	NameLocalizations        map[string]string
	DefaultMemberPermissions Permission
	DMPermission             *bool
	NSFW                     bool

	Execute Handler
}

// MessageCommand appears in the context menu of a message.
type MessageCommand struct {
	Name                     string
	NameLocalizations        map[string]string
	DefaultMemberPermissions Permission
	DMPermission             *bool
	NSFW                     bool

	Execute Handler
}

// Definition is the validated, kind-tagged form of a command. It is built by
// Normalize and is what the registry indexes.
type Definition struct {
	Kind                     Kind
	Name                     string
	NameLocalizations        map[string]string
	Description              string
	DescriptionLocalizations map[string]string
	DefaultMemberPermissions Permission
	DMPermission             *bool
	NSFW                     bool

	Execute Handler
	Options []*Option
}

// Base returns the kind-qualified name shared by every key of the command.
func (d *Definition) Base() string {
	return BaseKey(d.Kind, d.Name)
}

// Bool returns a pointer to b, for DMPermission.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n, for MinLength and MaxLength.
func Int(n int) *int { return &n }

// Float returns a pointer to f, for MinValue and MaxValue.
func Float(f float64) *float64 { return &f }
