package command

import (
	"context"
	"errors"
	"sync"
)

// InteractionType values match Discord interaction types.
type InteractionType int

const (
	InteractionPing         InteractionType = 1
	InteractionCommand      InteractionType = 2
	InteractionAutocomplete InteractionType = 4
)

// User is the subset of a Discord user exposed to handlers.
type User struct {
	ID            string
	Username      string
	GlobalName    string
	Discriminator string
	Bot           bool
}

// Mention renders the user as a mention.
func (u *User) Mention() string {
	return "<@" + u.ID + ">"
}

// Message is the subset of a Discord message exposed to message commands.
type Message struct {
	ID        string
	ChannelID string
	Content   string
	Author    *User
}

// OptionValue is one option of an inbound interaction. Subcommand and group
// values carry nested Options instead of a Value.
type OptionValue struct {
	Name    string
	Type    OptionType
	Value   any
	Focused bool
	Options []*OptionValue
}

// String returns the value as a string, or "" when it is not one.
func (o *OptionValue) String() string {
	s, _ := o.Value.(string)
	return s
}

// Event is a transport-neutral inbound interaction.
type Event struct {
	ID            string
	Token         string
	ApplicationID string
	Type          InteractionType
	GuildID       string
	ChannelID     string
	Locale        string

	Kind     Kind
	Name     string
	Options  []*OptionValue
	TargetID string

	Caller        *User
	TargetUser    *User
	TargetMessage *Message
}

// Focused returns the option the user is typing into during autocomplete.
func (e *Event) Focused() *OptionValue {
	return findOption(e.Options, func(o *OptionValue) bool { return o.Focused })
}

// Option returns the first option named name at any depth.
func (e *Event) Option(name string) *OptionValue {
	return findOption(e.Options, func(o *OptionValue) bool { return o.Name == name })
}

func findOption(opts []*OptionValue, match func(*OptionValue) bool) *OptionValue {
	for _, o := range opts {
		if match(o) {
			return o
		}
		if found := findOption(o.Options, match); found != nil {
			return found
		}
	}
	return nil
}

// Embed is a rich message block.
type Embed struct {
	Title       string
	Description string
	URL         string
	Color       int
}

// Reply is the message sent in response to a command.
type Reply struct {
	Content   string
	Embeds    []Embed
	Ephemeral bool
}

// ErrNotAutocomplete is returned by Respond on a non-autocomplete interaction.
var ErrNotAutocomplete = errors.New("command: respond is only valid for autocomplete interactions")

// Interaction is the event as seen by a handler, with reply callbacks bound
// to its id and token.
type Interaction struct {
	*Event

	reply   func(Reply) error
	respond func([]Choice) error
}

// NewInteraction binds reply and respond to ev. Either callback may be nil.
func NewInteraction(ev *Event, reply func(Reply) error, respond func([]Choice) error) *Interaction {
	return &Interaction{Event: ev, reply: reply, respond: respond}
}

// Reply answers a command interaction.
func (i *Interaction) Reply(r Reply) error {
	if i.reply == nil {
		return errors.New("command: interaction cannot be replied to")
	}
	return i.reply(r)
}

// Respond answers an autocomplete interaction with suggestions.
func (i *Interaction) Respond(choices []Choice) error {
	if i.Type != InteractionAutocomplete || i.respond == nil {
		return ErrNotAutocomplete
	}
	return i.respond(choices)
}

// Target returns the user a user command was invoked on.
func (i *Interaction) Target() *User {
	return i.TargetUser
}

// Context is passed to every handler.
type Context struct {
	Interaction *Interaction

	ctx   context.Context
	fetch func(context.Context) (*User, error)

	once sync.Once
	self *User
	err  error
}

// NewContext builds a handler context. fetch is called at most once, on the
// first FetchClient call.
func NewContext(ctx context.Context, in *Interaction, fetch func(context.Context) (*User, error)) *Context {
	return &Context{Interaction: in, ctx: ctx, fetch: fetch}
}

// Context returns the context the interaction is served under.
func (c *Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// FetchClient returns the bot's own user.
func (c *Context) FetchClient() (*User, error) {
	c.once.Do(func() {
		if c.fetch == nil {
			c.err = errors.New("command: identity is not available")
			return
		}
		c.self, c.err = c.fetch(c.Context())
	})
	return c.self, c.err
}
