package command

import (
	"fmt"
	"reflect"
	"unicode/utf8"
)

const maxNameLength = 32

// RegistrationError reports a definition that cannot be registered.
type RegistrationError struct {
	Command string
	Reason  string
}

func (e *RegistrationError) Error() string {
	if e.Command == "" {
		return "register command: " + e.Reason
	}
	return fmt.Sprintf("register command %q: %s", e.Command, e.Reason)
}

func regErr(name, format string, args ...any) error {
	return &RegistrationError{Command: name, Reason: fmt.Sprintf(format, args...)}
}

// Normalize validates an exported command value against the kind implied by
// its directory and returns the tagged Definition.
func Normalize(kind Kind, export any) (*Definition, error) {
	var def *Definition

	switch c := export.(type) {
	case ChatInputCommand:
		def = fromChatInput(&c)
	case *ChatInputCommand:
		if c == nil {
			return nil, regErr("", "nil command")
		}
		def = fromChatInput(c)
	case UserCommand:
		def = fromUser(&c)
	case *UserCommand:
		if c == nil {
			return nil, regErr("", "nil command")
		}
		def = fromUser(c)
	case MessageCommand:
		def = fromMessage(&c)
	case *MessageCommand:
		if c == nil {
			return nil, regErr("", "nil command")
		}
		def = fromMessage(c)
	default:
		return nil, regErr("", "unsupported command value %T", export)
	}

	if def.Kind != kind {
		return nil, regErr(def.Name, "%s command found where a %s command was expected", def.Kind, kind)
	}
	if err := Validate(def); err != nil {
		return nil, err
	}
	return def, nil
}

func fromChatInput(c *ChatInputCommand) *Definition {
	return &Definition{
		Kind:                     KindChatInput,
		Name:                     c.Name,
		NameLocalizations:        c.NameLocalizations,
		Description:              c.Description,
		DescriptionLocalizations: c.DescriptionLocalizations,
		DefaultMemberPermissions: c.DefaultMemberPermissions,
		DMPermission:             c.DMPermission,
		NSFW:                     c.NSFW,
		Execute:                  c.Execute,
		Options:                  c.Options,
	}
}

func fromUser(c *UserCommand) *Definition {
	return &Definition{
		Kind:                     KindUser,
		Name:                     c.Name,
		NameLocalizations:        c.NameLocalizations,
		DefaultMemberPermissions: c.DefaultMemberPermissions,
		DMPermission:             c.DMPermission,
		NSFW:                     c.NSFW,
		Execute:                  c.Execute,
	}
}

func fromMessage(c *MessageCommand) *Definition {
	return &Definition{
		Kind:                     KindMessage,
		Name:                     c.Name,
		NameLocalizations:        c.NameLocalizations,
		DefaultMemberPermissions: c.DefaultMemberPermissions,
		DMPermission:             c.DMPermission,
		NSFW:                     c.NSFW,
		Execute:                  c.Execute,
	}
}

// Validate checks the structural rules of a definition.
func Validate(def *Definition) error {
	if err := checkName(def.Name, def.Name); err != nil {
		return err
	}

	switch def.Kind {
	case KindUser, KindMessage:
		if def.Execute == nil {
			return regErr(def.Name, "missing Execute")
		}
		if len(def.Options) > 0 || def.Description != "" {
			return regErr(def.Name, "%s commands take no description or options", def.Kind)
		}
		return nil
	case KindChatInput:
	default:
		return regErr(def.Name, "unknown kind %d", def.Kind)
	}

	if def.Description == "" {
		return regErr(def.Name, "missing description")
	}

	nested, scalar := 0, 0
	for _, o := range def.Options {
		if o == nil {
			return regErr(def.Name, "nil option")
		}
		if o.Type == OptionSubcommand || o.Type == OptionSubcommandGroup {
			nested++
		} else {
			scalar++
		}
	}

	switch {
	case def.Execute != nil && nested > 0:
		return regErr(def.Name, "Execute cannot be combined with subcommand options")
	case def.Execute == nil && nested == 0:
		return regErr(def.Name, "missing Execute or subcommand options")
	case nested > 0 && scalar > 0:
		return regErr(def.Name, "subcommand options cannot be mixed with value options")
	}

	return checkOptions(def.Name, def.Options, 0)
}

func checkName(cmd, name string) error {
	if name == "" {
		return regErr(cmd, "empty name")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return regErr(cmd, "name %q is longer than %d characters", name, maxNameLength)
	}
	return nil
}

// checkOptions validates one level of the option tree. depth is 0 for the
// command's own options, 1 inside a group.
func checkOptions(cmd string, opts []*Option, depth int) error {
	seen := make(map[string]bool, len(opts))
	for _, o := range opts {
		if o == nil {
			return regErr(cmd, "nil option")
		}
		if err := checkName(cmd, o.Name); err != nil {
			return err
		}
		if seen[o.Name] {
			return regErr(cmd, "duplicate option %q", o.Name)
		}
		seen[o.Name] = true
		if o.Description == "" {
			return regErr(cmd, "option %q: missing description", o.Name)
		}

		switch {
		case o.Type == OptionSubcommandGroup:
			if depth > 0 {
				return regErr(cmd, "group %q cannot be nested", o.Name)
			}
			if o.Execute != nil || o.Autocomplete != nil {
				return regErr(cmd, "group %q cannot have handlers", o.Name)
			}
			if len(o.Options) == 0 {
				return regErr(cmd, "group %q has no subcommands", o.Name)
			}
			for _, sub := range o.Options {
				if sub == nil || sub.Type != OptionSubcommand {
					return regErr(cmd, "group %q may only contain subcommands", o.Name)
				}
			}
			if err := checkOptions(cmd, o.Options, depth+1); err != nil {
				return err
			}

		case o.Type == OptionSubcommand:
			if o.Execute == nil {
				return regErr(cmd, "subcommand %q: missing Execute", o.Name)
			}
			if o.Autocomplete != nil {
				return regErr(cmd, "subcommand %q cannot autocomplete", o.Name)
			}
			for _, child := range o.Options {
				if child == nil || !child.Type.IsScalar() {
					return regErr(cmd, "subcommand %q may only contain value options", o.Name)
				}
			}
			if err := checkOptions(cmd, o.Options, depth+1); err != nil {
				return err
			}

		case o.Type.IsScalar():
			if err := checkScalar(cmd, o); err != nil {
				return err
			}

		default:
			return regErr(cmd, "option %q: unknown type %d", o.Name, o.Type)
		}
	}
	return nil
}

func checkScalar(cmd string, o *Option) error {
	if o.Execute != nil || len(o.Options) > 0 {
		return regErr(cmd, "option %q: value options cannot nest or execute", o.Name)
	}
	if o.Autocomplete != nil && len(o.Choices) > 0 {
		return regErr(cmd, "option %q: choices and autocomplete are mutually exclusive", o.Name)
	}
	if o.Autocomplete != nil {
		switch o.Type {
		case OptionString, OptionInteger, OptionNumber:
		default:
			return regErr(cmd, "option %q: autocomplete needs a string, integer or number option", o.Name)
		}
	}
	if len(o.ChannelTypes) > 0 && o.Type != OptionChannel {
		return regErr(cmd, "option %q: channel types on a non-channel option", o.Name)
	}
	for _, c := range o.Choices {
		if !choiceFits(o.Type, c.Value) {
			return regErr(cmd, "option %q: choice %q has a %T value", o.Name, c.Name, c.Value)
		}
	}
	return nil
}

// choiceFits reports whether v is a valid choice value for an option of
// type t. Only string, integer and number options take choices.
func choiceFits(t OptionType, v any) bool {
	if v == nil {
		return false
	}
	switch k := reflect.TypeOf(v).Kind(); t {
	case OptionString:
		return k == reflect.String
	case OptionInteger:
		return isInteger(k)
	case OptionNumber:
		return isInteger(k) || k == reflect.Float32 || k == reflect.Float64
	}
	return false
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
