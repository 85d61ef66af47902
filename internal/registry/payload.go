package registry

import (
	"maps"
	"slices"

	"github.com/keshon/hotslash/pkg/command"
)

// Payload is the wire projection of a command. It is compared to detect
// changes and sent verbatim in the bulk overwrite.
type Payload struct {
	Type                     command.Kind      `json:"type"`
	Name                     string            `json:"name"`
	NameLocalizations        map[string]string `json:"name_localizations,omitempty"`
	Description              string            `json:"description,omitempty"`
	DescriptionLocalizations map[string]string `json:"description_localizations,omitempty"`
	Options                  []*OptionPayload  `json:"options,omitempty"`
	DefaultMemberPermissions string            `json:"default_member_permissions,omitempty"`
	DMPermission             *bool             `json:"dm_permission,omitempty"`
	NSFW                     bool              `json:"nsfw,omitempty"`
}

// OptionPayload is the wire projection of an option.
type OptionPayload struct {
	Type                     command.OptionType    `json:"type"`
	Name                     string                `json:"name"`
	NameLocalizations        map[string]string     `json:"name_localizations,omitempty"`
	Description              string                `json:"description"`
	DescriptionLocalizations map[string]string     `json:"description_localizations,omitempty"`
	Required                 bool                  `json:"required,omitempty"`
	Options                  []*OptionPayload      `json:"options,omitempty"`
	Choices                  []*ChoicePayload      `json:"choices,omitempty"`
	MinLength                *int                  `json:"min_length,omitempty"`
	MaxLength                *int                  `json:"max_length,omitempty"`
	MinValue                 *float64              `json:"min_value,omitempty"`
	MaxValue                 *float64              `json:"max_value,omitempty"`
	ChannelTypes             []command.ChannelType `json:"channel_types,omitempty"`
	Autocomplete             bool                  `json:"autocomplete,omitempty"`
}

// ChoicePayload is the wire projection of a choice.
type ChoicePayload struct {
	Name              string            `json:"name"`
	NameLocalizations map[string]string `json:"name_localizations,omitempty"`
	Value             any               `json:"value"`
}

// BuildPayload projects a validated definition.
func BuildPayload(def *command.Definition) *Payload {
	p := &Payload{
		Type:                     def.Kind,
		Name:                     def.Name,
		NameLocalizations:        def.NameLocalizations,
		DefaultMemberPermissions: def.DefaultMemberPermissions.String(),
		DMPermission:             def.DMPermission,
		NSFW:                     def.NSFW,
	}
	if def.Kind == command.KindChatInput {
		p.Description = def.Description
		p.DescriptionLocalizations = def.DescriptionLocalizations
		p.Options = buildOptions(def.Options)
	}
	return p
}

func buildOptions(opts []*command.Option) []*OptionPayload {
	if len(opts) == 0 {
		return nil
	}
	out := make([]*OptionPayload, 0, len(opts))
	for _, o := range opts {
		op := &OptionPayload{
			Type:                     o.Type,
			Name:                     o.Name,
			NameLocalizations:        o.NameLocalizations,
			Description:              o.Description,
			DescriptionLocalizations: o.DescriptionLocalizations,
			Required:                 o.Required,
			Options:                  buildOptions(o.Options),
			MinLength:                o.MinLength,
			MaxLength:                o.MaxLength,
			MinValue:                 o.MinValue,
			MaxValue:                 o.MaxValue,
			ChannelTypes:             o.ChannelTypes,
			Autocomplete:             o.Autocomplete != nil,
		}
		for _, c := range o.Choices {
			op.Choices = append(op.Choices, &ChoicePayload{
				Name:              c.Name,
				NameLocalizations: c.NameLocalizations,
				Value:             c.Value,
			})
		}
		out = append(out, op)
	}
	return out
}

// Equal reports whether two payloads describe the same remote command.
// Localization maps compare as sets of entries; options, choices and their
// order compare exactly; channel types compare as sorted sets.
func (p *Payload) Equal(q *Payload) bool {
	if p == nil || q == nil {
		return p == q
	}
	return p.Type == q.Type &&
		p.Name == q.Name &&
		localesEqual(p.NameLocalizations, q.NameLocalizations) &&
		p.Description == q.Description &&
		localesEqual(p.DescriptionLocalizations, q.DescriptionLocalizations) &&
		p.DefaultMemberPermissions == q.DefaultMemberPermissions &&
		boolPtrEqual(p.DMPermission, q.DMPermission) &&
		p.NSFW == q.NSFW &&
		slices.EqualFunc(p.Options, q.Options, (*OptionPayload).Equal)
}

// Equal compares options recursively. Handler identity is not compared,
// only whether autocomplete is present.
func (o *OptionPayload) Equal(q *OptionPayload) bool {
	if o == nil || q == nil {
		return o == q
	}
	return o.Type == q.Type &&
		o.Name == q.Name &&
		localesEqual(o.NameLocalizations, q.NameLocalizations) &&
		o.Description == q.Description &&
		localesEqual(o.DescriptionLocalizations, q.DescriptionLocalizations) &&
		o.Required == q.Required &&
		intPtrEqual(o.MinLength, q.MinLength) &&
		intPtrEqual(o.MaxLength, q.MaxLength) &&
		floatPtrEqual(o.MinValue, q.MinValue) &&
		floatPtrEqual(o.MaxValue, q.MaxValue) &&
		channelTypesEqual(o.ChannelTypes, q.ChannelTypes) &&
		slices.EqualFunc(o.Choices, q.Choices, (*ChoicePayload).Equal) &&
		o.Autocomplete == q.Autocomplete &&
		slices.EqualFunc(o.Options, q.Options, (*OptionPayload).Equal)
}

// Equal compares a choice by name, localizations and value.
func (c *ChoicePayload) Equal(q *ChoicePayload) bool {
	if c == nil || q == nil {
		return c == q
	}
	return c.Name == q.Name &&
		localesEqual(c.NameLocalizations, q.NameLocalizations) &&
		c.Value == q.Value
}

// localesEqual treats nil and empty maps alike.
func localesEqual(a, b map[string]string) bool {
	return maps.Equal(a, b)
}

func boolPtrEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func channelTypesEqual(a, b []command.ChannelType) bool {
	if len(a) != len(b) {
		return false
	}
	as, bs := slices.Clone(a), slices.Clone(b)
	slices.Sort(as)
	slices.Sort(bs)
	return slices.Equal(as, bs)
}
