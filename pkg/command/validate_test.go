package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRejects(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		export any
	}{
		{"unsupported value", KindChatInput, struct{}{}},
		{"wrong directory", KindUser, ChatInputCommand{Name: "a", Description: "d", Execute: noop}},
		{"empty name", KindChatInput, ChatInputCommand{Description: "d", Execute: noop}},
		{"long name", KindMessage, MessageCommand{Name: "abcdefghijklmnopqrstuvwxyz0123456", Execute: noop}},
		{"missing description", KindChatInput, ChatInputCommand{Name: "a", Execute: noop}},
		{"no executor", KindChatInput, ChatInputCommand{Name: "a", Description: "d"}},
		{"executor and subcommand", KindChatInput, ChatInputCommand{Name: "a", Description: "d", Execute: noop, Options: []*Option{
			{Type: OptionSubcommand, Name: "s", Description: "s", Execute: noop},
		}}},
		{"subcommand and value", KindChatInput, ChatInputCommand{Name: "a", Description: "d", Options: []*Option{
			{Type: OptionSubcommand, Name: "s", Description: "s", Execute: noop},
			{Type: OptionString, Name: "v", Description: "v"},
		}}},
		{"subcommand without executor", KindChatInput, ChatInputCommand{Name: "a", Description: "d", Options: []*Option{
			{Type: OptionSubcommand, Name: "s", Description: "s"},
		}}},
		{"empty group", KindChatInput, ChatInputCommand{Name: "a", Description: "d", Options: []*Option{
			{Type: OptionSubcommandGroup, Name: "g", Description: "g"},
		}}},
		{"group with value", KindChatInput, ChatInputCommand{Name: "a", Description: "d", Options: []*Option{
			{Type: OptionSubcommandGroup, Name: "g", Description: "g", Options: []*Option{
				{Type: OptionString, Name: "v", Description: "v"},
			}},
		}}},
		{"choices and autocomplete", KindChatInput, ChatInputCommand{Name: "a", Description: "d", Execute: noop, Options: []*Option{
			{Type: OptionString, Name: "v", Description: "v", Autocomplete: noop, Choices: []Choice{{Name: "x", Value: "x"}}},
		}}},
		{"autocomplete on boolean", KindChatInput, ChatInputCommand{Name: "a", Description: "d", Execute: noop, Options: []*Option{
			{Type: OptionBoolean, Name: "v", Description: "v", Autocomplete: noop},
		}}},
		{"duplicate option", KindChatInput, ChatInputCommand{Name: "a", Description: "d", Execute: noop, Options: []*Option{
			{Type: OptionString, Name: "v", Description: "v"},
			{Type: OptionString, Name: "v", Description: "v"},
		}}},
		{"slice choice value", KindChatInput, ChatInputCommand{Name: "a", Description: "d", Execute: noop, Options: []*Option{
			{Type: OptionString, Name: "v", Description: "v", Choices: []Choice{{Name: "a", Value: []string{"x"}}}},
		}}},
		{"string choice on integer", KindChatInput, ChatInputCommand{Name: "a", Description: "d", Execute: noop, Options: []*Option{
			{Type: OptionInteger, Name: "v", Description: "v", Choices: []Choice{{Name: "a", Value: "1"}}},
		}}},
		{"float choice on integer", KindChatInput, ChatInputCommand{Name: "a", Description: "d", Execute: noop, Options: []*Option{
			{Type: OptionInteger, Name: "v", Description: "v", Choices: []Choice{{Name: "a", Value: 1.5}}},
		}}},
		{"nil choice value", KindChatInput, ChatInputCommand{Name: "a", Description: "d", Execute: noop, Options: []*Option{
			{Type: OptionNumber, Name: "v", Description: "v", Choices: []Choice{{Name: "a"}}},
		}}},
		{"choices on boolean", KindChatInput, ChatInputCommand{Name: "a", Description: "d", Execute: noop, Options: []*Option{
			{Type: OptionBoolean, Name: "v", Description: "v", Choices: []Choice{{Name: "yes", Value: true}}},
		}}},
		{"user without executor", KindUser, UserCommand{Name: "u"}},
		{"nil pointer", KindMessage, (*MessageCommand)(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.kind, tt.export)
			require.Error(t, err)

			var regErr *RegistrationError
			assert.True(t, errors.As(err, &regErr))
		})
	}
}

func TestNormalizeAcceptsChoiceValues(t *testing.T) {
	_, err := Normalize(KindChatInput, ChatInputCommand{Name: "a", Description: "d", Execute: noop, Options: []*Option{
		{Type: OptionString, Name: "s", Description: "s", Choices: []Choice{{Name: "x", Value: "x"}}},
		{Type: OptionInteger, Name: "i", Description: "i", Choices: []Choice{{Name: "one", Value: 1}, {Name: "two", Value: int64(2)}}},
		{Type: OptionNumber, Name: "n", Description: "n", Choices: []Choice{{Name: "one", Value: 1}, {Name: "half", Value: 0.5}}},
	}})
	require.NoError(t, err)
}

func TestNormalizeAcceptsVariants(t *testing.T) {
	def, err := Normalize(KindUser, UserCommand{Name: "High Five", Execute: noop, DMPermission: Bool(false)})
	require.NoError(t, err)
	assert.Equal(t, KindUser, def.Kind)
	assert.Equal(t, "user::High Five", def.Base())
	require.NotNil(t, def.DMPermission)
	assert.False(t, *def.DMPermission)

	def, err = Normalize(KindMessage, &MessageCommand{Name: "First Word", Execute: noop})
	require.NoError(t, err)
	assert.Equal(t, KindMessage, def.Kind)
}

func TestInteractionRespondOnlyForAutocomplete(t *testing.T) {
	var got []Choice
	in := NewInteraction(&Event{Type: InteractionCommand}, nil, func(c []Choice) error {
		got = c
		return nil
	})
	assert.ErrorIs(t, in.Respond([]Choice{{Name: "a", Value: "a"}}), ErrNotAutocomplete)

	in.Type = InteractionAutocomplete
	require.NoError(t, in.Respond([]Choice{{Name: "a", Value: "a"}}))
	assert.Len(t, got, 1)
}

func TestFetchClientIsLazyAndMemoized(t *testing.T) {
	calls := 0
	c := NewContext(context.Background(), NewInteraction(&Event{}, nil, nil), func(context.Context) (*User, error) {
		calls++
		return &User{ID: "1"}, nil
	})
	assert.Equal(t, 0, calls)

	u, err := c.FetchClient()
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)

	_, _ = c.FetchClient()
	assert.Equal(t, 1, calls)
}

func TestPermissionString(t *testing.T) {
	assert.Equal(t, "", Permission(0).String())
	assert.Equal(t, "36", (PermissionBanMembers | PermissionManageGuild).String())
}
