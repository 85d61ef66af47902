package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(*Context) error { return nil }

func keysOf(entries []Entry) []HandlerKey {
	out := make([]HandlerKey, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Key)
	}
	return out
}

func TestKeysDirectWithAutocomplete(t *testing.T) {
	def, err := Normalize(KindChatInput, ChatInputCommand{
		Name:        "search",
		Description: "Search things",
		Execute:     noop,
		Options: []*Option{
			{Type: OptionString, Name: "query", Description: "q", Autocomplete: noop},
			{Type: OptionInteger, Name: "limit", Description: "n"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []HandlerKey{
		"direct::chat::search",
		"autocomplete::chat::search::query",
	}, keysOf(Keys(def)))
}

func TestKeysNested(t *testing.T) {
	def, err := Normalize(KindChatInput, &ChatInputCommand{
		Name:        "tag",
		Description: "Tags",
		Options: []*Option{
			{Type: OptionSubcommand, Name: "get", Description: "get", Execute: noop, Options: []*Option{
				{Type: OptionString, Name: "name", Description: "n", Autocomplete: noop},
			}},
			{Type: OptionSubcommandGroup, Name: "admin", Description: "admin", Options: []*Option{
				{Type: OptionSubcommand, Name: "delete", Description: "d", Execute: noop, Options: []*Option{
					{Type: OptionString, Name: "name", Description: "n", Autocomplete: noop},
				}},
				{Type: OptionSubcommand, Name: "purge", Description: "p", Execute: noop},
			}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []HandlerKey{
		"direct::chat::tag::get",
		"autocomplete::chat::tag::get::name",
		"direct::chat::tag::admin::delete",
		"autocomplete::chat::tag::admin::delete::name",
		"direct::chat::tag::admin::purge",
	}, keysOf(Keys(def)))
}

func TestKeyFor(t *testing.T) {
	tests := []struct {
		name string
		ev   *Event
		want HandlerKey
	}{
		{
			name: "direct root",
			ev:   &Event{Type: InteractionCommand, Kind: KindChatInput, Name: "ping"},
			want: "direct::chat::ping",
		},
		{
			name: "direct root with value options",
			ev: &Event{Type: InteractionCommand, Kind: KindChatInput, Name: "echo", Options: []*OptionValue{
				{Name: "text", Type: OptionString, Value: "hi"},
			}},
			want: "direct::chat::echo",
		},
		{
			name: "subcommand",
			ev: &Event{Type: InteractionCommand, Kind: KindChatInput, Name: "tag", Options: []*OptionValue{
				{Name: "get", Type: OptionSubcommand},
			}},
			want: "direct::chat::tag::get",
		},
		{
			name: "group",
			ev: &Event{Type: InteractionCommand, Kind: KindChatInput, Name: "tag", Options: []*OptionValue{
				{Name: "admin", Type: OptionSubcommandGroup, Options: []*OptionValue{
					{Name: "delete", Type: OptionSubcommand},
				}},
			}},
			want: "direct::chat::tag::admin::delete",
		},
		{
			name: "autocomplete root",
			ev: &Event{Type: InteractionAutocomplete, Kind: KindChatInput, Name: "search", Options: []*OptionValue{
				{Name: "limit", Type: OptionInteger, Value: 3},
				{Name: "query", Type: OptionString, Value: "go", Focused: true},
			}},
			want: "autocomplete::chat::search::query",
		},
		{
			name: "autocomplete in group",
			ev: &Event{Type: InteractionAutocomplete, Kind: KindChatInput, Name: "tag", Options: []*OptionValue{
				{Name: "admin", Type: OptionSubcommandGroup, Options: []*OptionValue{
					{Name: "delete", Type: OptionSubcommand, Options: []*OptionValue{
						{Name: "name", Type: OptionString, Value: "fo", Focused: true},
					}},
				}},
			}},
			want: "autocomplete::chat::tag::admin::delete::name",
		},
		{
			name: "user command",
			ev:   &Event{Type: InteractionCommand, Kind: KindUser, Name: "High Five", TargetID: "42"},
			want: "direct::user::High Five",
		},
		{
			name: "autocomplete without focus",
			ev:   &Event{Type: InteractionAutocomplete, Kind: KindChatInput, Name: "search"},
			want: "",
		},
		{
			name: "ping",
			ev:   &Event{Type: InteractionPing},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyFor(tt.ev))
		})
	}
}

func TestWithinMatchesWholeSegments(t *testing.T) {
	base := BaseKey(KindChatInput, "ping")

	assert.True(t, NewKey(FormDirect, base).Within(base))
	assert.True(t, NewKey(FormDirect, base, "sub").Within(base))
	assert.True(t, NewKey(FormAutocomplete, base, "opt").Within(base))
	assert.False(t, NewKey(FormDirect, BaseKey(KindChatInput, "pingpong")).Within(base))
	assert.False(t, NewKey(FormDirect, BaseKey(KindUser, "ping")).Within(base))
}

func TestDirectAndAutocompleteNeverCollide(t *testing.T) {
	base := BaseKey(KindChatInput, "x")
	assert.NotEqual(t, NewKey(FormDirect, base, "y"), NewKey(FormAutocomplete, base, "y"))
}
