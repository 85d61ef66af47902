package command

import "strings"

// Form separates direct invocations from autocomplete queries so the two
// never share a key.
type Form string

const (
	FormDirect       Form = "direct"
	FormAutocomplete Form = "autocomplete"
)

const keySep = "::"

// HandlerKey addresses one leaf handler:
//
//	{form}::{kind}::{name}[::{group|subcommand}[::{subcommand}]][::{option}]
type HandlerKey string

// BaseKey returns "{kind}::{name}".
func BaseKey(kind Kind, name string) string {
	return kind.String() + keySep + name
}

// NewKey joins form, base and path segments.
func NewKey(form Form, base string, path ...string) HandlerKey {
	parts := make([]string, 0, 2+len(path))
	parts = append(parts, string(form), base)
	parts = append(parts, path...)
	return HandlerKey(strings.Join(parts, keySep))
}

// Within reports whether k belongs to the command identified by base, in
// either namespace. Only whole segments match: "chat::ping" does not own
// "chat::pingpong".
func (k HandlerKey) Within(base string) bool {
	s := string(k)
	for _, form := range []Form{FormDirect, FormAutocomplete} {
		root := string(form) + keySep + base
		if s == root || strings.HasPrefix(s, root+keySep) {
			return true
		}
	}
	return false
}

// Entry is a key with the handler installed under it.
type Entry struct {
	Key     HandlerKey
	Handler Handler
}

// Keys enumerates every handler key a validated definition contributes.
func Keys(def *Definition) []Entry {
	base := def.Base()

	if def.Execute != nil {
		entries := []Entry{{Key: NewKey(FormDirect, base), Handler: def.Execute}}
		return append(entries, autocompleteEntries(base, nil, def.Options)...)
	}

	var entries []Entry
	for _, o := range def.Options {
		switch o.Type {
		case OptionSubcommand:
			entries = append(entries, Entry{Key: NewKey(FormDirect, base, o.Name), Handler: o.Execute})
			entries = append(entries, autocompleteEntries(base, []string{o.Name}, o.Options)...)
		case OptionSubcommandGroup:
			for _, sub := range o.Options {
				path := []string{o.Name, sub.Name}
				entries = append(entries, Entry{Key: NewKey(FormDirect, base, path...), Handler: sub.Execute})
				entries = append(entries, autocompleteEntries(base, path, sub.Options)...)
			}
		}
	}
	return entries
}

func autocompleteEntries(base string, path []string, opts []*Option) []Entry {
	var entries []Entry
	for _, o := range opts {
		if o.Autocomplete == nil {
			continue
		}
		p := append(append([]string(nil), path...), o.Name)
		entries = append(entries, Entry{Key: NewKey(FormAutocomplete, base, p...), Handler: o.Autocomplete})
	}
	return entries
}

// KeyFor computes the single key an inbound event resolves to. Only the
// first top-level option decides between subcommand and group routing. It
// returns "" for events that never route to a handler.
func KeyFor(ev *Event) HandlerKey {
	var form Form
	switch ev.Type {
	case InteractionCommand:
		form = FormDirect
	case InteractionAutocomplete:
		form = FormAutocomplete
	default:
		return ""
	}

	base := BaseKey(ev.Kind, ev.Name)
	if ev.Kind != KindChatInput {
		if form == FormAutocomplete {
			return ""
		}
		return NewKey(form, base)
	}

	var path []string
	leaves := ev.Options
	if len(ev.Options) > 0 {
		first := ev.Options[0]
		switch first.Type {
		case OptionSubcommand:
			path = []string{first.Name}
			leaves = first.Options
		case OptionSubcommandGroup:
			if len(first.Options) == 0 {
				return ""
			}
			sub := first.Options[0]
			path = []string{first.Name, sub.Name}
			leaves = sub.Options
		}
	}

	if form == FormAutocomplete {
		focused := focusedIn(leaves)
		if focused == nil {
			return ""
		}
		path = append(path, focused.Name)
	}
	return NewKey(form, base, path...)
}

func focusedIn(opts []*OptionValue) *OptionValue {
	for _, o := range opts {
		if o.Focused {
			return o
		}
	}
	return nil
}
