package registry

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/go-cmp/cmp"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/hotslash/pkg/command"
)

type fakeRemote struct {
	calls chan []*Payload
	err   error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{calls: make(chan []*Payload, 8)}
}

func (f *fakeRemote) BulkOverwrite(_ context.Context, payloads []*Payload) error {
	f.calls <- payloads
	return f.err
}

func (f *fakeRemote) expectCall(t *testing.T) []*Payload {
	t.Helper()
	select {
	case p := <-f.calls:
		return p
	case <-time.After(time.Second):
		t.Fatal("expected a bulk overwrite")
		return nil
	}
}

func (f *fakeRemote) expectNoCall(t *testing.T) {
	t.Helper()
	select {
	case p := <-f.calls:
		t.Fatalf("unexpected bulk overwrite with %d commands", len(p))
	case <-time.After(30 * time.Millisecond):
	}
}

func quietLogger() log.FieldLogger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestRegistry(remote Remote, c clock.Clock) *Registry {
	return New(Options{Remote: remote, Clock: c, Logger: quietLogger()})
}

func noop(*command.Context) error { return nil }

func ping(description string) command.ChatInputCommand {
	return command.ChatInputCommand{Name: "ping", Description: description, Execute: noop}
}

func TestDebounceCoalescesBurst(t *testing.T) {
	mock := clock.NewMock()
	remote := newFakeRemote()
	r := newTestRegistry(remote, mock)
	defer r.Close()

	_, err := r.Upsert(command.KindChatInput, ping("one"))
	require.NoError(t, err)

	mock.Add(100 * time.Millisecond)
	_, err = r.Upsert(command.KindChatInput, ping("two"))
	require.NoError(t, err)

	mock.Add(50 * time.Millisecond)
	_, err = r.Upsert(command.KindChatInput, ping("three"))
	require.NoError(t, err)

	mock.Add(249 * time.Millisecond)
	remote.expectNoCall(t)

	mock.Add(time.Millisecond)
	got := remote.expectCall(t)
	require.Len(t, got, 1)
	assert.Equal(t, "three", got[0].Description)

	mock.Add(time.Second)
	remote.expectNoCall(t)
}

func TestSyncSnapshotTakenAtFireTime(t *testing.T) {
	mock := clock.NewMock()
	remote := newFakeRemote()
	r := newTestRegistry(remote, mock)
	defer r.Close()

	_, err := r.Upsert(command.KindUser, command.UserCommand{Name: "High Five", Execute: noop})
	require.NoError(t, err)
	_, err = r.Upsert(command.KindChatInput, ping("Pong!"))
	require.NoError(t, err)

	mock.Add(DefaultDebounce)
	got := remote.expectCall(t)

	names := make([]string, 0, len(got))
	for _, p := range got {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"ping", "High Five"}, names)
}

func TestUnchangedPayloadSkipsSync(t *testing.T) {
	mock := clock.NewMock()
	remote := newFakeRemote()
	r := newTestRegistry(remote, mock)
	defer r.Close()

	changed, err := r.Upsert(command.KindChatInput, ping("Pong!"))
	require.NoError(t, err)
	assert.True(t, changed)
	mock.Add(DefaultDebounce)
	remote.expectCall(t)

	changed, err = r.Upsert(command.KindChatInput, ping("Pong!"))
	require.NoError(t, err)
	assert.False(t, changed)
	mock.Add(DefaultDebounce)
	remote.expectNoCall(t)
}

func TestUpsertReplacesHandlersEvenWhenUnchanged(t *testing.T) {
	r := newTestRegistry(nil, clock.NewMock())
	defer r.Close()

	calls := 0
	cmd := ping("Pong!")
	cmd.Execute = func(*command.Context) error { calls++; return nil }
	_, err := r.Upsert(command.KindChatInput, cmd)
	require.NoError(t, err)

	second := 0
	cmd.Execute = func(*command.Context) error { second++; return nil }
	_, err = r.Upsert(command.KindChatInput, cmd)
	require.NoError(t, err)

	h, _, ok := r.Resolve(&command.Event{Type: command.InteractionCommand, Kind: command.KindChatInput, Name: "ping"})
	require.True(t, ok)
	require.NoError(t, h(nil))
	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, second)
}

func TestDirectToSubcommandPurgesStaleKeys(t *testing.T) {
	r := newTestRegistry(nil, clock.NewMock())
	defer r.Close()

	_, err := r.Upsert(command.KindChatInput, ping("Pong!"))
	require.NoError(t, err)
	_, err = r.Upsert(command.KindChatInput, command.ChatInputCommand{Name: "pingpong", Description: "d", Execute: noop})
	require.NoError(t, err)

	_, err = r.Upsert(command.KindChatInput, command.ChatInputCommand{
		Name:        "ping",
		Description: "Pong!",
		Options: []*command.Option{
			{Type: command.OptionSubcommand, Name: "fast", Description: "f", Execute: noop},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []command.HandlerKey{
		"direct::chat::ping::fast",
		"direct::chat::pingpong",
	}, r.Keys())

	_, _, ok := r.Resolve(&command.Event{Type: command.InteractionCommand, Kind: command.KindChatInput, Name: "ping"})
	assert.False(t, ok)
}

func TestRemoveDoesNotScheduleSync(t *testing.T) {
	mock := clock.NewMock()
	remote := newFakeRemote()
	r := newTestRegistry(remote, mock)
	defer r.Close()

	_, err := r.Upsert(command.KindChatInput, ping("Pong!"))
	require.NoError(t, err)
	mock.Add(DefaultDebounce)
	remote.expectCall(t)

	r.Remove(command.KindChatInput, "ping")
	assert.Empty(t, r.Keys())
	assert.Empty(t, r.Payloads())

	mock.Add(time.Second)
	remote.expectNoCall(t)

	require.NoError(t, r.Flush(context.Background()))
	assert.Empty(t, remote.expectCall(t))
}

func TestSyncFailureIsWrapped(t *testing.T) {
	remote := newFakeRemote()
	remote.err = errors.New("boom")
	r := newTestRegistry(remote, clock.NewMock())
	defer r.Close()

	_, err := r.Upsert(command.KindChatInput, ping("Pong!"))
	require.NoError(t, err)

	err = r.Flush(context.Background())
	var syncErr *RemoteSyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, 1, syncErr.Commands)

	_, _, ok := r.Resolve(&command.Event{Type: command.InteractionCommand, Kind: command.KindChatInput, Name: "ping"})
	assert.True(t, ok)
}

func TestNilRemoteNeverSyncs(t *testing.T) {
	r := newTestRegistry(nil, clock.NewMock())
	defer r.Close()

	changed, err := r.Upsert(command.KindChatInput, ping("Pong!"))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NoError(t, r.Flush(context.Background()))
}

func TestInvalidExportLeavesRegistryUntouched(t *testing.T) {
	r := newTestRegistry(nil, clock.NewMock())
	defer r.Close()

	_, err := r.Upsert(command.KindChatInput, ping("Pong!"))
	require.NoError(t, err)

	_, err = r.Upsert(command.KindChatInput, command.ChatInputCommand{Name: "ping"})
	var regErr *command.RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, []command.HandlerKey{"direct::chat::ping"}, r.Keys())
}

func TestUpsertReplacesEqualPayload(t *testing.T) {
	r := newTestRegistry(nil, clock.NewMock())
	defer r.Close()

	channel := func(types ...command.ChannelType) command.ChatInputCommand {
		return command.ChatInputCommand{Name: "move", Description: "d", Execute: noop, Options: []*command.Option{
			{Type: command.OptionChannel, Name: "to", Description: "to", ChannelTypes: types},
		}}
	}

	_, err := r.Upsert(command.KindChatInput, channel(command.ChannelGuildText, command.ChannelGuildVoice))
	require.NoError(t, err)
	changed, err := r.Upsert(command.KindChatInput, channel(command.ChannelGuildVoice, command.ChannelGuildText))
	require.NoError(t, err)
	assert.False(t, changed)

	got := r.Payloads()
	require.Len(t, got, 1)
	assert.Equal(t, []command.ChannelType{command.ChannelGuildVoice, command.ChannelGuildText}, got[0].Options[0].ChannelTypes)
}

func TestUpsertWithChoicesTwice(t *testing.T) {
	r := newTestRegistry(nil, clock.NewMock())
	defer r.Close()

	cmd := command.ChatInputCommand{Name: "pick", Description: "d", Execute: noop, Options: []*command.Option{
		{Type: command.OptionString, Name: "v", Description: "v", Choices: []command.Choice{{Name: "a", Value: "a"}}},
	}}
	_, err := r.Upsert(command.KindChatInput, cmd)
	require.NoError(t, err)
	changed, err := r.Upsert(command.KindChatInput, cmd)
	require.NoError(t, err)
	assert.False(t, changed)

	cmd.Options[0].Choices = []command.Choice{{Name: "a", Value: []string{"x"}}}
	require.NotPanics(t, func() {
		_, err = r.Upsert(command.KindChatInput, cmd)
	})
	var regErr *command.RegistrationError
	require.ErrorAs(t, err, &regErr)

	_, _, ok := r.Resolve(&command.Event{Type: command.InteractionCommand, Kind: command.KindChatInput, Name: "pick"})
	assert.True(t, ok)
}

func TestPayloadProjection(t *testing.T) {
	def, err := command.Normalize(command.KindChatInput, command.ChatInputCommand{
		Name:                     "ban",
		Description:              "Ban someone",
		DefaultMemberPermissions: command.PermissionBanMembers,
		DMPermission:             command.Bool(false),
		Execute:                  noop,
		Options: []*command.Option{
			{Type: command.OptionUser, Name: "who", Description: "target", Required: true},
			{Type: command.OptionString, Name: "reason", Description: "why", Autocomplete: noop},
		},
	})
	require.NoError(t, err)

	want := &Payload{
		Type:                     command.KindChatInput,
		Name:                     "ban",
		Description:              "Ban someone",
		DefaultMemberPermissions: "4",
		DMPermission:             command.Bool(false),
		Options: []*OptionPayload{
			{Type: command.OptionUser, Name: "who", Description: "target", Required: true},
			{Type: command.OptionString, Name: "reason", Description: "why", Autocomplete: true},
		},
	}
	if diff := cmp.Diff(want, BuildPayload(def)); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}
