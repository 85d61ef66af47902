package discord

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/keshon/hotslash/internal/registry"
	"github.com/keshon/hotslash/internal/router"
	"github.com/keshon/hotslash/pkg/command"
	"github.com/keshon/hotslash/pkg/retrylimit"
)

// Options configures a Client. An empty GuildID registers commands
// globally. An empty AppID is decoded from the token. Interactions only
// need IntentsGuilds, which is the default.
type Options struct {
	Token   string
	AppID   string
	GuildID string
	Intents discordgo.Intent
	Limiter *retrylimit.AdaptiveLimiter
	Logger  log.FieldLogger
}

// Client is a gateway session plus the REST calls the runtime needs.
type Client struct {
	session *discordgo.Session
	appID   string
	guildID string
	limiter *retrylimit.AdaptiveLimiter

	ready     chan struct{}
	readyOnce sync.Once
	log       log.FieldLogger
}

// New creates a client. The gateway is not connected until Open.
func New(opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, errors.New("discord: token is required")
	}
	if opts.AppID == "" {
		id, err := appIDFromToken(opts.Token)
		if err != nil {
			return nil, err
		}
		opts.AppID = id
	}
	if opts.Limiter == nil {
		opts.Limiter = retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5)
	}
	if opts.Logger == nil {
		opts.Logger = log.StandardLogger()
	}

	dg, err := discordgo.New("Bot " + opts.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if opts.Intents == 0 {
		opts.Intents = discordgo.IntentsGuilds
	}
	dg.Identify.Intents = opts.Intents

	c := &Client{
		session: dg,
		appID:   opts.AppID,
		guildID: opts.GuildID,
		limiter: opts.Limiter,
		ready:   make(chan struct{}),
		log:     opts.Logger.WithField("component", "discord"),
	}
	dg.AddHandler(c.onReady)
	return c, nil
}

// AppID returns the application the client registers commands for.
func (c *Client) AppID() string { return c.appID }

// Open connects the gateway, retrying transient failures.
func (c *Client) Open(ctx context.Context) error {
	err := retrylimit.WithRetryMax(ctx, func() error {
		if err := c.session.Open(); err != nil {
			if errors.Is(err, discordgo.ErrWSAlreadyOpen) {
				return nil
			}
			return err
		}
		return nil
	}, c.limiter, 5)
	if err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	return nil
}

// Close disconnects the gateway.
func (c *Client) Close() error {
	return c.session.Close()
}

// Ready is closed once the gateway reported ready.
func (c *Client) Ready() <-chan struct{} {
	return c.ready
}

func (c *Client) onReady(s *discordgo.Session, r *discordgo.Ready) {
	c.readyOnce.Do(func() {
		c.log.WithFields(log.Fields{"user": r.User.Username, "guilds": len(r.Guilds)}).Info("Gateway ready")
		close(c.ready)
	})
}

// OnInteraction installs fn for every interaction the gateway delivers.
// fn runs on the session's event goroutine. It returns a function that
// removes the handler.
func (c *Client) OnInteraction(fn func(ev *command.Event, resp router.Responder)) func() {
	return c.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		ev := ToEvent(i.Interaction)
		if ev == nil {
			c.log.WithField("type", int(i.Type)).Debug("Ignoring interaction")
			return
		}
		fn(ev, &Responder{session: s, interaction: i.Interaction})
	})
}

// BulkOverwrite replaces the remote catalog with payloads in one request.
// The call is paced by the limiter and never retried.
func (c *Client) BulkOverwrite(ctx context.Context, payloads []*registry.Payload) error {
	if payloads == nil {
		payloads = []*registry.Payload{}
	}

	endpoint := discordgo.EndpointApplicationGlobalCommands(c.appID)
	if c.guildID != "" {
		endpoint = discordgo.EndpointApplicationGuildCommands(c.appID, c.guildID)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := c.session.RequestWithBucketID(http.MethodPut, endpoint, payloads, endpoint, discordgo.WithContext(ctx))
	if err != nil {
		err = wrapRESTError(err)
		if retrylimit.IsRateLimit(err) {
			c.limiter.RateLimited()
		}
		return err
	}
	c.limiter.Success()
	return nil
}

// CurrentUser fetches the bot's own user.
func (c *Client) CurrentUser(ctx context.Context) (*command.User, error) {
	u, err := c.session.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapRESTError(err)
	}
	return toUser(u), nil
}

// appIDFromToken decodes the first token segment, which is the base64
// encoded application id.
func appIDFromToken(token string) (string, error) {
	first, _, ok := strings.Cut(token, ".")
	if !ok || first == "" {
		return "", errors.New("discord: malformed token")
	}
	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(first, "="))
	if err != nil {
		return "", fmt.Errorf("discord: malformed token: %w", err)
	}
	for _, r := range string(raw) {
		if r < '0' || r > '9' {
			return "", errors.New("discord: malformed token")
		}
	}
	return string(raw), nil
}

// restError exposes the status code of a discordgo REST failure to the
// retry classifier.
type restError struct {
	*discordgo.RESTError
}

func (e restError) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

func (e restError) Unwrap() error { return e.RESTError }

func wrapRESTError(err error) error {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) {
		return restError{rest}
	}
	return err
}
