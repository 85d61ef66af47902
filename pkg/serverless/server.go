// Package serverless serves commands over Discord's outgoing webhook
// transport: every interaction is one signed HTTP request answered by one
// response.
package serverless

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"
	ginlogrus "github.com/toorop/gin-logrus"

	"github.com/keshon/hotslash/internal/discord"
	"github.com/keshon/hotslash/internal/router"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultReplyTimeout is how long a handler has to reply before the
// request fails. Discord gives up after three seconds.
const DefaultReplyTimeout = 3 * time.Second

// Options configures a Server.
type Options struct {
	PublicKey    ed25519.PublicKey
	Router       *router.Router
	ReplyTimeout time.Duration
	Logger       *log.Logger
}

// Server verifies, decodes and routes interaction requests.
type Server struct {
	publicKey ed25519.PublicKey
	router    *router.Router
	timeout   time.Duration
	logger    *log.Logger
	log       log.FieldLogger
}

// ParsePublicKey decodes the hex encoded application public key.
func ParsePublicKey(s string) (ed25519.PublicKey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("serverless: public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("serverless: public key has %d bytes, want %d", len(raw), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(raw), nil
}

// New creates a server.
func New(opts Options) *Server {
	if opts.ReplyTimeout <= 0 {
		opts.ReplyTimeout = DefaultReplyTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.StandardLogger()
	}
	return &Server{
		publicKey: opts.PublicKey,
		router:    opts.Router,
		timeout:   opts.ReplyTimeout,
		logger:    opts.Logger,
		log:       opts.Logger.WithField("component", "serverless"),
	}
}

// Handler returns the HTTP handler. Only POST / is routed.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(requestID, ginlogrus.Logger(s.logger), gin.Recovery())
	r.NoRoute(func(c *gin.Context) {
		s.fail(c, http.StatusNotFound, "not found")
	})
	r.POST("/", s.interaction)
	return r
}

func requestID(c *gin.Context) {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	c.Set("request_id", id)
	c.Header("X-Request-ID", id)
	c.Next()
}

func (s *Server) interaction(c *gin.Context) {
	logger := s.log.WithField("request", c.GetString("request_id"))

	if !discordgo.VerifyInteraction(c.Request, s.publicKey) {
		logger.Warn("Rejected request with invalid signature")
		s.fail(c, http.StatusUnauthorized, "invalid request signature")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.fail(c, http.StatusBadRequest, "unreadable body")
		return
	}
	var in discordgo.Interaction
	if err := json.Unmarshal(body, &in); err != nil {
		logger.WithError(err).Warn("Failed to decode interaction")
		s.fail(c, http.StatusBadRequest, "malformed interaction")
		return
	}

	ev := discord.ToEvent(&in)
	if ev == nil {
		s.fail(c, http.StatusBadRequest, "unsupported interaction type")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	resp, err := s.router.HandleOnce(ctx, ev)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, router.ErrUnknownCommand):
			status = http.StatusNotFound
		case errors.Is(err, router.ErrReplyTimeout):
			status = http.StatusGatewayTimeout
		}
		logger.WithError(err).WithField("command", ev.Name).Error("Interaction failed")
		s.fail(c, status, err.Error())
		return
	}

	out, err := discord.ToResponse(resp)
	if err != nil {
		logger.WithError(err).Error("Failed to build response")
		s.fail(c, http.StatusInternalServerError, "invalid response")
		return
	}
	data, err := json.Marshal(out)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, "invalid response")
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (s *Server) fail(c *gin.Context, status int, reason string) {
	body, _ := json.Marshal(gin.H{"error": reason})
	c.Data(status, "application/json", body)
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("Listening for interactions")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
