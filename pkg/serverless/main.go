package serverless

import (
	"context"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/keshon/hotslash/internal/config"
	"github.com/keshon/hotslash/internal/discord"
	"github.com/keshon/hotslash/internal/router"
)

// Main is the entry point of a generated deployment. dir names the
// embedded tree inside fsys. It exits the process on failure.
func Main(fsys fs.FS, dir string) {
	config.LoadDotEnv(".")
	cfg, err := config.Load(".", false)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(cfg.Level())

	tree, err := fs.Sub(fsys, dir)
	if err != nil {
		log.Fatal(err)
	}
	m, err := ReadManifest(tree)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx, cfg, tree, m); err != nil {
		log.Fatal(err)
	}
}

// Run registers the commands of tree and serves interactions until ctx is
// done.
func Run(ctx context.Context, cfg *config.Config, tree fs.FS, m Manifest) error {
	if err := cfg.RequirePublicKey(); err != nil {
		return err
	}
	key, err := ParsePublicKey(cfg.PublicKey)
	if err != nil {
		return err
	}

	logger := log.StandardLogger()
	reg, err := Bootstrap(ctx, tree, m, logger)
	if err != nil {
		return err
	}
	defer reg.Close()

	var identity router.Identity
	if cfg.Token != "" {
		client, err := discord.New(discord.Options{Token: cfg.Token, AppID: cfg.AppID, Logger: logger})
		if err != nil {
			return err
		}
		identity = client.CurrentUser
	}

	srv := New(Options{
		PublicKey:    key,
		Router:       router.New(router.Options{Resolver: reg, Identity: identity, Logger: logger}),
		ReplyTimeout: cfg.ReplyTimeout,
		Logger:       logger,
	})
	return srv.ListenAndServe(ctx, cfg.Addr)
}
