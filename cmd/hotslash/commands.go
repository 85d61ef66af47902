package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/keshon/hotslash/internal/build"
	"github.com/keshon/hotslash/internal/config"
	"github.com/keshon/hotslash/internal/dev"
	"github.com/keshon/hotslash/internal/discord"
	"github.com/keshon/hotslash/internal/loader"
	"github.com/keshon/hotslash/internal/modgraph"
	"github.com/keshon/hotslash/internal/registry"
	"github.com/keshon/hotslash/internal/router"
	"github.com/keshon/hotslash/internal/scaffold"
	v "github.com/keshon/hotslash/internal/version"
	"github.com/keshon/hotslash/pkg/command"
	"github.com/keshon/hotslash/pkg/serverless"
)

var devCmd = &cobra.Command{
	Use:   "dev",
	Short: "Run commands from source over the gateway and reload them on change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(true)
		if err != nil {
			return err
		}
		client, err := newClient(cfg, cfg.DevGuildID)
		if err != nil {
			return err
		}

		logger := log.StandardLogger()
		reg := registry.New(registry.Options{Remote: client, Debounce: cfg.Debounce, Logger: logger})
		defer reg.Close()

		graph := modgraph.New(os.DirFS(cfg.SrcDir), modgraph.Options{Logger: logger})
		rt, err := dev.New(dev.Options{
			SrcDir:  cfg.SrcDir,
			Gateway: client,
			Loader:  loader.New(graph, reg, logger),
			Router:  router.New(router.Options{Resolver: reg, Identity: client.CurrentUser, Logger: logger}),
			Logger:  logger,
		})
		if err != nil {
			return err
		}

		log.WithFields(log.Fields{"src": cfg.SrcDir, "guild": cfg.DevGuildID}).Infof("Starting %s dev server", v.AppName)
		return runUntilSignal(rt.Run)
	},
}

var (
	skipAdapter bool
	workers     int
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile command sources and generate the webhook entry point",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}
		var adapter build.Adapter = build.WebhookAdapter{}
		if skipAdapter {
			adapter = nil
		}
		_, err = build.Run(cmd.Context(), build.Options{
			SrcDir:  cfg.SrcDir,
			OutDir:  cfg.OutDir,
			DistDir: cfg.DistDir,
			Workers: workers,
		}, adapter)
		return err
	},
}

var registerDev bool

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Load every command and overwrite the remote catalog once",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(registerDev)
		if err != nil {
			return err
		}
		guild := ""
		if registerDev {
			guild = cfg.DevGuildID
		}
		client, err := newClient(cfg, guild)
		if err != nil {
			return err
		}

		logger := log.StandardLogger()
		reg := registry.New(registry.Options{Remote: client, Logger: logger})
		defer reg.Close()

		list, err := build.Collect(cfg.SrcDir)
		if err != nil {
			return err
		}
		l := loader.New(modgraph.New(os.DirFS(cfg.SrcDir), modgraph.Options{Logger: logger}), reg, logger)
		if err := loadList(cmd.Context(), l, list); err != nil {
			return err
		}
		return reg.Flush(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve commands from source over the webhook transport",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}
		list, err := build.Collect(cfg.SrcDir)
		if err != nil {
			return err
		}
		manifest := serverless.Manifest{ChatInput: list.ChatInput, User: list.User, Message: list.Message}
		return runUntilSignal(func(ctx context.Context) error {
			return serverless.Run(ctx, cfg, os.DirFS(cfg.SrcDir), manifest)
		})
	},
}

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a new project with example commands",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := projectDir
		if len(args) == 1 {
			dir = args[0]
		}
		files, err := scaffold.Init(dir, initForce, log.StandardLogger())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, f := range files {
			fmt.Fprintf(out, "  created %s\n", f)
		}
		fmt.Fprintf(out, "\nTo get started, copy .env.example to .env, fill in DISCORD_TOKEN and run:\n\n  $ %s dev -C %s\n\n", v.AppName, dir)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), v.Get())
	},
}

func init() {
	buildCmd.Flags().BoolVar(&skipAdapter, "no-adapter", false, "only compile and collect")
	buildCmd.Flags().IntVarP(&workers, "workers", "j", 0, "parallel compile workers (default: number of CPUs)")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing files")
	registerCmd.Flags().BoolVar(&registerDev, "dev", false, "register to the dev guild using the dev config")
}

func newClient(cfg *config.Config, guildID string) (*discord.Client, error) {
	if err := cfg.RequireToken(); err != nil {
		return nil, err
	}
	intents, err := discord.ParseIntents(cfg.Intents)
	if err != nil {
		return nil, err
	}
	return discord.New(discord.Options{
		Token:   cfg.Token,
		AppID:   cfg.AppID,
		GuildID: guildID,
		Intents: intents,
		Logger:  log.StandardLogger(),
	})
}

func loadList(ctx context.Context, l *loader.Loader, list build.CommandList) error {
	if err := l.LoadAll(ctx, command.KindChatInput, list.ChatInput); err != nil {
		return err
	}
	if err := l.LoadAll(ctx, command.KindUser, list.User); err != nil {
		return err
	}
	return l.LoadAll(ctx, command.KindMessage, list.Message)
}
