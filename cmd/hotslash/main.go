package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/keshon/hotslash/internal/config"
	v "github.com/keshon/hotslash/internal/version"
)

var (
	projectDir string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           v.AppName,
	Short:         "Hot-reloading Discord application commands",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "C", ".", "project directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides the config")

	rootCmd.AddCommand(initCmd, devCmd, buildCmd, registerCmd, serveCmd, versionCmd)
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}

// loadConfig reads the project config and resolves its directories
// against the project directory.
func loadConfig(dev bool) (*config.Config, error) {
	config.LoadDotEnv(projectDir)
	cfg, err := config.Load(projectDir, dev)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	log.SetLevel(cfg.Level())

	cfg.SrcDir = resolve(cfg.SrcDir)
	cfg.OutDir = resolve(cfg.OutDir)
	cfg.DistDir = resolve(cfg.DistDir)
	return cfg, nil
}

func resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(projectDir, p)
}

// runUntilSignal runs fn until it returns or the process is interrupted.
func runUntilSignal(fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- fn(ctx)
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case s := <-sig:
		log.WithField("signal", s.String()).Info("Shutting down")
		cancel()
		return <-errCh
	case err := <-errCh:
		return err
	}
}
