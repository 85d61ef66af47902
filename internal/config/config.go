package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Candidates are probed in order; the first one that decodes wins. The
// .dev files are only considered in dev mode.
var Candidates = []string{
	"hotslash.dev.yaml",
	"hotslash.dev.toml",
	"hotslash.yaml",
	"hotslash.toml",
}

// Config holds the project settings. Environment variables override the
// config file.
type Config struct {
	Token      string   `yaml:"token" toml:"token" env:"DISCORD_TOKEN"`
	AppID      string   `yaml:"app_id" toml:"app_id" env:"DISCORD_APP_ID"`
	DevGuildID string   `yaml:"dev_guild_id" toml:"dev_guild_id" env:"DISCORD_DEV_GUILD_ID"`
	PublicKey  string   `yaml:"public_key" toml:"public_key" env:"DISCORD_PUBLIC_KEY"`
	Intents    []string `yaml:"intents" toml:"intents" env:"HOTSLASH_INTENTS" envSeparator:","`

	SrcDir  string `yaml:"src" toml:"src" env:"HOTSLASH_SRC"`
	OutDir  string `yaml:"out" toml:"out" env:"HOTSLASH_OUT"`
	DistDir string `yaml:"dist" toml:"dist" env:"HOTSLASH_DIST"`
	Addr    string `yaml:"addr" toml:"addr" env:"HOTSLASH_ADDR"`

	Debounce     time.Duration `yaml:"debounce" toml:"debounce" env:"HOTSLASH_DEBOUNCE"`
	ReplyTimeout time.Duration `yaml:"reply_timeout" toml:"reply_timeout" env:"HOTSLASH_REPLY_TIMEOUT"`
	LogLevel     string        `yaml:"log_level" toml:"log_level" env:"HOTSLASH_LOG_LEVEL"`

	// File is the candidate the config was read from, empty when none was found.
	File string `yaml:"-" toml:"-"`
}

// LoadDotEnv loads .env.local and then .env from dir. Variables already set
// are kept; missing files are ignored.
func LoadDotEnv(dir string) {
	for _, name := range []string{".env.local", ".env"} {
		path := filepath.Join(dir, name)
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.WithError(err).WithField("file", path).Warn("Failed to load env file")
		}
	}
}

// Load probes the config candidates in dir, overlays the environment and
// fills defaults. A missing or undecodable candidate moves on to the next
// one; when none is usable the environment alone is used.
func Load(dir string, dev bool) (*Config, error) {
	candidates := Candidates
	if !dev {
		candidates = candidates[2:]
	}

	cfg := &Config{}
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		log.WithField("file", path).Debug("Reading config file")

		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var next Config
		if err := decode(name, data, &next); err != nil {
			log.WithError(err).WithField("file", path).Warn("Skipping config file")
			continue
		}
		cfg = &next
		cfg.File = path
		break
	}
	if cfg.File == "" {
		log.Info("No config file found, falling back to environment variables")
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func decode(name string, data []byte, cfg *Config) error {
	if strings.HasSuffix(name, ".toml") {
		_, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) setDefaults() {
	if c.SrcDir == "" {
		c.SrcDir = "src"
	}
	if c.OutDir == "" {
		c.OutDir = ".hotslash"
	}
	if c.DistDir == "" {
		c.DistDir = "dist"
	}
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.Debounce <= 0 {
		c.Debounce = 250 * time.Millisecond
	}
	if c.ReplyTimeout <= 0 {
		c.ReplyTimeout = 3 * time.Second
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// RequireToken fails when no bot token is configured.
func (c *Config) RequireToken() error {
	if c.Token == "" {
		return errors.New("config: DISCORD_TOKEN is not set and no config file provides a token")
	}
	return nil
}

// RequirePublicKey fails when no interaction public key is configured.
func (c *Config) RequirePublicKey() error {
	if c.PublicKey == "" {
		return errors.New("config: DISCORD_PUBLIC_KEY is not set and no config file provides public_key")
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
