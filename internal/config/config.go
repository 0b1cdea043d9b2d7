// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

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
	"github.com/creasty/defaults"
	"github.com/joho/godotenv"

	"github.com/jeranaias/tradie/internal/markdown"
	"github.com/jeranaias/tradie/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete tradie configuration.
type Config struct {
	Answer    AnswerConfig    `toml:"answer"`
	Tickers   TickersConfig   `toml:"tickers"`
	Broadcast BroadcastConfig `toml:"broadcast"`
	Server    ServerConfig    `toml:"server"`
	UI        UIConfig        `toml:"ui"`
	Log       LogConfig       `toml:"log"`
}

// AnswerConfig configures the answer service client.
type AnswerConfig struct {
	APIKey       string        `toml:"api_key"`
	BaseURL      string        `toml:"base_url" default:"https://api.perplexity.ai" validate:"required,url"`
	Model        string        `toml:"model" default:"sonar" validate:"required"`
	SystemPrompt string        `toml:"system_prompt" default:"Be precise and concise."`
	Timeout      time.Duration `toml:"timeout" default:"60s" validate:"gt=0"`
}

// TickersConfig selects the company table. An empty path uses the built-in table.
type TickersConfig struct {
	TablePath string `toml:"table_path"`
}

// BroadcastConfig configures symbol sinks beyond the in-process bus.
type BroadcastConfig struct {
	RedisAddr     string `toml:"redis_addr" validate:"omitempty,hostname_port"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db" validate:"min=0"`
	RedisChannel  string `toml:"redis_channel" default:"tradie:symbol" validate:"required"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Enabled        bool     `toml:"enabled"`
	Addr           string   `toml:"addr" default:"127.0.0.1:8787" validate:"required,hostname_port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// UIConfig configures presentation.
type UIConfig struct {
	Theme      string                    `toml:"theme" default:"auto" validate:"oneof=auto dark light notty"`
	WordWrap   int                       `toml:"word_wrap" validate:"min=0"`
	Hyperlinks bool                      `toml:"hyperlinks" default:"true"`
	Markdown   map[string]markdown.Style `toml:"markdown"`
}

// LogConfig configures logging. An empty path logs to ~/.tradie/tradie.log.
type LogConfig struct {
	Level  string `toml:"level" default:"info" validate:"oneof=trace debug info warn error"`
	Format string `toml:"format" default:"json" validate:"oneof=json console"`
	Path   string `toml:"path"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		// Only malformed tags fail here.
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return cfg
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the tradie home directory.
func Dir() (string, error) {
	if dir := os.Getenv("TRADIE_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".tradie"), nil
}

// Path returns the path of the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath returns the configured log destination.
func (c *Config) LogPath() string {
	if c.Log.Path != "" {
		return c.Log.Path
	}
	dir, err := Dir()
	if err != nil {
		return "stderr"
	}
	return filepath.Join(dir, "tradie.log")
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads ~/.tradie/config.toml if present, applies environment overrides
// and validates the result.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath is Load with an explicit file. A missing file yields defaults.
func LoadFromPath(path string) (*Config, error) {
	loadDotEnv()

	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes path over cfg. Keys absent from the file keep their
// current values.
func LoadTOML(cfg *Config, path string) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// loadDotEnv loads .env from the working directory and the tradie home.
// Existing environment variables win.
func loadDotEnv() {
	files := []string{".env"}
	if dir, err := Dir(); err == nil {
		files = append(files, filepath.Join(dir, ".env"))
	}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - TRADIE_API_KEY (or PERPLEXITY_API_KEY): overrides answer.api_key
//   - TRADIE_BASE_URL: overrides answer.base_url
//   - TRADIE_MODEL: overrides answer.model
//   - TRADIE_TICKERS: overrides tickers.table_path
//   - TRADIE_REDIS_ADDR: overrides broadcast.redis_addr
//   - TRADIE_SERVER_ADDR: overrides server.addr
//   - TRADIE_THEME: overrides ui.theme
//   - TRADIE_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("PERPLEXITY_API_KEY"); key != "" {
		c.Answer.APIKey = key
	}
	if key := os.Getenv("TRADIE_API_KEY"); key != "" {
		c.Answer.APIKey = key
	}
	if url := os.Getenv("TRADIE_BASE_URL"); url != "" {
		c.Answer.BaseURL = url
	}
	if model := os.Getenv("TRADIE_MODEL"); model != "" {
		c.Answer.Model = model
	}
	if path := os.Getenv("TRADIE_TICKERS"); path != "" {
		c.Tickers.TablePath = path
	}
	if addr := os.Getenv("TRADIE_REDIS_ADDR"); addr != "" {
		c.Broadcast.RedisAddr = addr
	}
	if addr := os.Getenv("TRADIE_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if theme := os.Getenv("TRADIE_THEME"); theme != "" {
		c.UI.Theme = strings.ToLower(theme)
	}
	if level := os.Getenv("TRADIE_LOG_LEVEL"); level != "" {
		c.Log.Level = strings.ToLower(level)
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to the default config path.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg to path with owner-only permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# tradie configuration file\n")
	buf.WriteString("# Generated by tradie - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
