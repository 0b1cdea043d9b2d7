// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tradie/internal/markdown"
)

// isolate points the tradie home at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TRADIE_HOME", dir)
	for _, k := range []string{
		"TRADIE_API_KEY", "PERPLEXITY_API_KEY", "TRADIE_BASE_URL", "TRADIE_MODEL",
		"TRADIE_TICKERS", "TRADIE_REDIS_ADDR", "TRADIE_SERVER_ADDR", "TRADIE_THEME",
		"TRADIE_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

// =============================================================================
// DEFAULTS
// =============================================================================

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "https://api.perplexity.ai", cfg.Answer.BaseURL)
	assert.Equal(t, "sonar", cfg.Answer.Model)
	assert.Equal(t, "Be precise and concise.", cfg.Answer.SystemPrompt)
	assert.Equal(t, 60*time.Second, cfg.Answer.Timeout)
	assert.Equal(t, "tradie:symbol", cfg.Broadcast.RedisChannel)
	assert.Equal(t, "127.0.0.1:8787", cfg.Server.Addr)
	assert.False(t, cfg.Server.Enabled)
	assert.Equal(t, "auto", cfg.UI.Theme)
	assert.True(t, cfg.UI.Hyperlinks)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

// =============================================================================
// LOADING
// =============================================================================

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config.toml"), `
[answer]
api_key = "pplx-file"
model = "sonar-pro"
timeout = "15s"

[ui]
theme = "light"
hyperlinks = false

[ui.markdown.heading]
color = "#ff8800"
bold = true

[server]
allowed_origins = ["http://localhost:3000"]
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pplx-file", cfg.Answer.APIKey)
	assert.Equal(t, "sonar-pro", cfg.Answer.Model)
	assert.Equal(t, 15*time.Second, cfg.Answer.Timeout)
	assert.Equal(t, "https://api.perplexity.ai", cfg.Answer.BaseURL)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.False(t, cfg.UI.Hyperlinks)
	require.Contains(t, cfg.UI.Markdown, "heading")
	assert.Equal(t, "#ff8800", cfg.UI.Markdown["heading"].Color)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config.toml"), "[answer]\napi_key = \"pplx-file\"\n")
	t.Setenv("TRADIE_API_KEY", "pplx-env")
	t.Setenv("TRADIE_THEME", "DARK")
	t.Setenv("TRADIE_TICKERS", "/tmp/tickers.yaml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "pplx-env", cfg.Answer.APIKey)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, "/tmp/tickers.yaml", cfg.Tickers.TablePath)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "PERPLEXITY_API_KEY=pplx-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("PERPLEXITY_API_KEY") })
	os.Unsetenv("PERPLEXITY_API_KEY")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "pplx-dotenv", cfg.Answer.APIKey)
}

func TestLoad_UnknownKey(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config.toml"), "[answer]\nmodle = \"typo\"\n")

	_, err := Load()
	assert.ErrorContains(t, err, "unknown config keys")
	assert.ErrorContains(t, err, "answer.modle")
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config.toml"), "[answer\n")

	_, err := Load()
	assert.ErrorContains(t, err, "failed to decode")
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.UI.Theme = "neon"
	cfg.Log.Level = "loud"
	cfg.Server.Addr = "not an address"
	cfg.Answer.BaseURL = ""

	err := cfg.Validate()
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	fields := map[string]string{}
	for _, e := range verrs {
		fields[e.Field] = e.Message
	}
	assert.Contains(t, fields["ui.theme"], "must be one of: auto, dark, light, notty")
	assert.Contains(t, fields, "log.level")
	assert.Contains(t, fields, "server.addr")
	assert.Equal(t, "is required", fields["answer.base_url"])
}

func TestValidate_MarkdownElements(t *testing.T) {
	cfg := Default()
	cfg.UI.Markdown = map[string]markdown.Style{"sidebar": {Color: "#fff"}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ui.markdown")
}

// =============================================================================
// SAVE
// =============================================================================

func TestSave_RoundTrip(t *testing.T) {
	dir := isolate(t)

	cfg := Default()
	cfg.Answer.APIKey = "pplx-saved"
	cfg.Answer.Timeout = 30 * time.Second
	cfg.Broadcast.RedisAddr = "localhost:6379"
	cfg.UI.WordWrap = 72
	require.NoError(t, Save(cfg))

	info, err := os.Stat(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

// =============================================================================
// DOT NOTATION
// =============================================================================

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("answer.model", "sonar-reasoning"))
	require.NoError(t, cfg.Set("answer.timeout", "90s"))
	require.NoError(t, cfg.Set("server.enabled", "true"))
	require.NoError(t, cfg.Set("broadcast.redis_db", "2"))
	require.NoError(t, cfg.Set("server.allowed_origins", "http://a, http://b"))

	v, err := cfg.Get("answer.model")
	require.NoError(t, err)
	assert.Equal(t, "sonar-reasoning", v)
	assert.Equal(t, 90*time.Second, cfg.Answer.Timeout)
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, 2, cfg.Broadcast.RedisDB)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Server.AllowedOrigins)

	_, err = cfg.Get("answer.nope")
	assert.ErrorContains(t, err, "unknown key: answer.nope")
	assert.ErrorContains(t, cfg.Set("answer.model.x", "y"), "not a section")
	assert.ErrorContains(t, cfg.Set("server.enabled", "maybe"), "invalid boolean")
	assert.ErrorContains(t, cfg.Set("answer.timeout", "soon"), "invalid duration")
	assert.Error(t, cfg.Set("", "x"))
}

func TestKeys(t *testing.T) {
	keys := Keys()
	assert.Contains(t, keys, "answer.api_key")
	assert.Contains(t, keys, "answer.timeout")
	assert.Contains(t, keys, "log.path")
	assert.NotContains(t, keys, "ui.markdown")

	cfg := Default()
	for _, k := range keys {
		_, err := cfg.Get(k)
		assert.NoError(t, err, k)
	}
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.Answer.APIKey = "pplx-1234567890abcd"

	red := cfg.Redacted()
	assert.Equal(t, "pplx****abcd", red.Answer.APIKey)
	assert.Equal(t, "pplx-1234567890abcd", cfg.Answer.APIKey)
	assert.Equal(t, "", red.Broadcast.RedisPassword)
}
