// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at a temp dir and clears every variable Load reads.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, v := range []string{CredentialEnv, "XSPARK_MODEL", "XSPARK_TEMPERATURE",
		"XSPARK_MAX_TOKENS", "XSPARK_PERSONA", "XSPARK_OFFLINE", "XSPARK_THEME"} {
		t.Setenv(v, "")
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

// =============================================================================
// DEFAULTS AND LOADING
// =============================================================================

func TestDefault_MatchesProductValues(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "gemini-1.5-flash", cfg.Generation.Model)
	assert.Equal(t, []string{"gemini-1.5-flash", "gemini-1.5-pro"}, cfg.Generation.Models)
	assert.Equal(t, 0.7, cfg.Generation.Temperature)
	assert.Equal(t, 2048, cfg.Generation.MaxOutputTokens)
	assert.Equal(t, "You are a helpful AI assistant named XSpark.", cfg.Generation.Persona)
	assert.Equal(t, []string{"jpg", "jpeg", "png", "webp"}, cfg.Attachments.Extensions)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Generation, cfg.Generation)
	assert.Empty(t, cfg.Credential())
}

func TestLoad_TOMLKeepsUnsetDefaults(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".xspark", "config.toml"), `
[generation]
model = "gemini-1.5-pro"
temperature = 0.2
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-pro", cfg.Generation.Model)
	assert.Equal(t, 0.2, cfg.Generation.Temperature)
	assert.Equal(t, 2048, cfg.Generation.MaxOutputTokens, "unset key keeps default")
	assert.Equal(t, Default().Generation.Persona, cfg.Generation.Persona)
}

func TestLoad_ZeroTemperatureIsKept(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".xspark", "config.toml"), "[generation]\ntemperature = 0.0\n")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Generation.Temperature)
}

func TestLoadFromPath_Formats(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "c.toml", "[generation]\nmax_output_tokens = 512\n"},
		{"json", "c.json", `{"generation": {"max_output_tokens": 512}}`},
		{"yaml", "c.yaml", "generation:\n  max_output_tokens: 512\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.file)
			writeFile(t, path, tc.content)

			cfg, err := LoadFromPath(path)
			require.NoError(t, err)
			assert.Equal(t, 512, cfg.Generation.MaxOutputTokens)
			assert.Equal(t, "gemini-1.5-flash", cfg.Generation.Model)
		})
	}
}

func TestLoadFromPath_InvalidValues(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "c.toml")
	writeFile(t, path, "[generation]\ntemperature = 1.5\nmax_output_tokens = 50\n")

	_, err := LoadFromPath(path)
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)
	assert.Contains(t, err.Error(), "generation.temperature")
	assert.Contains(t, err.Error(), "generation.max_output_tokens")
}

func TestLoadFromPath_CustomModelJoinsSelector(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "c.toml")
	writeFile(t, path, "[generation]\nmodel = \"gemini-exp\"\n")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Contains(t, cfg.Generation.Models, "gemini-exp")
}

// =============================================================================
// ENVIRONMENT AND OVERRIDES
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(CredentialEnv, "  secret-key ")
	t.Setenv("XSPARK_MODEL", "gemini-1.5-pro")
	t.Setenv("XSPARK_TEMPERATURE", "0.3")
	t.Setenv("XSPARK_MAX_TOKENS", "not-a-number")
	t.Setenv("XSPARK_OFFLINE", "true")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "secret-key", cfg.Credential())
	assert.Equal(t, "gemini-1.5-pro", cfg.Generation.Model)
	assert.Equal(t, 0.3, cfg.Generation.Temperature)
	assert.Equal(t, 2048, cfg.Generation.MaxOutputTokens, "malformed value is ignored")
	assert.True(t, cfg.Offline)
}

func TestApplyOverrides(t *testing.T) {
	temp := 0.1
	tokens := 4096
	persona := "You are terse."

	cfg := Default()
	cfg.ApplyOverrides(Overrides{
		Model:           "gemini-2.0-flash",
		Temperature:     &temp,
		MaxOutputTokens: &tokens,
		Persona:         &persona,
		PlainText:       true,
	})

	assert.Equal(t, "gemini-2.0-flash", cfg.Generation.Model)
	assert.Contains(t, cfg.Generation.Models, "gemini-2.0-flash")
	assert.Equal(t, 0.1, cfg.Generation.Temperature)
	assert.Equal(t, 4096, cfg.Generation.MaxOutputTokens)
	assert.Equal(t, persona, cfg.Generation.Persona)
	assert.False(t, cfg.UI.Markdown)
}

// =============================================================================
// CREDENTIAL
// =============================================================================

func TestRequireCredential(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.RequireCredential(), ErrMissingCredential)

	cfg.SetCredential("k")
	assert.NoError(t, cfg.RequireCredential())

	offline := Default()
	offline.Offline = true
	assert.NoError(t, offline.RequireCredential(), "offline mode needs no key")
}

func TestString_RedactsCredential(t *testing.T) {
	cfg := Default()
	cfg.SetCredential("AIza-very-secret")

	s := cfg.String()
	assert.NotContains(t, s, "AIza-very-secret")
	assert.Contains(t, s, "[REDACTED]")
}

func TestLoadDotEnv_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0700))
	writeFile(t, filepath.Join(root, ".env"), CredentialEnv+"=from-dotenv\n")

	// t.Setenv registers restoration; Unsetenv makes the variable absent.
	t.Setenv(CredentialEnv, "")
	require.NoError(t, os.Unsetenv(CredentialEnv))

	path, err := LoadDotEnv(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".env"), path)
	assert.Equal(t, "from-dotenv", os.Getenv(CredentialEnv))
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".env"), CredentialEnv+"=from-dotenv\n")
	t.Setenv(CredentialEnv, "from-shell")

	_, err := LoadDotEnv(root)
	require.NoError(t, err)
	assert.Equal(t, "from-shell", os.Getenv(CredentialEnv))
}

// =============================================================================
// GENERATION PARAMETERS
// =============================================================================

func TestGenerationConfig_Clamping(t *testing.T) {
	g := Default().Generation

	assert.Equal(t, 1.0, g.WithTemperature(3).Temperature)
	assert.Equal(t, 0.0, g.WithTemperature(-1).Temperature)
	assert.Equal(t, 0.75, g.WithTemperature(0.7+TemperatureStep).Temperature)
	assert.Equal(t, OutputTokensMax, g.WithMaxOutputTokens(100000).MaxOutputTokens)
	assert.Equal(t, OutputTokensMin, g.WithMaxOutputTokens(1).MaxOutputTokens)

	// The receiver is a value; the original is untouched.
	assert.Equal(t, 0.7, g.Temperature)
}

func TestGenerationConfig_CycleModel(t *testing.T) {
	g := Default().Generation

	g = g.CycleModel(1)
	assert.Equal(t, "gemini-1.5-pro", g.Model)
	g = g.CycleModel(1)
	assert.Equal(t, "gemini-1.5-flash", g.Model, "wraps around")
	g = g.CycleModel(-1)
	assert.Equal(t, "gemini-1.5-pro", g.Model)
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "out", "config.toml")

	cfg := Default()
	cfg.Generation = cfg.Generation.WithTemperature(0.25)
	cfg.SetCredential("must-not-be-written")
	require.NoError(t, SaveTOML(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "must-not-be-written"))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 0.25, loaded.Generation.Temperature)
}

func TestClone_IsDeep(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.Generation.Models[0] = "changed"
	assert.Equal(t, "gemini-1.5-flash", cfg.Generation.Models[0])
}

// =============================================================================
// WATCHER
// =============================================================================

func TestWatch_ReloadsOnWrite(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[generation]\ntemperature = 0.5\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := Watch(ctx, path, 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	writeFile(t, path, "[generation]\ntemperature = 0.9\n")

	select {
	case cfg := <-w.Updates():
		require.NotNil(t, cfg)
		assert.Equal(t, 0.9, cfg.Generation.Temperature)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatch_CloseClosesUpdates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "")

	w, err := Watch(context.Background(), path, 0)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, ok := <-w.Updates()
	assert.False(t, ok)
	assert.NoError(t, w.Close(), "second Close is a no-op")
}
