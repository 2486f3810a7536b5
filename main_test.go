// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ucli "github.com/urfave/cli/v2"

	"github.com/jeranaias/xspark/internal/config"
)

// isolate points HOME at an empty directory and clears the credential.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.CredentialEnv, "")
	t.Chdir(home)
	return home
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.RunContext(context.Background(), append([]string{"xspark"}, args...))
	return out.String(), err
}

func TestConfigInitAndShow(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.toml")

	if _, err := runApp(t, "config", "init", "--path", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	out, err := runApp(t, "--config", path, "--temperature", "0.25", "--model", "gemini-2.0-flash", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"gemini-2.0-flash", "0.25", "not set"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show output missing %q:\n%s", want, out)
		}
	}
}

func TestAsk_MissingCredentialExitsOne(t *testing.T) {
	isolate(t)

	_, err := runApp(t, "ask", "hello")
	var exit ucli.ExitCoder
	if !errors.As(err, &exit) {
		t.Fatalf("error = %v, want exit coder", err)
	}
	if exit.ExitCode() != 1 {
		t.Errorf("exit code = %d, want 1", exit.ExitCode())
	}
	if !strings.Contains(err.Error(), config.CredentialEnv) {
		t.Errorf("message = %q, want credential notice", err.Error())
	}
}

func TestAsk_EmptyPromptIsUsageError(t *testing.T) {
	isolate(t)

	_, err := runApp(t, "ask")
	var exit ucli.ExitCoder
	if !errors.As(err, &exit) || exit.ExitCode() != 2 {
		t.Errorf("error = %v, want usage exit 2", err)
	}
}

func TestInvalidFlagValueIsFatal(t *testing.T) {
	isolate(t)

	_, err := runApp(t, "--theme", "neon", "config", "show")
	if err == nil {
		t.Fatal("expected validation error for unknown theme")
	}
}

func TestOverridesFrom(t *testing.T) {
	isolate(t)

	var got config.Overrides
	app := newApp()
	app.Action = func(c *ucli.Context) error {
		got = overridesFrom(c)
		return nil
	}
	if err := app.Run([]string{"xspark", "--max-tokens", "512", "--offline", "--plain"}); err != nil {
		t.Fatal(err)
	}

	if got.MaxOutputTokens == nil || *got.MaxOutputTokens != 512 {
		t.Errorf("MaxOutputTokens = %v, want 512", got.MaxOutputTokens)
	}
	if got.Temperature != nil {
		t.Error("unset temperature flag must not override")
	}
	if got.Persona != nil {
		t.Error("unset persona flag must not override")
	}
	if !got.Offline || !got.PlainText {
		t.Errorf("bool flags not applied: %+v", got)
	}
}

func TestNewGenerator_OfflineNeedsNoCredential(t *testing.T) {
	cfg := config.Default()
	cfg.Offline = true

	gen, err := newGenerator(context.Background(), cfg)
	if err != nil {
		t.Fatalf("newGenerator() error = %v", err)
	}
	if gen == nil {
		t.Fatal("expected a generator")
	}
}
