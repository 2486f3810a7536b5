// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jeranaias/xspark/internal/config"
)

// ErrConfigExists is returned by ConfigInit when the file is present and
// force is not set.
var ErrConfigExists = errors.New("config file already exists")

// ConfigShow prints the effective configuration. The credential is only
// reported as set or not set.
func ConfigShow(cfg *config.Config, out io.Writer) error {
	writeSettings(out, cfg.Generation)
	fmt.Fprintln(out, RenderField("Models", strings.Join(cfg.Generation.Models, ", ")))
	fmt.Fprintln(out, RenderField("Theme", cfg.UI.Theme))
	fmt.Fprintln(out, RenderField("Markdown", strconv.FormatBool(cfg.UI.Markdown)))
	fmt.Fprintln(out, RenderField("Image types", strings.Join(cfg.Attachments.Extensions, ", ")))
	fmt.Fprintln(out, RenderField("Image limit", strconv.FormatInt(cfg.Attachments.MaxBytes>>20, 10)+" MiB"))
	fmt.Fprintln(out, RenderField("Offline", strconv.FormatBool(cfg.Offline)))
	if cfg.LogFile != "" {
		fmt.Fprintln(out, RenderField("Log file", cfg.LogFile))
	}

	credential := "not set"
	if cfg.Credential() != "" {
		credential = "set"
	}
	fmt.Fprintln(out, RenderField(config.CredentialEnv, credential))
	return nil
}

// ConfigPath prints the config file path in use.
func ConfigPath(out io.Writer) error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, path)
	return nil
}

// ConfigInit writes the default configuration to path, or to the default
// TOML location when path is empty.
func ConfigInit(path string, force bool, out io.Writer) error {
	if path == "" {
		p, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
	}

	if err := config.SaveTOML(config.Default(), path); err != nil {
		return err
	}
	fmt.Fprintln(out, "Wrote "+path)
	return nil
}
