// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for xspark.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - GenerationConfig: Model, temperature, max output tokens and persona
//   - UIConfig: Theme, markdown rendering and sidebar layout
//   - AttachmentConfig: Accepted image types and size limit
//   - Watcher: fsnotify-based hot reload of the config file
//
// # Configuration Precedence
//
// Configuration is loaded from (highest precedence first):
//   - Command-line flags (Overrides)
//   - Environment variables (XSPARK_*, GOOGLE_API_KEY), including a .env file
//   - ~/.xspark/config.toml, config.json or config.yaml
//   - Built-in defaults
//
// The API key is only ever read from the environment.
//
// # Usage
//
//	if _, err := config.LoadDotEnv(""); err != nil {
//	    log.Printf("DOTENV_FAILED | err=%v", err)
//	}
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.RequireCredential(); err != nil {
//	    fmt.Fprintln(os.Stderr, config.MissingCredentialNotice)
//	    os.Exit(1)
//	}
//
// Adjust a generation parameter from a UI widget:
//
//	cfg.Generation = cfg.Generation.WithTemperature(0.9)
package config
