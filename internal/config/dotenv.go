// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotEnv searches for a .env file starting from dir and walking up the
// directory tree, and loads the first one found into the process
// environment. Variables that are already set are not overwritten.
//
// It returns the path of the loaded file, or "" when none was found.
func LoadDotEnv(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", nil
		}
		dir = wd
	}

	for {
		envPath := filepath.Join(dir, ".env")
		if info, err := os.Stat(envPath); err == nil && !info.IsDir() {
			if err := godotenv.Load(envPath); err != nil {
				return envPath, fmt.Errorf("failed to load %s: %w", envPath, err)
			}
			return envPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
