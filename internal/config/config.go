// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for xspark.
//
// Supports TOML, JSON and YAML configuration files, with sensible defaults,
// .env loading, environment variable overrides, command-line overrides and
// validation.
//
// Configuration file locations (first match wins):
//   - ~/.xspark/config.toml
//   - ~/.xspark/config.json
//   - ~/.xspark/config.yaml
//   - Built-in defaults
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/xspark/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// Slider ranges for the generation parameters.
const (
	TemperatureMin  = 0.0
	TemperatureMax  = 1.0
	TemperatureStep = 0.05

	OutputTokensMin  = 100
	OutputTokensMax  = 8192
	OutputTokensStep = 100
)

// CredentialEnv is the environment variable holding the Gemini API key.
const CredentialEnv = "GOOGLE_API_KEY"

// MissingCredentialNotice is shown when the credential is absent at startup.
const MissingCredentialNotice = "API key not found. Please set " + CredentialEnv + " in .env file."

// ErrMissingCredential is returned by RequireCredential when no API key is set.
var ErrMissingCredential = errors.New("missing " + CredentialEnv)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete xspark configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version" yaml:"version"`

	// Generation holds the user-adjustable request parameters
	Generation GenerationConfig `toml:"generation" json:"generation" yaml:"generation"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui" yaml:"ui"`

	// Attachments controls which image files can be sent
	Attachments AttachmentConfig `toml:"attachments" json:"attachments" yaml:"attachments"`

	// Offline replaces the Gemini client with the local lorem generator
	Offline bool `toml:"offline" json:"offline" yaml:"offline"`

	// LogFile receives debug logging; empty disables logging
	LogFile string `toml:"log_file" json:"log_file" yaml:"log_file"`

	// apiKey is read from the environment only and never serialized.
	apiKey string
}

// GenerationConfig is the set of parameters read on every generation call.
type GenerationConfig struct {
	// Model is the Gemini model ID used for requests
	Model string `toml:"model" json:"model" yaml:"model"`
	// Models is the list offered by the model selector
	Models []string `toml:"models" json:"models" yaml:"models"`
	// Temperature is the sampling temperature (0.0-1.0)
	Temperature float64 `toml:"temperature" json:"temperature" yaml:"temperature"`
	// MaxOutputTokens caps the response length (100-8192)
	MaxOutputTokens int `toml:"max_output_tokens" json:"max_output_tokens" yaml:"max_output_tokens"`
	// Persona is sent as the system instruction
	Persona string `toml:"persona" json:"persona" yaml:"persona"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme" yaml:"theme"`
	// Markdown renders assistant replies with glamour when true
	Markdown bool `toml:"markdown" json:"markdown" yaml:"markdown"`
	// WordWrap is the wrap column for line mode output (0 = terminal width)
	WordWrap int `toml:"word_wrap" json:"word_wrap" yaml:"word_wrap"`
	// SidebarWidth is the width of the settings sidebar in columns
	SidebarWidth int `toml:"sidebar_width" json:"sidebar_width" yaml:"sidebar_width"`
	// Title and Caption are shown at the top of the sidebar
	Title   string `toml:"title" json:"title" yaml:"title"`
	Caption string `toml:"caption" json:"caption" yaml:"caption"`
}

// AttachmentConfig contains image upload settings.
type AttachmentConfig struct {
	// Extensions lists accepted file extensions without the dot
	Extensions []string `toml:"extensions" json:"extensions" yaml:"extensions"`
	// MaxBytes is the largest accepted file
	MaxBytes int64 `toml:"max_bytes" json:"max_bytes" yaml:"max_bytes"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Generation: GenerationConfig{
			Model:           "gemini-1.5-flash",
			Models:          []string{"gemini-1.5-flash", "gemini-1.5-pro"},
			Temperature:     0.7,
			MaxOutputTokens: 2048,
			Persona:         "You are a helpful AI assistant named XSpark.",
		},

		UI: UIConfig{
			Theme:        "auto",
			Markdown:     true,
			WordWrap:     0,
			SidebarWidth: 34,
			Title:        "⚡ XSpark 🤖",
			Caption:      "Powered by Google Gemini",
		},

		Attachments: AttachmentConfig{
			Extensions: []string{"jpg", "jpeg", "png", "webp"},
			MaxBytes:   20 << 20, // inline request limit
		},
	}
}

// =============================================================================
// GENERATION PARAMETERS
// =============================================================================

// Clamp returns a copy with every value forced into its slider range.
func (g GenerationConfig) Clamp() GenerationConfig {
	g.Temperature = clampTemperature(g.Temperature)
	g.MaxOutputTokens = clampTokens(g.MaxOutputTokens)
	g.Model = strings.TrimSpace(g.Model)
	g.Models = slices.Clone(g.Models)
	return g
}

// WithTemperature returns a copy with the temperature set and clamped.
func (g GenerationConfig) WithTemperature(v float64) GenerationConfig {
	g.Temperature = clampTemperature(v)
	return g
}

// WithMaxOutputTokens returns a copy with the token cap set and clamped.
func (g GenerationConfig) WithMaxOutputTokens(n int) GenerationConfig {
	g.MaxOutputTokens = clampTokens(n)
	return g
}

// WithPersona returns a copy with the persona replaced.
func (g GenerationConfig) WithPersona(p string) GenerationConfig {
	g.Persona = p
	return g
}

// WithModel returns a copy using model id. Unknown IDs are added to Models.
func (g GenerationConfig) WithModel(id string) GenerationConfig {
	id = strings.TrimSpace(id)
	if id == "" {
		return g
	}
	g.Model = id
	if !slices.Contains(g.Models, id) {
		g.Models = append(slices.Clone(g.Models), id)
	}
	return g
}

// CycleModel returns a copy with the selector moved by delta positions.
func (g GenerationConfig) CycleModel(delta int) GenerationConfig {
	if len(g.Models) == 0 {
		return g
	}
	idx := g.ModelIndex()
	if idx < 0 {
		idx = 0
	}
	n := len(g.Models)
	g.Model = g.Models[((idx+delta)%n+n)%n]
	return g
}

// ModelIndex returns the position of Model in Models, or -1.
func (g GenerationConfig) ModelIndex() int {
	return slices.Index(g.Models, g.Model)
}

func clampTemperature(v float64) float64 {
	if math.IsNaN(v) {
		return TemperatureMin
	}
	v = math.Max(TemperatureMin, math.Min(TemperatureMax, v))
	return math.Round(v*100) / 100
}

func clampTokens(n int) int {
	return max(OutputTokensMin, min(OutputTokensMax, n))
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the xspark configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".xspark"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPath returns the first existing config file in the config directory.
// When none exists it returns the TOML path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	for _, name := range []string{"config.toml", "config.json", "config.yaml", "config.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default config file, if any, then
// applies environment overrides, defaults and validation.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return finish(Default())
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return finish(Default())
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path with full validation.
// The format is chosen by extension; anything other than .json/.yaml/.yml is TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := decodeFile(cfg, path); err != nil {
		return nil, err
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// decodeFile decodes path into cfg. Values missing from the file keep
// whatever cfg already holds.
func decodeFile(cfg *Config, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read JSON config: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode JSON config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read YAML config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode YAML config %s: %w", path, err)
		}
	default:
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return fmt.Errorf("failed to decode TOML config %s: %w", path, err)
		}
		for _, key := range md.Undecoded() {
			log.Printf("CONFIG_UNKNOWN_KEY | path=%s key=%s", path, key.String())
		}
	}
	return nil
}

// SetDefaults fills in zero values that cannot be valid and makes sure the
// active model appears in the selector list.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if strings.TrimSpace(c.Generation.Model) == "" {
		c.Generation.Model = defaults.Generation.Model
	}
	if len(c.Generation.Models) == 0 {
		c.Generation.Models = defaults.Generation.Models
	}
	if !slices.Contains(c.Generation.Models, c.Generation.Model) {
		c.Generation.Models = append(c.Generation.Models, c.Generation.Model)
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.SidebarWidth == 0 {
		c.UI.SidebarWidth = defaults.UI.SidebarWidth
	}
	if c.UI.Title == "" {
		c.UI.Title = defaults.UI.Title
	}
	if c.UI.Caption == "" {
		c.UI.Caption = defaults.UI.Caption
	}
	if len(c.Attachments.Extensions) == 0 {
		c.Attachments.Extensions = defaults.Attachments.Extensions
	}
	if c.Attachments.MaxBytes == 0 {
		c.Attachments.MaxBytes = defaults.Attachments.MaxBytes
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes the configuration to path as TOML with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# xspark configuration file\n")
	buf.WriteString("# The API key is read from " + CredentialEnv + " (environment or .env), never from here.\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	g := c.Generation
	if strings.TrimSpace(g.Model) == "" {
		errs = append(errs, ValidationError{Field: "generation.model", Message: "must not be empty"})
	}
	for i, m := range g.Models {
		if strings.TrimSpace(m) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("generation.models[%d]", i),
				Message: "must not be empty",
			})
		}
	}
	if math.IsNaN(g.Temperature) || g.Temperature < TemperatureMin || g.Temperature > TemperatureMax {
		errs = append(errs, ValidationError{
			Field:   "generation.temperature",
			Message: fmt.Sprintf("%v out of range, must be between %.1f and %.1f", g.Temperature, TemperatureMin, TemperatureMax),
		})
	}
	if g.MaxOutputTokens < OutputTokensMin || g.MaxOutputTokens > OutputTokensMax {
		errs = append(errs, ValidationError{
			Field:   "generation.max_output_tokens",
			Message: fmt.Sprintf("%d out of range, must be between %d and %d", g.MaxOutputTokens, OutputTokensMin, OutputTokensMax),
		})
	}

	validThemes := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}
	if c.UI.WordWrap < 0 {
		errs = append(errs, ValidationError{Field: "ui.word_wrap", Message: "must not be negative"})
	}
	if c.UI.SidebarWidth < 20 || c.UI.SidebarWidth > 80 {
		errs = append(errs, ValidationError{
			Field:   "ui.sidebar_width",
			Message: fmt.Sprintf("%d out of range, must be between 20 and 80", c.UI.SidebarWidth),
		})
	}

	if c.Attachments.MaxBytes < 0 {
		errs = append(errs, ValidationError{Field: "attachments.max_bytes", Message: "must not be negative"})
	}
	for i, ext := range c.Attachments.Extensions {
		if ext == "" || strings.ContainsAny(ext, "./\\") {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("attachments.extensions[%d]", i),
				Message: fmt.Sprintf("invalid extension '%s', use a bare name such as png", ext),
			})
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// =============================================================================
// CREDENTIAL
// =============================================================================

// Credential returns the API key read from the environment.
func (c *Config) Credential() string {
	return c.apiKey
}

// SetCredential replaces the API key. Used by tests and the ask command.
func (c *Config) SetCredential(key string) {
	c.apiKey = strings.TrimSpace(key)
}

// RequireCredential returns ErrMissingCredential when no API key is set.
// Offline mode never talks to the remote API and needs no key.
func (c *Config) RequireCredential() error {
	if c.Offline || c.apiKey != "" {
		return nil
	}
	return ErrMissingCredential
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies XSPARK_* variables and the credential.
// Malformed numeric values are logged and ignored.
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv(CredentialEnv); key != "" {
		c.SetCredential(key)
	}

	// XSPARK_MODEL
	if model := os.Getenv("XSPARK_MODEL"); model != "" {
		c.Generation = c.Generation.WithModel(model)
	}

	// XSPARK_TEMPERATURE
	if v := os.Getenv("XSPARK_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Generation.Temperature = f
		} else {
			log.Printf("CONFIG_ENV_IGNORED | var=XSPARK_TEMPERATURE value=%q err=%v", v, err)
		}
	}

	// XSPARK_MAX_TOKENS
	if v := os.Getenv("XSPARK_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Generation.MaxOutputTokens = n
		} else {
			log.Printf("CONFIG_ENV_IGNORED | var=XSPARK_MAX_TOKENS value=%q err=%v", v, err)
		}
	}

	// XSPARK_PERSONA
	if persona := os.Getenv("XSPARK_PERSONA"); persona != "" {
		c.Generation.Persona = persona
	}

	// XSPARK_OFFLINE
	if offline := os.Getenv("XSPARK_OFFLINE"); offline != "" {
		c.Offline = offline == "1" || strings.EqualFold(offline, "true")
	}

	// XSPARK_THEME
	if theme := os.Getenv("XSPARK_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// Overrides carries command-line flag values. Nil pointers and empty
// strings leave the loaded value untouched.
type Overrides struct {
	Model           string
	Temperature     *float64
	MaxOutputTokens *int
	Persona         *string
	Theme           string
	LogFile         string
	Offline         bool
	PlainText       bool
}

// ApplyOverrides applies flag values on top of file and environment values.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Model != "" {
		c.Generation = c.Generation.WithModel(o.Model)
	}
	if o.Temperature != nil {
		c.Generation.Temperature = *o.Temperature
	}
	if o.MaxOutputTokens != nil {
		c.Generation.MaxOutputTokens = *o.MaxOutputTokens
	}
	if o.Persona != nil {
		c.Generation.Persona = *o.Persona
	}
	if o.Theme != "" {
		c.UI.Theme = o.Theme
	}
	if o.LogFile != "" {
		c.LogFile = o.LogFile
	}
	if o.Offline {
		c.Offline = true
	}
	if o.PlainText {
		c.UI.Markdown = false
	}
}

// =============================================================================
// CLONE / STRING
// =============================================================================

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Generation.Models = slices.Clone(c.Generation.Models)
	clone.Attachments.Extensions = slices.Clone(c.Attachments.Extensions)
	return &clone
}

// String returns a string representation of the config for debugging.
// The credential is never printed, only whether it is set.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	status := "[NOT SET]"
	if c.apiKey != "" {
		status = "[REDACTED]"
	}
	return string(data) + "\n" + CredentialEnv + ": " + status
}

