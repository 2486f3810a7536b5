// xspark - A terminal chat client for Google Gemini.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	ucli "github.com/urfave/cli/v2"

	"github.com/jeranaias/xspark/internal/cli"
	"github.com/jeranaias/xspark/internal/config"
	"github.com/jeranaias/xspark/internal/gemini"
	"github.com/jeranaias/xspark/internal/llm"
	"github.com/jeranaias/xspark/internal/lorem"
	"github.com/jeranaias/xspark/internal/session"
	"github.com/jeranaias/xspark/internal/ui/chat"
	"github.com/jeranaias/xspark/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		var exit ucli.ExitCoder
		if errors.As(err, &exit) {
			if msg := err.Error(); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
			stop()
			os.Exit(exit.ExitCode())
		}
		fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render("Error: "+err.Error()))
		stop()
		os.Exit(1)
	}
}

// =============================================================================
// APP
// =============================================================================

func newApp() *ucli.App {
	return &ucli.App{
		Name:    "xspark",
		Usage:   "Chat with Google Gemini from the terminal",
		Version: fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		Flags: []ucli.Flag{
			&ucli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to a config file (toml, json or yaml)"},
			&ucli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "Gemini model ID"},
			&ucli.Float64Flag{Name: "temperature", Aliases: []string{"t"}, Usage: "sampling temperature (0.0-1.0)"},
			&ucli.IntFlag{Name: "max-tokens", Usage: "maximum output tokens (100-8192)"},
			&ucli.StringFlag{Name: "persona", Usage: "system instruction sent with every request"},
			&ucli.StringFlag{Name: "theme", Usage: "auto, dark or light"},
			&ucli.StringFlag{Name: "log-file", Usage: "write debug logs to this file"},
			&ucli.BoolFlag{Name: "offline", Usage: "use the local placeholder generator instead of Gemini"},
			&ucli.BoolFlag{Name: "plain", Usage: "show replies as plain text instead of markdown"},
			&ucli.BoolFlag{Name: "no-watch", Usage: "do not reload the config file when it changes"},
		},
		Action: runDefault,
		Commands: []*ucli.Command{
			{
				Name:   "chat",
				Usage:  "Start a line-mode chat session",
				Action: runLine,
			},
			{
				Name:      "ask",
				Usage:     "Ask a single question",
				ArgsUsage: `"prompt"`,
				Flags: []ucli.Flag{
					&ucli.StringFlag{Name: "image", Aliases: []string{"i"}, Usage: "image file to send with the prompt"},
				},
				Action: runAsk,
			},
			{
				Name:  "config",
				Usage: "Inspect or create the configuration file",
				Subcommands: []*ucli.Command{
					{
						Name:   "show",
						Usage:  "Print the effective configuration",
						Action: runConfigShow,
					},
					{
						Name:  "path",
						Usage: "Print the config file path",
						Action: func(c *ucli.Context) error {
							return cli.ConfigPath(c.App.Writer)
						},
					},
					{
						Name:  "init",
						Usage: "Write the default configuration",
						Flags: []ucli.Flag{
							&ucli.StringFlag{Name: "path", Usage: "destination (default ~/.xspark/config.toml)"},
							&ucli.BoolFlag{Name: "force", Usage: "overwrite an existing file"},
						},
						Action: func(c *ucli.Context) error {
							return cli.ConfigInit(c.String("path"), c.Bool("force"), c.App.Writer)
						},
					},
				},
			},
		},
		ExitErrHandler: func(*ucli.Context, error) {},
	}
}

// =============================================================================
// SETUP
// =============================================================================

// loadConfig layers .env, the config file, XSPARK_* variables and flags.
func loadConfig(c *ucli.Context) (*config.Config, error) {
	if path, err := config.LoadDotEnv(""); err != nil {
		log.Printf("DOTENV_FAILED | path=%s err=%v", path, err)
	}

	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFromPath(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	cfg.ApplyOverrides(overridesFrom(c))
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func overridesFrom(c *ucli.Context) config.Overrides {
	o := config.Overrides{
		Model:     c.String("model"),
		Theme:     c.String("theme"),
		LogFile:   c.String("log-file"),
		Offline:   c.Bool("offline"),
		PlainText: c.Bool("plain"),
	}
	if c.IsSet("temperature") {
		v := c.Float64("temperature")
		o.Temperature = &v
	}
	if c.IsSet("max-tokens") {
		n := c.Int("max-tokens")
		o.MaxOutputTokens = &n
	}
	if c.IsSet("persona") {
		p := c.String("persona")
		o.Persona = &p
	}
	return o
}

// newGenerator picks the offline generator or the Gemini client. A missing
// credential is fatal with exit status 1.
func newGenerator(ctx context.Context, cfg *config.Config) (llm.Generator, error) {
	if cfg.Offline {
		return lorem.New(-1), nil
	}
	if err := cfg.RequireCredential(); err != nil {
		return nil, ucli.Exit(cli.ErrorStyle.Render(config.MissingCredentialNotice), 1)
	}
	client, err := gemini.NewClient(ctx, cfg.Credential())
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

// setupLogging sends log output to cfg.LogFile, or discards it.
func setupLogging(cfg *config.Config) (func(), error) {
	if cfg.LogFile == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(cfg.LogFile, "xspark")
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return func() { f.Close() }, nil
}

// prepare loads the configuration, logging and generator for a command.
func prepare(c *ucli.Context) (*config.Config, llm.Generator, func(), error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, nil, err
	}
	closeLogs, err := setupLogging(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	gen, err := newGenerator(c.Context, cfg)
	if err != nil {
		closeLogs()
		return nil, nil, nil, err
	}
	log.Printf("STARTUP | version=%s model=%s offline=%t", Version, cfg.Generation.Model, cfg.Offline)
	return cfg, gen, closeLogs, nil
}

// =============================================================================
// ACTIONS
// =============================================================================

// runDefault starts the TUI on a terminal and line mode otherwise.
func runDefault(c *ucli.Context) error {
	if c.NArg() > 0 {
		return ucli.Exit(fmt.Sprintf("unknown command %q, see xspark --help", c.Args().First()), 2)
	}
	if !cli.IsStdoutTTY() || !cli.IsTTY() {
		return runLine(c)
	}
	return runTUI(c)
}

func runTUI(c *ucli.Context) error {
	cfg, gen, cleanup, err := prepare(c)
	if err != nil {
		return err
	}
	defer cleanup()

	var watcher *config.Watcher
	if path := watchPath(c); path != "" {
		w, err := config.Watch(c.Context, path, 0)
		if err != nil {
			log.Printf("CONFIG_WATCH_FAILED | path=%s err=%v", path, err)
		} else {
			log.Printf("CONFIG_WATCH | path=%s", w.Path())
			watcher = w
			defer w.Close()
		}
	}

	m := chat.New(c.Context, chat.Options{
		Config:    cfg,
		Generator: gen,
		Session:   session.New(),
		Theme:     styles.NewTheme(cfg.UI.Theme),
		Watcher:   watcher,
		Offline:   cfg.Offline,
		Overrides: overridesFrom(c),
	})
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(c.Context),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// watchPath returns the config file to watch, or "" when watching is off
// or there is no file.
func watchPath(c *ucli.Context) string {
	if c.Bool("no-watch") {
		return ""
	}
	path := c.String("config")
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return ""
		}
		path = p
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func runLine(c *ucli.Context) error {
	cfg, gen, cleanup, err := prepare(c)
	if err != nil {
		return err
	}
	defer cleanup()

	repl := cli.NewREPL(cfg, gen, cli.NewLineReader(), c.App.Writer)
	defer repl.Close()
	return repl.Run(c.Context)
}

func runAsk(c *ucli.Context) error {
	prompt := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if prompt == "" {
		return ucli.Exit(`usage: xspark ask [--image path] "prompt"`, 2)
	}

	cfg, gen, cleanup, err := prepare(c)
	if err != nil {
		return err
	}
	defer cleanup()

	return cli.Ask(c.Context, cfg, gen, cli.AskOptions{
		Prompt:    prompt,
		ImagePath: c.String("image"),
		Markdown:  cfg.UI.Markdown && cli.IsStdoutTTY(),
		Out:       c.App.Writer,
	})
}

func runConfigShow(c *ucli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	return cli.ConfigShow(cfg, c.App.Writer)
}
