// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/xspark/internal/config"
	"github.com/jeranaias/xspark/internal/llm"
	"github.com/jeranaias/xspark/internal/model"
	"github.com/jeranaias/xspark/internal/session"
	"github.com/jeranaias/xspark/internal/turn"
	"github.com/jeranaias/xspark/internal/ui/components"
	"github.com/jeranaias/xspark/internal/ui/styles"
)

// WindowTitle is set on the terminal when the program starts.
const WindowTitle = "XSpark AI"

const (
	settingsHeading  = "⚙️ Setting"
	inputPlaceholder = "Type your message..."
)

// =============================================================================
// FOCUS
// =============================================================================

// Focus identifies the widget receiving key input.
type Focus int

const (
	FocusModel Focus = iota
	FocusTemperature
	FocusTokens
	FocusPersona
	FocusClear
	FocusImage
	FocusChat
	focusCount
)

// inSidebar reports whether f lives in the sidebar.
func (f Focus) inSidebar() bool {
	return f < FocusImage
}

// =============================================================================
// SETTINGS BOX
// =============================================================================

// settingsBox holds the live generation settings. The turn runner reads it
// on every call; the model writes it whenever a widget changes.
type settingsBox struct {
	mu  sync.Mutex
	gen config.GenerationConfig
}

func (b *settingsBox) Get() config.GenerationConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gen.Clamp()
}

func (b *settingsBox) Set(g config.GenerationConfig) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gen = g.Clamp()
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Options wires the chat model to the rest of the program.
type Options struct {
	Config    *config.Config
	Generator llm.Generator
	Session   *session.Session
	Theme     *styles.Theme
	// Watcher is optional; when set, reloaded files update the sidebar.
	Watcher *config.Watcher
	// Offline marks the status bar when the lorem generator is in use.
	Offline bool
	// Overrides are the command-line values; they are applied again on
	// every reloaded config.
	Overrides config.Overrides
}

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	ctx     context.Context
	cfg     *config.Config
	sess    *session.Session
	runner  *turn.Runner
	watcher   *config.Watcher
	overrides config.Overrides
	offline   bool

	// Live generation settings shared with the runner
	settings *settingsBox
	// Settings received from the watcher while a turn was running
	pending *config.GenerationConfig

	// Styling
	theme *styles.Theme
	keys  KeyMap

	// Dimensions
	width          int
	height         int
	sidebarWidth   int
	sidebarVisible bool
	ready          bool

	// Sidebar widgets
	modelSel    components.Selector
	temperature components.Slider
	tokens      components.Slider
	persona     textarea.Model
	help        help.Model

	// Main pane widgets
	viewport   viewport.Model
	imageInput textinput.Model
	input      textinput.Model
	thinking   components.ThinkingIndicator
	status     *components.StatusBar
	messages   *components.MessageView
	markdown   *components.MarkdownRenderer

	focus Focus

	// Turn state
	state     turn.State
	active    *turn.Turn
	turnID    int
	notice    string
	attachErr string
}

// New creates the chat model with widgets initialized from opts.Config.
func New(ctx context.Context, opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(cfg.UI.Theme)
	}
	sess := opts.Session
	if sess == nil {
		sess = session.New()
	}

	gen := cfg.Generation.Clamp()
	box := &settingsBox{}
	box.Set(gen)

	md := components.NewMarkdownRenderer(theme, cfg.UI.Markdown)
	messages := components.NewMessageView(theme, md)
	messages.ShowTimestamp = true

	status := components.NewStatusBar(theme)
	status.ModelID = gen.Model
	status.Offline = opts.Offline
	status.Shortcuts = []components.Shortcut{
		{Key: "enter", Desc: "send"},
		{Key: "C-l", Desc: "clear"},
		{Key: "C-c", Desc: "quit"},
	}

	modelSel := components.NewSelector("Model", gen.Models, gen.Model)
	modelSel.Display = model.DisplayName

	persona := textarea.New()
	persona.Placeholder = "System instruction"
	persona.ShowLineNumbers = false
	persona.CharLimit = 0
	persona.SetHeight(4)
	persona.SetValue(gen.Persona)
	persona.Blur()

	imageInput := textinput.New()
	imageInput.Prompt = "📎 "
	imageInput.Placeholder = "Image path (jpg, jpeg, png, webp)"
	imageInput.CharLimit = 1024

	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = inputPlaceholder
	input.CharLimit = 0
	input.PromptStyle = theme.InputPrompt
	input.PlaceholderStyle = theme.InputPlaceholder
	input.Focus()

	ctx = orBackground(ctx)
	return Model{
		ctx:          ctx,
		cfg:          cfg,
		sess:         sess,
		runner:       turn.NewRunner(opts.Generator, sess, box.Get),
		watcher:      opts.Watcher,
		offline:      opts.Offline,
		overrides:    opts.Overrides,
		settings:     box,
		theme:        theme,
		keys:         DefaultKeyMap(),
		sidebarWidth: max(24, cfg.UI.SidebarWidth),
		modelSel:     modelSel,
		temperature: components.NewSlider("Temperature",
			config.TemperatureMin, config.TemperatureMax, config.TemperatureStep, 2, gen.Temperature),
		tokens: components.NewSlider("Max Tokens",
			config.OutputTokensMin, config.OutputTokensMax, config.OutputTokensStep, 0, float64(gen.MaxOutputTokens)),
		persona:    persona,
		help:       help.New(),
		viewport:   viewport.New(80, 20),
		imageInput: imageInput,
		input:      input,
		thinking:   components.NewThinkingIndicator(theme),
		status:     status,
		messages:   messages,
		markdown:   md,
		focus:      FocusChat,
		state:      turn.StateIdle,
	}
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// Init starts cursor blinking and the config watcher subscription.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle(WindowTitle), textinput.Blink, waitForConfig(m.watcher))
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the conversation loop state.
func (m Model) State() turn.State {
	return m.state
}

// Session returns the conversation shown by the model.
func (m Model) Session() *session.Session {
	return m.sess
}

// Settings returns the generation settings the next turn will use.
func (m Model) Settings() config.GenerationConfig {
	return m.settings.Get()
}

// Notice returns the error notice from the last failed turn.
func (m Model) Notice() string {
	return m.notice
}

// AttachError returns the message from the last rejected attachment.
func (m Model) AttachError() string {
	return m.attachErr
}

// FocusedWidget returns the widget receiving key input.
func (m Model) FocusedWidget() Focus {
	return m.focus
}
