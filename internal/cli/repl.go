// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// repl.go - Line-mode chat for xspark.
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /clear, /c          Clear conversation history
//   /model [name]       Show or switch model
//   /temp <value>       Set temperature (0.0-1.0)
//   /tokens <n>         Set max output tokens (100-8192)
//   /persona [text]     Show or replace the persona
//   /image [path]       Attach an image to the next prompt, or drop it
//   /settings, /s       Show current settings
//   /quit, /q           Exit chat
//   Ctrl+D              Exit chat

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/xspark/internal/attach"
	"github.com/jeranaias/xspark/internal/config"
	"github.com/jeranaias/xspark/internal/llm"
	"github.com/jeranaias/xspark/internal/model"
	"github.com/jeranaias/xspark/internal/session"
	"github.com/jeranaias/xspark/internal/turn"
	"github.com/jeranaias/xspark/internal/ui/styles"
)

// =============================================================================
// LINE INPUT
// =============================================================================

// LineReader reads one line of user input. io.EOF ends the session.
type LineReader interface {
	ReadInput(prompt string) (string, error)
	Close()
}

// ChatCLI provides line editing for line mode. Input history lives in
// memory for the life of the process.
type ChatCLI struct {
	line *liner.State
}

// NewLineReader creates a liner-backed reader.
func NewLineReader() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &ChatCLI{line: line}
}

// ReadInput reads a line with prompt. Ctrl+C is reported as io.EOF.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close restores the terminal.
func (c *ChatCLI) Close() {
	c.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// REPL is the line-mode chat loop. It shares the turn engine with the TUI.
type REPL struct {
	cfg    *config.Config
	gen    config.GenerationConfig
	sess   *session.Session
	runner *turn.Runner
	in     LineReader
	out    io.Writer

	// pendingImage is attached to the next prompt and then dropped.
	pendingImage *model.Image
}

// NewREPL creates a line-mode chat reading from in and writing to out.
func NewREPL(cfg *config.Config, gen llm.Generator, in LineReader, out io.Writer) *REPL {
	r := &REPL{
		cfg:  cfg,
		gen:  cfg.Generation.Clamp(),
		sess: session.New(),
		in:   in,
		out:  out,
	}
	r.runner = turn.NewRunner(gen, r.sess, r.Settings)
	return r
}

// Settings returns the generation settings the next turn will use.
func (r *REPL) Settings() config.GenerationConfig {
	return r.gen
}

// Session returns the conversation.
func (r *REPL) Session() *session.Session {
	return r.sess
}

// Close releases the line reader.
func (r *REPL) Close() {
	if r.in != nil {
		r.in.Close()
	}
}

// Run reads input until /quit or end of input.
func (r *REPL) Run(ctx context.Context) error {
	r.printWelcome()

	for {
		line, err := r.in.ReadInput("You: ")
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := r.HandleCommand(line); quit {
				return nil
			}
			continue
		}
		r.Send(ctx, line)
	}
}

// Send runs one turn, printing fragments as they arrive.
func (r *REPL) Send(ctx context.Context, prompt string) {
	img := r.pendingImage
	r.pendingImage = nil

	t := r.runner.Begin(ctx, prompt, img)
	if t == nil {
		return
	}

	fmt.Fprint(r.out, PromptStyle.Render("XSpark:")+" ")
	printed := 0
	reply, err := t.Run(func(display string) {
		text := strings.TrimSuffix(display, turn.Cursor)
		if len(text) > printed {
			fmt.Fprint(r.out, text[printed:])
			printed = len(text)
		}
	})
	fmt.Fprintln(r.out)

	if err != nil {
		fmt.Fprintln(r.out, styles.RenderError(turn.ErrorNotice(err)))
		fmt.Fprintln(r.out, reply.Text)
	}
	fmt.Fprintln(r.out)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// HandleCommand executes a slash command and reports whether to quit.
func (r *REPL) HandleCommand(line string) bool {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h", "/?":
		r.printHelp()

	case "/clear", "/c":
		r.sess.Clear()
		r.pendingImage = nil
		fmt.Fprintln(r.out, styles.RenderSuccess("Conversation cleared."))
		log.Printf("CLI_CLEAR | session=%s", r.sess.ID())

	case "/model", "/m":
		r.cmdModel(arg)

	case "/temp", "/temperature":
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			r.warn("Usage: /temp <0.0-1.0>")
			return false
		}
		r.gen = r.gen.WithTemperature(v)
		fmt.Fprintln(r.out, RenderField("Temperature", strconv.FormatFloat(r.gen.Temperature, 'f', 2, 64)))

	case "/tokens", "/max-tokens":
		n, err := strconv.Atoi(arg)
		if err != nil {
			r.warn(fmt.Sprintf("Usage: /tokens <%d-%d>", config.OutputTokensMin, config.OutputTokensMax))
			return false
		}
		r.gen = r.gen.WithMaxOutputTokens(n)
		fmt.Fprintln(r.out, RenderField("Max tokens", strconv.Itoa(r.gen.MaxOutputTokens)))

	case "/persona", "/p":
		if arg != "" {
			r.gen = r.gen.WithPersona(arg)
		}
		fmt.Fprintln(r.out, RenderField("Persona", r.gen.Persona))

	case "/image", "/i":
		r.cmdImage(arg)

	case "/settings", "/s":
		writeSettings(r.out, r.gen)
		if r.pendingImage != nil {
			fmt.Fprintln(r.out, RenderField("Next image", r.pendingImage.Describe()))
		}

	default:
		r.warn(fmt.Sprintf("Unknown command %s. Type /help for commands.", name))
	}
	return false
}

func (r *REPL) cmdModel(arg string) {
	if arg == "" {
		for _, id := range r.gen.Models {
			marker := "  "
			if id == r.gen.Model {
				marker = "* "
			}
			fmt.Fprintln(r.out, marker+ValueStyle.Render(id)+" "+DimStyle.Render(model.DisplayName(id)))
		}
		return
	}
	r.gen = r.gen.WithModel(arg)
	fmt.Fprintln(r.out, RenderField("Model", r.gen.Model))
}

func (r *REPL) cmdImage(arg string) {
	if arg == "" {
		r.pendingImage = nil
		fmt.Fprintln(r.out, DimStyle.Render("No image attached."))
		return
	}
	img, err := attach.Load(arg, r.cfg.Attachments)
	if err != nil {
		log.Printf("ATTACH_REJECTED | path=%q err=%v", arg, err)
		r.warn("Attachment rejected: " + err.Error())
		return
	}
	r.pendingImage = img
	fmt.Fprintln(r.out, styles.RenderInfo("Attached "+img.Describe()+" to the next prompt."))
}

func (r *REPL) warn(msg string) {
	fmt.Fprintln(r.out, styles.RenderWarning(msg))
}

func (r *REPL) printWelcome() {
	fmt.Fprintln(r.out, TitleStyle.Render(r.cfg.UI.Title))
	fmt.Fprintln(r.out, DimStyle.Render(r.cfg.UI.Caption))
	mode := "Gemini"
	if r.cfg.Offline {
		mode = "offline"
	}
	fmt.Fprintln(r.out, DimStyle.Render(fmt.Sprintf("Model %s (%s). Type /help for commands.", r.gen.Model, mode)))
	fmt.Fprintln(r.out, RenderSeparator())
}

var helpLines = [][2]string{
	{"/help", "Show available commands"},
	{"/clear", "Clear conversation history"},
	{"/model [name]", "Show or switch model"},
	{"/temp <value>", "Set temperature (0.0-1.0)"},
	{"/tokens <n>", "Set max output tokens"},
	{"/persona [text]", "Show or replace the persona"},
	{"/image [path]", "Attach an image to the next prompt"},
	{"/settings", "Show current settings"},
	{"/quit", "Exit chat"},
}

func (r *REPL) printHelp() {
	for _, l := range helpLines {
		fmt.Fprintf(r.out, "  %s %s\n", CommandStyle.Width(18).Render(l[0]), DimStyle.Render(l[1]))
	}
}

// writeSettings prints the generation settings as aligned fields.
func writeSettings(out io.Writer, g config.GenerationConfig) {
	fmt.Fprintln(out, RenderField("Model", g.Model+" ("+model.DisplayName(g.Model)+")"))
	fmt.Fprintln(out, RenderField("Temperature", strconv.FormatFloat(g.Temperature, 'f', 2, 64)))
	fmt.Fprintln(out, RenderField("Max tokens", strconv.Itoa(g.MaxOutputTokens)))
	fmt.Fprintln(out, RenderField("Persona", g.Persona))
}
