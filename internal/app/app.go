// Package app selects between batch and interactive mode and wires the
// registry, remote client and console together.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/atomicstack/torrent-console/internal/batch"
	"github.com/atomicstack/torrent-console/internal/command"
	"github.com/atomicstack/torrent-console/internal/commands"
	"github.com/atomicstack/torrent-console/internal/logging"
	"github.com/atomicstack/torrent-console/internal/logging/events"
	"github.com/atomicstack/torrent-console/internal/remote"
	"github.com/atomicstack/torrent-console/internal/remote/engine"
	"github.com/atomicstack/torrent-console/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Config describes user-provided application options.
type Config struct {
	Params          remote.Params
	Width           int
	Height          int
	RefreshInterval time.Duration
	Events          bool
	Exclude         []string
	Version         string
	// CommandLine selects batch mode when non-empty.
	CommandLine     string
}

type runtime struct {
	dial     remote.Dialer
	source   command.Source
	stdout   io.Writer
	stderr   io.Writer
	terminal func() bool
	program  func(ctx context.Context, model tea.Model) (tea.Model, error)
}

// Run executes the configured mode and returns the process exit status.
func Run(ctx context.Context, cfg Config) int {
	return run(ctx, cfg, runtime{
		dial:     engine.Dialer(engine.WithEvents(cfg.Events)),
		source:   commands.Source(),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		terminal: stdioIsTerminal,
		program:  runProgram,
	})
}

func run(ctx context.Context, cfg Config, rt runtime) int {
	// Collisions and discovery failures are logged by Load; whatever was
	// registered stays usable.
	registry, _ := command.Load(rt.source, cfg.Exclude)

	if cfg.CommandLine != "" {
		events.App.Mode(false)
		return batch.Execute(ctx, cfg.CommandLine, batch.Options{
			Registry: registry,
			Params:   cfg.Params,
			Dial:     rt.dial,
			Stdout:   rt.stdout,
			Stderr:   rt.stderr,
		})
	}

	events.App.Mode(true)
	if !rt.terminal() {
		err := errors.New("interactive mode needs a terminal; pass a command line to run in batch mode")
		fmt.Fprintf(rt.stderr, "Error: %v\n", err)
		events.App.Exit(batch.ExitFailure, err)
		return batch.ExitFailure
	}
	if registry.Len() == 0 {
		fmt.Fprintf(rt.stderr, "Error: %v\n", command.ErrNoCommands)
		events.App.Exit(batch.ExitFailure, command.ErrNoCommands)
		return batch.ExitFailure
	}

	model := ui.NewModel(ui.Options{
		Context:         ctx,
		Client:          rt.dial(cfg.Params),
		Params:          cfg.Params,
		Registry:        registry,
		Version:         cfg.Version,
		Width:           cfg.Width,
		Height:          cfg.Height,
		RefreshInterval: cfg.RefreshInterval,
	})
	final, err := rt.program(ctx, model)
	if err != nil {
		logging.Error(err)
		fmt.Fprintf(rt.stderr, "Error: %v\n", err)
		events.App.Exit(batch.ExitFailure, err)
		return batch.ExitFailure
	}
	var exitErr error
	if m, ok := final.(*ui.Model); ok {
		exitErr = m.ExitErr()
	}
	code := batch.ExitCode(exitErr)
	if exitErr != nil {
		fmt.Fprintf(rt.stderr, "Error: %v\n", exitErr)
	}
	events.App.Exit(code, exitErr)
	return code
}

func runProgram(ctx context.Context, model tea.Model) (tea.Model, error) {
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return final, nil
	}
	return final, err
}

func stdioIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
