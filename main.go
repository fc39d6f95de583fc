package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/atomicstack/torrent-console/internal/app"
	"github.com/atomicstack/torrent-console/internal/batch"
	"github.com/atomicstack/torrent-console/internal/command"
	"github.com/atomicstack/torrent-console/internal/commands"
	"github.com/atomicstack/torrent-console/internal/config"
	"github.com/atomicstack/torrent-console/internal/logging"
	"github.com/atomicstack/torrent-console/internal/logging/events"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var version = "dev"

// runApp is swapped out by tests.
var runApp = app.Run

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Environ(), os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute parses args and runs the selected mode, returning the exit status.
func execute(ctx context.Context, args, environ []string, stdout, stderr io.Writer) int {
	code := batch.ExitOK
	root := newRootCommand(args, environ, &code)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return batch.ExitUsage
	}
	return code
}

func newRootCommand(argv, environ []string, code *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "torrent-console [flags] [command line]",
		Short: "Console for a remote torrent service",
		Long: `torrent-console talks to a remote torrent service.

Without a command line it opens the interactive console. With one, it runs
that single command and exits, e.g.

  torrent-console -d seedbox "add -p /data ~/file.torrent"`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromFlags(cmd.Flags(), args, environ)
			if err != nil {
				return err
			}
			cfg.Args = append([]string(nil), argv...)
			if err := config.Validate(cfg); err != nil {
				return err
			}
			cfg.App.Version = version
			logging.Configure(cfg.Logging.FilePath)
			logging.SetTraceEnabled(cfg.Logging.Trace)
			if err := logging.SetLevel(cfg.Logging.Level); err != nil {
				return err
			}

			traceStartup(cfg)

			*code = runApp(cmd.Context(), cfg.App)
			return nil
		},
	}
	// The command line carries its own options; stop at the first word.
	cmd.Flags().SetInterspersed(false)
	config.DefineFlags(cmd.Flags())
	cmd.SetHelpTemplate(cmd.HelpTemplate() + "\n" + consoleCommands(cmd.Name()) + "\n")
	return cmd
}

// consoleCommands lists the built-in commands for --help.
func consoleCommands(program string) string {
	reg, err := command.Load(commands.Source(), nil)
	if err != nil {
		logging.Warn("command listing incomplete", "err", err)
	}
	return commands.Overview(reg, program)
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	redacted := cfg
	if redacted.App.Params.Password != "" {
		redacted.App.Params.Password = "<redacted>"
	}
	payload := map[string]interface{}{
		"argv":   cfg.Args,
		"flags":  flags,
		"config": redacted,
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

type ttyDetails struct {
	Detected *ttyDetected     `json:"detected,omitempty"`
	Probes   []ttyProbeResult `json:"probes"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyProbeResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails inspects standard descriptors for terminal support and dimensions.
func collectTTYDetails() ttyDetails {
	probes := []struct {
		name string
		fd   uintptr
	}{
		{"stdin", os.Stdin.Fd()},
		{"stdout", os.Stdout.Fd()},
		{"stderr", os.Stderr.Fd()},
	}
	results := make([]ttyProbeResult, 0, len(probes))
	var detected *ttyDetected
	for _, probe := range probes {
		entry := ttyProbeResult{Name: probe.name}
		fd := int(probe.fd)
		if fd >= 0 && term.IsTerminal(fd) {
			entry.IsTerminal = true
			if width, height, err := term.GetSize(fd); err == nil {
				entry.Width = width
				entry.Height = height
				if detected == nil {
					detected = &ttyDetected{Source: probe.name, Width: width, Height: height}
				}
			} else {
				entry.Error = err.Error()
			}
		}
		results = append(results, entry)
	}
	return ttyDetails{Detected: detected, Probes: results}
}
