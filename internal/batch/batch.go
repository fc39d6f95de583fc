// Package batch runs exactly one command line against the remote service and
// reports an exit status.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/atomicstack/torrent-console/internal/cache"
	"github.com/atomicstack/torrent-console/internal/command"
	"github.com/atomicstack/torrent-console/internal/logging"
	"github.com/atomicstack/torrent-console/internal/logging/events"
	"github.com/atomicstack/torrent-console/internal/remote"
)

// Exit statuses.
const (
	ExitOK              = 0
	ExitFailure         = 1
	ExitUsage           = 2
	ExitInteractiveOnly = 3
	ExitConnection      = 4
)

// ErrEmptyLine is returned when the command line holds no tokens.
var ErrEmptyLine = errors.New("no command given")

// Options configures one batch run.
type Options struct {
	Registry *command.Registry
	Params   remote.Params
	Dial     remote.Dialer
	Stdout   io.Writer
	Stderr   io.Writer
}

// Execute runs line and returns the process exit status. Errors are written
// to opts.Stderr.
func Execute(ctx context.Context, line string, opts Options) int {
	err := Run(ctx, line, opts)
	code := ExitCode(err)
	if err != nil && opts.Stderr != nil {
		fmt.Fprintf(opts.Stderr, "Error: %v\n", err)
		var perr *command.ParseError
		if errors.As(err, &perr) && perr.Usage != "" {
			fmt.Fprintln(opts.Stderr, perr.Usage)
		}
	}
	events.App.Exit(code, err)
	return code
}

// ExitCode maps a Run error to an exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var (
		perr *command.ParseError
		ierr *command.InteractivityError
		uerr *command.UsageError
	)
	switch {
	case errors.As(err, &ierr):
		return ExitInteractiveOnly
	case remote.IsConnectionError(err):
		return ExitConnection
	case errors.As(err, &perr), errors.As(err, &uerr):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// Run tokenizes, resolves and executes line once.
func Run(ctx context.Context, line string, opts Options) error {
	if opts.Registry.Len() == 0 {
		return command.ErrNoCommands
	}
	tokens, err := Tokenize(line)
	if err != nil {
		return &command.ParseError{Command: "command line", Err: err}
	}
	if len(tokens) == 0 {
		return ErrEmptyLine
	}

	token := tokens[0]
	cmd, err := opts.Registry.Lookup(token)
	if err != nil {
		events.Command.Reject(token, err)
		return err
	}
	events.Command.Resolve(token, cmd.Name())
	if cmd.InteractiveOnly() {
		err := &command.InteractivityError{Command: cmd.Name()}
		events.Command.Reject(token, err)
		return err
	}

	res := command.Parse(cmd, token, tokens[1:])
	switch res.Outcome {
	case command.HelpRequested:
		command.NewPlainOutput(stdout(opts)).Write(command.UsageText(cmd))
		return nil
	case command.ParseFailed:
		return res.Err
	}

	env := &command.Env{
		Cache:    cache.New(),
		Registry: opts.Registry,
		Out:      command.NewPlainOutput(stdout(opts)),
		Params:   opts.Params,
	}
	if command.RequiresConnection(cmd) && opts.Params.Address != "" && opts.Dial != nil {
		client := opts.Dial(opts.Params)
		events.Session.Connect(opts.Params.Endpoint())
		if err := client.Connect(ctx, opts.Params); err != nil {
			events.Session.ConnectFailed(opts.Params.Endpoint(), err)
			if !remote.IsConnectionError(err) {
				err = &remote.ConnectionError{Addr: opts.Params.Endpoint(), Err: err}
			}
			return err
		}
		defer func() {
			if err := client.Disconnect(); err != nil {
				logging.Warn("disconnect failed", "err", err)
			}
		}()
		env.Client = client
		if err := env.Cache.Refresh(ctx, client); err != nil {
			logging.Warn("initial torrent index failed", "err", err)
		}
	}

	if err := cmd.Handle(ctx, env, res.Invocation); err != nil {
		events.Command.Error(cmd.Name(), err)
		return err
	}
	return nil
}

func stdout(opts Options) io.Writer {
	if opts.Stdout == nil {
		return io.Discard
	}
	return opts.Stdout
}
