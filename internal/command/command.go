// Package command defines the contract every console command implements and
// the registry that indexes commands by name and alias.
package command

import (
	"context"

	"github.com/atomicstack/torrent-console/internal/cache"
	"github.com/atomicstack/torrent-console/internal/remote"
	"github.com/spf13/pflag"
)

// Command is one console verb. Implementations embed Base for the
// declarative parts and supply Handle.
type Command interface {
	Name() string
	Aliases() []string
	Usage() string
	Summary() string
	InteractiveOnly() bool
	// DefineFlags declares the command's option schema on fs.
	DefineFlags(fs *pflag.FlagSet)
	// Handle runs the command. It blocks on remote calls and is always
	// invoked off the UI event loop.
	Handle(ctx context.Context, env *Env, inv Invocation) error
	// Complete returns candidates for the word being typed. words holds the
	// tokens before it.
	Complete(env *Env, words []string, partial string) []string
}

// Offline is implemented by commands that run without a remote connection.
type Offline interface {
	Offline() bool
}

// RequiresConnection reports whether cmd needs a connected client.
func RequiresConnection(cmd Command) bool {
	if o, ok := cmd.(Offline); ok {
		return !o.Offline()
	}
	return true
}

// Invocation is a parsed command line.
type Invocation struct {
	// Token is the word that selected the command; it may be an alias.
	Token string
	Args  []string
	Flags *pflag.FlagSet
}

// Console exposes interactive-only hooks to commands. It is nil in batch mode.
type Console interface {
	SwitchMode(name string) error
	ModeNames() []string
	ClearBuffer()
	Quit()
	RequestRefresh()
}

// Env is the explicit session handle passed to every command.
type Env struct {
	Client      remote.Client
	Cache       *cache.Cache
	Registry    *Registry
	Out         Output
	Params      remote.Params
	Interactive bool
	Console     Console
}

// Base supplies the declarative half of a Command.
type Base struct {
	CommandName    string
	CommandAliases []string
	UsageLine      string
	Description    string
	Interactive    bool
	NoConnection   bool
}

func (b Base) Name() string { return b.CommandName }

func (b Base) Aliases() []string { return append([]string(nil), b.CommandAliases...) }

func (b Base) Usage() string {
	if b.UsageLine == "" {
		return b.CommandName
	}
	return b.UsageLine
}

func (b Base) Summary() string { return b.Description }

func (b Base) InteractiveOnly() bool { return b.Interactive }

func (b Base) Offline() bool { return b.NoConnection }

func (b Base) DefineFlags(*pflag.FlagSet) {}

func (b Base) Complete(*Env, []string, string) []string { return nil }

// RequireClient returns the connected client or remote.ErrNotConnected.
func (e *Env) RequireClient() (remote.Client, error) {
	if e == nil || e.Client == nil || !e.Client.Connected() {
		return nil, remote.ErrNotConnected
	}
	return e.Client, nil
}

// Printf formats a line to the session output.
func (e *Env) Printf(format string, args ...interface{}) {
	if e == nil {
		return
	}
	Printf(e.Out, format, args...)
}
