// Package commands holds the built-in console commands and the static table
// that registers them.
package commands

import (
	"strconv"

	"github.com/atomicstack/torrent-console/internal/command"
)

// Builtin lists every built-in command. Adding a command means adding its
// constructor here.
func Builtin() []command.Command {
	return []command.Command{
		newAdd(),
		newInfo(),
		newPause(),
		newResume(),
		newRemove(),
		newStatus(),
		newRefresh(),
		newHelp(),
		newView(),
		newClear(),
		newQuit(),
	}
}

// Source exposes Builtin as a registry source.
func Source() command.Source {
	return func() ([]command.Command, error) {
		return Builtin(), nil
	}
}

// completeTorrents offers cached ids and names for the word being typed.
func completeTorrents(env *command.Env, partial string) []string {
	if env == nil || env.Cache == nil {
		return nil
	}
	return env.Cache.Complete(partial)
}

// resolveArgs maps user tokens to torrent ids through the session cache.
func resolveArgs(env *command.Env, name string, args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, &command.UsageError{Command: name, Reason: "at least one torrent is required"}
	}
	return env.Cache.ResolveAll(args)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
