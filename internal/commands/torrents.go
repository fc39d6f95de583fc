package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/atomicstack/torrent-console/internal/command"
	"github.com/atomicstack/torrent-console/internal/remote"
	"github.com/spf13/pflag"
)

// stateCommand pauses or resumes torrents.
type stateCommand struct {
	command.Base
	verb  string
	apply func(remote.Client) func(context.Context, []string) error
}

func newPause() *stateCommand {
	return &stateCommand{
		Base: command.Base{
			CommandName:    "pause",
			CommandAliases: []string{"p", "stop"},
			UsageLine:      "pause <torrent|*> [...]",
			Description:    "Stop downloading and seeding the given torrents. Use * for all.",
		},
		verb:  "Paused",
		apply: func(c remote.Client) func(context.Context, []string) error { return c.PauseTorrents },
	}
}

func newResume() *stateCommand {
	return &stateCommand{
		Base: command.Base{
			CommandName:    "resume",
			CommandAliases: []string{"r", "start"},
			UsageLine:      "resume <torrent|*> [...]",
			Description:    "Start the given torrents. Use * for all.",
		},
		verb:  "Resumed",
		apply: func(c remote.Client) func(context.Context, []string) error { return c.ResumeTorrents },
	}
}

func (c *stateCommand) Handle(ctx context.Context, env *command.Env, inv command.Invocation) error {
	client, err := env.RequireClient()
	if err != nil {
		return err
	}
	ids, err := resolveArgs(env, c.Name(), inv.Args)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		env.Printf("No torrents.")
		return nil
	}
	if err := c.apply(client)(ctx, ids); err != nil {
		return err
	}
	env.Printf("%s %s", c.verb, plural(len(ids), "torrent"))
	if env.Console != nil {
		env.Console.RequestRefresh()
	}
	return nil
}

func (c *stateCommand) Complete(env *command.Env, words []string, partial string) []string {
	return completeTorrents(env, partial)
}

type removeCommand struct {
	command.Base
}

func newRemove() *removeCommand {
	return &removeCommand{Base: command.Base{
		CommandName:    "rm",
		CommandAliases: []string{"del"},
		UsageLine:      "rm [--remove-data] <torrent> [...]",
		Description:    "Remove torrents from the service.",
	}}
}

func (c *removeCommand) DefineFlags(fs *pflag.FlagSet) {
	fs.Bool("remove-data", false, "also delete downloaded data")
}

func (c *removeCommand) Handle(ctx context.Context, env *command.Env, inv command.Invocation) error {
	client, err := env.RequireClient()
	if err != nil {
		return err
	}
	for _, arg := range inv.Args {
		if arg == "*" {
			return &command.UsageError{Command: c.Name(), Reason: "refusing to remove every torrent; name them explicitly"}
		}
	}
	ids, err := resolveArgs(env, c.Name(), inv.Args)
	if err != nil {
		return err
	}
	removeData, _ := inv.Flags.GetBool("remove-data")
	var errs []error
	for _, id := range ids {
		name, _ := env.Cache.NameOf(id)
		if err := client.RemoveTorrent(ctx, id, removeData); err != nil {
			if remote.IsConnectionError(err) {
				return err
			}
			env.Printf("Failed to remove %s: %v", id, err)
			errs = append(errs, err)
			continue
		}
		env.Printf("Removed %s (%s)", name, id)
	}
	if env.Console != nil {
		env.Console.RequestRefresh()
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s: %w", c.Name(), errors.Join(errs...))
	}
	return nil
}

func (c *removeCommand) Complete(env *command.Env, words []string, partial string) []string {
	return completeTorrents(env, partial)
}
