package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/atomicstack/torrent-console/internal/command"
	"github.com/atomicstack/torrent-console/internal/format/table"
)

type helpCommand struct {
	command.Base
}

func newHelp() *helpCommand {
	return &helpCommand{Base: command.Base{
		CommandName:    "help",
		CommandAliases: []string{"h", "?"},
		UsageLine:      "help [command]",
		Description:    "List commands or show the usage of one command.",
		NoConnection:   true,
	}}
}

func (c *helpCommand) Handle(ctx context.Context, env *command.Env, inv command.Invocation) error {
	if len(inv.Args) > 0 {
		cmd, err := env.Registry.Lookup(inv.Args[0])
		if err != nil {
			return err
		}
		env.Printf("%s", command.UsageText(cmd))
		return nil
	}
	rows := make([][]string, 0, env.Registry.Len())
	for _, cmd := range env.Registry.Commands() {
		if cmd.InteractiveOnly() && !env.Interactive {
			continue
		}
		name := cmd.Name()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			name = fmt.Sprintf("%s (%s)", name, strings.Join(aliases, ", "))
		}
		rows = append(rows, []string{name, cmd.Summary()})
	}
	env.Printf("Available commands:")
	for _, line := range table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignLeft}) {
		env.Printf("  %s", line)
	}
	env.Printf("Use 'help <command>' or '<command> --help' for details.")
	return nil
}

func (c *helpCommand) Complete(env *command.Env, words []string, partial string) []string {
	if env == nil || len(words) > 1 {
		return nil
	}
	return env.Registry.Complete(partial)
}

// Overview renders the "Console Commands" section of the program's --help:
// every command usable from the command line with its aliases, summary and
// usage line.
func Overview(reg *command.Registry, program string) string {
	lines := []string{
		"Console Commands:",
		"  The following commands can be issued at the command line. Commands should be",
		"  quoted, so, for example, to pause torrent with id 'abc' you would run:",
		fmt.Sprintf("  %s \"pause abc\"", program),
	}
	for _, cmd := range reg.Commands() {
		if cmd.InteractiveOnly() {
			continue
		}
		names := append([]string{cmd.Name()}, cmd.Aliases()...)
		heading := strings.Join(names, "/")
		if summary := cmd.Summary(); summary != "" {
			heading += " - " + summary
		}
		lines = append(lines, "", "  "+heading, "      "+cmd.Usage())
	}
	return strings.Join(lines, "\n")
}
