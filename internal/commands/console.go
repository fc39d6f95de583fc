package commands

import (
	"context"
	"strings"

	"github.com/atomicstack/torrent-console/internal/command"
)

type viewCommand struct {
	command.Base
}

func newView() *viewCommand {
	return &viewCommand{Base: command.Base{
		CommandName:    "view",
		CommandAliases: []string{"mode"},
		UsageLine:      "view [mode]",
		Description:    "Switch the screen mode, or list the available modes.",
		Interactive:    true,
		NoConnection:   true,
	}}
}

func (c *viewCommand) Handle(ctx context.Context, env *command.Env, inv command.Invocation) error {
	if env.Console == nil {
		return &command.InteractivityError{Command: c.Name()}
	}
	if len(inv.Args) == 0 {
		env.Printf("Modes: %s", strings.Join(env.Console.ModeNames(), ", "))
		return nil
	}
	return env.Console.SwitchMode(inv.Args[0])
}

func (c *viewCommand) Complete(env *command.Env, words []string, partial string) []string {
	if env == nil || env.Console == nil || len(words) > 1 {
		return nil
	}
	var out []string
	for _, name := range env.Console.ModeNames() {
		if strings.HasPrefix(name, partial) {
			out = append(out, name)
		}
	}
	return out
}

type clearCommand struct {
	command.Base
}

func newClear() *clearCommand {
	return &clearCommand{Base: command.Base{
		CommandName:    "clear",
		CommandAliases: []string{"cls"},
		UsageLine:      "clear",
		Description:    "Clear the output buffer.",
		Interactive:    true,
		NoConnection:   true,
	}}
}

func (c *clearCommand) Handle(ctx context.Context, env *command.Env, inv command.Invocation) error {
	if env.Console == nil {
		return &command.InteractivityError{Command: c.Name()}
	}
	env.Console.ClearBuffer()
	return nil
}

type quitCommand struct {
	command.Base
}

func newQuit() *quitCommand {
	return &quitCommand{Base: command.Base{
		CommandName:    "quit",
		CommandAliases: []string{"exit", "q"},
		UsageLine:      "quit",
		Description:    "Leave the console.",
		Interactive:    true,
		NoConnection:   true,
	}}
}

func (c *quitCommand) Handle(ctx context.Context, env *command.Env, inv command.Invocation) error {
	if env.Console == nil {
		return &command.InteractivityError{Command: c.Name()}
	}
	env.Console.Quit()
	return nil
}
