package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/atomicstack/torrent-console/internal/command"
	"github.com/atomicstack/torrent-console/internal/remote"
	"github.com/dustin/go-humanize"
)

type statusCommand struct {
	command.Base
}

func newStatus() *statusCommand {
	return &statusCommand{Base: command.Base{
		CommandName:    "status",
		CommandAliases: []string{"st"},
		UsageLine:      "status",
		Description:    "Show session totals.",
	}}
}

func (c *statusCommand) Handle(ctx context.Context, env *command.Env, inv command.Invocation) error {
	client, err := env.RequireClient()
	if err != nil {
		return err
	}
	fields := append([]string{remote.FieldState}, remote.LiveFields...)
	status, err := client.TorrentsStatus(ctx, remote.Filter{}, fields)
	if err != nil {
		return err
	}
	var down, up int64
	var peers int
	byState := map[string]int{}
	for _, st := range status {
		down += st.DownloadSpeed
		up += st.UploadSpeed
		peers += st.Peers
		byState[st.State]++
	}
	states := make([]string, 0, len(byState))
	for state, n := range byState {
		states = append(states, fmt.Sprintf("%s %d", state, n))
	}
	sort.Strings(states)

	env.Printf("Connected to %s", env.Params.Endpoint())
	env.Printf("Torrents: %d", len(status))
	if len(states) > 0 {
		env.Printf("States: %s", strings.Join(states, ", "))
	}
	env.Printf("Peers: %d", peers)
	env.Printf("Speed: %s/s down, %s/s up", humanize.IBytes(uint64(down)), humanize.IBytes(uint64(up)))
	return nil
}

type refreshCommand struct {
	command.Base
}

func newRefresh() *refreshCommand {
	return &refreshCommand{Base: command.Base{
		CommandName: "refresh",
		UsageLine:   "refresh",
		Description: "Reload the cached torrent list used for completion and lookups.",
	}}
}

func (c *refreshCommand) Handle(ctx context.Context, env *command.Env, inv command.Invocation) error {
	client, err := env.RequireClient()
	if err != nil {
		return err
	}
	if err := env.Cache.Refresh(ctx, client); err != nil {
		return err
	}
	env.Printf("Cached %s", plural(env.Cache.Len(), "torrent"))
	return nil
}
