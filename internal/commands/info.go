package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/atomicstack/torrent-console/internal/command"
	"github.com/atomicstack/torrent-console/internal/format/table"
	"github.com/atomicstack/torrent-console/internal/remote"
	"github.com/atomicstack/torrent-console/internal/theme"
	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
)

var sortKeys = []string{"name", "state", "progress", "size"}

type infoCommand struct {
	command.Base
}

func newInfo() *infoCommand {
	return &infoCommand{Base: command.Base{
		CommandName:    "info",
		CommandAliases: []string{"i", "ls"},
		UsageLine:      "info [-v] [--sort <field>] [torrent ...]",
		Description:    "Show torrents. Without arguments every torrent is listed.",
	}}
}

func (c *infoCommand) DefineFlags(fs *pflag.FlagSet) {
	fs.BoolP("verbose", "v", false, "show peers and transfer rates")
	fs.String("sort", "", "sort by one of: "+strings.Join(sortKeys, ", "))
}

func (c *infoCommand) Handle(ctx context.Context, env *command.Env, inv command.Invocation) error {
	client, err := env.RequireClient()
	if err != nil {
		return err
	}
	verbose, _ := inv.Flags.GetBool("verbose")
	sortBy, _ := inv.Flags.GetString("sort")
	if sortBy != "" && !contains(sortKeys, sortBy) {
		return &command.UsageError{Command: c.Name(), Reason: fmt.Sprintf("unknown sort field %q", sortBy)}
	}

	var ids []string
	if len(inv.Args) > 0 {
		if ids, err = env.Cache.ResolveAll(inv.Args); err != nil {
			return err
		}
	}
	fields := []string{remote.FieldName, remote.FieldState, remote.FieldProgress, remote.FieldSize}
	if verbose {
		fields = append(fields, remote.LiveFields...)
	}
	status, err := client.TorrentsStatus(ctx, remote.Filter{IDs: ids}, fields)
	if err != nil {
		return err
	}
	rows := orderStatus(status, ids, env.Cache.IDs())
	sortStatus(rows, sortBy)
	if len(rows) == 0 {
		env.Printf("No torrents.")
		return nil
	}
	if verbose {
		for i, st := range rows {
			if i > 0 {
				env.Printf("")
			}
			env.Printf("%s", describe(st))
		}
		return nil
	}
	styles := theme.Default()
	cells := make([][]string, 0, len(rows))
	for _, st := range rows {
		cells = append(cells, []string{
			st.ID,
			st.Name,
			styles.State(st.State),
			fmt.Sprintf("%.1f%%", st.Progress*100),
			humanize.IBytes(uint64(st.TotalBytes)),
		})
	}
	lines := table.Render([]table.Column{
		{Header: "ID", Max: 12},
		{Header: "NAME", Max: 48},
		{Header: "STATE"},
		{Header: "DONE", Align: table.AlignRight},
		{Header: "SIZE", Align: table.AlignRight},
	}, cells)
	env.Printf("%s", strings.Join(lines, "\n"))
	return nil
}

func (c *infoCommand) Complete(env *command.Env, words []string, partial string) []string {
	return completeTorrents(env, partial)
}

// describe renders the multi-line view of one torrent.
func describe(st remote.Status) string {
	styles := theme.Default()
	lines := []string{
		fmt.Sprintf("Name: %s", st.Name),
		fmt.Sprintf("ID: %s", st.ID),
		fmt.Sprintf("State: %s", styles.State(st.State)),
		fmt.Sprintf("Progress: %.2f%% (%s of %s)", st.Progress*100, humanize.IBytes(uint64(st.DoneBytes)), humanize.IBytes(uint64(st.TotalBytes))),
		fmt.Sprintf("Peers: %d", st.Peers),
		fmt.Sprintf("Speed: %s/s down, %s/s up", humanize.IBytes(uint64(st.DownloadSpeed)), humanize.IBytes(uint64(st.UploadSpeed))),
	}
	if len(st.Tags) > 0 {
		lines = append(lines, "Tags: "+strings.Join(st.Tags, ", "))
	}
	return strings.Join(lines, "\n")
}

// orderStatus lists statuses in request order, falling back to cache order and
// then id order for anything left.
func orderStatus(status map[string]remote.Status, requested, cached []string) []remote.Status {
	out := make([]remote.Status, 0, len(status))
	seen := make(map[string]bool, len(status))
	take := func(ids []string) {
		for _, id := range ids {
			if st, ok := status[id]; ok && !seen[id] {
				seen[id] = true
				out = append(out, st)
			}
		}
	}
	take(requested)
	take(cached)
	rest := make([]string, 0)
	for id := range status {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	take(rest)
	return out
}

func sortStatus(rows []remote.Status, by string) {
	var less func(a, b remote.Status) bool
	switch by {
	case "name":
		less = func(a, b remote.Status) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case "state":
		less = func(a, b remote.Status) bool { return a.State < b.State }
	case "progress":
		less = func(a, b remote.Status) bool { return a.Progress < b.Progress }
	case "size":
		less = func(a, b remote.Status) bool { return a.TotalBytes < b.TotalBytes }
	default:
		return
	}
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
