package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anacrolix/torrent/metainfo"
	"github.com/atomicstack/torrent-console/internal/command"
	"github.com/atomicstack/torrent-console/internal/remote"
	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
)

type addCommand struct {
	command.Base
}

func newAdd() *addCommand {
	return &addCommand{Base: command.Base{
		CommandName:    "add",
		CommandAliases: []string{"a"},
		UsageLine:      "add [-p <save-path>] [--paused] [--name <name>] <torrent-file|magnet> [...]",
		Description:    "Add torrents from .torrent files or magnet links.",
	}}
}

func (c *addCommand) DefineFlags(fs *pflag.FlagSet) {
	fs.StringP("path", "p", "", "download location on the service host")
	fs.Bool("paused", false, "add the torrent without starting it")
	fs.String("name", "", "display name override")
}

type addSource struct {
	source string
	name   string
	hash   string
	size   int64
}

// inspect validates a source locally so malformed input never reaches the
// service.
func inspect(source string) (addSource, error) {
	if strings.HasPrefix(source, "magnet:") {
		m, err := metainfo.ParseMagnetUri(source)
		if err != nil {
			return addSource{}, fmt.Errorf("invalid magnet link: %w", err)
		}
		return addSource{source: source, name: m.DisplayName, hash: m.InfoHash.HexString()}, nil
	}
	path := source
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return addSource{}, err
	}
	mi, err := metainfo.LoadFromFile(abs)
	if err != nil {
		return addSource{}, fmt.Errorf("read torrent file: %w", err)
	}
	info, err := mi.UnmarshalInfo()
	if err != nil {
		return addSource{}, fmt.Errorf("decode torrent info: %w", err)
	}
	return addSource{source: abs, name: info.Name, hash: mi.HashInfoBytes().HexString(), size: info.TotalLength()}, nil
}

func (c *addCommand) Handle(ctx context.Context, env *command.Env, inv command.Invocation) error {
	if len(inv.Args) == 0 {
		return &command.UsageError{Command: c.Name(), Reason: "a torrent file or magnet link is required"}
	}
	client, err := env.RequireClient()
	if err != nil {
		return err
	}
	savePath, _ := inv.Flags.GetString("path")
	paused, _ := inv.Flags.GetBool("paused")
	nameOverride, _ := inv.Flags.GetString("name")

	var failed int
	for _, arg := range inv.Args {
		src, err := inspect(arg)
		if err != nil {
			env.Printf("%s: %v", arg, err)
			failed++
			continue
		}
		name := src.name
		if nameOverride != "" {
			name = nameOverride
		}
		id, err := client.AddTorrent(ctx, remote.AddRequest{Source: src.source, Name: nameOverride, SavePath: savePath, Paused: paused})
		if err != nil {
			if remote.IsConnectionError(err) {
				return err
			}
			env.Printf("Failed to add %s: %v", arg, err)
			failed++
			continue
		}
		if id == "" {
			id = src.hash
		}
		line := fmt.Sprintf("Added %s (%s)", name, id)
		if src.size > 0 {
			line += " " + humanize.IBytes(uint64(src.size))
		}
		env.Printf("%s", line)
	}
	if env.Console != nil {
		env.Console.RequestRefresh()
	}
	if failed > 0 {
		return fmt.Errorf("%s: %s failed", c.Name(), plural(failed, "torrent"))
	}
	return nil
}

func (c *addCommand) Complete(env *command.Env, words []string, partial string) []string {
	return completePath(partial)
}

// completePath lists filesystem entries starting with partial. Directories
// get a trailing separator.
func completePath(partial string) []string {
	if strings.HasPrefix(partial, "magnet:") {
		return nil
	}
	matches, err := filepath.Glob(partial + "*")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if fi, err := os.Stat(m); err == nil && fi.IsDir() {
			m += string(filepath.Separator)
		}
		out = append(out, m)
	}
	return out
}
