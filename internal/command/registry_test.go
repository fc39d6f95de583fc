package command

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommand struct {
	Base
	handled int
}

func (s *stubCommand) Handle(context.Context, *Env, Invocation) error {
	s.handled++
	return nil
}

func stub(name string, aliases ...string) *stubCommand {
	return &stubCommand{Base: Base{CommandName: name, CommandAliases: aliases, UsageLine: name + " [args]"}}
}

type pathCommand struct {
	stubCommand
}

func (p *pathCommand) DefineFlags(fs *pflag.FlagSet) {
	fs.StringP("path", "p", "", "download location")
	fs.Bool("paused", false, "add paused")
}

func TestResolveNamesAndAliases(t *testing.T) {
	add := stub("add", "a")
	pause := stub("pause", "p", "stop")
	reg, err := Load(Table(add, pause), nil)
	require.NoError(t, err)

	for _, token := range []string{"add", "a"} {
		got, ok := reg.Resolve(token)
		require.True(t, ok, token)
		assert.Same(t, add, got)
	}
	got, ok := reg.Resolve("stop")
	require.True(t, ok)
	assert.Same(t, pause, got)

	_, ok = reg.Resolve("remove")
	assert.False(t, ok)
	_, ok = reg.Resolve("ADD")
	assert.False(t, ok, "lookup is case-sensitive")
}

func TestEveryAliasResolvesToItsCommand(t *testing.T) {
	cmds := []Command{stub("add", "a"), stub("info", "i", "ls"), stub("rm", "del", "remove"), stub("help")}
	reg, err := Load(Table(cmds...), nil)
	require.NoError(t, err)
	for _, cmd := range cmds {
		byName, ok := reg.Resolve(cmd.Name())
		require.True(t, ok)
		for _, alias := range cmd.Aliases() {
			byAlias, ok := reg.Resolve(alias)
			require.True(t, ok, alias)
			assert.Same(t, byName, byAlias)
		}
	}
	assert.Equal(t, 4, reg.Len())
}

func TestLoadSkipsPrivateAndExcluded(t *testing.T) {
	reg, err := Load(Table(stub("_debug"), stub("add"), stub("rm", "del")), []string{"rm"})
	require.NoError(t, err)
	_, ok := reg.Resolve("_debug")
	assert.False(t, ok)
	_, ok = reg.Resolve("del")
	assert.False(t, ok)
	assert.Equal(t, []string{"add"}, reg.Keys())
}

func TestLoadRejectsAliasCollisions(t *testing.T) {
	pause := stub("pause", "p")
	purge := stub("purge", "p", "x")
	reg, err := Load(Table(pause, purge), nil)
	require.Error(t, err)

	var collision *CollisionError
	require.True(t, errors.As(err, &collision))
	assert.Equal(t, "p", collision.Key)
	assert.Equal(t, "pause", collision.Owner)
	assert.Equal(t, "purge", collision.Rejected)

	got, _ := reg.Resolve("p")
	assert.Same(t, pause, got, "first registration keeps the alias")
	got, _ = reg.Resolve("x")
	assert.Same(t, purge, got, "non-conflicting aliases survive")
}

func TestLoadIgnoresRepeatedOwnAlias(t *testing.T) {
	pause := stub("pause", "p", "p", "stop")
	reg, err := Load(Table(pause), nil)
	require.NoError(t, err)
	got, ok := reg.Resolve("p")
	require.True(t, ok)
	assert.Same(t, pause, got)
	assert.Equal(t, []string{"p", "pause", "stop"}, reg.Keys())
}

func TestLoadRejectsNameTakenByAlias(t *testing.T) {
	reg, err := Load(Table(stub("pause", "stop"), stub("stop")), nil)
	require.Error(t, err)
	assert.Equal(t, 1, reg.Len())
}

func TestLoadWithFailingSourceYieldsEmptyRegistry(t *testing.T) {
	reg, err := Load(func() ([]Command, error) { return nil, errors.New("unreadable") }, nil)
	var derr *DiscoveryError
	require.True(t, errors.As(err, &derr))
	require.NotNil(t, reg)
	assert.Zero(t, reg.Len())

	reg, err = Load(nil, nil)
	require.NoError(t, err)
	assert.Zero(t, reg.Len())
}

func TestLookupSuggestsCloseMatches(t *testing.T) {
	reg, _ := Load(Table(stub("resume", "r", "start"), stub("refresh")), nil)
	_, err := reg.Lookup("rsm")
	var rerr *ResolutionError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "rsm", rerr.Token)
	assert.Contains(t, rerr.Suggestions, "resume")
	assert.Contains(t, rerr.Error(), `unknown command "rsm"`)
}

func TestRegistryComplete(t *testing.T) {
	reg, _ := Load(Table(stub("resume", "r"), stub("refresh"), stub("add")), nil)
	assert.Equal(t, []string{"refresh", "resume"}, reg.Complete("re"))
	assert.Equal(t, []string{"add", "r", "refresh", "resume"}, reg.Complete(""))
}

func TestParseOutcomes(t *testing.T) {
	cmd := &pathCommand{stubCommand: *stub("add", "a")}

	res := Parse(cmd, "a", []string{"-p", "/tmp/dir", "/tmp/file.torrent"})
	require.Equal(t, Parsed, res.Outcome)
	assert.Equal(t, []string{"/tmp/file.torrent"}, res.Invocation.Args)
	path, err := res.Invocation.Flags.GetString("path")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/dir", path)
	assert.Equal(t, "a", res.Invocation.Token)

	res = Parse(cmd, "add", []string{"--help"})
	assert.Equal(t, HelpRequested, res.Outcome)
	res = Parse(cmd, "add", []string{"-h"})
	assert.Equal(t, HelpRequested, res.Outcome)

	res = Parse(cmd, "add", []string{"--bogus"})
	require.Equal(t, ParseFailed, res.Outcome)
	require.NotNil(t, res.Err)
	assert.Equal(t, "add", res.Err.Command)
	assert.Contains(t, res.Err.Usage, "Usage: add [args]")
	assert.Contains(t, res.Err.Usage, "--path")
}

func TestUsageTextListsAliases(t *testing.T) {
	text := UsageText(stub("pause", "p", "stop"))
	assert.Contains(t, text, "Aliases: p, stop")
	assert.NotContains(t, text, "Options:")
}

func TestRequiresConnection(t *testing.T) {
	assert.True(t, RequiresConnection(stub("add")))
	offline := stub("help")
	offline.NoConnection = true
	assert.False(t, RequiresConnection(offline))
}

func TestPlainOutputStripsStyling(t *testing.T) {
	var buf bytes.Buffer
	out := NewPlainOutput(&buf)
	out.Write("\x1b[1;31mred\x1b[0m")
	Printf(out, "%d torrents", 2)
	assert.Equal(t, "red\n2 torrents\n", buf.String())
}
