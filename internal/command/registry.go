package command

import (
	"errors"
	"sort"
	"strings"

	"github.com/atomicstack/torrent-console/internal/logging"
	"github.com/atomicstack/torrent-console/internal/logging/events"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Source yields the command set to index. It stands in for the directory of
// command modules: each module contributes its entry to a static table.
type Source func() ([]Command, error)

// Table adapts a fixed slice into a Source.
func Table(cmds ...Command) Source {
	return func() ([]Command, error) {
		return cmds, nil
	}
}

// Registry maps names and aliases to commands. It is built once by Load and
// read-only afterwards.
type Registry struct {
	byKey    map[string]Command
	commands []Command
}

// Load indexes every command from src under its name and aliases, skipping
// names prefixed with "_" and names listed in exclude.
//
// Load never returns a nil registry. A failing source yields an empty registry
// and a *DiscoveryError. Conflicting keys keep their first owner; every
// rejected claim is logged and reported as a *CollisionError in the joined
// error. A command whose own name is taken is dropped entirely.
func Load(src Source, exclude []string) (*Registry, error) {
	reg := &Registry{byKey: make(map[string]Command)}
	if src == nil {
		return reg, nil
	}
	defs, err := src()
	if err != nil {
		derr := &DiscoveryError{Err: err}
		logging.Warn("command discovery failed", "err", err)
		return reg, derr
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		skip[strings.TrimSpace(name)] = struct{}{}
	}

	var errs []error
	for _, cmd := range defs {
		if cmd == nil {
			continue
		}
		name := cmd.Name()
		if name == "" || strings.HasPrefix(name, "_") {
			continue
		}
		if _, ok := skip[name]; ok {
			continue
		}
		if owner, taken := reg.byKey[name]; taken {
			cerr := &CollisionError{Key: name, Owner: owner.Name(), Rejected: name}
			logging.Warn("command rejected", "command", name, "owner", owner.Name())
			errs = append(errs, cerr)
			continue
		}
		reg.byKey[name] = cmd
		reg.commands = append(reg.commands, cmd)

		var accepted []string
		for _, alias := range cmd.Aliases() {
			if alias == "" || alias == name {
				continue
			}
			if owner, taken := reg.byKey[alias]; taken {
				if owner == cmd {
					continue
				}
				cerr := &CollisionError{Key: alias, Owner: owner.Name(), Rejected: name}
				logging.Warn("alias rejected", "alias", alias, "command", name, "owner", owner.Name())
				errs = append(errs, cerr)
				continue
			}
			reg.byKey[alias] = cmd
			accepted = append(accepted, alias)
		}
		events.Command.Register(name, accepted)
	}
	sort.Slice(reg.commands, func(i, j int) bool {
		return reg.commands[i].Name() < reg.commands[j].Name()
	})
	return reg, errors.Join(errs...)
}

// Resolve returns the command registered under token. Matching is exact and
// case-sensitive.
func (r *Registry) Resolve(token string) (Command, bool) {
	if r == nil {
		return nil, false
	}
	cmd, ok := r.byKey[token]
	return cmd, ok
}

// Lookup is Resolve with a *ResolutionError carrying close matches.
func (r *Registry) Lookup(token string) (Command, error) {
	if cmd, ok := r.Resolve(token); ok {
		return cmd, nil
	}
	return nil, &ResolutionError{Token: token, Suggestions: r.suggest(token)}
}

func (r *Registry) suggest(token string) []string {
	if r == nil || strings.TrimSpace(token) == "" {
		return nil
	}
	ranks := fuzzy.RankFindFold(token, r.Keys())
	sort.Sort(ranks)
	out := make([]string, 0, 3)
	for _, rank := range ranks {
		if len(out) == 3 {
			break
		}
		out = append(out, rank.Target)
	}
	return out
}

// Commands lists registered commands sorted by name.
func (r *Registry) Commands() []Command {
	if r == nil {
		return nil
	}
	return append([]Command(nil), r.commands...)
}

// Keys lists every name and alias, sorted.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, 0, len(r.byKey))
	for k := range r.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of distinct commands.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.commands)
}

// Complete returns keys starting with prefix.
func (r *Registry) Complete(prefix string) []string {
	var out []string
	for _, k := range r.Keys() {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out
}
