package command

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoCommands is reported when the registry is empty.
var ErrNoCommands = errors.New("no commands found")

// DiscoveryError reports an unreadable command source. The registry is still
// usable; it is simply empty.
type DiscoveryError struct {
	Err error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("load commands: %v", e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// CollisionError reports a name or alias claimed by more than one command.
type CollisionError struct {
	Key      string
	Owner    string
	Rejected string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%q from command %q is already registered by %q", e.Key, e.Rejected, e.Owner)
}

// ResolutionError reports an unknown command token.
type ResolutionError struct {
	Token       string
	Suggestions []string
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("unknown command %q", e.Token)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// ParseError reports malformed options for a command.
type ParseError struct {
	Command string
	Err     error
	Usage   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InteractivityError reports an interactive-only command invoked in batch mode.
type InteractivityError struct {
	Command string
}

func (e *InteractivityError) Error() string {
	return fmt.Sprintf("%s: only available in interactive mode", e.Command)
}

// UsageError is returned by Handle when positional arguments are wrong.
type UsageError struct {
	Command string
	Reason  string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Reason)
}
