package command

import (
	"errors"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// ParseOutcome classifies a ParseResult.
type ParseOutcome int

const (
	// Parsed means options were valid and the command may run.
	Parsed ParseOutcome = iota
	// HelpRequested means -h or --help was given.
	HelpRequested
	// ParseFailed means the options were malformed; Err is a *ParseError.
	ParseFailed
)

// ParseResult is what Parse hands back instead of exiting.
type ParseResult struct {
	Outcome    ParseOutcome
	Invocation Invocation
	Err        *ParseError
}

// NewFlagSet returns the option schema for cmd.
func NewFlagSet(cmd Command) *pflag.FlagSet {
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false
	cmd.DefineFlags(fs)
	return fs
}

// Parse applies cmd's option schema to argv (the tokens after the command word).
func Parse(cmd Command, token string, argv []string) ParseResult {
	fs := NewFlagSet(cmd)
	inv := Invocation{Token: token, Flags: fs}
	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ParseResult{Outcome: HelpRequested, Invocation: inv}
		}
		return ParseResult{
			Outcome:    ParseFailed,
			Invocation: inv,
			Err:        &ParseError{Command: cmd.Name(), Err: err, Usage: UsageText(cmd)},
		}
	}
	inv.Args = fs.Args()
	return ParseResult{Outcome: Parsed, Invocation: inv}
}

// UsageText renders the usage line, aliases and option help for cmd.
func UsageText(cmd Command) string {
	var b strings.Builder
	b.WriteString("Usage: ")
	b.WriteString(cmd.Usage())
	if summary := cmd.Summary(); summary != "" {
		b.WriteString("\n\n")
		b.WriteString(summary)
	}
	if aliases := cmd.Aliases(); len(aliases) > 0 {
		b.WriteString("\n\nAliases: ")
		b.WriteString(strings.Join(aliases, ", "))
	}
	if flags := NewFlagSet(cmd).FlagUsages(); flags != "" {
		b.WriteString("\n\nOptions:\n")
		b.WriteString(strings.TrimRight(flags, "\n"))
	}
	return b.String()
}
