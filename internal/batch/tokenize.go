package batch

import (
	"runtime"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Tokenize splits a command line with POSIX shell quoting rules. On Windows
// backslashes are escaped first so paths survive intact.
func Tokenize(line string) ([]string, error) {
	return tokenize(line, runtime.GOOS == "windows")
}

func tokenize(line string, escapeBackslashes bool) ([]string, error) {
	if escapeBackslashes {
		line = strings.ReplaceAll(line, `\`, `\\`)
	}
	return shellquote.Split(line)
}

// Join quotes tokens so Tokenize returns them unchanged.
func Join(tokens []string) string {
	return shellquote.Join(tokens...)
}
