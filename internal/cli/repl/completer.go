package repl

import (
	"sort"
	"strings"
)

// builtins are handled by the REPL itself.
var builtins = []string{"exit", "quit", "history"}

// Completer knows the top-level command names.
type Completer struct {
	commands []string
}

// NewCompleter creates a completer for the given command names. The REPL
// built-ins are always included.
func NewCompleter(commands ...string) *Completer {
	all := append(append([]string{}, commands...), builtins...)
	sort.Strings(all)
	return &Completer{commands: all}
}

// Known reports whether name is a command.
func (c *Completer) Known(name string) bool {
	i := sort.SearchStrings(c.commands, name)
	return i < len(c.commands) && c.commands[i] == name
}

// Complete returns the commands starting with prefix, in sorted order.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
