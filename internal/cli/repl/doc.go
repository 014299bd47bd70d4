// Package repl runs solbox commands interactively.
//
// Each line is split into words (single and double quotes group words,
// backslash escapes the next character) and handed to an Exec function.
// The built-ins exit, quit and history are handled here. Unknown command
// names get prefix suggestions from the Completer.
package repl
