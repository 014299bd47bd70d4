package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultPrompt is printed before each line.
const DefaultPrompt = "solbox> "

// Exec runs one command line, already split into words.
type Exec func(args []string) error

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	exec      Exec
	completer *Completer
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithPrompt sets the prompt.
func WithPrompt(p string) Option {
	return func(r *REPL) {
		r.prompt = p
	}
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// New creates a REPL reading from in and writing prompts and errors to out.
func New(in io.Reader, out io.Writer, exec Exec, completer *Completer, opts ...Option) *REPL {
	r := &REPL{
		input:     in,
		output:    out,
		prompt:    DefaultPrompt,
		exec:      exec,
		completer: completer,
		history:   NewHistory(""),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads lines until exit, quit or EOF. Command errors are printed and
// do not stop the loop.
func (r *REPL) Run() error {
	reader := bufio.NewReader(r.input)

	for {
		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := errors.Is(err, io.EOF)

		line = strings.TrimSpace(line)
		if line == "" {
			if eof {
				fmt.Fprintln(r.output)
				return nil
			}
			continue
		}
		r.history.Add(line)

		if line == "exit" || line == "quit" {
			return nil
		}
		if err := r.execute(line); err != nil {
			fmt.Fprintf(r.output, "error: %v\n", err)
		}
		if eof {
			return nil
		}
	}
}

func (r *REPL) execute(line string) error {
	args, err := Split(line)
	if err != nil {
		return err
	}

	switch args[0] {
	case "history":
		for i := r.history.Len() - 1; i >= 0; i-- {
			fmt.Fprintf(r.output, "%4d  %s\n", r.history.Len()-i, r.history.Get(i))
		}
		return nil
	}

	if r.completer != nil && !r.completer.Known(args[0]) {
		if s := r.completer.Complete(args[0]); len(s) > 0 {
			return fmt.Errorf("unknown command %q (did you mean: %s)", args[0], strings.Join(s, ", "))
		}
		return fmt.Errorf("unknown command %q", args[0])
	}
	return r.exec(args)
}

// Split breaks line into words. Quotes group words and backslash escapes
// the next character outside single quotes.
func Split(line string) ([]string, error) {
	var (
		words   []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, ch := range line {
		switch {
		case escaped:
			cur.WriteRune(ch)
			escaped = false
		case ch == '\\' && quote != '\'':
			escaped, inWord = true, true
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				cur.WriteRune(ch)
			}
		case ch == '\'' || ch == '"':
			quote, inWord = ch, true
		case ch == ' ' || ch == '\t':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(ch)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inWord {
		words = append(words, cur.String())
	}
	if len(words) == 0 {
		return nil, errors.New("empty command")
	}
	return words, nil
}
