package command

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/yndnr/solbox-go/internal/cli/config"
	"github.com/yndnr/solbox-go/internal/cli/repl"
)

// ShellCommand returns the shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Run commands interactively against one open store",
		Description: `Reads commands line by line. The store, configuration and logger
are opened once, so a memory store keeps its regions across lines.

   solbox --engine memory shell`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not read or write ~/.solbox/history",
			},
		},
		Action: runShell,
	}
}

func runShell(c *cli.Context) error {
	names := []string{"help"}
	for _, cmd := range shellApp(c).Commands {
		names = append(names, cmd.Names()...)
	}

	historyFile := filepath.Join(config.HomeDir(), "history")
	if c.Bool("no-history") {
		historyFile = ""
	}
	history := repl.NewHistory(historyFile)
	if err := history.Load(); err != nil {
		getLogger(c).Warn("load shell history", "error", err)
	}

	in := c.App.Reader
	if in == nil {
		in = os.Stdin
	}
	opts := []repl.Option{repl.WithHistory(history)}
	if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		// Piped scripts get no prompts.
		opts = append(opts, repl.WithPrompt(""))
	}
	r := repl.New(in, writer(c), func(args []string) error {
		return shellApp(c).Run(append([]string{c.App.Name}, args...))
	}, repl.NewCompleter(names...), opts...)

	if err := r.Run(); err != nil {
		return err
	}
	return history.Save()
}

// shellApp builds the app that runs one shell line. It shares metadata
// with the outer invocation and has no Before or After, so the outer
// configuration and open store are reused.
func shellApp(c *cli.Context) *cli.App {
	app := App()
	app.Before = nil
	app.After = nil
	app.Flags = shellFlags()
	app.Metadata = c.App.Metadata
	app.Reader = c.App.Reader
	app.Writer = writer(c)
	app.ErrWriter = c.App.ErrWriter

	cmds := app.Commands[:0]
	for _, cmd := range app.Commands {
		if cmd.Name != "shell" {
			cmds = append(cmds, cmd)
		}
	}
	app.Commands = cmds
	return app
}

// shellFlags keeps only the global flags that act per line.
func shellFlags() []cli.Flag {
	var flags []cli.Flag
	for _, f := range globalFlags() {
		if f.Names()[0] == "wide" {
			flags = append(flags, f)
		}
	}
	return flags
}
