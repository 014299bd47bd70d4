package command

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/solbox-go/internal/cli/config"
	"github.com/yndnr/solbox-go/internal/cli/output"
	"github.com/yndnr/solbox-go/internal/infra/buildinfo"
	"github.com/yndnr/solbox-go/internal/infra/shutdown"
	"github.com/yndnr/solbox-go/internal/telemetry/logger"
)

// Metadata keys.
const (
	metaConfig   = "config"
	metaLogger   = "logger"
	metaShutdown = "shutdown"
	metaEnv      = "env"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "solbox",
		Usage:   "On-chain style mailbox: initialize mailboxes, write and delete messages",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			AddressCommand(),
			MailboxCommand(),
			MessageCommand(),
			InboxCommand(),
			InstructionCommand(),
			StoreCommand(),
			ConfigCommand(),
			VersionCommand(),
			ShellCommand(),
		},
		Before:         before,
		After:          after,
		ExitErrHandler: exitErrHandler,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file (default ~/.solbox/solbox.yaml if present)",
			EnvVars: []string{"SOLBOX_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "data-dir",
			Usage: "Region store directory",
		},
		&cli.StringFlag{
			Name:  "engine",
			Usage: "Region store engine: badger, memory",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

// GlobalFlags holds the parsed global flags.
type GlobalFlags struct {
	ConfigFile string
	DataDir    string
	Engine     string
	Output     string
	Wide       bool
	Verbose    bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		ConfigFile: c.String("config"),
		DataDir:    c.String("data-dir"),
		Engine:     c.String("engine"),
		Output:     c.String("output"),
		Wide:       c.Bool("wide"),
		Verbose:    c.Bool("verbose"),
	}
}

// overrides maps explicitly set flags to configuration keys.
func (f *GlobalFlags) overrides() map[string]any {
	m := make(map[string]any)
	if f.DataDir != "" {
		m["storage.data_dir"] = f.DataDir
	}
	if f.Engine != "" {
		m["storage.engine"] = f.Engine
	}
	if f.Output != "" {
		m["output.format"] = f.Output
	}
	if f.Verbose {
		m["log.level"] = "debug"
	}
	return m
}

// before loads configuration and sets up logging and the shutdown handler.
func before(c *cli.Context) error {
	flags := ParseGlobalFlags(c)

	cfg, err := config.Load(flags.ConfigFile, flags.overrides())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logCfg := cfg.Logger()
	logCfg.Output = c.App.ErrWriter
	log, err := logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[metaConfig] = cfg
	c.App.Metadata[metaLogger] = log
	c.App.Metadata[metaShutdown] = shutdown.NewHandler(shutdown.DefaultTimeout)
	return nil
}

// after runs the shutdown hooks registered by the command (store close).
func after(c *cli.Context) error {
	h, ok := c.App.Metadata[metaShutdown].(*shutdown.Handler)
	if !ok {
		return nil
	}
	return h.Shutdown()
}

// exitErrHandler leaves reporting and the exit status to main.
func exitErrHandler(*cli.Context, error) {}

// getConfig returns the configuration loaded by before.
func getConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[metaConfig].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// getLogger returns the logger created by before.
func getLogger(c *cli.Context) logger.Logger {
	if l, ok := c.App.Metadata[metaLogger].(logger.Logger); ok {
		return l
	}
	return logger.Discard()
}

// getShutdown returns the shutdown handler created by before.
func getShutdown(c *cli.Context) *shutdown.Handler {
	if h, ok := c.App.Metadata[metaShutdown].(*shutdown.Handler); ok {
		return h
	}
	h := shutdown.NewHandler(shutdown.DefaultTimeout)
	c.App.Metadata[metaShutdown] = h
	return h
}

// writer returns the command output writer.
func writer(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

// render prints data in the configured output format.
func render(c *cli.Context, data any) error {
	format, err := output.ParseFormat(getConfig(c).Output.Format)
	if err != nil {
		return err
	}
	return output.NewFormatter(format, c.Bool("wide")).Format(writer(c), data)
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
