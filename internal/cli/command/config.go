package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/solbox-go/internal/cli/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration inspection",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:   "path",
				Usage:  "Show the default configuration file path",
				Action: configPath,
			},
		},
	}
}

type configView struct {
	Engine              string  `json:"storage.engine" yaml:"storage.engine"`
	DataDir             string  `json:"storage.data_dir" yaml:"storage.data_dir"`
	ProgramID           string  `json:"program.id" yaml:"program.id"`
	LamportsPerByteYear uint64  `json:"rent.lamports_per_byte_year" yaml:"rent.lamports_per_byte_year"`
	ExemptionThreshold  float64 `json:"rent.exemption_threshold" yaml:"rent.exemption_threshold"`
	RatePerSecond       float64 `json:"rate_limit.per_second" yaml:"rate_limit.per_second"`
	RateBurst           int     `json:"rate_limit.burst" yaml:"rate_limit.burst"`
	LogLevel            string  `json:"log.level" yaml:"log.level"`
	LogFormat           string  `json:"log.format" yaml:"log.format"`
	OutputFormat        string  `json:"output.format" yaml:"output.format"`
}

func configShow(c *cli.Context) error {
	cfg := getConfig(c)
	return render(c, configView{
		Engine:              cfg.Storage.Engine,
		DataDir:             cfg.Storage.DataDir,
		ProgramID:           cfg.Program.ID,
		LamportsPerByteYear: cfg.Rent.LamportsPerByteYear,
		ExemptionThreshold:  cfg.Rent.ExemptionThreshold,
		RatePerSecond:       cfg.RateLimit.PerSecond,
		RateBurst:           cfg.RateLimit.Burst,
		LogLevel:            cfg.Log.Level,
		LogFormat:           cfg.Log.Format,
		OutputFormat:        cfg.Output.Format,
	})
}

func configPath(c *cli.Context) error {
	return render(c, map[string]string{"path": config.DefaultConfigPath()})
}
