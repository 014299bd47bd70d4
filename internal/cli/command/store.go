package command

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
)

// StoreCommand returns the store maintenance subcommand group.
func StoreCommand() *cli.Command {
	return &cli.Command{
		Name:  "store",
		Usage: "Region store maintenance",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show region store statistics",
				Action: storeStatsCmd,
			},
			{
				Name:   "metrics",
				Usage:  "Show the store and execution metrics of this process",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "process",
						Usage: "Include Go runtime and process metrics",
					},
				},
				Action: storeMetrics,
			},
			{
				Name:   "gc",
				Usage:  "Run value-log garbage collection (badger)",
				Action: storeGC,
			},
			{
				Name:      "backup",
				Usage:     "Write a full backup to FILE (badger)",
				ArgsUsage: "FILE",
				Action:    storeBackup,
			},
			{
				Name:      "restore",
				Usage:     "Load a backup from FILE (badger)",
				ArgsUsage: "FILE",
				Action:    storeRestore,
			},
		},
	}
}

type statsView struct {
	Engine       string `json:"engine" yaml:"engine"`
	Regions      uint64 `json:"regions" yaml:"regions"`
	TotalSize    uint64 `json:"total_size" yaml:"total_size"`
	LSMSize      uint64 `json:"lsm_size" yaml:"lsm_size" table:"wide"`
	ValueLogSize uint64 `json:"value_log_size" yaml:"value_log_size" table:"wide"`
	LastGC       string `json:"last_gc,omitempty" yaml:"last_gc,omitempty"`
}

func storeStatsCmd(c *cli.Context) error {
	env, err := openEnv(c)
	if err != nil {
		return err
	}
	s, err := env.Store.Stats(c.Context)
	if err != nil {
		return err
	}

	v := statsView{
		Engine:       s.Engine,
		Regions:      s.Regions,
		TotalSize:    s.TotalSize,
		LSMSize:      s.LSMSize,
		ValueLogSize: s.ValueLogSize,
	}
	if s.LastGCTime > 0 {
		v.LastGC = time.UnixMilli(s.LastGCTime).UTC().Format(time.RFC3339)
	}
	return render(c, v)
}

func storeMetrics(c *cli.Context) error {
	env, err := openEnv(c)
	if err != nil {
		return err
	}
	if c.Bool("process") {
		env.Metrics.WithProcessMetrics()
	}
	samples, err := env.Metrics.Snapshot()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	return render(c, samples)
}

func storeGC(c *cli.Context) error {
	env, err := openEnv(c)
	if err != nil {
		return err
	}
	bs, err := badgerStore(env)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(c)
	defer cancel()

	rewrites, err := bs.GC(ctx)
	if err != nil {
		return err
	}
	return render(c, map[string]int{"rewrites": rewrites})
}

func storeBackup(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("backup file is required")
	}
	path := c.Args().First()

	env, err := openEnv(c)
	if err != nil {
		return err
	}
	bs, err := badgerStore(env)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(c)
	defer cancel()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	if err := bs.Backup(ctx, f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close backup: %w", err)
	}
	env.Log.Info("backup written", "file", path)
	return render(c, map[string]string{"backup": path})
}

func storeRestore(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("backup file is required")
	}
	path := c.Args().First()

	env, err := openEnv(c)
	if err != nil {
		return err
	}
	bs, err := badgerStore(env)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(c)
	defer cancel()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer f.Close()

	if err := bs.Restore(ctx, f); err != nil {
		return err
	}
	return render(c, map[string]string{"restored": path})
}
