package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/solbox-go/internal/core/domain"
)

// AddressCommand returns the address subcommand group.
func AddressCommand() *cli.Command {
	return &cli.Command{
		Name:    "address",
		Aliases: []string{"addr"},
		Usage:   "Generate and inspect addresses",
		Subcommands: []*cli.Command{
			{
				Name:  "new",
				Usage: "Generate a random address, or derive one from --seed",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "seed",
						Usage: "Derive the address from a seed string",
					},
				},
				Action: addressNew,
			},
			{
				Name:   "sentinel",
				Usage:  "Show the address that marks an empty mailbox slot",
				Action: addressSentinel,
			},
			{
				Name:   "program",
				Usage:  "Show the configured program address",
				Action: addressProgram,
			},
		},
	}
}

func addressNew(c *cli.Context) error {
	v := addressView{Name: "random", Address: domain.NewAddress()}
	if c.IsSet("seed") {
		v = addressView{Name: "seed:" + c.String("seed"), Address: domain.AddressFromSeed(c.String("seed"))}
	}
	return render(c, v)
}

func addressSentinel(c *cli.Context) error {
	return render(c, []addressView{
		{Name: "sentinel", Address: domain.SentinelAddress},
		{Name: "system", Address: domain.SystemProgramID},
	})
}

func addressProgram(c *cli.Context) error {
	id, err := getConfig(c).ProgramID()
	if err != nil {
		return err
	}
	return render(c, addressView{Name: "program", Address: id})
}
