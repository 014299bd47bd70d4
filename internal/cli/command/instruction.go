package command

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/solbox-go/internal/core/instruction"
	"github.com/yndnr/solbox-go/internal/core/state"
)

// InstructionCommand returns the instruction subcommand group.
func InstructionCommand() *cli.Command {
	return &cli.Command{
		Name:    "instruction",
		Aliases: []string{"ix"},
		Usage:   "Encode and decode instruction bytes",
		Subcommands: []*cli.Command{
			{
				Name:      "decode",
				Usage:     "Decode a hex (or --base64) instruction",
				ArgsUsage: "DATA",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "base64",
						Usage: "DATA is base64 instead of hex",
					},
				},
				Action: instructionDecode,
			},
			{
				Name:  "init",
				Usage: "Encode an InitializeSolBox instruction for a root mailbox",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "owner",
						Usage:    "Mailbox owner",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "mailbox",
						Aliases:  []string{"m"},
						Usage:    "Mailbox address",
						Required: true,
					},
					&cli.UintFlag{
						Name:  "slots",
						Usage: "Requested slot count",
						Value: state.Capacity,
					},
				},
				Action: instructionInit,
			},
		},
	}
}

func instructionDecode(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("instruction data is required")
	}
	data, err := decodeBytes(c.Args().First(), c.Bool("base64"))
	if err != nil {
		return err
	}

	ix, err := instruction.Decode(data)
	if err != nil {
		return err
	}
	return render(c, newInstructionView(ix))
}

func instructionInit(c *cli.Context) error {
	owner, err := addressFlag(c, "owner")
	if err != nil {
		return err
	}
	mailbox, err := addressFlag(c, "mailbox")
	if err != nil {
		return err
	}

	ix := instruction.NewInitialize(owner, mailbox, uint32(c.Uint("slots")))
	raw := instruction.Encode(ix)
	return render(c, map[string]string{
		"hex":    hex.EncodeToString(raw),
		"base64": base64.StdEncoding.EncodeToString(raw),
	})
}

// decodeBytes accepts hex with an optional 0x prefix, or base64.
func decodeBytes(s string, b64 bool) ([]byte, error) {
	s = strings.TrimSpace(s)
	if b64 {
		data, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("decode base64: %w", err)
		}
		return data, nil
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return data, nil
}
