package command

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/solbox-go/internal/core/domain"
	"github.com/yndnr/solbox-go/internal/core/instruction"
	"github.com/yndnr/solbox-go/internal/core/state"
	"github.com/yndnr/solbox-go/internal/runtime"
	"github.com/yndnr/solbox-go/internal/storage"
)

// MailboxCommand returns the mailbox subcommand group.
func MailboxCommand() *cli.Command {
	return &cli.Command{
		Name:    "mailbox",
		Aliases: []string{"box"},
		Usage:   "Create and inspect mailboxes",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Allocate and initialize a mailbox",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "owner",
						Usage:    "Mailbox owner; also the calling principal",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "address",
						Usage: "Mailbox address (default: random)",
					},
					&cli.StringFlag{
						Name:  "next",
						Usage: "Next mailbox in the chain (default: the mailbox itself)",
					},
					&cli.StringFlag{
						Name:  "prev",
						Usage: "Previous mailbox in the chain (default: the mailbox itself)",
					},
					&cli.UintFlag{
						Name:  "slots",
						Usage: "Requested slot count",
						Value: state.Capacity,
					},
				},
				Action: mailboxInit,
			},
			{
				Name:      "show",
				Usage:     "Show a mailbox record",
				ArgsUsage: "ADDRESS",
				Action:    mailboxShow,
			},
		},
	}
}

func mailboxInit(c *cli.Context) error {
	owner, err := addressFlag(c, "owner")
	if err != nil {
		return err
	}
	addr, err := optionalAddressFlag(c, "address", domain.NewAddress())
	if err != nil {
		return err
	}
	next, err := optionalAddressFlag(c, "next", addr)
	if err != nil {
		return err
	}
	prev, err := optionalAddressFlag(c, "prev", addr)
	if err != nil {
		return err
	}

	env, err := openEnv(c)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(c)
	defer cancel()

	// An existing region is left to the processor, which rejects it if
	// it already holds a mailbox.
	created := true
	if _, err := env.Runtime.CreateFundedRegion(ctx, addr, state.MailboxLen); err != nil {
		if !errors.Is(err, storage.ErrRegionExists) {
			return err
		}
		created = false
	}

	ix := &instruction.InitializeSolBox{
		Owner:    owner,
		NumSlots: uint32(c.Uint("slots")),
		NextBox:  next,
		PrevBox:  prev,
	}
	rcpt, err := env.Runtime.Execute(ctx, runtime.Transaction{
		Caller:  owner,
		Data:    instruction.Encode(ix),
		Regions: []domain.Address{addr},
	})
	if err != nil {
		if created {
			if dropErr := env.Runtime.DropRegion(ctx, addr); dropErr != nil {
				env.Log.Warn("drop rejected mailbox region", "address", addr.String(), "error", dropErr)
			}
		}
		return fmt.Errorf("initialize mailbox %s: %w", addr, err)
	}
	return render(c, newReceiptView(rcpt, addr))
}

func mailboxShow(c *cli.Context) error {
	addr, err := addressArg(c, "mailbox")
	if err != nil {
		return err
	}
	env, err := openEnv(c)
	if err != nil {
		return err
	}

	region, err := env.Runtime.Region(c.Context, addr)
	if err != nil {
		return fmt.Errorf("mailbox %s: %w", addr, err)
	}
	box, err := state.DecodeMailbox(region.Data)
	if err != nil {
		return fmt.Errorf("mailbox %s: %w", addr, err)
	}
	return render(c, newMailboxView(addr, region.Balance, box))
}
