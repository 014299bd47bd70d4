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

// MessageCommand returns the message subcommand group.
func MessageCommand() *cli.Command {
	return &cli.Command{
		Name:    "message",
		Aliases: []string{"msg"},
		Usage:   "Write, delete and read messages",
		Subcommands: []*cli.Command{
			{
				Name:      "write",
				Usage:     "Store a message and reference it from a mailbox",
				ArgsUsage: "TEXT",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "as",
						Usage:    "Calling principal; must own the mailbox. Recorded as sender",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "mailbox",
						Aliases:  []string{"m"},
						Usage:    "Target mailbox",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "to",
						Usage:    "Recipient address",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "message",
						Usage: "Message address (default: random)",
					},
				},
				Action: messageWrite,
			},
			{
				Name:  "delete",
				Usage: "Remove a message from a mailbox and refund its balance to the caller",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "as",
						Usage:    "Calling principal; must own the mailbox. Receives the refund",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "mailbox",
						Aliases:  []string{"m"},
						Usage:    "Mailbox holding the message",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "message",
						Usage:    "Message address",
						Required: true,
					},
				},
				Action: messageDelete,
			},
			{
				Name:      "show",
				Usage:     "Show a message record",
				ArgsUsage: "ADDRESS",
				Action:    messageShow,
			},
		},
	}
}

func messageWrite(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("message text is required")
	}
	body := c.Args().First()

	caller, err := addressFlag(c, "as")
	if err != nil {
		return err
	}
	mailbox, err := addressFlag(c, "mailbox")
	if err != nil {
		return err
	}
	recipient, err := addressFlag(c, "to")
	if err != nil {
		return err
	}
	msgAddr, err := optionalAddressFlag(c, "message", domain.NewAddress())
	if err != nil {
		return err
	}

	env, err := openEnv(c)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(c)
	defer cancel()

	created := true
	if _, err := env.Runtime.CreateFundedRegion(ctx, msgAddr, state.MessageLen(len(body))); err != nil {
		if !errors.Is(err, storage.ErrRegionExists) {
			return err
		}
		created = false
	}

	ix := &instruction.WriteMessage{
		Sender:    caller,
		Recipient: recipient,
		Mailbox:   mailbox,
		Message:   body,
	}
	rcpt, err := env.Runtime.Execute(ctx, runtime.Transaction{
		Caller:  caller,
		Data:    instruction.Encode(ix),
		Regions: []domain.Address{msgAddr, mailbox},
	})
	if err != nil {
		if created {
			if dropErr := env.Runtime.DropRegion(ctx, msgAddr); dropErr != nil {
				env.Log.Warn("drop rejected message region", "address", msgAddr.String(), "error", dropErr)
			}
		}
		return fmt.Errorf("write message: %w", err)
	}
	return render(c, newReceiptView(rcpt, msgAddr))
}

func messageDelete(c *cli.Context) error {
	caller, err := addressFlag(c, "as")
	if err != nil {
		return err
	}
	mailbox, err := addressFlag(c, "mailbox")
	if err != nil {
		return err
	}
	msgAddr, err := addressFlag(c, "message")
	if err != nil {
		return err
	}

	env, err := openEnv(c)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(c)
	defer cancel()

	ix := &instruction.DeleteMessage{
		Owner:     caller,
		MessageID: msgAddr,
		Mailbox:   mailbox,
	}
	rcpt, err := env.Runtime.Execute(ctx, runtime.Transaction{
		Caller:  caller,
		Data:    instruction.Encode(ix),
		Regions: []domain.Address{msgAddr, mailbox, caller, domain.SystemProgramID},
	})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return render(c, newReceiptView(rcpt, msgAddr))
}

func messageShow(c *cli.Context) error {
	addr, err := addressArg(c, "message")
	if err != nil {
		return err
	}
	env, err := openEnv(c)
	if err != nil {
		return err
	}

	region, err := env.Runtime.Region(c.Context, addr)
	if err != nil {
		return fmt.Errorf("message %s: %w", addr, err)
	}
	msg, err := state.DecodeMessage(region.Data)
	if err != nil {
		return fmt.Errorf("message %s: %w", addr, err)
	}
	return render(c, newMessageView(addr, region.Balance, msg))
}
