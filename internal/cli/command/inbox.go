package command

import (
	"github.com/urfave/cli/v2"
)

// InboxCommand returns the inbox command.
func InboxCommand() *cli.Command {
	return &cli.Command{
		Name:      "inbox",
		Usage:     "List the messages of a mailbox chain, starting at ADDRESS",
		ArgsUsage: "ADDRESS",
		Action:    inboxList,
	}
}

func inboxList(c *cli.Context) error {
	root, err := addressArg(c, "mailbox")
	if err != nil {
		return err
	}
	env, err := openEnv(c)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(c)
	defer cancel()

	boxes, err := env.Runtime.Inbox(ctx, root)
	if err != nil {
		return err
	}
	return render(c, newInboxView(root, boxes))
}
