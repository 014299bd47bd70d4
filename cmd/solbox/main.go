package main

import (
	"errors"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/solbox-go/internal/cli/command"
	"github.com/yndnr/solbox-go/internal/core/domain"
)

// Exit codes.
const (
	exitError    = 1
	exitRejected = 2
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		command.PrintError("%v", err)
		os.Exit(exitCode(err))
	}
}

// exitCode returns 2 when the program rejected an instruction.
func exitCode(err error) int {
	var exit cli.ExitCoder
	if errors.As(err, &exit) {
		return exit.ExitCode()
	}
	if domain.IsDomainError(err) {
		return exitRejected
	}
	return exitError
}
