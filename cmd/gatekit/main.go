// Command gatekit checks credentials against the accounts declared in a
// configuration file and encodes passwords for that file.
//
// Usage:
//
//	gatekit encode   [--config FILE] [--algorithm ALGO]          < password
//	gatekit authenticate --user NAME [--config FILE] [--permission P]... < password
//	gatekit version
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kbukum/gatekit/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run dispatches a subcommand and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: gatekit <encode|authenticate|version> [flags]")
		return 2
	}

	var err error
	switch args[0] {
	case "encode":
		err = runEncode(args[1:], stdin, stdout)
	case "authenticate", "auth":
		err = runAuthenticate(args[1:], stdin, stdout)
	case "version":
		err = runVersion(stdout)
	default:
		fmt.Fprintf(stderr, "gatekit: unknown command %q\n", args[0])
		return 2
	}

	if err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			fmt.Fprintln(stderr, exit.msg)
			return exit.code
		}
		logger.Error("command failed", logger.ErrorFields(args[0], err))
		fmt.Fprintln(stderr, "gatekit:", err)
		return 1
	}
	return 0
}
