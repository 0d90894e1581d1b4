package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

const VERSION = "1.0.0"
const PROJECT_NAME = "logsift"

const SIEVE_ART = `
   \~~~~~~~~~~~/
    \ . : . : /     logsift
     \ : . : /      sift the signal out of build noise
      \_____/
        |||
`

// ExitError carries a process exit status out of a command. Message may be
// empty when the command already printed its own output.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintf(stderr, "Error: %s\n", exitErr.Message)
			}
			return exitErr.Code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func showVersion(w io.Writer) {
	fmt.Fprint(w, color.CyanString(SIEVE_ART))
	fmt.Fprintf(w, "%s v%s\n", PROJECT_NAME, VERSION)
	fmt.Fprintf(w, "Post-processing for build and lint tool output\n")
}
