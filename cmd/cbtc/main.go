// Command cbtc runs the cbt front end on one source file.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root, a := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		// halting diagnostics have already been written
		if !errors.Is(err, errHalted) {
			fmt.Fprintln(stderr, "cbtc:", err)
		}
		return 1
	}
	return a.exitCode
}
