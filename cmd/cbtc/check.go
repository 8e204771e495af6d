package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cbtc/pkg/compiler"
	"cbtc/pkg/diag"
)

func (a *app) checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Parse a source file and warn about duplicate or undefined names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			showSymbols, _ := cmd.Flags().GetBool("symbols")
			src, res, em, err := a.compileFile(args[0])
			if err != nil {
				return err
			}

			syms, findings := compiler.Check(src, res.Stmts, em)
			a.logger.Debug("checked", "file", args[0], "findings", len(findings))
			if showSymbols {
				fmt.Fprint(a.stdout, syms)
			}
			fmt.Fprintf(a.stdout, "%s: %d statements, %d warnings\n", args[0], len(res.Stmts), em.Count(diag.Warning))
			a.exitCode = em.ExitCode()
			return nil
		},
	}
	cmd.Flags().Bool("symbols", false, "Print the modules and functions defined in the file")
	return cmd
}
