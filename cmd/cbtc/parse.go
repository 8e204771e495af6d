package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cbtc/pkg/compiler"
)

func (a *app) parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a source file and print its statement tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if format != "text" && format != "yaml" {
				return fmt.Errorf("unknown format %q (want text or yaml)", format)
			}
			_, res, _, err := a.compileFile(args[0])
			if err != nil {
				return err
			}

			if format == "yaml" {
				out, err := compiler.Dump(res.Stmts)
				if err != nil {
					return err
				}
				_, err = a.stdout.Write(out)
				return err
			}
			for _, s := range res.Stmts {
				fmt.Fprintln(a.stdout, s)
			}
			return nil
		},
	}
	cmd.Flags().String("format", "text", "Output format: text or yaml")
	return cmd
}
