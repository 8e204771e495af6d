package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cbtc/pkg/compiler"
)

func (a *app) tokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			render, _ := cmd.Flags().GetBool("render")
			src, res, _, err := a.compileFile(args[0])
			if err != nil {
				return err
			}
			if render {
				fmt.Fprintln(a.stdout, compiler.RenderTokens(res.Tokens, src.Text))
				return nil
			}
			fmt.Fprintf(a.stdout, "Tokens (%d)\n", len(res.Tokens))
			for _, tok := range res.Tokens {
				fmt.Fprintln(a.stdout, " ", tok)
			}
			return nil
		},
	}
	cmd.Flags().Bool("render", false, "Print the tokens re-rendered as source text instead")
	return cmd
}
