package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-ledviz/config"
	"github.com/cwbudde/algo-ledviz/effects"
)

func newEffectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "effects",
		Short: "List the available effects",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			def := config.Default().Effect

			for _, name := range effects.DefaultRegistry().Names() {
				if name == def {
					fmt.Fprintln(cmd.OutOrStdout(), name+" "+dimStyle.Render("(default)"))
					continue
				}

				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
