package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-ledviz/internal/settings"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect or create the settings file",
	}

	var force bool

	initCmd := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write the default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "ledviz.yaml"
			if len(args) == 1 {
				path = args[0]
			}

			d := settings.Default()
			if err := settings.WriteFile(path, &d, force); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Wrote "+path)

			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			return settings.Write(cmd.OutOrStdout(), s)
		},
	}

	cmd.AddCommand(initCmd, showCmd)

	return cmd
}
