package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BuzzLyutic/taskboard/internal/model"
)

func themeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme [light|dark|toggle]",
		Short: "Show or change the color theme",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintln(out, a.theme.Get(ctx))
				return nil
			}
			if args[0] == "toggle" {
				fmt.Fprintln(out, a.theme.Toggle(ctx))
				return nil
			}
			if err := a.theme.Set(ctx, model.Theme(args[0])); err != nil {
				return err
			}
			fmt.Fprintln(out, args[0])
			return nil
		},
	}
	return cmd
}
