package root

import (
	"errors"

	"github.com/spf13/cobra"

	"selecquest/internal/tui"
)

func newPlayCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "play <hero>",
		Short: "Open the idle-play screen",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("hero name or id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx, flags)
			if err != nil {
				return err
			}
			defer cleanup()

			rec, err := svc.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			return tui.RunPlay(ctx, svc, rec, cmd.OutOrStdout())
		},
	}
}
