package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"selecquest/internal/engine"
	"selecquest/internal/ui"
)

func newModeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mode <hero> <loot|trial|quest>",
		Short: "Switch a hero's active task mode",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("hero and mode are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := engine.ParseTaskMode(args[1])
			if err != nil {
				return err
			}

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
			if err := svc.SetMode(ctx, rec, mode); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s is now in %s mode\n", ui.IconDone, rec.Hero.Name, ui.ModeText(mode.String(), true))
			return nil
		},
	}
}
