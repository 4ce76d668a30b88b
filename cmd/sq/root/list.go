package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"selecquest/internal/ui"
)

func newListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved heroes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx, flags)
			if err != nil {
				return err
			}
			defer cleanup()

			heroes, err := svc.List(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(heroes) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No heroes yet. Create one with: sq new <name>"))
				return nil
			}
			fmt.Fprintln(out, ui.Heading(ui.IconQuest, "Heroes"))
			for _, rec := range heroes {
				h := rec.Hero
				fmt.Fprintf(out, "- %s %s %s %s\n",
					ui.Key.Render(h.Name),
					fmt.Sprintf("L%d %s %s", h.Level, h.RaceName, h.ClassName),
					ui.ModeText(rec.ActiveMode.String(), true),
					ui.Muted.Render(rec.ID),
				)
			}
			return nil
		},
	}
}
