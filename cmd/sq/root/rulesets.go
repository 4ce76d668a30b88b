package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"selecquest/internal/config"
	"selecquest/internal/setting"
	"selecquest/internal/ui"
)

func newRulesetsCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "rulesets",
		Short: "List available rulesets",
		Long:  "List the builtin rulesets and those in --dir (or $SELECQUEST_RULESET_DIR). Every ruleset is validated while loading.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				dir = cfg.RulesetDir
			}
			m, err := setting.LoadManager(dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "Rulesets"))
			for _, id := range m.IDs() {
				gs, err := m.Get(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "- %s %s\n", ui.Good.Render(ui.IconDone), gsName(gs))
				fmt.Fprintf(out, "  %s\n", ui.Muted.Render(fmt.Sprintf("%d races, %d classes, %d task targets",
					len(gs.HeroRaces), len(gs.HeroClasses), len(gs.BasicTaskTargets))))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Extra ruleset directory to load and validate")
	return cmd
}
