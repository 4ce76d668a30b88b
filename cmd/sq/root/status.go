package root

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"selecquest/internal/engine"
	"selecquest/internal/ui"
)

func newStatusCmd(flags *globalFlags) *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "status <hero>",
		Short: "Show a hero's progress",
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
			h := rec.Hero
			cfg := svc.Generator().Config()
			played, err := svc.TaskLogRepo().TotalDurationMs(ctx, rec.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, fmt.Sprintf("%s the %s %s", h.Name, h.RaceName, h.ClassName)))
			need := cfg.XPRequiredForLevel(h.Level)
			fmt.Fprintln(out, ui.LabelValue("Level", h.Level))
			fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%d/%d %s", h.CurrentXP, need, ui.ProgressBar(h.CurrentXP, need, 20))))
			if gained := cfg.LevelsGainedForXP(h.Level, h.CurrentXP); gained > 0 {
				fmt.Fprintln(out, ui.Gold.Render(fmt.Sprintf("%d level(s) pending", gained)))
			}
			fmt.Fprintln(out, ui.LabelValue("Mode", ui.ModeText(rec.ActiveMode.String(), true)))
			fmt.Fprintln(out, ui.LabelValue("Tasks", fmt.Sprintf("%d (%s played)", h.TasksCompleted, (time.Duration(played)*time.Millisecond).Round(time.Second))))
			fmt.Fprintln(out, ui.LabelValue("Adventure", fmt.Sprintf("%s %s", h.CurrentAdventure.Name,
				ui.ProgressBar(h.AdventureProgress, h.CurrentAdventure.ProgressRequired, 20))))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("Stats"))
			for _, s := range h.Stats {
				fmt.Fprintf(out, "- %s %d\n", ui.Key.Render(s.Name+":"), s.Value)
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconTrophy+" Build-up"))
			for m := engine.ModeLoot; m < engine.ModeCount; m++ {
				phase := engine.PhaseBuildUp
				if h.IsInTeardownMode[m] {
					phase = engine.PhaseTeardown
				}
				fmt.Fprintf(out, "- %s %d held, %.0f currency %s\n",
					ui.ModeText(m.String(), m == rec.ActiveMode), h.BuildUpCount(m), h.AvailableCurrency(m), ui.Muted.Render("("+phase.String()+")"))
			}
			fmt.Fprintln(out, "")

			if recent > 0 {
				entries, err := svc.Recent(ctx, rec, recent)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, ui.H2.Render(ui.IconScroll+" Recent tasks"))
				for _, e := range entries {
					fmt.Fprintf(out, "- #%d %s %s\n", e.Seq, e.Description, ui.Muted.Render(e.Mode.String()))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&recent, "recent", "n", 5, "Number of recent tasks to show")
	return cmd
}
