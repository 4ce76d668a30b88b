package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"selecquest/internal/play"
	"selecquest/internal/ui"
)

func newRunCmd(flags *globalFlags) *cobra.Command {
	var count int
	var speed float64
	var instant bool

	cmd := &cobra.Command{
		Use:   "run <hero>",
		Short: "Let a hero play tasks in the terminal",
		Long:  "Run the idle loop, printing each finished task. Stops after -n tasks, or on Ctrl-C when -n is 0.",
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

			var sleep play.Sleeper
			if instant {
				sleep = noSleep
			}
			runner := play.NewRunner(svc, sleep)
			runner.SetSpeed(speed)

			out := cmd.OutOrStdout()
			return runner.Run(ctx, rec, count, func(ev play.Event) {
				line := fmt.Sprintf("%s %s", ui.ModeIcon(ev.Mode.String()), ev.Task.Description)
				if ev.LeveledUp {
					line += fmt.Sprintf(" %s %d", ui.BadgeLevelUp, rec.Hero.Level)
				}
				fmt.Fprintln(out, line)
			})
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 10, "Tasks to play (0 = until interrupted)")
	cmd.Flags().Float64Var(&speed, "speed", 1, "Speed multiplier for task durations")
	cmd.Flags().BoolVar(&instant, "instant", false, "Skip task durations entirely")
	return cmd
}
