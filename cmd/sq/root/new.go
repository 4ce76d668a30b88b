package root

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"selecquest/internal/engine"
	"selecquest/internal/play"
	"selecquest/internal/rng"
	"selecquest/internal/setting"
	"selecquest/internal/ui"
)

func newNewCmd(flags *globalFlags) *cobra.Command {
	var race, class, settingID string

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a hero",
		Long:  "Create a hero. Race and class are picked at random from the ruleset unless given.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
				return errors.New("hero name is required")
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

			if settingID == "" {
				settingID = play.DefaultSettingID
			}
			gs, err := svc.Settings().Get(settingID)
			if err != nil {
				return err
			}
			r := rng.New(time.Now().UnixNano())
			if race == "" {
				race = rng.FromList(r, gs.HeroRaces).RaceName
			}
			if class == "" {
				class = rng.FromList(r, gs.HeroClasses).Name
			}

			rec, err := svc.CreateHero(ctx, engine.HeroInitData{
				Name:          args[0],
				RaceName:      race,
				ClassName:     class,
				GameSettingID: settingID,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconPlus, fmt.Sprintf("%s the %s %s", rec.Hero.Name, rec.Hero.RaceName, rec.Hero.ClassName)))
			fmt.Fprintln(out, ui.LabelValue("ID", rec.ID))
			fmt.Fprintln(out, ui.LabelValue("Ruleset", gsName(gs)))
			for _, s := range rec.Hero.Stats {
				fmt.Fprintf(out, "- %s %d\n", ui.Key.Render(s.Name+":"), s.Value)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&race, "race", "r", "", "Hero race (random if empty)")
	cmd.Flags().StringVarP(&class, "class", "c", "", "Hero class (random if empty)")
	cmd.Flags().StringVarP(&settingID, "setting", "s", "", "Ruleset id (default "+play.DefaultSettingID+")")
	return cmd
}

func gsName(gs *setting.GameSetting) string {
	if gs.GameSettingName == "" {
		return gs.GameSettingID
	}
	return fmt.Sprintf("%s (%s)", gs.GameSettingName, gs.GameSettingID)
}
