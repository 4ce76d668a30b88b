package root

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"selecquest/internal/ui"
)

const Version = "0.1.0"

// globalFlags override the SELECQUEST_* environment for one invocation.
type globalFlags struct {
	dbPath string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags
	cmd := &cobra.Command{
		Use:           "sq",
		Short:         "SelecQuest, an idle RPG that plays itself",
		Long:          "SelecQuest is an idle RPG: pick a hero and a task mode, and the hero loots, competes and quests on their own.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	cmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "Database path (default $SELECQUEST_DB_PATH or ~/.selecquest.db)")

	cmd.AddCommand(
		newNewCmd(&flags),
		newListCmd(&flags),
		newStatusCmd(&flags),
		newRunCmd(&flags),
		newModeCmd(&flags),
		newPlayCmd(&flags),
		newDeleteCmd(&flags),
		newRulesetsCmd(),
	)
	return cmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		stop()
		os.Exit(1)
	}
}
