package commands

import (
	"github.com/spf13/cobra"

	"salescrm/cmd/crmctl/tui"
)

func newConsoleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Open the interactive SQL console",
		Long: `Open a terminal SQL console. Type a statement and press ctrl+r to run it.
Statements that may modify or delete data open a confirmation dialog first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			return tui.RunConsoleUI(cmd.Context(), e.console)
		},
	}
}
