package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hightemp/countrypick/internal/countries"
	"github.com/hightemp/countrypick/internal/output"
	"github.com/hightemp/countrypick/internal/store"
)

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Print the remembered country selection",
	Args:  cobra.NoArgs,
	RunE:  runCurrent,
}

func runCurrent(cmd *cobra.Command, args []string) error {
	st := store.New(settings.StateFile)
	if err := st.Load(); err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	code := st.CountryCode()
	if code == "" {
		exitWithCode(ExitNoSelection, "No country selected yet. Run 'countrypick' to choose one.")
		return nil
	}

	sel := &output.Selection{
		CountryCode: code,
		CountryName: countries.GetName(code),
		SelectedAt:  st.UpdatedAt(),
	}
	return sel.Write(cmd.OutOrStdout(), settings.Output)
}
