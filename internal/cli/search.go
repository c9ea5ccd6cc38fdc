package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hightemp/countrypick/internal/output"
	"github.com/hightemp/countrypick/internal/suggest"
)

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Print the countries whose name starts with text",
	Long: `Matches text against the beginning of every country name, ignoring
case, and prints the first matches in list order.

Examples:
  countrypick search g                  # Gabon, Gambia, Georgia, Germany, Ghana
  countrypick search united -o table    # table output
  countrypick search gh --limit 1 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	text := args[0]
	if text == "" {
		exitWithCode(ExitInvalidInput, "Error: search text must not be empty")
		return nil
	}

	list, ok := loadCountries(cmd.Context(), newSource(settings))
	if !ok {
		exitWithCode(ExitSourceFailed, "Error: country list unavailable (run with --debug for details)")
		return nil
	}

	matches := suggest.Match(list, text, settings.Limit)
	if len(matches) == 0 {
		exitWithCode(ExitNotFound, fmt.Sprintf("No country name starts with %q", text))
		return nil
	}

	return output.WriteSuggestions(cmd.OutOrStdout(), matches, settings.Output)
}
