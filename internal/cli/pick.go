package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hightemp/countrypick/internal/logging"
	"github.com/hightemp/countrypick/internal/output"
	"github.com/hightemp/countrypick/internal/picker"
	"github.com/hightemp/countrypick/internal/store"
	"github.com/hightemp/countrypick/internal/tui"
)

func runPick(cmd *cobra.Command, args []string) error {
	st := store.New(settings.StateFile)
	if err := st.Load(); err != nil {
		logging.Warn("ignoring unreadable state file",
			zap.String("path", settings.StateFile),
			zap.Error(err),
		)
	}

	w := picker.New(newSource(settings), st,
		picker.WithDebounce(settings.Debounce),
		picker.WithLimit(settings.Limit),
	)

	// The widget loop and the terminal program share one scope: whichever
	// ends first tears the other down.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.Run(ctx)
	})

	var final tui.Model
	g.Go(func() error {
		defer cancel()
		program := tea.NewProgram(tui.New(w),
			tea.WithContext(ctx),
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(cmd.ErrOrStderr()),
		)
		m, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			// Interrupted; leaves final without a choice.
			return nil
		}
		if err != nil {
			return fmt.Errorf("run picker: %w", err)
		}
		final = m.(tui.Model)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if err := final.Err(); err != nil {
		return err
	}

	chosen, ok := final.Chosen()
	if !ok {
		exitWithCode(ExitNoSelection, "No country selected")
		return nil
	}

	if err := st.Save(); err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	return output.NewSelection(chosen, st.UpdatedAt()).Write(cmd.OutOrStdout(), settings.Output)
}
