package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"textools/internal/ops"
	"textools/internal/processor"
	"textools/internal/reconcile"
	"textools/internal/tui"
)

// runTool runs op and prints its summary table. Events go to the progress view,
// or to the logger with --plain. Duplicate removal always logs so that the
// confirmation prompt gets the terminal to itself.
func runTool(cmd *cobra.Command, op ops.Operation, confirmer reconcile.Confirmer, extra ...tui.SummaryRow) error {
	ctx := cmd.Context()
	env := ops.Env{Workers: settings.Workers, Confirmer: confirmer}
	started := time.Now()

	var (
		summary processor.Summary
		err     error
	)
	if settings.Plain || op.Tool() == ops.ToolDuplicateRemoval {
		env.Sink = processor.LogSink{Logger: *zerolog.Ctx(ctx)}
		summary, err = ops.Run(ctx, op, env)
	} else {
		summary, err = runWithProgress(cmd, op, env)
	}

	if summary.Total > 0 {
		rows := append(tui.SummaryRows(op.Tool().String(), summary, time.Since(started)), extra...)
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, tui.RenderSummary(rows))
		if failures := tui.RenderFailures(summary); failures != "" {
			fmt.Fprintln(out, failures)
		}
	}
	return err
}

// runWithProgress drives the bubbletea view from the batch's event stream. If
// the view is closed early the batch is cancelled and the stream drained so the
// collector never blocks.
func runWithProgress(cmd *cobra.Command, op ops.Operation, env ops.Env) (processor.Summary, error) {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	events := make(chan processor.Event, 64)
	env.Sink = processor.ChanSink(events)

	var (
		summary processor.Summary
		err     error
	)
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		summary, err = ops.Run(ctx, op, env)
		close(events)
	}()

	program := tea.NewProgram(
		tui.NewModel(op.Tool().String(), events),
		tea.WithContext(ctx),
		tea.WithOutput(cmd.ErrOrStderr()),
	)
	final, uiErr := program.Run()
	if m, ok := final.(tui.Model); uiErr != nil || !ok || m.Interrupted() {
		if uiErr != nil {
			zerolog.Ctx(ctx).Debug().Err(uiErr).Msg("progress view stopped")
		}
		cancel()
		for range events {
		}
	}
	<-runDone
	return summary, err
}
