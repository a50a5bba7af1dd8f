package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"textools/internal/ops"
	"textools/internal/reconcile"
	"textools/internal/tui"
)

var dedupeYes bool

var sweepCmd = &cobra.Command{
	Use:   "sweep <dir>",
	Short: "Delete BKP_ backup textures",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, ops.PrefixSweep{Dir: args[0]}, nil)
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync <source> <dest>",
	Short: "Copy textures that dest is missing from source",
	Long:  "Copies every texture of source whose name is not in dest. Existing files are never overwritten; dest is created if missing.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, ops.FindAndSync{SourceDir: args[0], DestDir: args[1]}, nil)
	},
}

var replaceCmd = &cobra.Command{
	Use:   "replace <source> <dest>",
	Short: "Overwrite dest textures with the same-named source textures",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, ops.CompareAndReplace{SourceDir: args[0], DestDir: args[1]}, nil)
	},
}

var dedupeCmd = &cobra.Command{
	Use:   "dedupe <source> <dest>",
	Short: "Delete dest textures that also exist in source",
	Long:  "Lists every texture of dest whose name also exists in source and deletes them after confirmation.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var confirmer reconcile.Confirmer
		switch {
		case dedupeYes:
			confirmer = reconcile.ConfirmFunc(func(context.Context, string, []string) (bool, error) {
				return true, nil
			})
		case settings.Plain:
			confirmer = linePrompt{in: cmd.InOrStdin(), out: cmd.ErrOrStderr()}
		default:
			confirmer = tui.Prompter{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()}
		}

		err := runTool(cmd, ops.DuplicateRemoval{SourceDir: args[0], DestDir: args[1]}, confirmer)
		if errors.Is(err, reconcile.ErrNotConfirmed) {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted.")
			return nil
		}
		return err
	},
}

// linePrompt reads a y/N answer from a plain line of input.
type linePrompt struct {
	in  io.Reader
	out io.Writer
}

func (p linePrompt) ConfirmDeletion(_ context.Context, dir string, names []string) (bool, error) {
	fmt.Fprintf(p.out, "Delete %d files from %s? This cannot be undone. [y/N] ", len(names), dir)
	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, errors.Errorf("reading answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func init() {
	dedupeCmd.Flags().BoolVarP(&dedupeYes, "yes", "y", false, "delete without asking")

	rootCmd.AddCommand(sweepCmd, syncCmd, replaceCmd, dedupeCmd)
}
