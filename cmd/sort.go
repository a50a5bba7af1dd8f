package cmd

import (
	"github.com/spf13/cobra"

	"textools/internal/ops"
)

var moveAlphaCmd = &cobra.Command{
	Use:   "move-alpha <source> <dest>",
	Short: "Move textures with any transparency into dest",
	Long:  "Moves every RGBA texture with at least one pixel below alpha 255. dest is created if missing.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, ops.AlphaMove{SourceDir: args[0], DestDir: args[1]}, nil)
	},
}

var detectPS2Cmd = &cobra.Command{
	Use:   "detect-ps2 <source> <dest>",
	Short: "Move textures whose alpha is not a flat PS2 128 into dest",
	Long:  "Moves every RGBA texture with at least one pixel whose alpha is not 128. dest is created if missing.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, ops.VariableAlphaMove{SourceDir: args[0], DestDir: args[1]}, nil)
	},
}

func init() {
	rootCmd.AddCommand(moveAlphaCmd, detectPS2Cmd)
}
