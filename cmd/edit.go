package cmd

import (
	"github.com/spf13/cobra"

	"textools/internal/ops"
	"textools/internal/texture"
	"textools/internal/tui"
)

var (
	fillColorName string
	fillRestore   bool
)

var flipCmd = &cobra.Command{
	Use:   "flip <dir>",
	Short: "Flip every texture upside down, in place",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, ops.Flip{Dir: args[0]}, nil)
	},
}

var solidifyCmd = &cobra.Command{
	Use:   "solidify <dir>",
	Short: "Make half-transparent pixels (alpha 128) fully opaque",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, ops.AlphaRemap{Dir: args[0], Direction: ops.Solidify}, nil)
	},
}

var desolidifyCmd = &cobra.Command{
	Use:   "desolidify <dir>",
	Short: "Make fully opaque pixels half-transparent (alpha 128)",
	Long: "Turns alpha 255 into 128. This undoes solidify only for pixels that were 128 to begin\n" +
		"with: pixels that were already opaque come out half-transparent too.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, ops.AlphaRemap{Dir: args[0], Direction: ops.Desolidify}, nil)
	},
}

var fillCmd = &cobra.Command{
	Use:   "fill <dir>",
	Short: "Paint fully transparent pixels with a solid colour, or undo it with --restore",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		color := settings.FillColor
		if cmd.Flags().Changed("color") {
			parsed, err := texture.ParseFillColor(fillColorName)
			if err != nil {
				return err
			}
			color = parsed
		}

		mode := ops.Fill
		if fillRestore {
			mode = ops.Restore
		}
		op := ops.FillTransparency{Dir: args[0], Color: color, Mode: mode}
		return runTool(cmd, op, nil, tui.SummaryRow{Label: "Color", Value: tui.Swatch(color)})
	},
}

func init() {
	fillCmd.Flags().StringVarP(&fillColorName, "color", "c", "", "magenta, neon green, cyan, hot pink or bright yellow (default from config, else magenta)")
	fillCmd.Flags().BoolVar(&fillRestore, "restore", false, "turn pixels of exactly this colour back to transparent")

	rootCmd.AddCommand(flipCmd, solidifyCmd, desolidifyCmd, fillCmd)
}
