package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"textools/internal/config"
)

var (
	configPath string
	workers    int
	logLevel   string
	plain      bool
)

// settings is the config file merged with any flags given on the command line.
var settings = config.Default()

var rootCmd = &cobra.Command{
	Use:   "textools",
	Short: "textools - batch PNG texture tools for game modding",
	Long: "textools batch-processes directories of PNG textures: flip them, remap or fill their\n" +
		"transparency, sort them by alpha, and keep two texture folders in sync.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", config.DefaultPath, "settings file")
	flags.IntVarP(&workers, "workers", "w", 0, "files processed in parallel (default from config, else 8)")
	flags.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default from config, else info)")
	flags.BoolVar(&plain, "plain", false, "log lines instead of the interactive progress view")
}

// setup loads the config, applies flag overrides and puts a logger in the
// command's context.
func setup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	load := config.Load
	if cmd.Flags().Changed("config") {
		load = config.LoadFile
	}
	cfg, err := load(ctx, configPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("plain") {
		cfg.Plain = plain
	}
	if err := cfg.Validate(); err != nil {
		return errors.Errorf("flags: %w", err)
	}
	settings = cfg

	level, _ := cfg.Level()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: "15:04:05"}).
		Level(level).
		With().Timestamp().Logger()
	cmd.SetContext(logger.WithContext(ctx))
	return nil
}
