package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	app "github.com/rocketscienceinc/tictactoe-local/internal"
	"github.com/rocketscienceinc/tictactoe-local/internal/config"
	"github.com/rocketscienceinc/tictactoe-local/internal/console"
)

const defaultConfigPath = "./config.yml"

func newCmd() *cobra.Command {
	var configPath string

	serve := func(_ *cobra.Command, _ []string) error {
		conf := initConfig(configPath)
		logger := initLogger(conf)

		return app.RunApp(logger, conf)
	}

	cmd := &cobra.Command{
		Use:     "tictactoe",
		Short:   "Two-player Tic Tac Toe on one screen, with undo.",
		Args:    cobra.NoArgs,
		Version: releaseVersion,
		RunE:    serve,
	}

	fs := cmd.PersistentFlags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.StringVarP(&configPath, "config", "c", defaultConfigPath, "path to the YAML config file, empty to read only the environment")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the board in the browser",
			Args:  cobra.NoArgs,
			RunE:  serve,
		},
		&cobra.Command{
			Use:   "play",
			Short: "Play on this terminal",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				return console.New(cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
			},
		},
	)

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("tictactoe v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

// initialize config.
func initConfig(path string) *config.Config {
	if path == "" {
		return config.MustLoad("")
	}

	if _, err := os.Stat(path); err != nil {
		panic(fmt.Errorf("failed to find config file: %w", err))
	}

	return config.MustLoad(path)
}

// initialize logger.
func initLogger(conf *config.Config) *slog.Logger {
	level, _ := conf.SlogLevel()

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
