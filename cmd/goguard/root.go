package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	goGuard "github.com/MrEthical07/goGuard"
	"github.com/spf13/cobra"
)

// errRejected makes the process exit non-zero after the rejection itself has
// been printed.
var errRejected = errors.New("rejected")

type app struct {
	configPath string
	debug      bool
	monitor    *goGuard.Monitor
}

func newRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "goguard",
		Short: "goGuard - input validation, sanitization and permission checks",
		Long: `goguard runs the goGuard Monitor from the command line.

Every subcommand loads the optional --config YAML file over the defaults, so the
same file used by a service can be checked here before it ships.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.monitor != nil {
				a.monitor.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(newValidateCommand(a))
	cmd.AddCommand(newSanitizeCommand(a))
	cmd.AddCommand(newTokenCommand(a))
	cmd.AddCommand(newUploadCommand(a))
	cmd.AddCommand(newPermCommand(a))
	cmd.AddCommand(newRulesCommand(a))
	cmd.AddCommand(newReportCommand(a))

	return cmd
}

func (a *app) open(logOut io.Writer) error {
	cfg := goGuard.DefaultConfig()
	if a.configPath != "" {
		loaded, err := goGuard.LoadConfig(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	// The CLI has no Redis and exits immediately; audit and signals would only
	// add a goroutine.
	cfg.Audit.Enabled = false
	cfg.Signals.Enabled = false

	level := slog.LevelWarn
	if a.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))

	m, err := goGuard.New().WithConfig(cfg).WithLogger(logger).Build()
	if err != nil {
		return fmt.Errorf("build monitor: %w", err)
	}
	a.monitor = m
	return nil
}
