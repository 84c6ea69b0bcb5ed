package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sublate/internal/daemonctl"
	"sublate/internal/daemonrun"
	"sublate/internal/preflight"
	"sublate/internal/timeline"
)

const (
	daemonStartTimeout = 10 * time.Second
	daemonStopGrace    = 5 * time.Second
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the sublate daemon in the foreground",
		Long:  "Runs the workflow manager until interrupted. Use 'sublate daemon start' to launch a background process instead.",
		Annotations: map[string]string{
			"skipConfigLoad": "true",
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{
				LogLevel: ctx.resolvedLogLevel(cfg),
			})
		},
	}

	cmd.AddCommand(newDaemonStartCommand(ctx))
	cmd.AddCommand(newDaemonStopCommand(ctx))
	cmd.AddCommand(newDaemonStatusCommand(ctx))
	return cmd
}

func newDaemonStartCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the sublate daemon in the background",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("locate sublate executable: %w", err)
			}
			result, err := daemonctl.EnsureStarted(cfg, exe, launchOptions(ctx), daemonStartTimeout)
			if err != nil {
				return err
			}
			if result.State == daemonctl.StartStateAlreadyRunning {
				fmt.Fprintf(cmd.OutOrStdout(), "Daemon already running (pid %d)\n", result.PID)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Daemon started (pid %d)\n", result.PID)
			return nil
		},
	}
}

func newDaemonStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the background sublate daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			result, err := daemonctl.StopAndTerminate(cfg, daemonStopGrace)
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(cmd.OutOrStdout(), "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if result.ForcedKill {
				fmt.Fprintf(cmd.OutOrStdout(), "Daemon killed after grace period (pid %d)\n", result.PID)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Daemon stopped (pid %d)\n", result.PID)
			return nil
		},
	}
}

func newDaemonStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon, dependency, and video status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			alive, pid, err := daemonctl.ProcessInfo(cfg)
			if err != nil {
				return err
			}
			printSectionHeader(stdout, "Daemon", colorize)
			if alive {
				printStatusLine(stdout, "Sublate", statusOK, fmt.Sprintf("Running (pid %d)", pid), colorize)
			} else {
				printStatusLine(stdout, "Sublate", statusWarn, "Not running (run 'sublate daemon start')", colorize)
			}
			fmt.Fprintln(stdout)

			printSectionHeader(stdout, "Dependencies", colorize)
			for _, dep := range preflight.CheckSystemDeps(cmd.Context(), cfg) {
				detail := dep.Detail
				if detail == "" {
					detail = dep.Command
				}
				kind := statusKindFor(dep.Available)
				if !dep.Available && dep.Optional {
					kind = statusWarn
				}
				printStatusLine(stdout, dep.Name, kind, detail, colorize)
			}
			fmt.Fprintln(stdout)

			printSectionHeader(stdout, "Checks", colorize)
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				printStatusLine(stdout, result.Name, statusKindFor(result.Passed), result.Detail, colorize)
			}
			fmt.Fprintln(stdout)

			return ctx.withStore(func(store *timeline.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				printSectionHeader(stdout, "Videos", colorize)
				rows := buildVideoStatusRows(stats)
				if len(rows) == 0 {
					fmt.Fprintln(stdout, "  No videos registered")
					return nil
				}
				rendered := renderTable(
					[]string{"Status", "Count"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				)
				fmt.Fprintln(stdout, rendered)
				return nil
			})
		},
	}
}

func launchOptions(ctx *commandContext) daemonctl.LaunchOptions {
	opts := daemonctl.LaunchOptions{ConfigPath: ctx.configPath()}
	if ctx.logLevelFlag != nil {
		opts.LogLevel = strings.TrimSpace(*ctx.logLevelFlag)
	}
	return opts
}
