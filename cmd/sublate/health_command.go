package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sublate/internal/preflight"
	"sublate/internal/timeline"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Run readiness checks against the configured environment",
		Long:  "Checks directories, the translation provider, external binaries, and the timeline database. Exits non-zero when a required check fails.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)
			allPassed := true

			printSectionHeader(stdout, "Checks", colorize)
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				if !result.Passed {
					allPassed = false
				}
				printStatusLine(stdout, result.Name, statusKindFor(result.Passed), result.Detail, colorize)
			}
			fmt.Fprintln(stdout)

			printSectionHeader(stdout, "Dependencies", colorize)
			for _, dep := range preflight.CheckSystemDeps(cmd.Context(), cfg) {
				detail := dep.Detail
				if detail == "" {
					detail = dep.Command
				}
				kind := statusKindFor(dep.Available)
				if !dep.Available {
					if dep.Optional {
						kind = statusWarn
					} else {
						allPassed = false
					}
				}
				printStatusLine(stdout, dep.Name, kind, detail, colorize)
			}
			fmt.Fprintln(stdout)

			if err := ctx.withStore(func(store *timeline.Store) error {
				health, err := store.CheckHealth(cmd.Context())
				if err != nil {
					return err
				}
				printSectionHeader(stdout, "Database", colorize)
				fmt.Fprintf(stdout, "Database path: %s\n", health.DBPath)
				fmt.Fprintf(stdout, "Exists: %s\n", yesNo(health.DatabaseExists))
				fmt.Fprintf(stdout, "Readable: %s\n", yesNo(health.DatabaseReadable))
				fmt.Fprintf(stdout, "Integrity check: %s\n", yesNo(health.IntegrityCheck))
				if len(health.MissingTables) > 0 {
					fmt.Fprintf(stdout, "Missing tables: %s\n", strings.Join(health.MissingTables, ", "))
				}
				fmt.Fprintf(stdout, "Videos: %d\n", health.TotalVideos)
				fmt.Fprintf(stdout, "Entries: %d\n", health.TotalEntries)
				if health.Error != "" {
					fmt.Fprintf(stdout, "Error: %s\n", health.Error)
					allPassed = false
				}
				if !health.DatabaseReadable || !health.IntegrityCheck {
					allPassed = false
				}
				return nil
			}); err != nil {
				return err
			}

			if !allPassed {
				return errors.New("health checks reported problems")
			}
			return nil
		},
	}
}
