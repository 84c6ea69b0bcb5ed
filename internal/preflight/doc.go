// Package preflight provides readiness checks for the external tools and
// services the pipeline depends on.
//
// These checks run in two contexts:
//   - The daemon command calls RunAll before entering the poll loop, so a
//     missing binary or unreachable translation API is reported up front
//     instead of failing the first run.
//   - The CLI "sublate health" command uses the individual check functions
//     to display tool and service status.
package preflight
