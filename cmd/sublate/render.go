package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// renderTable renders rows with the rounded style shared by all tabular output.
func renderTable(headers []string, rows [][]string, alignments []columnAlignment) string {
	writer := table.NewWriter()
	writer.SetStyle(table.StyleRounded)

	headerRow := make(table.Row, len(headers))
	for i, header := range headers {
		headerRow[i] = header
	}
	writer.AppendHeader(headerRow)

	configs := make([]table.ColumnConfig, 0, len(headers))
	for idx := range headers {
		align := text.AlignLeft
		if idx < len(alignments) && alignments[idx] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      idx + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	writer.SetColumnConfigs(configs)

	for _, row := range rows {
		tableRow := make(table.Row, len(row))
		for i, cell := range row {
			tableRow[i] = cell
		}
		writer.AppendRow(tableRow)
	}

	return writer.Render()
}

type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
)

func statusColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	default:
		return ""
	}
}

func statusKindFor(ok bool) statusKind {
	if ok {
		return statusOK
	}
	return statusError
}

// printStatusLine writes an aligned "Label: detail" line, coloring the label
// when the destination is a terminal.
func printStatusLine(w io.Writer, label string, kind statusKind, detail string, colorize bool) {
	const labelWidth = 20
	padded := fmt.Sprintf("%-*s", labelWidth, label+":")
	if colorize {
		if color := statusColor(kind); color != "" {
			padded = color + padded + ansiReset
		}
	}
	fmt.Fprintf(w, "  %s %s\n", padded, detail)
}

func printSectionHeader(w io.Writer, title string, colorize bool) {
	header := fmt.Sprintf("== %s ==", title)
	if colorize {
		header = ansiBold + header + ansiReset
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(title)+6))
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
