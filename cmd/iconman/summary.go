package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/icon-manager/iconman/pkg/pipeline"
)

// printResults renders the per-config outcome table and returns an
// error when any pipeline failed outright.
func printResults(cmd *cobra.Command, operation string, results []pipeline.Result) error {
	table := pterm.TableData{
		{"Config", "State", "Folders", "Matched", "Applied", "Errors"},
	}
	failed := 0
	for _, result := range results {
		state := result.State.String()
		if result.Err != nil {
			state = "failed"
			failed++
		}
		table = append(table, []string{
			result.Config,
			state,
			strconv.Itoa(result.Folders),
			strconv.Itoa(result.Matched),
			strconv.Itoa(result.Applied),
			strconv.Itoa(len(result.FolderErrors)),
		})
	}

	renderer := pterm.DefaultTable.WithHasHeader().WithData(table)
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		renderer = renderer.WithStyle(&pterm.Style{})
	}
	if err := renderer.Render(); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "failed to render summary:", err)
	}

	for _, result := range results {
		if result.Err != nil {
			pterm.Error.Printfln("%s: %v", result.Config, result.Err)
		}
		for _, folderErr := range result.FolderErrors {
			pterm.Warning.Printfln("%s: %v", result.Config, folderErr)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%s failed for %d of %d configs", operation, failed, len(results))
	}
	pterm.Success.Printfln("%s finished for %d configs", operation, len(results))
	return nil
}
