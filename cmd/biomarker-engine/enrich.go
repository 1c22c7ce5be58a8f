// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/biomarker-engine/internal/bkb"
	"github.com/pdiddy/biomarker-engine/internal/enrich"
	"github.com/pdiddy/biomarker-engine/internal/export"
	"github.com/pdiddy/biomarker-engine/pkg/types"
)

const (
	defaultInputFile   = "Biomarkers_Categorization.xlsx"
	defaultInputColumn = "BioMarker"
	defaultOutputFile  = "biomarker_results.xlsx"
	defaultEnrichSize  = 10000
)

var enrichCmd = &cobra.Command{
	Use:   "enrich [entities...]",
	Short: "Fetch BiomarkerKB records for every entity in a list",
	Long: `enrich reads biomarker entity names from a spreadsheet column (or takes
them directly as arguments), fetches the matching BiomarkerKB records one
entity at a time, and writes the combined results to a single spreadsheet.
Entities with no records get a placeholder row so every input stays
accounted for in the output.

By default the run aborts on the first lookup failure. With --keep-going a
failure is recorded as a placeholder row and the run continues.`,
	RunE: runEnrich,
}

func runEnrich(cmd *cobra.Command, args []string) error {
	cfg := enrichConfig(cmd)

	entities := args
	if len(entities) == 0 {
		var err error
		entities, err = export.ReadColumn(cfg.InputFile, cfg.InputColumn)
		if err != nil {
			return err
		}
	}
	if len(entities) == 0 {
		return fmt.Errorf("no entity names found in column %q of %s", cfg.InputColumn, cfg.InputFile)
	}

	client := bkb.NewClient(cfg.APIConfig, os.Stdout)

	result, err := enrich.Run(context.Background(), client, entities, cfg, os.Stdout)
	if err != nil {
		return err
	}

	if err := export.WriteTable(cfg.OutputFile, result.Table); err != nil {
		return err
	}
	fmt.Printf("wrote %s: %d rows, %d columns\n", cfg.OutputFile, result.Table.RowCount(), len(result.Table.Columns))

	if cfg.ReportFile != "" {
		if err := enrich.WriteReport(cfg.ReportFile, cfg, result); err != nil {
			return err
		}
		fmt.Printf("wrote report %s\n", cfg.ReportFile)
	}

	if result.Summary.HasFailures() {
		return fmt.Errorf("%d entity lookup(s) failed", result.Summary.Failed)
	}
	return nil
}

func enrichConfig(cmd *cobra.Command) types.EnrichConfig {
	var cfg types.EnrichConfig
	cfg.FetchConfig = fetchConfig(cmd, "enrich.initial_size", defaultEnrichSize)
	cfg.InputFile = stringSetting(cmd, "input", "enrich.input_file", defaultInputFile)
	cfg.InputColumn = stringSetting(cmd, "column", "enrich.input_column", defaultInputColumn)
	cfg.OutputFile = stringSetting(cmd, "output", "enrich.output_file", defaultOutputFile)
	cfg.ReportFile = stringSetting(cmd, "report", "enrich.report_file", "")
	cfg.Delay = durationSetting(cmd, "delay", "enrich.delay", 0)
	cfg.KeepGoing = boolSetting(cmd, "keep-going", "enrich.keep_going")
	return cfg
}

func init() {
	addAPIFlags(enrichCmd)
	addFetchFlags(enrichCmd, defaultEnrichSize)
	enrichCmd.Flags().String("input", "", "spreadsheet with the entity list (default "+defaultInputFile+")")
	enrichCmd.Flags().String("column", "", "entity column header (default "+defaultInputColumn+")")
	enrichCmd.Flags().String("output", "", "output spreadsheet (default "+defaultOutputFile+")")
	enrichCmd.Flags().String("report", "", "write a YAML run report to this path")
	enrichCmd.Flags().Duration("delay", 0, "pause between entity fetches")
	enrichCmd.Flags().Bool("keep-going", false, "record lookup failures as placeholder rows instead of aborting")

	rootCmd.AddCommand(enrichCmd)
}
