// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/biomarker-engine/internal/bkb"
	"github.com/pdiddy/biomarker-engine/internal/export"
)

const (
	defaultSpecimen     = "cerebrospinal fluid"
	defaultSpecimenSize = 50000
)

var specimenCmd = &cobra.Command{
	Use:   "specimen [name]",
	Short: "Download every biomarker recorded for a specimen",
	Long: `specimen fetches all BiomarkerKB records whose specimen matches the given
name (for example "cerebrospinal fluid" or "blood") and writes them to a
spreadsheet. The output file is written even when the search finds nothing,
so downstream steps always have a file to read.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSpecimen,
}

func runSpecimen(cmd *cobra.Command, args []string) error {
	name := defaultSpecimen
	if len(args) > 0 {
		name = args[0]
	}

	cfg := fetchConfig(cmd, "specimen.initial_size", defaultSpecimenSize)
	output := stringSetting(cmd, "output", "specimen.output_file", "")
	if output == "" {
		output = name + "_specimen_biomarkers.xlsx"
	}

	client := bkb.NewClient(cfg.APIConfig, os.Stdout)

	tab, err := bkb.FetchAll(context.Background(), client, bkb.SpecimenQuery(name, 0), cfg)
	if err != nil {
		return err
	}

	if tab.IsEmpty() {
		fmt.Printf("no biomarkers found for specimen %q\n", name)
	} else {
		fmt.Printf("found %d biomarkers for specimen %q\n", tab.RowCount(), name)
	}

	if err := export.WriteTable(output, tab); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", output)
	return nil
}

func init() {
	addAPIFlags(specimenCmd)
	addFetchFlags(specimenCmd, defaultSpecimenSize)
	specimenCmd.Flags().String("output", "", "output spreadsheet (default <name>_specimen_biomarkers.xlsx)")

	rootCmd.AddCommand(specimenCmd)
}
