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
	defaultRecordType     = "biomarker"
	defaultRecordTypeSize = 50000
)

var recordTypeCmd = &cobra.Command{
	Use:   "record-type [type]",
	Short: "Download every record of a given BiomarkerKB record type",
	Long: `record-type fetches all BiomarkerKB records of the given type and writes
them to a spreadsheet. The knowledgebase distinguishes record types such as
"biomarker"; the default pulls the full biomarker catalogue, which is the
largest download this tool performs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecordType,
}

func runRecordType(cmd *cobra.Command, args []string) error {
	recordType := defaultRecordType
	if len(args) > 0 {
		recordType = args[0]
	}

	cfg := fetchConfig(cmd, "record_type.initial_size", defaultRecordTypeSize)
	output := stringSetting(cmd, "output", "record_type.output_file", "")
	if output == "" {
		output = fmt.Sprintf("record_type_%s_biomarkers.xlsx", recordType)
	}

	client := bkb.NewClient(cfg.APIConfig, os.Stdout)

	tab, err := bkb.FetchAll(context.Background(), client, bkb.RecordTypeQuery(recordType, 0), cfg)
	if err != nil {
		return err
	}

	if tab.IsEmpty() {
		fmt.Printf("no records found for record type %q\n", recordType)
	} else {
		fmt.Printf("found %d records for record type %q\n", tab.RowCount(), recordType)
	}

	if err := export.WriteTable(output, tab); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", output)
	return nil
}

func init() {
	addAPIFlags(recordTypeCmd)
	addFetchFlags(recordTypeCmd, defaultRecordTypeSize)
	recordTypeCmd.Flags().String("output", "", "output spreadsheet (default record_type_<type>_biomarkers.xlsx)")

	rootCmd.AddCommand(recordTypeCmd)
}
