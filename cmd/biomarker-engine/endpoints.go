// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/biomarker-engine/internal/bkb"
)

const defaultProbeTimeout = 30 * time.Second

var endpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "List the API paths advertised by the BiomarkerKB OpenAPI document",
	Long: `endpoints fetches the BiomarkerKB OpenAPI (swagger) document and prints
the advertised API paths as JSON. Useful as a connectivity check and to
discover what the API offers beyond search and download.`,
	RunE: runEndpoints,
}

func runEndpoints(cmd *cobra.Command, args []string) error {
	cfg := apiConfig(cmd)
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultProbeTimeout
	}

	// Progress goes to stderr so stdout stays parseable JSON.
	client := bkb.NewClient(cfg, os.Stderr)

	paths, err := client.Paths(context.Background())
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(paths, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding path list: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func init() {
	addAPIFlags(endpointsCmd)

	rootCmd.AddCommand(endpointsCmd)
}
