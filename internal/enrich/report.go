// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/biomarker-engine/pkg/types"
)

// Report is the on-disk record of one enrichment run: what was asked for,
// how each entity fared, and the final counts.
type Report struct {
	GeneratedAt time.Time       `yaml:"generated_at"`
	Input       ReportInput     `yaml:"input"`
	Summary     Summary         `yaml:"summary"`
	Entities    []EntityOutcome `yaml:"entities"`
}

// ReportInput stores the run parameters in a serializable form.
type ReportInput struct {
	InputFile   string `yaml:"input_file,omitempty"`
	InputColumn string `yaml:"input_column,omitempty"`
	OutputFile  string `yaml:"output_file"`
	InitialSize int    `yaml:"initial_size,omitempty"`
	KeepGoing   bool   `yaml:"keep_going,omitempty"`
}

// WriteReport saves a YAML run report to path.
func WriteReport(path string, cfg types.EnrichConfig, res Result) error {
	rep := Report{
		GeneratedAt: time.Now(),
		Input: ReportInput{
			InputFile:   cfg.InputFile,
			InputColumn: cfg.InputColumn,
			OutputFile:  cfg.OutputFile,
			InitialSize: cfg.InitialSize,
			KeepGoing:   cfg.KeepGoing,
		},
		Summary:  res.Summary,
		Entities: res.Entities,
	}

	data, err := yaml.Marshal(&rep)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadReport loads a previously written run report.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var rep Report
	if err := yaml.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return &rep, nil
}
