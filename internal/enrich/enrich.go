// Package enrich runs the multi-entity enrichment: fetch records for every
// entity in an input list, tag them with the query that produced them, and
// assemble one combined table with placeholder rows for entities that
// matched nothing.
package enrich

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/biomarker-engine/internal/bkb"
	"github.com/pdiddy/biomarker-engine/internal/table"
	"github.com/pdiddy/biomarker-engine/pkg/types"
)

// Column names added to the combined table. QueryColumn tags every real
// row with the entity that produced it; placeholder rows carry a marker in
// CanonicalIDColumn instead of data.
const (
	QueryColumn       = "query_biomarker"
	CanonicalIDColumn = "biomarker_canonical_id"
)

// Placeholder markers. NoDataMarker records an entity the API matched
// nothing for; FailedMarker records an entity whose fetch errored while
// the run kept going.
const (
	NoDataMarker = "No data found"
	FailedMarker = "Lookup failed"
)

// Per-entity statuses.
const (
	StatusOK     = "ok"
	StatusNoData = "no-data"
	StatusFailed = "failed"
)

// EntityOutcome records how one entity's fetch went.
type EntityOutcome struct {
	Name   string `json:"name" yaml:"name"`
	Rows   int    `json:"rows" yaml:"rows"`
	Status string `json:"status" yaml:"status"`
}

// Summary holds the counts for one enrichment run.
type Summary struct {
	Total    int `json:"total" yaml:"total"`
	Enriched int `json:"enriched" yaml:"enriched"`
	NoData   int `json:"no_data" yaml:"no_data"`
	Failed   int `json:"failed" yaml:"failed"`
	Rows     int `json:"rows" yaml:"rows"`
}

// HasFailures reports whether any entity's fetch failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Result is the outcome of an enrichment run.
type Result struct {
	Table    table.Table
	Entities []EntityOutcome
	Summary  Summary
}

// Run fetches records for every entity in input order and assembles the
// combined table. One placeholder row is appended for every entity that
// produced no real rows, so the table accounts for each input entity at
// least once.
//
// By default any fetch error aborts the run before a table is assembled.
// With cfg.KeepGoing the failed entity becomes a placeholder row carrying
// FailedMarker and the run continues.
func Run(ctx context.Context, c *bkb.Client, entities []string, cfg types.EnrichConfig, w io.Writer) (Result, error) {
	if w == nil {
		w = io.Discard
	}

	var parts []table.Table
	var res Result
	res.Summary.Total = len(entities)

	for i, entity := range entities {
		if i > 0 && cfg.Delay > 0 {
			time.Sleep(cfg.Delay)
		}

		fmt.Fprintf(w, "processing: %s\n", entity)

		tab, err := bkb.FetchAll(ctx, c, bkb.EntityQuery(entity, 0), cfg.FetchConfig)
		if err != nil {
			if !cfg.KeepGoing {
				return Result{}, fmt.Errorf("fetching records for %q: %w", entity, err)
			}
			fmt.Fprintf(w, "  failed: %s (%v)\n", entity, err)
			parts = append(parts, placeholder(entity, FailedMarker))
			res.Entities = append(res.Entities, EntityOutcome{Name: entity, Status: StatusFailed})
			res.Summary.Failed++
			continue
		}

		if tab.IsEmpty() {
			fmt.Fprintf(w, "  no data: %s\n", entity)
			parts = append(parts, placeholder(entity, NoDataMarker))
			res.Entities = append(res.Entities, EntityOutcome{Name: entity, Status: StatusNoData})
			res.Summary.NoData++
			continue
		}

		tab.AddColumn(QueryColumn, entity)
		parts = append(parts, tab)
		res.Entities = append(res.Entities, EntityOutcome{Name: entity, Rows: tab.RowCount(), Status: StatusOK})
		res.Summary.Enriched++
	}

	res.Table = table.Concat(parts...)
	res.Summary.Rows = res.Table.RowCount()

	fmt.Fprintf(w, "\nBatch summary: %d enriched, %d without data, %d failed (total: %d entities, %d rows)\n",
		res.Summary.Enriched, res.Summary.NoData, res.Summary.Failed, res.Summary.Total, res.Summary.Rows)
	return res, nil
}

// placeholder builds the one-row table recorded for an entity with no
// real rows.
func placeholder(entity, marker string) table.Table {
	return table.Table{
		Columns: []string{QueryColumn, CanonicalIDColumn},
		Rows:    [][]string{{entity, marker}},
	}
}
