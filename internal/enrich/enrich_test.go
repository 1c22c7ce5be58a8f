// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/biomarker-engine/internal/bkb"
	"github.com/pdiddy/biomarker-engine/pkg/types"
)

// entityAPI serves the search and download endpoints with a fixed number
// of rows per entity. Entities in failSearch get HTTP 500 from the search
// endpoint.
type entityAPI struct {
	rows       map[string]int
	failSearch map[string]bool
}

func (a *entityAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/biomarker/search", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		entity, _ := payload["biomarker_entity_name"].(string)
		if a.failSearch[entity] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		resp := map[string]string{"list_id": "list-" + entity}
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/data/list_download", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		id, _ := payload["id"].(string)
		entity := strings.TrimPrefix(id, "list-")

		fmt.Fprint(w, "biomarker_canonical_id,assessed_biomarker_entity\n")
		for i := 0; i < a.rows[entity]; i++ {
			fmt.Fprintf(w, "%s-%d,%s protein\n", entity, i, entity)
		}
	})
	return mux
}

func testClient(t *testing.T, api *entityAPI) (*bkb.Client, func()) {
	t.Helper()
	ts := httptest.NewServer(api.handler())
	c := &bkb.Client{
		HTTP:      ts.Client(),
		BaseURL:   ts.URL,
		UserAgent: "biomarker-engine-test",
	}
	return c, ts.Close
}

func testConfig() types.EnrichConfig {
	var cfg types.EnrichConfig
	cfg.InitialSize = 100
	return cfg
}

func TestRunAllEntitiesNoData(t *testing.T) {
	entities := []string{"IL-6", "PSA", "CRP"}
	c, done := testClient(t, &entityAPI{rows: map[string]int{}})
	defer done()

	res, err := Run(context.Background(), c, entities, testConfig(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Table.RowCount() != len(entities) {
		t.Fatalf("rows = %d, want %d (one placeholder per entity)", res.Table.RowCount(), len(entities))
	}
	for i, row := range res.Table.Rows {
		qi := res.Table.ColumnIndex(QueryColumn)
		ci := res.Table.ColumnIndex(CanonicalIDColumn)
		if row[qi] != entities[i] {
			t.Errorf("row %d query = %q, want %q", i, row[qi], entities[i])
		}
		if row[ci] != NoDataMarker {
			t.Errorf("row %d marker = %q, want %q", i, row[ci], NoDataMarker)
		}
	}

	want := Summary{Total: 3, NoData: 3, Rows: 3}
	if res.Summary != want {
		t.Errorf("summary = %+v, want %+v", res.Summary, want)
	}
}

func TestRunMixedResults(t *testing.T) {
	// "A" returns 2 rows and "B" none: the combined table has 2 real
	// rows plus 1 placeholder.
	api := &entityAPI{rows: map[string]int{"A": 2}}
	c, done := testClient(t, api)
	defer done()

	res, err := Run(context.Background(), c, []string{"A", "B"}, testConfig(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Table.RowCount() != 3 {
		t.Fatalf("rows = %d, want 3", res.Table.RowCount())
	}

	qi := res.Table.ColumnIndex(QueryColumn)
	ci := res.Table.ColumnIndex(CanonicalIDColumn)
	if qi < 0 || ci < 0 {
		t.Fatalf("columns = %v, want both %s and %s", res.Table.Columns, QueryColumn, CanonicalIDColumn)
	}

	var queries []string
	for _, row := range res.Table.Rows {
		queries = append(queries, row[qi])
	}
	if !reflect.DeepEqual(queries, []string{"A", "A", "B"}) {
		t.Errorf("query column = %v, want [A A B]", queries)
	}

	if got := res.Table.Rows[0][ci]; got != "A-0" {
		t.Errorf("first real row id = %q, want A-0", got)
	}
	if got := res.Table.Rows[2][ci]; got != NoDataMarker {
		t.Errorf("placeholder marker = %q, want %q", got, NoDataMarker)
	}

	want := Summary{Total: 2, Enriched: 1, NoData: 1, Rows: 3}
	if res.Summary != want {
		t.Errorf("summary = %+v, want %+v", res.Summary, want)
	}
}

func TestRunRowAccounting(t *testing.T) {
	// Row count must equal the sum of real rows plus one placeholder per
	// entity without data.
	api := &entityAPI{rows: map[string]int{"A": 4, "B": 7, "C": 1}}
	c, done := testClient(t, api)
	defer done()

	entities := []string{"A", "B", "none-1", "C", "none-2"}
	res, err := Run(context.Background(), c, entities, testConfig(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantRows := 4 + 7 + 1 + 2 // real rows + two placeholders
	if res.Table.RowCount() != wantRows {
		t.Errorf("rows = %d, want %d", res.Table.RowCount(), wantRows)
	}
	if res.Summary.Enriched != 3 || res.Summary.NoData != 2 {
		t.Errorf("summary = %+v", res.Summary)
	}
}

func TestRunDefaultAbortsOnFailure(t *testing.T) {
	api := &entityAPI{
		rows:       map[string]int{"A": 2},
		failSearch: map[string]bool{"B": true},
	}
	c, done := testClient(t, api)
	defer done()

	_, err := Run(context.Background(), c, []string{"A", "B", "C"}, testConfig(), nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), `"B"`) {
		t.Errorf("error = %q, want it to name the failed entity", err)
	}
}

func TestRunKeepGoing(t *testing.T) {
	api := &entityAPI{
		rows:       map[string]int{"A": 1},
		failSearch: map[string]bool{"B": true},
	}
	c, done := testClient(t, api)
	defer done()

	cfg := testConfig()
	cfg.KeepGoing = true

	var log bytes.Buffer
	res, err := Run(context.Background(), c, []string{"A", "B"}, cfg, &log)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Table.RowCount() != 2 {
		t.Fatalf("rows = %d, want 2", res.Table.RowCount())
	}

	ci := res.Table.ColumnIndex(CanonicalIDColumn)
	if got := res.Table.Rows[1][ci]; got != FailedMarker {
		t.Errorf("marker = %q, want %q", got, FailedMarker)
	}

	if !res.Summary.HasFailures() {
		t.Error("summary should report failures")
	}
	if !strings.Contains(log.String(), "failed: B") {
		t.Errorf("log missing failure line:\n%s", log.String())
	}
}

func TestRunOutcomesInOrder(t *testing.T) {
	api := &entityAPI{
		rows:       map[string]int{"A": 2, "C": 3},
		failSearch: map[string]bool{"D": true},
	}
	c, done := testClient(t, api)
	defer done()

	cfg := testConfig()
	cfg.KeepGoing = true

	res, err := Run(context.Background(), c, []string{"A", "B", "C", "D"}, cfg, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []EntityOutcome{
		{Name: "A", Rows: 2, Status: StatusOK},
		{Name: "B", Status: StatusNoData},
		{Name: "C", Rows: 3, Status: StatusOK},
		{Name: "D", Status: StatusFailed},
	}
	if !reflect.DeepEqual(res.Entities, want) {
		t.Errorf("outcomes = %+v, want %+v", res.Entities, want)
	}

	wantSummary := Summary{Total: 4, Enriched: 2, NoData: 1, Failed: 1, Rows: 2 + 1 + 3 + 1}
	if res.Summary != wantSummary {
		t.Errorf("summary = %+v, want %+v", res.Summary, wantSummary)
	}
}

func TestRunNoEntities(t *testing.T) {
	c, done := testClient(t, &entityAPI{})
	defer done()

	res, err := Run(context.Background(), c, nil, testConfig(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Table.IsEmpty() {
		t.Errorf("rows = %d, want 0", res.Table.RowCount())
	}
	if res.Summary.Total != 0 {
		t.Errorf("total = %d, want 0", res.Summary.Total)
	}
}

func TestRunProgressOutput(t *testing.T) {
	api := &entityAPI{rows: map[string]int{"IL-6": 1}}
	c, done := testClient(t, api)
	defer done()

	var log bytes.Buffer
	if _, err := Run(context.Background(), c, []string{"IL-6", "PSA"}, testConfig(), &log); err != nil {
		t.Fatalf("Run: %v", err)
	}

	out := log.String()
	for _, want := range []string{"processing: IL-6", "processing: PSA", "no data: PSA", "Batch summary: 1 enriched, 1 without data, 0 failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}
