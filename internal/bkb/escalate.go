// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bkb

import (
	"context"
	"fmt"

	"github.com/pdiddy/biomarker-engine/internal/table"
	"github.com/pdiddy/biomarker-engine/pkg/types"
)

// defaultMaxAttempts caps the total downloads per query, counting the
// initial one.
const defaultMaxAttempts = 4

// FetchAll creates a list for req and downloads it, escalating the
// requested size until the full result set fits. The search endpoint caps
// results at the requested size with no explicit truncation signal, so a
// row count equal to the size is treated as a full page: the search is
// re-posted with double the size and downloaded again. The loop stops when
// a download comes back smaller than the requested size, empty, or with
// the same row count as the previous attempt, or when cfg.MaxAttempts
// downloads have run. A zero cfg.InitialSize asks the server for its
// default window and downloads exactly once.
//
// Progress lines go to the client's Log writer.
func FetchAll(ctx context.Context, c *Client, req ListRequest, cfg types.FetchConfig) (table.Table, error) {
	w := c.log()

	size := cfg.InitialSize
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	attempts := 0
	prevRows := -1

	for {
		if size > 0 {
			fmt.Fprintf(w, "searching: %s (size=%d)\n", req.Description, size)
		} else {
			fmt.Fprintf(w, "searching: %s (size=auto)\n", req.Description)
		}

		listID, err := c.CreateList(ctx, req.WithSize(size))
		if err != nil {
			return table.Table{}, err
		}

		fmt.Fprintf(w, "downloading: list %s\n", listID)
		tab, err := c.DownloadList(ctx, listID)
		if err != nil {
			return table.Table{}, err
		}

		rows := tab.RowCount()
		if size > 0 && rows > 0 && rows >= size {
			fmt.Fprintf(w, "  warning: %d rows matches the requested size (%d), results may be truncated\n", rows, size)
		}
		fmt.Fprintf(w, "  retrieved %d rows\n", rows)

		if size <= 0 || rows == 0 {
			return tab, nil
		}
		if rows < size {
			return tab, nil
		}
		if rows == prevRows {
			fmt.Fprintf(w, "  row count unchanged on consecutive attempts, assuming the dataset is complete\n")
			return tab, nil
		}

		attempts++
		if attempts >= maxAttempts {
			fmt.Fprintf(w, "  size escalation limit reached, keeping the last download\n")
			return tab, nil
		}

		prevRows = rows
		size *= 2
		fmt.Fprintf(w, "  page full, retrying with size %d\n", size)
	}
}
