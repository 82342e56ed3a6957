// Package report publishes the outcome of an import run: a console
// summary, an optional XLSX workbook and optional run journals.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/p-n-ai/pratico-importer/internal/importer"
)

// WriteSummary renders the final run summary as a table on w.
func WriteSummary(w io.Writer, res *importer.Result) error {
	table := tablewriter.NewWriter(w)
	table.Header("Summary", "Value")

	rows := [][2]string{
		{"Run", res.RunID},
		{"Imported", strconv.Itoa(res.Imported)},
		{"Failed", strconv.Itoa(res.Failed)},
		{"Total", strconv.Itoa(res.Total())},
		{"Batches", strconv.Itoa(len(res.Batches))},
		{"Skipped (empty)", strconv.Itoa(res.CountStatus(importer.StatusSkipped))},
		{"Invalid files", strconv.Itoa(res.Invalid)},
		{"Topics created", fmt.Sprintf("%d/%d", res.TopicsCreated(), len(res.TopicOutcomes))},
		{"Duration", res.Duration().Round(time.Millisecond).String()},
	}
	if res.DryRun {
		rows = append(rows, [2]string{"Mode", "dry run"})
	}

	for _, row := range rows {
		if err := table.Append(row[0], row[1]); err != nil {
			return fmt.Errorf("rendering summary: %w", err)
		}
	}
	return table.Render()
}
