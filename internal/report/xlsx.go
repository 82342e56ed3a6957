package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/pratico-importer/internal/importer"
)

const (
	batchesSheet = "Batches"
	summarySheet = "Summary"
	topicsSheet  = "Topics"
)

var batchHeader = []any{"File", "Status", "Records", "Accepted", "Topic", "Topic ID", "Error"}

// WriteXLSX saves a workbook describing res to path. It has one row per
// batch file, one row per topic creation attempt and the run totals.
func WriteXLSX(path string, res *importer.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", batchesSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if err := writeRows(f, batchesSheet, batchRows(res)); err != nil {
		return err
	}

	if _, err := f.NewSheet(topicsSheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", topicsSheet, err)
	}
	if err := writeRows(f, topicsSheet, topicRows(res)); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", summarySheet, err)
	}
	if err := writeRows(f, summarySheet, summaryRows(res)); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func batchRows(res *importer.Result) [][]any {
	rows := [][]any{batchHeader}
	for _, b := range res.Batches {
		rows = append(rows, []any{
			b.Name,
			string(b.Status),
			b.Records,
			b.Accepted,
			topicName(b),
			b.TopicID.String(),
			errString(b.Err),
		})
	}
	return rows
}

func topicRows(res *importer.Result) [][]any {
	rows := [][]any{{"Topic", "Created", "Topic ID", "Error"}}
	for _, o := range res.TopicOutcomes {
		rows = append(rows, []any{o.Label.Name(), o.Created(), o.ID.String(), errString(o.Err)})
	}
	return rows
}

func summaryRows(res *importer.Result) [][]any {
	return [][]any{
		{"Run", res.RunID},
		{"Dry run", res.DryRun},
		{"Started", res.StartedAt.Format("2006-01-02 15:04:05")},
		{"Finished", res.FinishedAt.Format("2006-01-02 15:04:05")},
		{"Imported", res.Imported},
		{"Failed", res.Failed},
		{"Total", res.Total()},
		{"Invalid files", res.Invalid},
		{"Topics created", res.TopicsCreated()},
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func topicName(b importer.BatchOutcome) string {
	if b.Status == importer.StatusImported || b.Status == importer.StatusFailed {
		return b.Label.Name()
	}
	return ""
}
