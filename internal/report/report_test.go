package report

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/pratico-importer/internal/bank"
	"github.com/p-n-ai/pratico-importer/internal/classifier"
	"github.com/p-n-ai/pratico-importer/internal/importer"
)

func sampleResult() *importer.Result {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &importer.Result{
		RunID:      "run-1",
		StartedAt:  start,
		FinishedAt: start.Add(2 * time.Second),
		Topics: map[classifier.Label]bank.TopicID{
			classifier.Navegacao: "11",
			classifier.Geral:     "13",
		},
		TopicOutcomes: []importer.TopicOutcome{
			{Label: classifier.Navegacao, ID: "11"},
			{Label: classifier.RipeamColreg, Err: errors.New("POST /topics failed: 409 - exists")},
			{Label: classifier.Geral, ID: "13"},
		},
		Batches: []importer.BatchOutcome{
			{Name: "1.json", Records: 3, Label: classifier.Navegacao, TopicID: "11", Status: importer.StatusImported, Accepted: 3},
			{Name: "2.json", Status: importer.StatusSkipped},
			{Name: "3.json", Records: 2, Label: classifier.Geral, TopicID: "13", Status: importer.StatusFailed, Err: errors.New("boom")},
			{Name: "4.json", Status: importer.StatusInvalid, Err: errors.New("not json")},
		},
		Imported: 3,
		Failed:   2,
		Invalid:  1,
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"run-1", "Imported", "Failed", "Total", "Invalid files", "2/3", "2s"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "dry run") {
		t.Error("summary should not mention dry run")
	}
}

func TestWriteSummary_DryRun(t *testing.T) {
	res := sampleResult()
	res.DryRun = true

	var buf bytes.Buffer
	if err := WriteSummary(&buf, res); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}
	if !strings.Contains(buf.String(), "dry run") {
		t.Errorf("summary should mention dry run:\n%s", buf.String())
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := WriteXLSX(path, sampleResult()); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 || sheets[0] != batchesSheet {
		t.Fatalf("sheets = %v", sheets)
	}

	rows, err := f.GetRows(batchesSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("batch rows = %d, want header + 4", len(rows))
	}
	if rows[0][0] != "File" || rows[1][0] != "1.json" || rows[1][1] != "imported" {
		t.Errorf("rows[0..1] = %v %v", rows[0], rows[1])
	}
	if rows[1][4] != "Navegação" || rows[1][5] != "11" {
		t.Errorf("imported row = %v", rows[1])
	}
	if rows[3][6] != "boom" {
		t.Errorf("failed row error = %v", rows[3])
	}

	topics, err := f.GetRows(topicsSheet)
	if err != nil {
		t.Fatalf("GetRows(topics) error = %v", err)
	}
	if len(topics) != 4 || topics[2][0] != "RIPEAM / COLREG" {
		t.Errorf("topic rows = %v", topics)
	}

	summary, err := f.GetRows(summarySheet)
	if err != nil {
		t.Fatalf("GetRows(summary) error = %v", err)
	}
	got := map[string]string{}
	for _, r := range summary {
		if len(r) >= 2 {
			got[r[0]] = r[1]
		}
	}
	if got["Imported"] != "3" || got["Failed"] != "2" || got["Total"] != "5" {
		t.Errorf("summary = %v", got)
	}
}

func TestWriteXLSX_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "report.xlsx")
	if err := WriteXLSX(path, sampleResult()); err == nil {
		t.Error("WriteXLSX() should fail for a missing directory")
	}
}

func TestMemoryJournal_Record(t *testing.T) {
	j := NewMemoryJournal()

	if err := j.Record(t.Context(), NewEntry(sampleResult(), nil)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := j.Record(t.Context(), Entry{}); err == nil {
		t.Error("Record() should reject an entry without a result")
	}
	if err := j.Record(t.Context(), Entry{Result: &importer.Result{}}); err == nil {
		t.Error("Record() should reject an entry without a run id")
	}

	entries := j.Entries()
	if len(entries) != 1 || entries[0].Result.RunID != "run-1" || entries[0].Err != "" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestNewEntry_Error(t *testing.T) {
	e := NewEntry(sampleResult(), importer.ErrAuth)
	if e.Err != "authentication failed" {
		t.Errorf("Err = %q", e.Err)
	}
}

type failingJournal struct{ err error }

func (f failingJournal) Record(context.Context, Entry) error { return f.err }

func TestMultiJournal(t *testing.T) {
	mem := NewMemoryJournal()
	boom := errors.New("boom")
	multi := MultiJournal{NopJournal{}, failingJournal{boom}, mem}

	err := multi.Record(t.Context(), NewEntry(sampleResult(), nil))
	if !errors.Is(err, boom) {
		t.Errorf("Record() error = %v, want boom", err)
	}
	if len(mem.Entries()) != 1 {
		t.Error("later journals should still be written after a failure")
	}

	if err := (MultiJournal{}).Record(t.Context(), NewEntry(sampleResult(), nil)); err != nil {
		t.Errorf("empty MultiJournal error = %v", err)
	}
}

func TestPublish_SwallowsErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mem := NewMemoryJournal()
	Publish(ctx, MultiJournal{failingJournal{errors.New("down")}, mem}, NewEntry(sampleResult(), nil))
	if len(mem.Entries()) != 1 {
		t.Error("Publish() should still write after the run context is canceled")
	}
}

func TestPostgresJournal_NilPool(t *testing.T) {
	if err := NewPostgresJournal(nil).Record(t.Context(), NewEntry(sampleResult(), nil)); err == nil {
		t.Fatal("expected error for nil pool")
	}
}

func TestRedisJournal_NilClient(t *testing.T) {
	if err := NewRedisJournal(nil, time.Hour).Record(t.Context(), NewEntry(sampleResult(), nil)); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestRunFields(t *testing.T) {
	fields := RunFields(NewEntry(sampleResult(), nil))

	if fields["imported"] != 3 || fields["failed"] != 2 || fields["total"] != 5 {
		t.Errorf("tallies = %v", fields)
	}
	if fields["batches"] != 4 || fields["topics_made"] != 2 || fields["invalid"] != 1 {
		t.Errorf("counts = %v", fields)
	}
	if fields["started_at"] != "2025-03-01T10:00:00Z" {
		t.Errorf("started_at = %v", fields["started_at"])
	}
}

func TestRunStats(t *testing.T) {
	stats := RunStats(sampleResult(), nil)

	if stats.Imported != 3 || stats.Failed != 2 || stats.Invalid != 1 || stats.TopicsCreated != 2 {
		t.Errorf("stats = %+v", stats)
	}
	want := map[string]int{"imported": 1, "failed": 1, "skipped": 1, "invalid": 1}
	for k, v := range want {
		if stats.Batches[k] != v {
			t.Errorf("Batches[%s] = %d, want %d", k, stats.Batches[k], v)
		}
	}
	if stats.Duration != 2*time.Second || !stats.Success {
		t.Errorf("Duration = %v, Success = %v", stats.Duration, stats.Success)
	}

	if RunStats(sampleResult(), importer.ErrAuth).Success {
		t.Error("a fatal run error should not count as success")
	}
}
