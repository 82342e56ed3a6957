package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/p-n-ai/pratico-importer/internal/importer"
)

const journalTimeout = 5 * time.Second

// Entry is one journaled run.
type Entry struct {
	Result *importer.Result
	// Err is the fatal run error text, empty when the run completed.
	Err string
}

// Journal persists run outcomes.
type Journal interface {
	Record(ctx context.Context, e Entry) error
}

// NewEntry builds the journal entry for a finished run.
func NewEntry(res *importer.Result, runErr error) Entry {
	return Entry{Result: res, Err: errString(runErr)}
}

func (e Entry) validate() error {
	if e.Result == nil {
		return fmt.Errorf("journal entry has no result")
	}
	if e.Result.RunID == "" {
		return fmt.Errorf("run_id is required")
	}
	return nil
}

// NopJournal discards every entry.
type NopJournal struct{}

// Record discards e.
func (NopJournal) Record(context.Context, Entry) error {
	return nil
}

// MemoryJournal keeps entries in memory for tests.
type MemoryJournal struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryJournal returns an empty in-memory journal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{entries: []Entry{}}
}

// Record validates e and appends it.
func (j *MemoryJournal) Record(_ context.Context, e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}
	j.mu.Lock()
	j.entries = append(j.entries, e)
	j.mu.Unlock()
	return nil
}

// Entries returns a copy of the recorded entries.
func (j *MemoryJournal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Entry{}, j.entries...)
}

// MultiJournal records to every journal and joins their errors.
type MultiJournal []Journal

// Record writes e to every journal, continuing past failures.
func (m MultiJournal) Record(ctx context.Context, e Entry) error {
	var errs []error
	for _, j := range m {
		if err := j.Record(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Publish writes the journal entry and logs, rather than returns, a failure.
func Publish(ctx context.Context, j Journal, e Entry) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()

	if err := j.Record(ctx, e); err != nil {
		slog.Warn("run journal not written", "run_id", runID(e), "error", err)
		return
	}
	slog.Debug("run journaled", "run_id", runID(e))
}

func runID(e Entry) string {
	if e.Result == nil {
		return ""
	}
	return e.Result.RunID
}
