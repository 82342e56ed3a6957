package importer

import (
	"time"

	"github.com/p-n-ai/pratico-importer/internal/bank"
	"github.com/p-n-ai/pratico-importer/internal/classifier"
)

// Status is the outcome of one batch file.
type Status string

const (
	StatusImported Status = "imported"
	StatusFailed   Status = "failed"
	StatusSkipped  Status = "skipped"
	StatusInvalid  Status = "invalid"
)

// TopicOutcome records one topic creation attempt.
type TopicOutcome struct {
	Label classifier.Label
	ID    bank.TopicID
	Err   error
}

// Created reports whether the topic was created in this run.
func (o TopicOutcome) Created() bool {
	return o.Err == nil
}

// BatchOutcome records what happened to one batch file.
type BatchOutcome struct {
	Name    string
	Records int
	Label   classifier.Label
	TopicID bank.TopicID
	Status  Status
	// Accepted is the bank's own count of stored questions, when it reports one.
	Accepted int
	Err      error
}

// Result is the state of an import run: the topics it resolved, the running
// tallies and every batch outcome in processing order.
type Result struct {
	RunID      string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time

	Topics        map[classifier.Label]bank.TopicID
	TopicOutcomes []TopicOutcome
	Batches       []BatchOutcome

	Imported int
	Failed   int
	Invalid  int
}

// Total is the number of records attempted.
func (r *Result) Total() int {
	return r.Imported + r.Failed
}

// Duration is the wall time of the run so far.
func (r *Result) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// TopicsCreated counts successful topic creations.
func (r *Result) TopicsCreated() int {
	n := 0
	for _, o := range r.TopicOutcomes {
		if o.Created() {
			n++
		}
	}
	return n
}

// CountStatus counts batches with the given status.
func (r *Result) CountStatus(s Status) int {
	n := 0
	for _, b := range r.Batches {
		if b.Status == s {
			n++
		}
	}
	return n
}

func (r *Result) record(o BatchOutcome) {
	switch o.Status {
	case StatusImported:
		r.Imported += o.Records
	case StatusFailed:
		r.Failed += o.Records
	case StatusInvalid:
		r.Invalid++
	}
	r.Batches = append(r.Batches, o)
}
