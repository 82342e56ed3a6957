// Package importer drives a bulk import of question batches into the bank.
//
// A run authenticates once, creates the fixed set of topics, then submits
// every batch file in order. Topic creation and batch submission failures are
// recorded and the run moves on; only authentication and batch enumeration
// failures end it.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/p-n-ai/pratico-importer/internal/bank"
	"github.com/p-n-ai/pratico-importer/internal/batch"
	"github.com/p-n-ai/pratico-importer/internal/classifier"
)

var (
	// ErrAuth means the bank could not be logged into.
	ErrAuth = errors.New("authentication failed")
	// ErrSource means the batch files could not be enumerated or read.
	ErrSource = errors.New("batch source error")
	// ErrNoTopic means neither the batch's topic nor Geral has an id.
	ErrNoTopic = errors.New("no topic id for batch")
)

// Source lists and loads batch files.
type Source interface {
	List() ([]string, error)
	Load(name string) (batch.Batch, error)
}

// Options configures a Driver.
type Options struct {
	AdminName string
	Email     string
	Password  string
	// SkipInvalid records unreadable batch files as invalid instead of
	// aborting the run.
	SkipInvalid bool
	DryRun      bool
}

// Driver runs imports against one bank and one batch source.
type Driver struct {
	bank   bank.Bank
	source Source
	opts   Options
}

// New creates a Driver.
func New(b bank.Bank, source Source, opts Options) *Driver {
	return &Driver{bank: b, source: source, opts: opts}
}

// Run performs a complete import. The returned Result is never nil and is
// filled up to the point of failure when err is non-nil.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:     uuid.NewString(),
		DryRun:    d.opts.DryRun,
		StartedAt: time.Now(),
		Topics:    make(map[classifier.Label]bank.TopicID),
	}
	defer func() { res.FinishedAt = time.Now() }()

	slog.Info("import run starting", "run_id", res.RunID, "dry_run", d.opts.DryRun)

	token, err := d.Authenticate(ctx)
	if err != nil {
		return res, err
	}

	res.Topics, res.TopicOutcomes = d.EnsureTopics(ctx, token, classifier.Labels())

	names, err := d.source.List()
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrSource, err)
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		b, err := d.source.Load(name)
		if err != nil {
			if !d.opts.SkipInvalid {
				return res, fmt.Errorf("%w: %w", ErrSource, err)
			}
			slog.Warn("batch file invalid, skipping", "file", name, "error", err)
			res.record(BatchOutcome{Name: name, Status: StatusInvalid, Err: err})
			continue
		}

		res.record(d.processBatch(ctx, token, res.Topics, b))
	}

	slog.Info("import run finished",
		"run_id", res.RunID,
		"imported", res.Imported,
		"failed", res.Failed,
		"total", res.Total(),
		"invalid", res.Invalid,
	)
	return res, nil
}

// Authenticate registers the admin account, tolerating any failure, and
// logs in. Only a failed login is an error.
func (d *Driver) Authenticate(ctx context.Context) (string, error) {
	err := d.bank.Register(ctx, d.opts.AdminName, d.opts.Email, d.opts.Password)
	switch {
	case err == nil:
		slog.Info("admin account created", "email", d.opts.Email)
	case bank.IsConflict(err):
		slog.Info("admin account already exists, logging in", "email", d.opts.Email)
	default:
		slog.Warn("admin registration failed, trying login", "email", d.opts.Email, "error", err)
	}

	token, err := d.bank.Login(ctx, d.opts.Email, d.opts.Password)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuth, err)
	}
	slog.Info("logged in", "email", d.opts.Email)
	return token, nil
}

// EnsureTopics tries to create each label's topic in the given order. Labels
// whose creation fails, typically because the topic already exists, get no
// id for this run.
func (d *Driver) EnsureTopics(ctx context.Context, token string, labels []classifier.Label) (map[classifier.Label]bank.TopicID, []TopicOutcome) {
	ids := make(map[classifier.Label]bank.TopicID, len(labels))
	outcomes := make([]TopicOutcome, 0, len(labels))

	for _, label := range labels {
		topic, err := d.bank.CreateTopic(ctx, label.Name(), label.Description(), token)
		if err != nil {
			slog.Warn("topic not created", "topic", label.Name(), "error", err)
			outcomes = append(outcomes, TopicOutcome{Label: label, Err: err})
			continue
		}

		ids[label] = topic.ID
		outcomes = append(outcomes, TopicOutcome{Label: label, ID: topic.ID})
		slog.Info("topic created", "topic", label.Name(), "id", topic.ID.String())
	}
	return ids, outcomes
}

// ImportBatch submits records under topicID in a single call and returns
// the bank's accepted count.
func (d *Driver) ImportBatch(ctx context.Context, token string, topicID bank.TopicID, records []bank.Question) (int, error) {
	res, err := d.bank.ImportQuestions(ctx, topicID, records, token)
	if err != nil {
		return 0, err
	}
	return res.Accepted, nil
}

func (d *Driver) processBatch(ctx context.Context, token string, topics map[classifier.Label]bank.TopicID, b batch.Batch) BatchOutcome {
	out := BatchOutcome{Name: b.Name, Records: b.Len()}
	if b.Len() == 0 {
		out.Status = StatusSkipped
		slog.Debug("batch empty, skipping", "file", b.Name)
		return out
	}

	out.Label = classifier.Classify(b.Citation())
	topicID, ok := resolve(topics, out.Label)
	if !ok {
		out.Status = StatusFailed
		out.Err = fmt.Errorf("%w: %s", ErrNoTopic, out.Label.Name())
		slog.Error("batch failed", "file", b.Name, "records", out.Records, "topic", out.Label.Name(), "error", out.Err)
		return out
	}
	out.TopicID = topicID

	accepted, err := d.ImportBatch(ctx, token, topicID, b.Records)
	if err != nil {
		out.Status = StatusFailed
		out.Err = err
		slog.Error("batch failed", "file", b.Name, "records", out.Records, "topic", out.Label.Name(), "error", err)
		return out
	}

	out.Status = StatusImported
	out.Accepted = accepted
	slog.Info("batch imported", "file", b.Name, "records", out.Records, "topic", out.Label.Name())
	return out
}

// resolve returns the id for label, falling back to Geral.
func resolve(topics map[classifier.Label]bank.TopicID, label classifier.Label) (bank.TopicID, bool) {
	if id, ok := topics[label]; ok {
		return id, true
	}
	id, ok := topics[classifier.Geral]
	return id, ok
}
