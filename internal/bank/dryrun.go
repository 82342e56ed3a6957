package bank

import (
	"context"
	"fmt"
	"log/slog"
)

// DryRun is a Bank that performs no network calls. It logs each call and
// acknowledges it with synthetic ids.
type DryRun struct {
	topics int
}

// NewDryRun creates a dry-run bank.
func NewDryRun() *DryRun {
	return &DryRun{}
}

func (d *DryRun) Register(_ context.Context, name, email, _ string) error {
	slog.Info("[dry run] would register account", "name", name, "email", email)
	return nil
}

func (d *DryRun) Login(_ context.Context, email, _ string) (string, error) {
	slog.Info("[dry run] would log in", "email", email)
	return "dry-run-token", nil
}

func (d *DryRun) CreateTopic(_ context.Context, name, _, _ string) (Topic, error) {
	d.topics++
	id := TopicID(fmt.Sprintf("dry-run-%d", d.topics))
	slog.Info("[dry run] would create topic", "topic", name, "id", id.String())
	return Topic{ID: id, Name: name}, nil
}

func (d *DryRun) ImportQuestions(_ context.Context, topicID TopicID, questions []Question, _ string) (ImportResult, error) {
	slog.Info("[dry run] would import questions", "topic_id", topicID.String(), "records", len(questions))
	return ImportResult{Accepted: len(questions)}, nil
}
