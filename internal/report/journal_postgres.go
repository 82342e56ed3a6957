package report

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresJournal writes runs to the import_runs and import_batches tables.
type PostgresJournal struct {
	pool *pgxpool.Pool
}

// NewPostgresJournal creates a journal backed by pool.
func NewPostgresJournal(pool *pgxpool.Pool) *PostgresJournal {
	return &PostgresJournal{pool: pool}
}

// Record inserts the run and its batches in one transaction.
func (j *PostgresJournal) Record(ctx context.Context, e Entry) error {
	if j == nil || j.pool == nil {
		return fmt.Errorf("journal pool is nil")
	}
	if err := e.validate(); err != nil {
		return err
	}
	res := e.Result

	tx, err := j.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin journal tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO import_runs
		   (run_id, dry_run, started_at, finished_at, imported, failed, invalid, topics_made, error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		res.RunID,
		res.DryRun,
		res.StartedAt,
		res.FinishedAt,
		res.Imported,
		res.Failed,
		res.Invalid,
		res.TopicsCreated(),
		e.Err,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, b := range res.Batches {
		if _, err := tx.Exec(ctx,
			`INSERT INTO import_batches
			   (run_id, position, file, records, topic, topic_id, status, accepted, error)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			res.RunID,
			i+1,
			b.Name,
			b.Records,
			topicName(b),
			b.TopicID.String(),
			string(b.Status),
			b.Accepted,
			errString(b.Err),
		); err != nil {
			return fmt.Errorf("insert batch %s: %w", b.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit journal tx: %w", err)
	}
	return nil
}
