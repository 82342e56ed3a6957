package report

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/p-n-ai/pratico-importer/internal/platform/cache"
)

// recentRuns bounds the recent-runs list.
const recentRuns = 50

// RedisJournal stores a summary hash per run and a list of recent run ids.
type RedisJournal struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisJournal creates a journal whose run hashes expire after ttl.
// A zero ttl keeps them forever.
func NewRedisJournal(client redis.Cmdable, ttl time.Duration) *RedisJournal {
	return &RedisJournal{client: client, ttl: ttl}
}

// Record stores the run hash and prepends the run to the recent list.
func (j *RedisJournal) Record(ctx context.Context, e Entry) error {
	if j == nil || j.client == nil {
		return fmt.Errorf("journal client is nil")
	}
	if err := e.validate(); err != nil {
		return err
	}
	res := e.Result
	key := cache.RunKey(res.RunID)

	_, err := j.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, RunFields(e))
		if j.ttl > 0 {
			pipe.Expire(ctx, key, j.ttl)
		}
		pipe.LPush(ctx, cache.RecentRunsKey(), res.RunID)
		pipe.LTrim(ctx, cache.RecentRunsKey(), 0, recentRuns-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("write run %s: %w", res.RunID, err)
	}
	return nil
}

// RunFields is the hash stored for a run.
func RunFields(e Entry) map[string]any {
	res := e.Result
	return map[string]any{
		"dry_run":     res.DryRun,
		"started_at":  res.StartedAt.UTC().Format(time.RFC3339),
		"finished_at": res.FinishedAt.UTC().Format(time.RFC3339),
		"imported":    res.Imported,
		"failed":      res.Failed,
		"total":       res.Total(),
		"invalid":     res.Invalid,
		"batches":     len(res.Batches),
		"topics_made": res.TopicsCreated(),
		"error":       e.Err,
	}
}
