package report

import (
	"github.com/p-n-ai/pratico-importer/internal/importer"
	"github.com/p-n-ai/pratico-importer/internal/platform/metrics"
)

// RunStats converts a run result into the metrics summary.
func RunStats(res *importer.Result, runErr error) metrics.RunStats {
	batches := map[string]int{}
	for _, s := range []importer.Status{
		importer.StatusImported,
		importer.StatusFailed,
		importer.StatusSkipped,
		importer.StatusInvalid,
	} {
		batches[string(s)] = res.CountStatus(s)
	}

	return metrics.RunStats{
		Imported:      res.Imported,
		Failed:        res.Failed,
		Invalid:       res.Invalid,
		TopicsCreated: res.TopicsCreated(),
		Batches:       batches,
		Duration:      res.Duration(),
		Success:       runErr == nil,
	}
}
