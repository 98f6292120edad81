package loadtest

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/skillgap/internal/domain/model"
	"github.com/okian/skillgap/pkg/logger"
)

// collectOutcomes polls every stored submission until it leaves the pending state or
// cfg.Wait elapses. Submissions still pending at the deadline are counted in
// stats.Pending.
func collectOutcomes(ctx context.Context, cfg *Config, client *Client, subs []Submission, stats *Stats) ([]Outcome, error) {
	log := logger.Get()
	log.Info(ctx, "waiting for analyses", logger.Int("count", len(subs)), logger.Duration("wait", cfg.Wait))

	waitCtx, cancel := context.WithTimeout(ctx, cfg.Wait)
	defer cancel()

	var (
		mu       sync.Mutex
		outcomes = make([]Outcome, 0, len(subs))
		pending  int
	)

	g, gctx := errgroup.WithContext(waitCtx)
	g.SetLimit(cfg.Workers)
	for i := range subs {
		sub := &subs[i]
		if sub.result != resultAccepted && sub.result != resultDuplicate {
			continue
		}
		g.Go(func() error {
			rec, done := pollRecord(gctx, cfg, client, sub.RequestID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case !done:
				pending++
			case rec.Status == model.StatusDone && rec.Bundle != nil:
				outcomes = append(outcomes, Outcome{LearnerID: sub.LearnerID, Readiness: rec.Bundle.Readiness, Bundle: rec.Bundle, sub: sub})
			case cfg.Verbose:
				log.Warn(gctx, "analysis failed", logger.String("request_id", sub.RequestID), logger.String("error", rec.Error))
			}
			return nil
		})
	}
	_ = g.Wait()

	stats.Completed = len(outcomes)
	stats.Pending = pending
	log.Info(ctx, "analyses collected", logger.Int("completed", stats.Completed), logger.Int("pending", stats.Pending))

	// the run's own context ending is an error; the wait deadline is not
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// pollRecord reports the final record of requestID, or done=false if it is
// still pending when ctx ends.
func pollRecord(ctx context.Context, cfg *Config, client *Client, requestID string) (model.AnalysisRecord, bool) {
	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for {
		rec, err := client.Analysis(ctx, requestID)
		if err == nil && rec.Status != model.StatusPending {
			return rec, true
		}
		select {
		case <-ctx.Done():
			return model.AnalysisRecord{}, false
		case <-ticker.C:
		}
	}
}
