package loadtest

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/skillgap/pkg/logger"
)

// submitAll posts every submission with cfg.Workers concurrent requests.
// Request failures are counted, not returned; only cancellation stops the run.
func submitAll(ctx context.Context, cfg *Config, client *Client, subs []Submission, stats *Stats) error {
	log := logger.Get()
	log.Info(ctx, "submitting analyses", logger.Int("count", len(subs)), logger.Int("workers", cfg.Workers))

	var submitted, accepted, duplicate, rejected, failed atomic.Int64
	var lastReport atomic.Int64
	lastReport.Store(time.Now().UnixNano())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i := range subs {
		sub := &subs[i]
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := client.Submit(gctx, sub)
			sub.result = result
			submitted.Add(1)
			switch result {
			case resultAccepted:
				accepted.Add(1)
			case resultDuplicate:
				duplicate.Add(1)
			case resultRejected:
				rejected.Add(1)
			default:
				failed.Add(1)
			}
			if err != nil && cfg.Verbose {
				log.Warn(gctx, "submission failed", logger.String("request_id", sub.RequestID), logger.Error(err))
			}

			now := time.Now().UnixNano()
			last := lastReport.Load()
			if now-last >= int64(reportInterval) && lastReport.CompareAndSwap(last, now) {
				log.Info(gctx, "submission progress",
					logger.Int("submitted", int(submitted.Load())),
					logger.Int("total", len(subs)),
					logger.Int("accepted", int(accepted.Load())),
					logger.Int("failed", int(failed.Load())))
			}
			return nil
		})
	}

	err := g.Wait()

	stats.Submitted = int(submitted.Load())
	stats.Accepted = int(accepted.Load())
	stats.Duplicate = int(duplicate.Load())
	stats.Rejected = int(rejected.Load())
	stats.Failed = int(failed.Load())

	log.Info(ctx, "submission completed",
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed))

	if err != nil {
		return err
	}
	return ctx.Err()
}
