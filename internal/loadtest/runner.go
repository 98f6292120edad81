package loadtest

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/skillgap/pkg/logger"
)

// Run executes a complete load test against cfg.BaseURL. The returned stats
// are filled in as far as the run got, even on error.
func Run(ctx context.Context, cfg Config) (*Stats, error) {
	cfg.applyDefaults()
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting skill gap load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("role", cfg.Role),
		logger.Int("learners", cfg.Learners),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Duration("wait", cfg.Wait))

	defer func() {
		stats.EndTime = time.Now()
		stats.Duration = stats.EndTime.Sub(stats.StartTime)
	}()

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	role, err := client.Role(ctx, cfg.Role)
	if err != nil {
		return stats, fmt.Errorf("role lookup failed: %w", err)
	}

	subs, err := generateSubmissions(ctx, &cfg, role, stats)
	if err != nil {
		return stats, fmt.Errorf("learner generation failed: %w", err)
	}

	if err := submitAll(ctx, &cfg, client, subs, stats); err != nil {
		return stats, fmt.Errorf("submission failed: %w", err)
	}

	outcomes, err := collectOutcomes(ctx, &cfg, client, subs, stats)
	if err != nil {
		return stats, fmt.Errorf("result collection failed: %w", err)
	}

	top, err := client.TopReady(ctx, role.RoleName, cfg.TopN)
	if err != nil {
		return stats, fmt.Errorf("readiness ranking failed: %w", err)
	}
	stats.RankingEntries = len(top)
	stats.TopReadiness = top

	if err := verifyRanking(ctx, outcomes, top); err != nil {
		return stats, err
	}
	if err := verifyReplays(ctx, client, outcomes, cfg.Replays, stats); err != nil {
		return stats, err
	}

	logFinalStats(ctx, stats, outcomes)
	return stats, nil
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Role == "" {
		c.Role = DefaultRole
	}
	if c.Learners <= 0 {
		c.Learners = DefaultLearners
	}
	if c.TopN <= 0 {
		c.TopN = DefaultTopN
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Replays == 0 {
		c.Replays = DefaultReplays
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Wait <= 0 {
		c.Wait = DefaultWait
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
}

func logFinalStats(ctx context.Context, stats *Stats, outcomes []Outcome) {
	var successRate, perSecond float64
	if stats.Submitted > 0 {
		successRate = float64(stats.Accepted+stats.Duplicate) / float64(stats.Submitted) * percentageMultiplier
	}
	elapsed := time.Since(stats.StartTime)
	if elapsed > 0 {
		perSecond = float64(stats.Submitted) / elapsed.Seconds()
	}
	minR, maxR, avg := readinessStats(outcomes)

	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.Int("completed", stats.Completed),
		logger.Int("pending", stats.Pending),
		logger.Int("rankingEntries", stats.RankingEntries),
		logger.Int("minReadiness", minR),
		logger.Int("maxReadiness", maxR),
		logger.Float64("avgReadiness", avg),
		logger.Float64("successRate", successRate),
		logger.Float64("submissionsPerSecond", perSecond))
}
