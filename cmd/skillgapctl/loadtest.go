package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/okian/skillgap/internal/loadtest"
)

// defaultWorkerMultiplier scales runtime.NumCPU() for the default worker count.
const defaultWorkerMultiplier = 2

func newLoadtestCmd() *cobra.Command {
	cfg := loadtest.Config{}

	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Submit concurrent analyses to a running service and verify its readiness ranking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := loadtest.Run(cmd.Context(), cfg)
			if stats != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(),
					"submitted=%d accepted=%d duplicate=%d rejected=%d failed=%d completed=%d pending=%d replayed=%d ranked=%d duration=%s\n",
					stats.Submitted, stats.Accepted, stats.Duplicate, stats.Rejected, stats.Failed,
					stats.Completed, stats.Pending, stats.Replayed, stats.RankingEntries, stats.Duration)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", loadtest.DefaultBaseURL, "Base URL of the service")
	f.StringVar(&cfg.Role, "role", loadtest.DefaultRole, "Catalog role every learner is analyzed against")
	f.IntVar(&cfg.Learners, "learners", loadtest.DefaultLearners, "Number of learners to submit")
	f.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*defaultWorkerMultiplier, "Number of concurrent workers")
	f.IntVar(&cfg.Replays, "replays", loadtest.DefaultReplays, "Completed analyses re-run synchronously; negative skips")
	f.IntVar(&cfg.TopN, "top", loadtest.DefaultTopN, "Number of readiness entries to fetch")
	f.DurationVar(&cfg.Timeout, "timeout", loadtest.DefaultTimeout, "HTTP request timeout")
	f.DurationVar(&cfg.Wait, "wait", loadtest.DefaultWait, "How long to wait for queued analyses")
	f.DurationVar(&cfg.PollInterval, "poll", loadtest.DefaultPollInterval, "Delay between result polls")
	f.Uint64Var(&cfg.Seed, "seed", 0, "Seed for generated confidences; 0 picks one")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log every failed request")
	return cmd
}
