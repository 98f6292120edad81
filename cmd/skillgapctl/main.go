// Command skillgapctl runs skill gap analyses locally and load-tests a running
// skill gap service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okian/skillgap/internal/adapters/catalog"
	"github.com/okian/skillgap/pkg/logger"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "skillgapctl",
		Short:         "Skill gap analyzer command line",
		Long:          "skillgapctl compares learner skills with target role profiles and drives load tests against the skill gap service.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr())); err != nil {
				return fmt.Errorf("init logging: %w", err)
			}
			return logger.SetLevelString(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn or error")

	root.AddCommand(newAnalyzeCmd(), newRolesCmd(), newLoadtestCmd())
	return root
}

// loadCatalog returns the built-in catalog, merged with path when set.
func loadCatalog(path string) (*catalog.Catalog, error) {
	roles, err := catalog.Builtin()
	if err != nil {
		return nil, fmt.Errorf("load built-in catalog: %w", err)
	}
	if path == "" {
		return roles, nil
	}
	overlay, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return catalog.Merge(roles, overlay), nil
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
