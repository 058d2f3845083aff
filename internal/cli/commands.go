// Package cli implements the harunode command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/harunode/internal/app"
	"github.com/MrSnakeDoc/harunode/internal/config"
	"github.com/MrSnakeDoc/harunode/internal/logger"
	"github.com/MrSnakeDoc/harunode/internal/utils"
	"github.com/MrSnakeDoc/harunode/internal/version"
)

// opener opens the core for a command. Tests replace it.
type opener func(ctx context.Context) (*app.Core, func(), error)

func New() *cobra.Command {
	return newRoot(openFromEnv)
}

func newRoot(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "harunode",
		Short:         "A personal mood diary with music recommendations.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.String(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addServe(cmd)
	addAdd(cmd, open)
	addEntries(cmd, open)
	addBadges(cmd, open)
	addStats(cmd, open)
	addExport(cmd, open)
	addImport(cmd, open)
	addSeed(cmd, open)
	return cmd
}

// openFromEnv loads the environment configuration and opens the core with a
// quiet logger, since commands print their own output.
func openFromEnv(ctx context.Context) (*app.Core, func(), error) {
	cfg := config.Load()
	log := logger.New("error", false)
	if cfg.LogLevel == "debug" {
		log = logger.New(cfg.LogLevel, cfg.PrettyLog)
	}

	core, err := app.OpenCore(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return core, func() {
		utils.CloseLogged(core, log, "store")
		_ = log.Sync()
	}, nil
}

func addServe(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP API",
		Example: `
HARU_DATA_DIR=~/.harunode harunode serve
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.New(cfg.LogLevel, cfg.PrettyLog)
			defer func() { _ = log.Sync() }()

			core, err := app.OpenCore(cmd.Context(), cfg, log)
			if err != nil {
				return fmt.Errorf("failed to open core: %w", err)
			}
			defer utils.CloseLogged(core, log, "store")

			return app.New(cfg, log, core).Run(cmd.Context())
		},
	}
	topLevel.AddCommand(cmd)
}
