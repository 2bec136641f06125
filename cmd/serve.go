package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/recipebox/internal/api"
	"github.com/jon4hz/recipebox/internal/config"
	"github.com/jon4hz/recipebox/internal/database"
	"github.com/jon4hz/recipebox/internal/maintenance"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recipebox server",
	Long:  `Start the recipebox HTTP server. Running recipebox without a subcommand does the same.`,
	Example: `recipebox serve --config config.yml
recipebox serve -c /path/to/config.yml --log-level debug
`,
	Run: startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startServer(cmd *cobra.Command, _ []string) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close() //nolint:errcheck

	server, err := api.New(cfg, db, log.GetLevel() == log.DebugLevel)
	if err != nil {
		log.Fatalf("failed to create API server: %v", err)
	}

	if cfg.Maintenance != nil && cfg.Maintenance.Enabled {
		sched, err := maintenance.Start(maintenance.New(db, cfg.Database.Path, cfg.Maintenance), cfg.Maintenance)
		if err != nil {
			log.Fatalf("failed to start maintenance scheduler: %v", err)
		}
		defer sched.Stop() //nolint:errcheck
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting API server", "listen", cfg.Listen)
		return server.Run()
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	log.Info("recipebox started successfully")
	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
		return
	}
	log.Info("recipebox stopped")
}
