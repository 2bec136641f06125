// Package maintenance keeps the SQLite database healthy while the server runs.
package maintenance

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/jon4hz/recipebox/internal/config"
	"github.com/jon4hz/recipebox/internal/database"
	"github.com/jon4hz/recipebox/internal/scheduler"
	"github.com/shirou/gopsutil/v3/disk"
)

// JobID identifies the maintenance job in the scheduler.
const JobID = "database-maintenance"

// UsageFunc reports the disk usage of the volume containing path.
type UsageFunc func(ctx context.Context, path string) (*disk.UsageStat, error)

// Task optimizes the database and watches the free space next to it.
type Task struct {
	db          database.DB
	dbPath      string
	warnPercent float64
	usage       UsageFunc
}

// New creates a maintenance task for the database stored at dbPath.
func New(db database.DB, dbPath string, cfg *config.MaintenanceConfig) *Task {
	t := &Task{
		db:     db,
		dbPath: dbPath,
		usage:  disk.UsageWithContext,
	}
	if cfg != nil {
		t.warnPercent = cfg.DiskUsageWarnPercent
	}
	return t
}

// WithUsageFunc replaces the disk usage lookup.
func (t *Task) WithUsageFunc(fn UsageFunc) *Task {
	t.usage = fn
	return t
}

// Run performs one maintenance pass.
func (t *Task) Run(ctx context.Context) error {
	if err := t.db.Optimize(ctx); err != nil {
		return fmt.Errorf("failed to optimize database: %w", err)
	}

	users, err := t.db.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	recipes, err := t.db.CountRecipes(ctx)
	if err != nil {
		return fmt.Errorf("failed to count recipes: %w", err)
	}
	log.Info("database maintenance finished", "users", users, "recipes", recipes)

	if t.warnPercent <= 0 {
		return nil
	}

	usage, err := t.DiskUsage(ctx)
	if err != nil {
		// not fatal, some filesystems do not report usage
		log.Warn("failed to get disk usage", "path", t.dbPath, "error", err)
		return nil
	}
	if usage.UsedPercent >= t.warnPercent {
		log.Warn("disk holding the database is almost full",
			"path", usage.Path,
			"usedPercent", fmt.Sprintf("%.1f", usage.UsedPercent),
			"free", humanize.Bytes(usage.Free),
			"threshold", t.warnPercent,
		)
	}
	return nil
}

// DiskUsage returns the usage of the volume holding the database file.
func (t *Task) DiskUsage(ctx context.Context) (*disk.UsageStat, error) {
	return t.usage(ctx, filepath.Dir(t.dbPath))
}

// Start schedules t on cfg.Schedule and starts the scheduler.
// With cfg.RunOnStart the first pass runs right away.
func Start(t *Task, cfg *config.MaintenanceConfig) (*scheduler.Scheduler, error) {
	sched, err := scheduler.New()
	if err != nil {
		return nil, err
	}
	if err := sched.AddCronJob(JobID, "Database maintenance", cfg.Schedule, t.Run); err != nil {
		_ = sched.Stop()
		return nil, err
	}
	sched.Start()

	if info, ok := sched.GetJob(JobID); ok {
		log.Info("database maintenance scheduled", "schedule", info.Schedule, "nextRun", info.NextRun)
	}
	if cfg.RunOnStart {
		if err := sched.RunJobNow(JobID); err != nil {
			log.Warn("failed to run database maintenance on start", "error", err)
		}
	}
	return sched, nil
}
