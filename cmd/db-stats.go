package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/ccoveille/go-safecast"
	"github.com/dustin/go-humanize"
	"github.com/jon4hz/recipebox/internal/config"
	"github.com/jon4hz/recipebox/internal/database"
	"github.com/jon4hz/recipebox/internal/maintenance"
	"github.com/mergestat/timediff"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var dbStatsCmd = &cobra.Command{
	Use:   "db-stats",
	Short: "Show database statistics",
	Long:  `Display the number of users and recipes, the size of the database file and the latest signup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := database.New(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close() //nolint: errcheck

		users, err := db.CountUsers(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		recipes, err := db.CountRecipes(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to count recipes: %w", err)
		}

		fmt.Println("Database Statistics:")
		fmt.Printf("Database File: %s\n", cfg.Database.Path)
		if info, err := os.Stat(cfg.Database.Path); err == nil {
			if size, err := safecast.ToUint64(info.Size()); err == nil {
				fmt.Printf("Database Size: %s\n", humanize.Bytes(size))
			}
		}
		if usage, err := maintenance.New(db, cfg.Database.Path, cfg.Maintenance).DiskUsage(cmd.Context()); err == nil {
			fmt.Printf("Disk Usage: %.1f%% (%s free)\n", usage.UsedPercent, humanize.Bytes(usage.Free))
		}
		fmt.Printf("Total Users: %s\n", humanize.Comma(users))
		fmt.Printf("Total Recipes: %s\n", humanize.Comma(recipes))

		latest, err := db.GetLatestUser(cmd.Context())
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return fmt.Errorf("failed to get latest user: %w", err)
		default:
			fmt.Printf("Latest Signup: %s (%s)\n", latest.Username, timediff.TimeDiff(latest.CreatedAt))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbStatsCmd)
}
