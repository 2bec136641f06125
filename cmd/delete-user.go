package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/recipebox/internal/api/handler"
	"github.com/jon4hz/recipebox/internal/api/models"
	"github.com/jon4hz/recipebox/internal/cache"
	"github.com/jon4hz/recipebox/internal/config"
	"github.com/jon4hz/recipebox/internal/database"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var deleteUserCmd = &cobra.Command{
	Use:   "delete-user <username>",
	Short: "Delete a user and all of their recipes",
	Long: `Delete a user account together with every recipe it owns.

Sessions of the deleted user stop working immediately. With the redis cache the
cached profile is removed as well; a running server evicts its in-memory entry
on the next session check.`,
	Args: cobra.ExactArgs(1),
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

		user, err := db.GetUserByUsername(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %q not found", args[0])
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		if err := db.DeleteUser(cmd.Context(), user.ID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		users := cache.New[models.User](cfg.Cache, handler.UserCachePrefix)
		if err := users.Delete(cmd.Context(), user.ID); err != nil {
			log.Debug("failed to drop cached user", "userID", user.ID, "error", err)
		}

		log.Info("deleted user", "username", user.Username, "recipes", len(user.Recipes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteUserCmd)
}
