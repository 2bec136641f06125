package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeRedis  CacheType = "redis"
)

// RecipeScope controls which recipes GET /recipes returns.
type RecipeScope string

const (
	RecipeScopeAll   RecipeScope = "all"
	RecipeScopeOwner RecipeScope = "owner"
)

// Config holds the configuration for the recipebox server and its dependencies.
type Config struct {
	// Listen is the address the server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// SessionKey is the key used to sign session cookies.
	SessionKey string `yaml:"session_key" mapstructure:"session_key"`
	// SessionMaxAge is the maximum age of a session in seconds.
	SessionMaxAge int `yaml:"session_max_age" mapstructure:"session_max_age"`
	// SecureCookies marks the session cookie as Secure (HTTPS only).
	SecureCookies bool `yaml:"secure_cookies" mapstructure:"secure_cookies"`
	// Auth holds the account settings.
	Auth *AuthConfig `yaml:"auth" mapstructure:"auth"`
	// Recipes holds the recipe listing settings.
	Recipes *RecipesConfig `yaml:"recipes" mapstructure:"recipes"`
	// Database holds the database configuration.
	Database *DatabaseConfig `yaml:"database" mapstructure:"database"`
	// Cache holds the cache engine configuration.
	Cache *CacheConfig `yaml:"cache" mapstructure:"cache"`
	// Gravatar holds the configuration for default profile pictures.
	Gravatar *GravatarConfig `yaml:"gravatar" mapstructure:"gravatar"`
	// Maintenance holds the settings of the scheduled database maintenance.
	Maintenance *MaintenanceConfig `yaml:"maintenance" mapstructure:"maintenance"`
}

// AuthConfig holds the account and password settings.
type AuthConfig struct {
	// MinUsernameLength is the minimum length of a username. Values below 1 only require a non-empty username.
	MinUsernameLength int `yaml:"min_username_length" mapstructure:"min_username_length"`
	// BcryptCost is the bcrypt work factor used for new password hashes.
	BcryptCost int `yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`
}

// RecipesConfig holds the recipe listing settings.
type RecipesConfig struct {
	// Scope is either "all" (every recipe) or "owner" (only the current user's recipes).
	Scope RecipeScope `yaml:"scope" mapstructure:"scope"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	// Path is the path to the database file.
	Path string `yaml:"path" mapstructure:"path"`
}

// CacheConfig holds the configuration for the cache engine.
type CacheConfig struct {
	// Type is the type of cache engine to use (e.g., "memory", "redis").
	Type CacheType `yaml:"type" mapstructure:"type"`
	// RedisURL is the address of the Redis server if using Redis.
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`
	// TTL is how long cached users are kept.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// MaintenanceConfig configures the background database maintenance job.
type MaintenanceConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Schedule is a cron expression (minute hour day month weekday).
	Schedule string `yaml:"schedule" mapstructure:"schedule"`
	// RunOnStart runs the job once right after the server started.
	RunOnStart bool `yaml:"run_on_start" mapstructure:"run_on_start"`
	// DiskUsageWarnPercent logs a warning once the volume holding the database is fuller than this.
	// 0 disables the check.
	DiskUsageWarnPercent float64 `yaml:"disk_usage_warn_percent" mapstructure:"disk_usage_warn_percent"`
}

// GravatarConfig holds the configuration for Gravatar profile pictures.
type GravatarConfig struct {
	// Enabled indicates whether Gravatar support is enabled.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// DefaultImage is the default image to use when no Gravatar is found.
	// Valid values: "404", "mp", "identicon", "monsterid", "wavatar", "retro", "robohash", "blank"
	DefaultImage string `yaml:"default_image" mapstructure:"default_image"`
	// Rating is the maximum rating for Gravatar images.
	// Valid values: "g", "pg", "r", "x"
	Rating string `yaml:"rating" mapstructure:"rating"`
	// Size is the size of the Gravatar image in pixels (1-2048).
	Size int `yaml:"size" mapstructure:"size"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
// A missing config file is not an error; defaults and environment variables are used instead.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Configure Viper
	v.SetConfigType("yaml")
	v.SetEnvPrefix("RECIPEBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var configFileFound bool
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.recipebox")
		v.AddConfigPath("/etc/recipebox")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileFound = true
	}

	if configFileFound {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
		log.Debug("Environment variables with the RECIPEBOX_ prefix override config file values")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	sanitizeConfig(&c)

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "0.0.0.0:5555")
	v.SetDefault("session_key", "")
	v.SetDefault("session_max_age", 172800) // 48 hour
	v.SetDefault("secure_cookies", false)

	// Auth defaults
	v.SetDefault("auth.min_username_length", 3)
	v.SetDefault("auth.bcrypt_cost", bcrypt.DefaultCost)

	// Recipes defaults
	v.SetDefault("recipes.scope", RecipeScopeAll)

	// Database defaults
	v.SetDefault("database.path", "./data/recipebox.db")

	// Cache defaults
	v.SetDefault("cache.type", CacheTypeMemory)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", 5*time.Minute)

	// Gravatar defaults
	v.SetDefault("gravatar.enabled", false)
	v.SetDefault("gravatar.default_image", "identicon")
	v.SetDefault("gravatar.rating", "g")
	v.SetDefault("gravatar.size", 80)

	// Maintenance defaults
	v.SetDefault("maintenance.enabled", true)
	v.SetDefault("maintenance.schedule", "0 3 * * *") // every day at 3am
	v.SetDefault("maintenance.run_on_start", false)
	v.SetDefault("maintenance.disk_usage_warn_percent", 90)
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing recipebox config")
	}

	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}

	if c.SessionKey == "" {
		return fmt.Errorf("session key is required")
	}

	if c.SessionMaxAge < 0 {
		return fmt.Errorf("session max age must not be negative")
	}

	if c.Database == nil || c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.Auth == nil {
		c.Auth = &AuthConfig{MinUsernameLength: 3, BcryptCost: bcrypt.DefaultCost}
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	if c.Recipes == nil {
		c.Recipes = &RecipesConfig{Scope: RecipeScopeAll}
	}
	switch c.Recipes.Scope {
	case RecipeScopeAll, RecipeScopeOwner:
	case "":
		c.Recipes.Scope = RecipeScopeAll
	default:
		return fmt.Errorf("recipes scope must be one of %q or %q", RecipeScopeAll, RecipeScopeOwner)
	}

	if c.Cache != nil {
		if c.Cache.Type == "" {
			return fmt.Errorf("cache type is required when cache is enabled")
		}
		if c.Cache.Type == CacheTypeRedis && c.Cache.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when Redis cache is enabled") //nolint:staticcheck
		}
	} else {
		c.Cache = &CacheConfig{
			Type: CacheTypeMemory,
			TTL:  5 * time.Minute,
		}
	}

	if c.Gravatar != nil && c.Gravatar.Enabled {
		if err := c.Gravatar.validate(); err != nil {
			return err
		}
	}

	if c.Maintenance != nil && c.Maintenance.Enabled {
		if c.Maintenance.Schedule == "" {
			return fmt.Errorf("maintenance schedule is required when maintenance is enabled")
		}
		if c.Maintenance.DiskUsageWarnPercent < 0 || c.Maintenance.DiskUsageWarnPercent > 100 {
			return fmt.Errorf("maintenance disk usage warn percent must be between 0 and 100")
		}
	}

	return nil
}

var (
	gravatarDefaultImages = []string{"404", "mp", "identicon", "monsterid", "wavatar", "retro", "robohash", "blank"}
	gravatarRatings       = []string{"g", "pg", "r", "x"}
)

func (g *GravatarConfig) validate() error {
	if g.DefaultImage != "" && !slices.Contains(gravatarDefaultImages, g.DefaultImage) {
		return fmt.Errorf("gravatar default image must be one of %s", strings.Join(gravatarDefaultImages, ", "))
	}
	if g.Rating != "" && !slices.Contains(gravatarRatings, g.Rating) {
		return fmt.Errorf("gravatar rating must be one of %s", strings.Join(gravatarRatings, ", "))
	}
	if g.Size < 1 || g.Size > 2048 {
		return fmt.Errorf("gravatar size must be between 1 and 2048")
	}
	return nil
}

// sanitizeConfig sanitizes the configuration values.
func sanitizeConfig(c *Config) {
	if c == nil {
		return
	}

	c.Listen = strings.TrimSpace(c.Listen)
	c.SessionKey = strings.TrimSpace(c.SessionKey)

	if c.Cache != nil {
		c.Cache.RedisURL = strings.TrimSpace(c.Cache.RedisURL)
	}

	if c.Gravatar != nil {
		c.Gravatar.DefaultImage = strings.TrimSpace(c.Gravatar.DefaultImage)
		c.Gravatar.Rating = strings.ToLower(strings.TrimSpace(c.Gravatar.Rating))
	}

	if c.Maintenance != nil {
		c.Maintenance.Schedule = strings.TrimSpace(c.Maintenance.Schedule)
	}

	if c.Recipes != nil {
		c.Recipes.Scope = RecipeScope(strings.ToLower(strings.TrimSpace(string(c.Recipes.Scope))))
	}
}

// GetMinUsernameLength returns the minimum username length with proper defaults.
func (c *Config) GetMinUsernameLength() int {
	if c == nil || c.Auth == nil {
		return 3
	}
	return c.Auth.MinUsernameLength
}

// GetBcryptCost returns the bcrypt cost with proper defaults.
func (c *Config) GetBcryptCost() int {
	if c == nil || c.Auth == nil || c.Auth.BcryptCost == 0 {
		return bcrypt.DefaultCost
	}
	return c.Auth.BcryptCost
}

// GetRecipeScope returns the recipe listing scope with proper defaults.
func (c *Config) GetRecipeScope() RecipeScope {
	if c == nil || c.Recipes == nil || c.Recipes.Scope == "" {
		return RecipeScopeAll
	}
	return c.Recipes.Scope
}
