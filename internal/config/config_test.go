package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "session_key: secret\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5555", cfg.Listen)
	assert.Equal(t, "secret", cfg.SessionKey)
	assert.Equal(t, 172800, cfg.SessionMaxAge)
	assert.False(t, cfg.SecureCookies)
	assert.Equal(t, "./data/recipebox.db", cfg.Database.Path)
	assert.Equal(t, 3, cfg.GetMinUsernameLength())
	assert.Equal(t, bcrypt.DefaultCost, cfg.GetBcryptCost())
	assert.Equal(t, RecipeScopeAll, cfg.GetRecipeScope())
	assert.Equal(t, CacheTypeMemory, cfg.Cache.Type)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.Gravatar.Enabled)
	assert.Equal(t, 80, cfg.Gravatar.Size)
	assert.True(t, cfg.Maintenance.Enabled)
	assert.Equal(t, "0 3 * * *", cfg.Maintenance.Schedule)
	assert.False(t, cfg.Maintenance.RunOnStart)
	assert.InDelta(t, 90, cfg.Maintenance.DiskUsageWarnPercent, 0.001)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
listen: 127.0.0.1:8080
session_key: "  padded  "
secure_cookies: true
auth:
  min_username_length: 5
  bcrypt_cost: 4
recipes:
  scope: OWNER
database:
  path: /tmp/recipes.db
cache:
  type: redis
  redis_url: localhost:6379
  ttl: 30s
gravatar:
  enabled: true
  default_image: retro
  size: 120
maintenance:
  schedule: " */30 * * * * "
  run_on_start: true
  disk_usage_warn_percent: 75.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, "padded", cfg.SessionKey)
	assert.True(t, cfg.SecureCookies)
	assert.Equal(t, 5, cfg.GetMinUsernameLength())
	assert.Equal(t, 4, cfg.GetBcryptCost())
	assert.Equal(t, RecipeScopeOwner, cfg.GetRecipeScope())
	assert.Equal(t, "/tmp/recipes.db", cfg.Database.Path)
	assert.Equal(t, CacheTypeRedis, cfg.Cache.Type)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisURL)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.True(t, cfg.Gravatar.Enabled)
	assert.Equal(t, "retro", cfg.Gravatar.DefaultImage)
	assert.Equal(t, 120, cfg.Gravatar.Size)
	assert.Equal(t, "*/30 * * * *", cfg.Maintenance.Schedule)
	assert.True(t, cfg.Maintenance.RunOnStart)
	assert.InDelta(t, 75.5, cfg.Maintenance.DiskUsageWarnPercent, 0.001)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "session_key: from-file\nlisten: 127.0.0.1:8080\n")
	t.Setenv("RECIPEBOX_SESSION_KEY", "from-env")
	t.Setenv("RECIPEBOX_RECIPES_SCOPE", "owner")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.SessionKey)
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, RecipeScopeOwner, cfg.GetRecipeScope())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "missing session key",
			content: "listen: 127.0.0.1:8080\n",
			errMsg:  "session key is required",
		},
		{
			name:    "bcrypt cost too high",
			content: "session_key: s\nauth:\n  bcrypt_cost: 99\n",
			errMsg:  "bcrypt cost must be between",
		},
		{
			name:    "unknown scope",
			content: "session_key: s\nrecipes:\n  scope: friends\n",
			errMsg:  "recipes scope must be one of",
		},
		{
			name:    "redis without url",
			content: "session_key: s\ncache:\n  type: redis\n",
			errMsg:  "Redis URL is required",
		},
		{
			name:    "gravatar size out of range",
			content: "session_key: s\ngravatar:\n  enabled: true\n  size: 4096\n",
			errMsg:  "gravatar size must be between 1 and 2048",
		},
		{
			name:    "empty maintenance schedule",
			content: "session_key: s\nmaintenance:\n  schedule: \"\"\n",
			errMsg:  "maintenance schedule is required",
		},
		{
			name:    "maintenance percent out of range",
			content: "session_key: s\nmaintenance:\n  disk_usage_warn_percent: 120\n",
			errMsg:  "disk usage warn percent must be between 0 and 100",
		},
		{
			name:    "unknown gravatar default image",
			content: "session_key: s\ngravatar:\n  enabled: true\n  default_image: kitten\n",
			errMsg:  "gravatar default image must be one of",
		},
		{
			name:    "unknown gravatar rating",
			content: "session_key: s\ngravatar:\n  enabled: true\n  rating: nc17\n",
			errMsg:  "gravatar rating must be one of",
		},
		{
			name:    "negative session max age",
			content: "session_key: s\nsession_max_age: -1\n",
			errMsg:  "session max age must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, "session_key: [unterminated\n"))
	assert.Error(t, err)
}

func TestGetters_NilConfig(t *testing.T) {
	var c *Config
	assert.Equal(t, 3, c.GetMinUsernameLength())
	assert.Equal(t, bcrypt.DefaultCost, c.GetBcryptCost())
	assert.Equal(t, RecipeScopeAll, c.GetRecipeScope())
}

func TestGravatarConfigValidate(t *testing.T) {
	for _, img := range []string{"", "404", "mp", "identicon", "monsterid", "wavatar", "retro", "robohash", "blank"} {
		cfg := &GravatarConfig{Enabled: true, DefaultImage: img, Size: 80}
		assert.NoError(t, cfg.validate(), "default image %q", img)
	}
	for _, rating := range []string{"", "g", "pg", "r", "x"} {
		cfg := &GravatarConfig{Enabled: true, Rating: rating, Size: 80}
		assert.NoError(t, cfg.validate(), "rating %q", rating)
	}
	for _, size := range []int{1, 80, 2048} {
		assert.NoError(t, (&GravatarConfig{Size: size}).validate(), "size %d", size)
	}

	assert.Error(t, (&GravatarConfig{DefaultImage: "MP", Size: 80}).validate())
	assert.Error(t, (&GravatarConfig{Rating: "nc17", Size: 80}).validate())
	for _, size := range []int{0, -1, 2049} {
		assert.Error(t, (&GravatarConfig{Size: size}).validate(), "size %d", size)
	}
}

func TestLoad_GravatarDisabledSkipsValidation(t *testing.T) {
	cfg, err := Load(writeConfig(t, "session_key: s\ngravatar:\n  default_image: kitten\n  size: 0\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Gravatar.Enabled)
}

func TestLoad_GravatarRatingNormalized(t *testing.T) {
	cfg, err := Load(writeConfig(t, "session_key: s\ngravatar:\n  enabled: true\n  rating: \" PG \"\n"))
	require.NoError(t, err)
	assert.Equal(t, "pg", cfg.Gravatar.Rating)
}
