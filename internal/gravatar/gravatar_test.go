package gravatar

import (
	"testing"

	"github.com/jon4hz/recipebox/internal/config"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestGenerateURL(t *testing.T) {
	const anaHash = "24d4b96f58da6d4a8512313bbd02a28ebf0ca95dec6e4c86ef78ce7f01e788ac"

	tests := []struct {
		name       string
		identifier string
		config     *config.GravatarConfig
		expected   string
	}{
		{
			name:       "disabled gravatar",
			identifier: "ana",
			config:     &config.GravatarConfig{Enabled: false},
		},
		{
			name:       "nil config",
			identifier: "ana",
		},
		{
			name:       "empty identifier",
			config:     &config.GravatarConfig{Enabled: true},
		},
		{
			name:       "whitespace only",
			identifier: "   ",
			config:     &config.GravatarConfig{Enabled: true},
		},
		{
			name:       "no parameters",
			identifier: "ana",
			config:     &config.GravatarConfig{Enabled: true},
			expected:   "https://www.gravatar.com/avatar/" + anaHash,
		},
		{
			name:       "default image",
			identifier: "ana",
			config:     &config.GravatarConfig{Enabled: true, DefaultImage: "mp"},
			expected:   "https://www.gravatar.com/avatar/" + anaHash + "?d=mp",
		},
		{
			name:       "all parameters and normalized username",
			identifier: "  ANA ",
			config:     &config.GravatarConfig{Enabled: true, DefaultImage: "identicon", Rating: "pg", Size: 120},
			expected:   "https://www.gravatar.com/avatar/" + anaHash + "?d=identicon&r=pg&s=120",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateURL(tt.identifier, tt.config))
		})
	}
}

func TestDefaultImageURL(t *testing.T) {
	enabled := &config.GravatarConfig{Enabled: true, DefaultImage: "identicon"}

	t.Run("keeps user supplied url", func(t *testing.T) {
		got := DefaultImageURL(lo.ToPtr("https://example.com/me.png"), "ana", enabled)
		assert.Equal(t, "https://example.com/me.png", *got)
	})

	t.Run("generates from username", func(t *testing.T) {
		got := DefaultImageURL(nil, "Ana", enabled)
		assert.NotNil(t, got)
		assert.Equal(t, GenerateURL("ana", enabled), *got)
		assert.Contains(t, *got, "d=identicon")
	})

	t.Run("blank url is replaced", func(t *testing.T) {
		got := DefaultImageURL(lo.ToPtr("  "), "ana", enabled)
		assert.Equal(t, GenerateURL("ana", enabled), *got)
	})

	t.Run("blank url without gravatar is dropped", func(t *testing.T) {
		assert.Nil(t, DefaultImageURL(lo.ToPtr(""), "ana", nil))
	})

	t.Run("disabled leaves nil", func(t *testing.T) {
		assert.Nil(t, DefaultImageURL(nil, "ana", &config.GravatarConfig{Enabled: false}))
		assert.Nil(t, DefaultImageURL(nil, "ana", nil))
	})
}
