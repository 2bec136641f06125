// Package gravatar derives default profile pictures for new accounts.
package gravatar

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"

	"github.com/jon4hz/recipebox/internal/config"
)

const avatarBase = "https://www.gravatar.com/avatar/"

// GenerateURL returns the Gravatar URL for identifier. Accounts have no e-mail
// address, so the username is hashed instead and Gravatar serves the configured
// default image for it.
// It returns an empty string if Gravatar is disabled or the identifier is blank.
func GenerateURL(identifier string, cfg *config.GravatarConfig) string {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if cfg == nil || !cfg.Enabled || identifier == "" {
		return ""
	}

	sum := sha256.Sum256([]byte(identifier))
	u := avatarBase + hex.EncodeToString(sum[:])

	if q := query(cfg); len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func query(cfg *config.GravatarConfig) url.Values {
	q := url.Values{}
	if cfg.DefaultImage != "" {
		q.Set("d", cfg.DefaultImage)
	}
	if cfg.Rating != "" {
		q.Set("r", cfg.Rating)
	}
	if cfg.Size > 0 {
		q.Set("s", strconv.Itoa(cfg.Size))
	}
	return q
}

// DefaultImageURL picks the image URL stored with a new account. A non-blank
// imageURL from the signup request wins; otherwise a Gravatar URL derived from
// the username is used when enabled. It returns nil if neither applies.
func DefaultImageURL(imageURL *string, username string, cfg *config.GravatarConfig) *string {
	if imageURL != nil && strings.TrimSpace(*imageURL) != "" {
		return imageURL
	}
	if u := GenerateURL(username, cfg); u != "" {
		return &u
	}
	return nil
}
