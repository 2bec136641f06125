// Package session keeps the authenticated user id in a signed session cookie.
package session

import (
	"net/http"

	"github.com/ccoveille/go-safecast"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// CookieName is the name of the session cookie.
const CookieName = "recipebox_session"

const (
	userIDKey  = "user_id"
	optionsKey = "recipebox_session_options"
)

// Options configures the session cookie.
type Options struct {
	// Key signs the cookie so tampered values are rejected.
	Key    []byte
	MaxAge int
	Secure bool
}

// Middleware returns the gin middleware that loads the session cookie for every request.
func Middleware(opts Options) gin.HandlerFunc {
	cookieOpts := sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	store := cookie.NewStore(opts.Key)
	store.Options(cookieOpts)
	load := sessions.Sessions(CookieName, store)

	return func(c *gin.Context) {
		c.Set(optionsKey, cookieOpts)
		load(c)
	}
}

// Session is the request scoped view of the session cookie.
type Session struct {
	session sessions.Session
	options sessions.Options
}

// New returns the session of the current request.
// The session middleware must be installed on the router.
func New(c *gin.Context) *Session {
	s := &Session{
		session: sessions.Default(c),
		options: sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode},
	}
	if v, ok := c.Get(optionsKey); ok {
		if opts, ok := v.(sessions.Options); ok {
			s.options = opts
		}
	}
	return s
}

// Set stores the user id in the session and writes the cookie.
func (s *Session) Set(userID uint) error {
	s.session.Set(userIDKey, userID)
	return s.session.Save()
}

// UserID returns the user id stored in the session.
// A missing, empty or tampered cookie yields false.
func (s *Session) UserID() (uint, bool) {
	var (
		id  uint
		err error
	)
	switch v := s.session.Get(userIDKey).(type) {
	case uint:
		id = v
	case uint64:
		id, err = safecast.ToUint(v)
	case int:
		id, err = safecast.ToUint(v)
	case int64:
		id, err = safecast.ToUint(v)
	case float64:
		id, err = safecast.ToUint(v)
	default:
		return 0, false
	}
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// Clear removes all values from the session and expires the cookie.
func (s *Session) Clear() error {
	opts := s.options
	opts.MaxAge = -1
	s.session.Clear()
	s.session.Options(opts)
	return s.session.Save()
}
