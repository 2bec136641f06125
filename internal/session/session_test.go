package session

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SessionTestSuite struct {
	suite.Suite
	router *gin.Engine
}

func (s *SessionTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(Middleware(Options{Key: []byte("test-secret"), MaxAge: 3600}))

	s.router.POST("/set/:id", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 0)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		if err := New(c).Set(uint(id)); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	s.router.GET("/get", func(c *gin.Context) {
		id, ok := New(c).UserID()
		c.JSON(http.StatusOK, gin.H{"id": id, "ok": ok})
	})
	s.router.DELETE("/clear", func(c *gin.Context) {
		if err := New(c).Clear(); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	s.router.GET("/raw/:value", func(c *gin.Context) {
		sess := sessions.Default(c)
		sess.Set(userIDKey, c.Param("value"))
		_ = sess.Save()
		c.Status(http.StatusNoContent)
	})
}

func (s *SessionTestSuite) do(method, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *SessionTestSuite) TestNoCookie() {
	w := s.do(http.MethodGet, "/get", nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"id":0,"ok":false}`, w.Body.String())
}

func (s *SessionTestSuite) TestSetAndGet() {
	w := s.do(http.MethodPost, "/set/42", nil)
	s.Require().Equal(http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	s.Require().NotEmpty(cookies)
	s.Equal(CookieName, cookies[0].Name)
	s.True(cookies[0].HttpOnly)

	w = s.do(http.MethodGet, "/get", cookies)
	s.JSONEq(`{"id":42,"ok":true}`, w.Body.String())
}

func (s *SessionTestSuite) TestTamperedCookie() {
	w := s.do(http.MethodPost, "/set/42", nil)
	cookies := w.Result().Cookies()
	s.Require().NotEmpty(cookies)

	tampered := *cookies[0]
	tampered.Value = tampered.Value[:len(tampered.Value)-4] + "abcd"

	w = s.do(http.MethodGet, "/get", []*http.Cookie{&tampered})
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"id":0,"ok":false}`, w.Body.String())
}

func (s *SessionTestSuite) TestCookieSignedWithOtherKey() {
	other := gin.New()
	other.Use(Middleware(Options{Key: []byte("other-secret")}))
	other.POST("/set", func(c *gin.Context) {
		_ = New(c).Set(7)
		c.Status(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodPost, "/set", nil)
	w := httptest.NewRecorder()
	other.ServeHTTP(w, req)

	w = s.do(http.MethodGet, "/get", w.Result().Cookies())
	s.JSONEq(`{"id":0,"ok":false}`, w.Body.String())
}

func (s *SessionTestSuite) TestClear() {
	w := s.do(http.MethodPost, "/set/42", nil)
	cookies := w.Result().Cookies()

	w = s.do(http.MethodDelete, "/clear", cookies)
	s.Require().Equal(http.StatusNoContent, w.Code)
	cleared := w.Result().Cookies()
	s.Require().NotEmpty(cleared)
	s.Negative(cleared[0].MaxAge)

	w = s.do(http.MethodGet, "/get", cleared)
	s.JSONEq(`{"id":0,"ok":false}`, w.Body.String())
}

func (s *SessionTestSuite) TestClearKeepsCookieAttributes() {
	s.router = gin.New()
	s.router.Use(Middleware(Options{Key: []byte("test-secret"), MaxAge: 3600, Secure: true}))
	s.router.POST("/set", func(c *gin.Context) {
		_ = New(c).Set(7)
		c.Status(http.StatusNoContent)
	})
	s.router.DELETE("/clear", func(c *gin.Context) {
		if err := New(c).Clear(); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})

	w := s.do(http.MethodPost, "/set", nil)
	s.Require().NotEmpty(w.Result().Cookies())

	w = s.do(http.MethodDelete, "/clear", w.Result().Cookies())
	s.Require().Equal(http.StatusNoContent, w.Code)
	cleared := w.Result().Cookies()
	s.Require().NotEmpty(cleared)

	c := cleared[0]
	s.Equal(CookieName, c.Name)
	s.Negative(c.MaxAge)
	s.Equal("/", c.Path)
	s.True(c.HttpOnly)
	s.True(c.Secure)
	s.Equal(http.SameSiteLaxMode, c.SameSite)
}

func (s *SessionTestSuite) TestWrongValueType() {
	w := s.do(http.MethodGet, "/raw/abc", nil)
	cookies := w.Result().Cookies()

	w = s.do(http.MethodGet, "/get", cookies)
	s.JSONEq(`{"id":0,"ok":false}`, w.Body.String())
}

func TestSessionTestSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

func TestUserIDConversions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name  string
		value any
		id    uint
		ok    bool
	}{
		{name: "uint", value: uint(5), id: 5, ok: true},
		{name: "int", value: 6, id: 6, ok: true},
		{name: "int64", value: int64(7), id: 7, ok: true},
		{name: "float64", value: float64(8), id: 8, ok: true},
		{name: "negative int", value: -1, ok: false},
		{name: "zero", value: uint(0), ok: false},
		{name: "string", value: "9", ok: false},
		{name: "nil", value: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(Middleware(Options{Key: []byte("test-secret")}))
			router.GET("/", func(c *gin.Context) {
				sessions.Default(c).Set(userIDKey, tt.value)
				id, ok := New(c).UserID()
				assert.Equal(t, tt.id, id)
				assert.Equal(t, tt.ok, ok)
				c.Status(http.StatusOK)
			})
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, http.StatusOK, w.Code)
		})
	}
}
