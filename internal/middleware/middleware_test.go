package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propmaint/backend/internal/models"
)

var secret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(roles ...models.Role) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(secret)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, string(CurrentRole(c)))
	})
	r.GET("/private", handlers...)
	return r
}

func TestSessionRoundTrip(t *testing.T) {
	token, exp, err := SignSession(secret, models.RoleManager, time.Hour, time.Now())
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	role, err := ParseSession(secret, token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, role)

	_, err = ParseSession([]byte("other"), token)
	assert.Error(t, err)
}

func TestExpiredSessionRejected(t *testing.T) {
	token, _, err := SignSession(secret, models.RoleTechnician, time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = ParseSession(secret, token)
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	token, _, err := SignSession(secret, models.RoleTechnician, time.Hour, time.Now())
	require.NoError(t, err)
	r := protectedRouter()

	tests := []struct {
		name   string
		setup  func(*http.Request)
		status int
	}{
		{"no credentials", func(*http.Request) {}, http.StatusUnauthorized},
		{"cookie", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		}, http.StatusOK},
		{"bearer", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+token)
		}, http.StatusOK},
		{"garbage", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "nope"})
		}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "tecnico", w.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	r := protectedRouter(models.RoleManager)
	for role, want := range map[models.Role]int{
		models.RoleManager:    http.StatusOK,
		models.RoleTechnician: http.StatusForbidden,
	} {
		token, _, err := SignSession(secret, role, time.Hour, time.Now())
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, role)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware("http://panel.test"))
	r.PATCH("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://panel.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestAccessLogShowsRole(t *testing.T) {
	var buf bytes.Buffer
	prev := AccessLog
	AccessLog = &buf
	defer func() { AccessLog = prev }()

	r := gin.New()
	r.Use(CustomLoggerMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.Set(RoleKey, models.RoleManager)
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "[API] GET | /ping | 200 |"), line)
	assert.Contains(t, line, "Role: gestion")
}
