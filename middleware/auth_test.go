package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vnkhanh/sloka-backend/logger"
	"github.com/vnkhanh/sloka-backend/models"
	"github.com/vnkhanh/sloka-backend/services"
)

type tokenAuth struct{ ts *services.TokenService }

func (a tokenAuth) Authenticate(token string) (*services.Claims, error) { return a.ts.Verify(token) }

func newGateRouter(ts *services.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(logger.Nop()))
	authn := tokenAuth{ts: ts}
	ok := func(c *gin.Context) {
		email, kind, _ := Principal(c)
		c.JSON(http.StatusOK, gin.H{"email": email, "kind": kind})
	}
	r.GET("/admin", RequireKind(authn, models.KindAdmin), ok)
	r.GET("/student", RequireKind(authn, models.KindStudent), ok)
	r.GET("/any", AuthMiddleware(authn), ok)
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func do(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthorizationGate(t *testing.T) {
	ts := services.NewTokenService("gate-secret", time.Hour)
	r := newGateRouter(ts)

	adminTok, err := ts.Issue("root@x.com", models.KindAdmin)
	require.NoError(t, err)
	studentTok, err := ts.Issue("a@x.com", models.KindStudent)
	require.NoError(t, err)

	cases := []struct {
		name, path, auth string
		want             int
	}{
		{"missing header", "/admin", "", http.StatusUnauthorized},
		{"wrong scheme", "/admin", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "/admin", "Bearer nope", http.StatusUnauthorized},
		{"admin on admin", "/admin", "Bearer " + adminTok, http.StatusOK},
		{"student on admin", "/admin", "Bearer " + studentTok, http.StatusForbidden},
		{"admin on student", "/student", "Bearer " + adminTok, http.StatusForbidden},
		{"student on student", "/student", "Bearer " + studentTok, http.StatusOK},
		{"any kind", "/any", "bearer " + studentTok, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, tc.path, tc.auth)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestExpiredTokenIs401WithMessage(t *testing.T) {
	ts := services.NewTokenService("gate-secret", -time.Minute)
	tok, err := ts.Issue("a@x.com", models.KindStudent)
	require.NoError(t, err)

	w := do(newGateRouter(ts), "/student", "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestXAuthTokenFallback(t *testing.T) {
	ts := services.NewTokenService("gate-secret", time.Hour)
	tok, err := ts.Issue("a@x.com", models.KindStudent)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/student", nil)
	req.Header.Set("X-Auth-Token", "Bearer "+tok)
	w := httptest.NewRecorder()
	newGateRouter(ts).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecoveryReturnsErrorID(t *testing.T) {
	w := do(newGateRouter(services.NewTokenService("s", time.Hour)), "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"error_id":"ERR_`)
}

func TestWrongKindNeverReachesHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ts := services.NewTokenService("gate-secret", time.Hour)
	authn := tokenAuth{ts: ts}

	ran := 0
	handler := func(c *gin.Context) {
		ran++
		c.JSON(http.StatusCreated, gin.H{"created": true})
	}
	r := gin.New()
	r.POST("/admin", RequireKind(authn, models.KindAdmin), handler)
	r.POST("/student", RequireKind(authn, models.KindStudent), handler)

	studentTok, err := ts.Issue("a@x.com", models.KindStudent)
	require.NoError(t, err)
	adminTok, err := ts.Issue("root@x.com", models.KindAdmin)
	require.NoError(t, err)

	for _, tc := range []struct{ path, tok, msg string }{
		{"/admin", studentTok, "Admin access required"},
		{"/student", adminTok, "Student access required"},
	} {
		req := httptest.NewRequest(http.MethodPost, tc.path, nil)
		req.Header.Set("Authorization", "Bearer "+tc.tok)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"error":"`+tc.msg+`"}`, w.Body.String())
	}
	assert.Zero(t, ran)
}
