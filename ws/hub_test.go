package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vnkhanh/sloka-backend/logger"
	"github.com/vnkhanh/sloka-backend/models"
	"github.com/vnkhanh/sloka-backend/services"
)

type verifier struct{ ts *services.TokenService }

func (v verifier) Authenticate(token string) (*services.Claims, error) { return v.ts.Verify(token) }

// allowList lets "kind:email" follow the listed course ids.
type allowList map[string][]uint

func (a allowList) CanFollow(_ context.Context, kind models.PrincipalKind, email string, courseID uint) (bool, error) {
	for _, id := range a[string(kind)+":"+email] {
		if id == courseID {
			return true, nil
		}
	}
	return false, nil
}

func TestAdminFeedReceivesCourseEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ts := services.NewTokenService("ws-secret", time.Hour)
	hub := NewHub(logger.Nop())
	h := NewHandler(hub, verifier{ts: ts}, allowList{}, nil)

	r := gin.New()
	r.GET("/ws/admin", h.HandleAdminWebSocket)
	srv := httptest.NewServer(r)
	defer srv.Close()

	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/admin?token="

	studentTok, err := ts.Issue("a@x.com", models.KindStudent)
	require.NoError(t, err)
	_, resp, err := websocket.DefaultDialer.Dial(base+studentTok, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	adminTok, err := ts.Issue("root@x.com", models.KindAdmin)
	require.NoError(t, err)
	conn, _, err := websocket.DefaultDialer.Dial(base+adminTok, nil)
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, hello, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(hello), `"connected"`)

	hub.PublishCourseChanged(42, "updated")
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"course_changed","course_id":42,"action":"updated"}`, string(msg))

	_, global := hub.Counts()
	assert.Equal(t, 1, global)
}

func TestCourseFeedChecksAccessBeforeUpgrade(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ts := services.NewTokenService("ws-secret", time.Hour)
	hub := NewHub(logger.Nop())
	h := NewHandler(hub, verifier{ts: ts}, allowList{"student:in@x.com": {7}}, nil)

	r := gin.New()
	r.GET("/ws/courses/:id", h.HandleCourseWebSocket)
	srv := httptest.NewServer(r)
	defer srv.Close()
	url := func(id, tok string) string {
		return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/courses/" + id + "?token=" + tok
	}

	outsider, err := ts.Issue("out@x.com", models.KindStudent)
	require.NoError(t, err)
	_, resp, err := websocket.DefaultDialer.Dial(url("7", outsider), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	insider, err := ts.Issue("in@x.com", models.KindStudent)
	require.NoError(t, err)
	_, resp, err = websocket.DefaultDialer.Dial(url("8", insider), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	courses, _ := hub.Counts()
	assert.Zero(t, courses)

	conn, _, err := websocket.DefaultDialer.Dial(url("7", insider), nil)
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, hello, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(hello), "course 7")

	hub.PublishCourseChanged(7, "section_created")
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"course_changed","course_id":7,"action":"section_created"}`, string(msg))
}
