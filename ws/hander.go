package ws

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/vnkhanh/sloka-backend/models"
	"github.com/vnkhanh/sloka-backend/services"
)

// TokenVerifier checks the ?token= query parameter. Browsers cannot set
// headers on websocket upgrades.
type TokenVerifier interface {
	Authenticate(token string) (*services.Claims, error)
}

// CourseAccess decides whether a principal may follow one course.
type CourseAccess interface {
	CanFollow(ctx context.Context, kind models.PrincipalKind, email string, courseID uint) (bool, error)
}

type Handler struct {
	hub      *Hub
	tokens   TokenVerifier
	access   CourseAccess
	upgrader websocket.Upgrader
}

// NewHandler accepts upgrades from the listed origins. An empty list accepts
// any origin.
func NewHandler(hub *Hub, tokens TokenVerifier, access CourseAccess, origins []string) *Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &Handler{
		hub:    hub,
		tokens: tokens,
		access: access,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

func (h *Handler) authorize(c *gin.Context) (*services.Claims, bool) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return nil, false
	}
	claims, err := h.tokens.Authenticate(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is invalid or expired"})
		return nil, false
	}
	return claims, true
}

func (h *Handler) sendConnected(client *Client, msg string) {
	select {
	case client.Send <- []byte(`{"type":"connected","message":` + strconv.Quote(msg) + `}`):
	default:
	}
}

func drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// HandleAdminWebSocket streams every course change to admin dashboards.
func (h *Handler) HandleAdminWebSocket(c *gin.Context) {
	claims, ok := h.authorize(c)
	if !ok {
		return
	}
	if claims.Kind != models.KindAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	client := h.hub.RegisterGlobal(conn)
	defer h.hub.UnregisterGlobal(conn)
	h.hub.log.Info("admin websocket connected", "email", claims.Email())

	h.sendConnected(client, "Connected to admin course feed")
	drain(conn)
	h.hub.log.Info("admin websocket disconnected", "email", claims.Email())
}

// HandleCourseWebSocket follows one course. Admins may follow any course;
// students only active courses they are enrolled in.
func (h *Handler) HandleCourseWebSocket(c *gin.Context) {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || courseID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course id"})
		return
	}
	claims, ok := h.authorize(c)
	if !ok {
		return
	}
	id := uint(courseID)
	allowed, err := h.access.CanFollow(c.Request.Context(), claims.Kind, claims.Email(), id)
	if err != nil {
		h.hub.log.Error("course access check failed", "course_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not check course access"})
		return
	}
	if !allowed {
		// archived and unenrolled courses look the same as missing ones
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	client := h.hub.Register(id, conn)
	defer h.hub.Unregister(id, conn)
	h.hub.log.Debug("course websocket connected", "course_id", id, "email", claims.Email())

	h.sendConnected(client, "Connected to course "+c.Param("id"))
	drain(conn)
}
