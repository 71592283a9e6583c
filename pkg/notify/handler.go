package notify

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"incubator/pkg/apperr"
	"incubator/pkg/response"
	"incubator/pkg/token"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
)

// AccessVerifier is satisfied by *token.Service.
type AccessVerifier interface {
	VerifyAccessToken(tokenString string) (*token.AccessClaims, error)
}

type Handler struct {
	hub      *Hub
	verifier AccessVerifier
	denylist token.Denylist
	logger   logrus.FieldLogger
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, verifier AccessVerifier, denylist token.Denylist, allowedOrigins []string, logger logrus.FieldLogger) *Handler {
	if denylist == nil {
		denylist = token.NopDenylist{}
	}
	return &Handler{
		hub:      hub,
		verifier: verifier,
		denylist: denylist,
		logger:   logger.WithField("component", "notify"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/ws/notifications", h.serveWS)
}

// Browsers cannot set headers on websocket upgrades, so the token may also
// arrive as the "token" query parameter.
func (h *Handler) bearer(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if raw, err := token.ExtractBearer(header); err == nil {
			return raw
		}
		return ""
	}
	return c.Query("token")
}

// @Summary      Notification stream
// @Tags         notifications
// @Param        token query string false "Access token when the Authorization header cannot be set"
// @Success      101
// @Failure      401 {object} response.APIResponse
// @Router       /ws/notifications [get]
func (h *Handler) serveWS(c *gin.Context) {
	raw := h.bearer(c)
	if raw == "" {
		response.SendError(c, apperr.Unauthenticated("No token provided"))
		return
	}
	claims, err := h.verifier.VerifyAccessToken(raw)
	if err != nil {
		response.SendError(c, apperr.Unauthenticated("Invalid token"))
		return
	}
	revoked, err := h.denylist.IsRevoked(c.Request.Context(), claims.ID)
	if err != nil {
		response.SendError(c, apperr.Internal("Internal server error", err))
		return
	}
	if revoked {
		response.SendError(c, apperr.Unauthenticated("Token has been revoked"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	identity := claims.Identity()
	client := h.hub.AddClient(identity, conn)
	h.logger.WithFields(logrus.Fields{"user_id": client.UserID, "role": client.Role}).Info("client connected")

	go h.writeLoop(client)
	go h.readLoop(client)
}

// readLoop only services control frames; clients do not send messages.
func (h *Handler) readLoop(client *Client) {
	defer func() {
		h.hub.RemoveClient(client)
		client.Conn.Close()
		h.logger.WithField("user_id", client.UserID).Info("client disconnected")
	}()

	client.Conn.SetReadLimit(512)
	_ = client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.WithError(err).WithField("user_id", client.UserID).Warn("websocket read error")
			}
			return
		}
	}
}

func (h *Handler) writeLoop(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-client.Done:
			return

		case msg := <-client.Send:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteJSON(msg); err != nil {
				h.logger.WithError(err).WithField("user_id", client.UserID).Warn("websocket write failed")
				client.Conn.Close()
				return
			}

		case <-ticker.C:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				client.Conn.Close()
				return
			}
		}
	}
}
