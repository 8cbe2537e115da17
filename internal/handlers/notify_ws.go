// internal/handlers/notify_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/middleware"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/notify"
)

// NotifyWS upgrades the request to a websocket and streams notification
// events to the authenticated user until the client disconnects.
func (s *Server) NotifyWS(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols: []string{"notify"},
	})
	if err != nil {
		s.Log.WithError(err).Warn("websocket accept error")
		return
	}
	defer c.Close(websocket.StatusInternalError, "handler finished")

	if c.Subprotocol() != "notify" {
		c.Close(websocket.StatusPolicyViolation, "client must speak the notify subprotocol")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn := s.Notifier.Register(user.ID)
	defer s.Notifier.Unregister(conn)

	// Clients send nothing meaningful; the read loop only detects close.
	go func() {
		defer cancel()
		for {
			if _, _, err := c.Read(ctx); err != nil {
				return
			}
		}
	}()

	s.writePump(ctx, c, conn)
	c.Close(websocket.StatusNormalClosure, "bye")
}

func (s *Server) writePump(ctx context.Context, c *websocket.Conn, conn *notify.Connection) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-conn.Out:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				s.Log.WithError(err).Error("failed to marshal notification")
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
