package main

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"lg/weight-tracker-api/internal/realtime"
)

// checkOrigin accepts handshakes without an Origin header (non-browser
// clients), from the server's own host, or from one of allowed. Anything else
// gets a 403 from the upgrader.
func checkOrigin(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			return false
		}
		if strings.EqualFold(u.Host, r.Host) {
			return true
		}
		for _, a := range allowed {
			if strings.EqualFold(strings.TrimSuffix(strings.TrimSpace(a), "/"), origin) {
				return true
			}
		}
		log.Printf("[serveSessionFeed] rejected origin %q", origin)
		return false
	}
}

// serveSessionFeed upgrades to a websocket that receives {"type":"session"}
// messages with the rebuilt view-model after each of the user's mutations.
// GET /api/ws?date=YYYY-MM-DD (token via Authorization header or ?token=).
// The session for date is sent first so a fresh client doesn't have to poll.
func (h *Handler) serveSessionFeed(c *gin.Context) {
	uid := userID(c)
	date, ok := parseDate(c)
	if !ok {
		return
	}
	sess, err := h.tracker.Session(c, uid, date)
	if err != nil {
		writeError(c, "serveSessionFeed", err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		log.Printf("[serveSessionFeed] upgrade: %v", err)
		return
	}
	client := realtime.NewClient(uid, conn)
	// Register before the first send so a mutation racing this handshake is
	// still pushed; Serve registering again is a no-op.
	h.hub.Register(client)
	if err := client.Send(sessionEvent{Type: "session", Session: sess}); err != nil {
		log.Printf("[serveSessionFeed] user id=%d: %v", uid, err)
		h.hub.Unregister(client)
		return
	}

	h.hub.Serve(client)
}
