package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/muezzin/internal/http/api"
)

const (
	streamInterval = time.Second
	writeWait      = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamModule mounts /ws, which pushes the countdown every second.
func StreamModule(cd Countdown) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.Group.GET("/ws", func(ctx *gin.Context) {
			streamCountdown(ctx, cd)
		})
	})
}

func streamCountdown(ctx *gin.Context, cd Countdown) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	remote := conn.RemoteAddr().String()
	log.Debug().Str("remote", remote).Msg("countdown stream connected")
	defer func() {
		conn.Close()
		log.Debug().Str("remote", remote).Msg("countdown stream disconnected")
	}()

	// the read loop only exists to notice the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()
	for {
		if err := pushSnapshot(conn, cd); err != nil {
			return
		}
		select {
		case <-closed:
			return
		case <-ctx.Request.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func pushSnapshot(conn *websocket.Conn, cd Countdown) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	snap, err := cd.Snapshot(cd.Now())
	if err != nil {
		return conn.WriteJSON(gin.H{"error": err.Error()})
	}
	return conn.WriteJSON(snapshotResponse(snap))
}
