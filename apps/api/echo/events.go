package echoapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/Br01t/feedback-fort/core/user"
)

const (
	eventsBuffer    = 16
	eventsWriteWait = 10 * time.Second
	eventsPingEvery = 30 * time.Second
)

func (api *authApi) upgrader() websocket.Upgrader {
	allowed := api.conf.Server.AllowedOrigins
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowed) == 0 {
				return true
			}
			for _, o := range allowed {
				if o == "*" || o == origin {
					return true
				}
			}
			return false
		},
	}
}

// events streams the session events of the token's user over a websocket.
// The current state is sent first as a restored event. A slow client loses events
// instead of blocking the publisher.
func (api *authApi) events(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return err
	}

	upgrader := api.upgrader()
	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return nil // the upgrader already replied
	}
	defer func() { _ = conn.Close() }()

	out := make(chan user.Event, eventsBuffer)
	unsubscribe := api.svc.Events().Subscribe(func(ev user.Event) {
		if ev.UserID != usr.ID {
			return
		}
		select {
		case out <- ev:
		default:
		}
	})
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// the current state goes to this socket only
	restored := user.Event{
		Type:    user.EventRestored,
		UserID:  usr.ID,
		Profile: api.svc.Profile(ctx.Request().Context(), usr),
		At:      time.Now().UTC(),
	}
	_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
	if err := conn.WriteJSON(restored); err != nil {
		return nil
	}

	ping := time.NewTicker(eventsPingEvery)
	defer ping.Stop()
	for {
		select {
		case ev := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				return nil
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(eventsWriteWait)); err != nil {
				return nil
			}
		case <-closed:
			return nil
		}
	}
}
