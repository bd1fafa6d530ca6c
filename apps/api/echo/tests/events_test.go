package tests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Br01t/feedback-fort/core/user"
	testutil "github.com/Br01t/feedback-fort/tests"
)

func Test_authApi_events(t *testing.T) {
	db.Reset()
	usr, profile := testutil.CreateUser(t, usrRepo, "mario@test.it", "secret123", user.RoleUser, true)
	other, _ := testutil.CreateUser(t, usrRepo, "anna@test.it", "secret123", user.RoleUser, true)

	srv := httptest.NewServer(app)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/auth/events"

	t.Run("auth required", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("stream", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+getToken(t, usr, &profile), nil)
		require.NoError(t, err)
		defer func() { _ = conn.Close() }()

		next := func() user.Event {
			t.Helper()
			require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
			var ev user.Event
			require.NoError(t, conn.ReadJSON(&ev))
			return ev
		}

		ev := next()
		assert.Equal(t, user.EventRestored, ev.Type)
		assert.Equal(t, usr.ID, ev.UserID)
		assert.Equal(t, &profile, ev.Profile)

		ctx := context.Background()
		usrSvc.Logout(ctx, other) // not ours
		usrSvc.Logout(ctx, usr)

		ev = next()
		assert.Equal(t, user.EventSignedOut, ev.Type)
		assert.Equal(t, usr.ID, ev.UserID)
		assert.Nil(t, ev.Profile)
	})

	t.Run("restored stays on the new socket", func(t *testing.T) {
		token := getToken(t, usr, &profile)
		dial := func() *websocket.Conn {
			t.Helper()
			conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+token, nil)
			require.NoError(t, err)
			return conn
		}
		next := func(conn *websocket.Conn) user.Event {
			t.Helper()
			require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
			var ev user.Event
			require.NoError(t, conn.ReadJSON(&ev))
			return ev
		}

		first := dial()
		defer func() { _ = first.Close() }()
		assert.Equal(t, user.EventRestored, next(first).Type)

		second := dial()
		defer func() { _ = second.Close() }()
		assert.Equal(t, user.EventRestored, next(second).Type)

		usrSvc.Logout(context.Background(), usr)
		assert.Equal(t, user.EventSignedOut, next(first).Type)
		assert.Equal(t, user.EventSignedOut, next(second).Type)
	})
}
