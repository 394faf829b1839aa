package admin

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"oldphonedeals_back_end/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrdersFeedServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	Hub = realtime.NewHub()

	r := gin.New()
	r.GET("/ws", OrdersWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dialOrdersFeed(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestOrdersWebSocketPingsIdleConnection(t *testing.T) {
	old := pingInterval
	pingInterval = 50 * time.Millisecond
	defer func() { pingInterval = old }()

	srv := newOrdersFeedServer(t)
	conn := dialOrdersFeed(t, srv)

	pinged := make(chan struct{}, 1)
	conn.SetPingHandler(func(string) error {
		select {
		case pinged <- struct{}{}:
		default:
		}
		return nil
	})

	// le handler de ping n'est invoqué que pendant une lecture
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case <-pinged:
	case <-time.After(2 * time.Second):
		t.Fatal("aucun ping reçu sur une connexion inactive")
	}
}

func TestOrdersWebSocketReceivesBroadcast(t *testing.T) {
	srv := newOrdersFeedServer(t)
	conn := dialOrdersFeed(t, srv)

	require.Eventually(t, func() bool { return Hub.Count() == 1 },
		time.Second, 10*time.Millisecond, "l'abonné doit être enregistré auprès du hub")

	Hub.Broadcast(realtime.Event{
		Type: realtime.EventNewOrder,
		Data: map[string]any{"id": "commande-1"},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got realtime.Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, realtime.EventNewOrder, got.Type)
}
