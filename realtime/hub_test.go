package realtime

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ClaudioDevv/e-commerce/logger"
	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastsOrderEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(logger.Discard())
	r := gin.New()
	r.GET("/ws/orders", hub.Handler)

	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/orders", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.OrderCreated(&models.Order{ID: "o1", Status: models.OrderStatusPending})
	hub.OrderPaid(&models.Order{ID: "o1", Status: models.OrderStatusPaid})

	var msg Message
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, EventOrderCreated, msg.Type)
	assert.Equal(t, "o1", msg.Order.ID)

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, EventOrderPaid, msg.Type)
	assert.Equal(t, models.OrderStatusPaid, msg.Order.Status)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHubWithoutClients(t *testing.T) {
	hub := NewHub(logger.Discard())
	hub.OrderCancelled(&models.Order{ID: "o1"})
	assert.Zero(t, hub.Clients())
}
