// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/agora/internal/platform/apperr"
	"github.com/taibuivan/agora/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/agora/internal/platform/request"
	"github.com/taibuivan/agora/internal/platform/respond"
	"github.com/taibuivan/agora/internal/platform/validate"
)

// Connection timings.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	handshakeTimeout = 10 * time.Second

	// Viewers only send control frames.
	maxReadBytes = 512
)

// Subscriber opens Redis pub/sub subscriptions.
type Subscriber interface {
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// Gauge tracks the number of open live connections.
type Gauge interface {
	SubscriberOpened()
	SubscriberClosed()
}

// Handler upgrades GET /topics/{topicID}/live to a websocket and forwards
// every message published on the topic channel.
type Handler struct {
	subscriber Subscriber
	gauge      Gauge
	upgrader   websocket.Upgrader
}

// NewHandler constructs a live feed [Handler]. gauge may be nil.
// allowOrigin decides which browser origins may open a connection.
func NewHandler(subscriber Subscriber, gauge Gauge, allowOrigin func(origin string) bool) *Handler {
	return &Handler{
		subscriber: subscriber,
		gauge:      gauge,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: handshakeTimeout,
			ReadBufferSize:   1024,
			WriteBufferSize:  4096,
			CheckOrigin: func(request *http.Request) bool {
				origin := request.Header.Get("Origin")
				return origin == "" || allowOrigin(origin)
			},
		},
	}
}

/*
Live streams new posts of one topic.

GET /api/v1/topics/{topicID}/live

Response:
  - 101: Switching protocols, then one text frame per post.created event
  - 400: Malformed topic ID
  - 500: Redis subscription failed
*/
func (handler *Handler) Live(writer http.ResponseWriter, request *http.Request) {
	topicID := requestutil.Param(request, "topicID")

	validator := &validate.Validator{}
	if err := validator.UUID("topicId", topicID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	context, cancel := context.WithCancel(request.Context())
	defer cancel()

	logger := ctxutil.GetLogger(context).With(slog.String("topic_id", topicID))

	// Subscribe before upgrading so no post published after the 101 is missed
	pubsub := handler.subscriber.Subscribe(context, Channel(topicID))
	defer func() { _ = pubsub.Close() }()

	if _, err := pubsub.Receive(context); err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	conn, err := handler.upgrader.Upgrade(writer, request, nil)
	if err != nil {
		// The upgrader has already written the HTTP error
		logger.WarnContext(context, "live_upgrade_failed", slog.String("error", err.Error()))
		return
	}
	defer func() { _ = conn.Close() }()

	if handler.gauge != nil {
		handler.gauge.SubscriberOpened()
		defer handler.gauge.SubscriberClosed()
	}

	logger.InfoContext(context, "live_subscriber_connected")
	defer logger.InfoContext(context, "live_subscriber_disconnected")

	go readPump(conn, cancel)
	writePump(context, conn, pubsub.Channel())
}

// readPump discards client frames and cancels the stream once the peer goes away.
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(maxReadBytes)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump forwards published payloads and keeps the connection alive with pings.
func writePump(context context.Context, conn *websocket.Conn, messages <-chan *redis.Message) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-context.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case message, ok := <-messages:
			if !ok {
				return
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(message.Payload)); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
