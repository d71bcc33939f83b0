package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/romp/internal/adapters/sensors"
	service "github.com/okian/romp/internal/app"
	"github.com/okian/romp/internal/domain/model"
	"github.com/okian/romp/pkg/logger"
	"github.com/okian/romp/pkg/metrics"
)

// Stream timing.
const (
	streamPushInterval = 250 * time.Millisecond
	streamWriteWait    = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Samples come from the companion mobile app, not a browser origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamDependencies defines the interface for round status snapshots.
type StreamDependencies interface {
	Status(ctx context.Context) service.Status
}

// StreamHandler serves the bidirectional WebSocket: inbound frames carry
// sensor samples, outbound frames carry round status.
type StreamHandler struct {
	deps StreamDependencies
	feed *sensors.Feed
}

// NewStreamHandler creates a new stream handler. feed may be nil; inbound
// sample frames are then discarded.
func NewStreamHandler(deps StreamDependencies, feed *sensors.Feed) *StreamHandler {
	return &StreamHandler{deps: deps, feed: feed}
}

// sampleFrame is one inbound WebSocket message.
type sampleFrame struct {
	Sample       *model.SensorSample `json:"sample,omitempty"`
	Availability *model.Availability `json:"availability,omitempty"`
}

// HandleStream handles GET /stream requests.
func (h *StreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	log := logger.Named("stream")
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}
	defer conn.Close()

	// The server's read/write timeouts leave deadlines on the hijacked
	// connection; clear them so the stream can stay open.
	_ = conn.SetReadDeadline(time.Time{})
	_ = conn.SetWriteDeadline(time.Time{})

	metrics.StreamClientConnected(1)
	defer metrics.StreamClientConnected(-1)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reader: decode sample frames into the feed until the peer goes away.
	go func() {
		defer cancel()
		for {
			var frame sampleFrame
			if err := conn.ReadJSON(&frame); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Debug(ctx, "stream read ended", logger.Error(err))
				}
				return
			}
			if h.feed == nil {
				metrics.RecordIngestError("stream")
				continue
			}
			if frame.Availability != nil {
				h.feed.SetAvailability(*frame.Availability)
			}
			if frame.Sample != nil {
				h.feed.Push(*frame.Sample)
			}
		}
	}()

	// Writer: push round status on a fixed cadence.
	ticker := time.NewTicker(streamPushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(h.deps.Status(ctx)); err != nil {
				return
			}
		}
	}
}
