package backend

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Status is the connection state exposed to the view layer.
type Status string

const (
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusError        Status = "error"
	StatusDisconnected Status = "disconnected"
)

// SnapshotSink receives raw snapshot frames in arrival order.
type SnapshotSink interface {
	ApplySnapshot(raw []byte) error
}

// StatusFunc is invoked on every connection-state change.
type StatusFunc func(Status)

// StreamWorker owns the market-data WebSocket lifecycle: connect, reconnect
// with exponential backoff, teardown. Each received frame is one full state
// snapshot handed to the sink; frames are never reordered or coalesced.
type StreamWorker struct {
	url      string
	sink     SnapshotSink
	onStatus StatusFunc

	conn       *websocket.Conn
	mu         sync.RWMutex
	connected  bool
	lastStatus Status
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewStreamWorker creates a stream worker. onStatus may be nil.
func NewStreamWorker(url string, sink SnapshotSink, onStatus StatusFunc) *StreamWorker {
	return &StreamWorker{
		url:      url,
		sink:     sink,
		onStatus: onStatus,
	}
}

// Connect starts the connection loop in the background.
func (w *StreamWorker) Connect(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.connectionLoop(ctx)
	return nil
}

func (w *StreamWorker) connectionLoop(ctx context.Context) {
	defer w.wg.Done()
	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		w.setStatus(StatusConnecting)
		if err := w.connect(ctx); err != nil {
			w.setStatus(StatusError)
			slog.Warn("Stream connection failed", slog.Any("error", err), slog.Int("retry", retryCount))
			delay := calculateBackoff(retryCount)
			retryCount++
			if retryCount > maxRetries {
				retryCount = 0
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		} else {
			retryCount = 0
			w.readLoop(ctx)
			w.setStatus(StatusDisconnected)
		}
	}
}

func (w *StreamWorker) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	w.mu.Lock()
	w.conn = conn
	w.connected = true
	w.mu.Unlock()

	w.setStatus(StatusConnected)
	slog.Info("Stream connected", slog.String("url", w.url))
	return nil
}

// readLoop drains snapshot frames until the connection drops. The backend
// pushes at sub-second cadence, so a stalled read deadline doubles as the
// liveness check; no ping loop is needed.
func (w *StreamWorker) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.closeConnection()
			return
		default:
		}

		w.mu.RLock()
		conn := w.conn
		w.mu.RUnlock()
		if conn == nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		_, msg, err := conn.ReadMessage()
		if err != nil {
			slog.Warn("Stream read failed", slog.Any("error", err))
			w.closeConnection()
			return
		}

		// Malformed frames are the sink's problem; it logs and keeps prior
		// state, so a parse failure never tears the connection down.
		w.sink.ApplySnapshot(msg)
	}
}

// IsConnected reports whether a live connection is established.
func (w *StreamWorker) IsConnected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.connected
}

// Disconnect tears the session down and waits for the loop to exit.
func (w *StreamWorker) Disconnect() {
	if w.cancel != nil {
		w.cancel()
	}
	w.closeConnection()
	w.wg.Wait()
	w.setStatus(StatusDisconnected)
}

func (w *StreamWorker) closeConnection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	w.connected = false
}

// setStatus reports a transition to the callback. Consecutive duplicates are
// suppressed: teardown is observed by both the read loop and Disconnect, and
// the view should see one disconnected, not two.
func (w *StreamWorker) setStatus(s Status) {
	w.mu.Lock()
	if s == w.lastStatus {
		w.mu.Unlock()
		return
	}
	w.lastStatus = s
	w.mu.Unlock()
	if w.onStatus != nil {
		w.onStatus(s)
	}
}
