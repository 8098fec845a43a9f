package sim

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WSTransport is a core.Transport fed by one WebSocket client at a time.
// Every inbound message is a chunk of the host's byte stream and every
// engine write goes out as one text message. With no client attached,
// writes are discarded the way an unopened CDC port drops them.
type WSTransport struct {
	log      logrus.FieldLogger
	upgrader websocket.Upgrader

	inbound chan []byte
	pending []byte // engine goroutine only

	mu   sync.Mutex
	conn *websocket.Conn

	clients  atomic.Uint64
	rejected atomic.Uint64
}

// NewWSTransport creates a transport with room for depth inbound messages
func NewWSTransport(log logrus.FieldLogger, depth int) *WSTransport {
	return &WSTransport{
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		inbound: make(chan []byte, depth),
	}
}

// ServeHTTP attaches a client. A second concurrent client gets 409.
func (t *WSTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t.mu.Lock()
	busy := t.conn != nil
	t.mu.Unlock()
	if busy {
		t.rejected.Add(1)
		http.Error(w, "device already has a host", http.StatusConflict)
		return
	}

	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		t.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	t.mu.Lock()
	if t.conn != nil {
		t.mu.Unlock()
		t.rejected.Add(1)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "device already has a host"),
			deadlineSoon())
		conn.Close()
		return
	}
	t.conn = conn
	t.mu.Unlock()

	t.clients.Add(1)
	log := t.log.WithField("remote", r.RemoteAddr)
	log.Info("host attached")

	t.readLoop(conn, log)

	t.mu.Lock()
	if t.conn == conn {
		t.conn = nil
	}
	t.mu.Unlock()
	conn.Close()
	log.Info("host detached")
}

func (t *WSTransport) readLoop(conn *websocket.Conn, log logrus.FieldLogger) {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Debug("read ended")
			}
			return
		}
		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}

		select {
		case t.inbound <- data:
		default:
			log.WithField("bytes", len(data)).Warn("inbound queue full, dropping message")
		}
	}
}

// Connected reports whether a host is attached
func (t *WSTransport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil
}

// TryRead hands the engine at most len(p) bytes of the oldest message
func (t *WSTransport) TryRead(p []byte) (int, bool) {
	if len(t.pending) == 0 {
		select {
		case data := <-t.inbound:
			t.pending = data
		default:
			return 0, false
		}
	}

	n := copy(p, t.pending)
	t.pending = t.pending[n:]
	return n, n > 0
}

func (t *WSTransport) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return len(p), nil
	}
	if err := t.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close detaches the current client
func (t *WSTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	_ = t.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "simulator stopping"),
		deadlineSoon())
	err := t.conn.Close()
	t.conn = nil
	return err
}
