package link

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"empirikit/host/serial"

	"github.com/gorilla/websocket"
)

// Options selects the connection: URL wins over Port when both are set
type Options struct {
	Port    string
	Baud    int
	URL     string
	Timeout time.Duration
}

// Open connects using opts and returns the raw connection
func Open(opts Options) (io.ReadWriteCloser, string, error) {
	if opts.URL != "" {
		conn, err := DialWebSocket(opts.URL, opts.Timeout)
		if err != nil {
			return nil, "", err
		}
		return conn, "websocket " + opts.URL, nil
	}

	device := opts.Port
	if device == "" {
		found, err := serial.FindBoard()
		if err != nil {
			return nil, "", err
		}
		device = found
	}

	cfg := serial.DefaultConfig(device)
	if opts.Baud > 0 {
		cfg.Baud = opts.Baud
	}
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, "", err
	}
	return port, "serial " + device, nil
}

// WebSocketConn adapts a WebSocket to a byte stream. Each inbound message
// is a chunk of device output; each Write is sent as one text message.
type WebSocketConn struct {
	conn      *websocket.Conn
	buf       []byte
	bufOffset int
	writeMu   sync.Mutex
}

// DialWebSocket connects to a simulator's /ws endpoint
func DialWebSocket(wsURL string, timeout time.Duration) (*WebSocketConn, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	dialer := websocket.Dialer{HandshakeTimeout: timeout}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("WebSocket connection failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("WebSocket connection failed: %w", err)
	}

	return &WebSocketConn{conn: conn}, nil
}

func (w *WebSocketConn) Read(p []byte) (int, error) {
	if w.bufOffset < len(w.buf) {
		n := copy(p, w.buf[w.bufOffset:])
		w.bufOffset += n
		return n, nil
	}

	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, io.EOF
			}
			return 0, err
		}
		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}

		w.buf = data
		n := copy(p, w.buf)
		w.bufOffset = n
		return n, nil
	}
}

func (w *WebSocketConn) Write(p []byte) (int, error) {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	if err := w.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close sends a close frame and closes the socket
func (w *WebSocketConn) Close() error {
	w.writeMu.Lock()
	_ = w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	w.writeMu.Unlock()
	return w.conn.Close()
}
