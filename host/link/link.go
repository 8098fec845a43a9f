// Package link is the host side of the empiriKit protocol: it frames
// commands and decodes the device's response stream.
package link

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// ErrTimeout is returned when no matching response arrives in time
	ErrTimeout = errors.New("link: response timeout")

	// ErrClosed is returned once the connection has ended
	ErrClosed = errors.New("link: connection closed")
)

// maxObjectSize bounds one response object; a full accelerometer log is the
// largest thing the device sends
const maxObjectSize = 1 << 20

// Client talks to one device over a byte connection
type Client struct {
	conn io.ReadWriteCloser
	log  logrus.FieldLogger

	responses chan *Response
	dropped   atomic.Uint64

	readErr   error
	writeMu   sync.Mutex
	closeOnce sync.Once

	stopChan chan struct{}
	doneChan chan struct{}
}

// NewClient starts reading responses from conn. log may be nil.
func NewClient(conn io.ReadWriteCloser, log logrus.FieldLogger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	c := &Client{
		conn:      conn,
		log:       log,
		responses: make(chan *Response, 256),
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}

	go c.readLoop()

	return c
}

// Send writes one command frame
func (c *Client) Send(code string, arg any) error {
	frame, err := EncodeCommand(code, arg)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.log.WithField("frame", string(frame)).Debug("send")
	n, err := c.conn.Write(frame)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", code, err)
	}
	if n != len(frame) {
		return fmt.Errorf("incomplete write: %d/%d bytes", n, len(frame))
	}
	return nil
}

// Responses exposes the decoded stream directly. It is closed when the
// connection ends.
func (c *Client) Responses() <-chan *Response {
	return c.responses
}

// Next returns the next response
func (c *Client) Next(timeout time.Duration) (*Response, error) {
	select {
	case r, ok := <-c.responses:
		if !ok {
			return nil, c.closedErr()
		}
		return r, nil

	case <-time.After(timeout):
		return nil, fmt.Errorf("%w after %v", ErrTimeout, timeout)

	case <-c.stopChan:
		return nil, ErrClosed
	}
}

// WaitFor discards responses until match accepts one. The timeout covers
// the whole wait.
func (c *Client) WaitFor(match func(*Response) bool, timeout time.Duration) (*Response, error) {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("%w after %v", ErrTimeout, timeout)
		}
		r, err := c.Next(remaining)
		if err != nil {
			return nil, err
		}
		if match(r) {
			return r, nil
		}
		c.log.WithField("kind", r.Kind()).Debug("skipping response")
	}
}

// Request sends a command and waits for a response of the given kind
func (c *Client) Request(code string, arg any, kind string, timeout time.Duration) (*Response, error) {
	if err := c.Send(code, arg); err != nil {
		return nil, err
	}
	return c.WaitFor(func(r *Response) bool { return r.Kind() == kind }, timeout)
}

// Dropped counts responses discarded because nobody was reading
func (c *Client) Dropped() uint64 {
	return c.dropped.Load()
}

// Close stops the reader and closes the connection
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.stopChan)
		err = c.conn.Close()
		<-c.doneChan
	})
	return err
}

func (c *Client) closedErr() error {
	if c.readErr != nil && !errors.Is(c.readErr, io.EOF) {
		return fmt.Errorf("%w: %v", ErrClosed, c.readErr)
	}
	return ErrClosed
}

// readLoop splits the byte stream into objects and queues them
func (c *Client) readLoop() {
	defer close(c.doneChan)
	defer close(c.responses)

	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 0, 4096), maxObjectSize)
	scanner.Split(SplitObjects)

	for scanner.Scan() {
		r, err := DecodeResponse(scanner.Bytes())
		if err != nil {
			c.log.WithError(err).Warn("dropping malformed response")
			continue
		}
		c.log.WithField("kind", r.Kind()).Debug("receive")
		c.deliver(r)
	}
	c.readErr = scanner.Err()

	select {
	case <-c.stopChan:
	default:
		if c.readErr != nil {
			c.log.WithError(c.readErr).Warn("connection read failed")
		}
	}
}

// deliver queues r, dropping the oldest response when the queue is full
func (c *Client) deliver(r *Response) {
	select {
	case c.responses <- r:
		return
	default:
	}

	select {
	case <-c.responses:
		c.dropped.Add(1)
	default:
	}
	select {
	case c.responses <- r:
	case <-c.stopChan:
	}
}
