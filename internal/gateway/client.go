// Package gateway connects the client simulation to a game server over websockets.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	ws "github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-arena/internal/protocol"
)

const (
	defaultOutboxSize  = 256
	defaultDialTimeout = 5 * time.Second
	writeWait          = 10 * time.Second
	maxFrameSize       = 1 << 20
)

// ErrClosed is reported by Err when the server closed the connection normally.
var ErrClosed = errors.New("gateway: client closed")

// Options configure a Client.
type Options struct {
	URL         string
	Codec       protocol.Codec
	Player      string // sent as the "name" query parameter when set
	PlayerID    string // sent as the "id" query parameter; servers address the client by it
	Inbox       *Inbox // created from InboxSize when nil
	InboxSize   int
	OutboxSize  int
	DialTimeout time.Duration
	Header      http.Header
	Logger      *log.Logger
}

type frame struct {
	kind int
	data []byte
}

// Client is a websocket connection with a single reader and a single writer goroutine.
// Inbound frames are decoded into the Inbox; Emit queues outbound events without blocking.
type Client struct {
	conn   *ws.Conn
	codec  protocol.Codec
	inbox  *Inbox
	sendCh chan frame
	done   chan struct{}
	logger *log.Logger

	closeOnce sync.Once
	writerWG  sync.WaitGroup
	readerWG  sync.WaitGroup

	mu  sync.Mutex
	err error

	sent     atomic.Int64
	received atomic.Int64
	dropped  atomic.Int64
}

// Dial connects to the server and starts the read and write loops.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	if opts.Codec == nil {
		opts.Codec = protocol.JSONCodec{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.OutboxSize < 1 {
		opts.OutboxSize = defaultOutboxSize
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if opts.Inbox == nil {
		opts.Inbox = NewInbox(opts.InboxSize)
	}

	target, err := dialURL(opts.URL, opts.PlayerID, opts.Player)
	if err != nil {
		return nil, err
	}

	dialer := ws.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: opts.DialTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, target, opts.Header)
	if err != nil {
		return nil, fmt.Errorf("gateway: dial %s: %w", opts.URL, err)
	}
	conn.SetReadLimit(maxFrameSize)

	c := &Client{
		conn:   conn,
		codec:  opts.Codec,
		inbox:  opts.Inbox,
		sendCh: make(chan frame, opts.OutboxSize),
		done:   make(chan struct{}),
		logger: opts.Logger,
	}

	c.writerWG.Add(1)
	go c.writeLoop()
	c.readerWG.Add(1)
	go c.readLoop()

	c.logger.Info("Connected to server", "url", opts.URL, "codec", c.codec.Name())
	return c, nil
}

func dialURL(raw, id, player string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("gateway: invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("gateway: unsupported scheme %q", u.Scheme)
	}
	q := u.Query()
	if id != "" {
		q.Set("id", id)
	}
	if player != "" {
		q.Set("name", player)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Inbox returns the queue inbound events are delivered to.
func (c *Client) Inbox() *Inbox {
	return c.inbox
}

// Drain returns the inbound events received since the last call.
func (c *Client) Drain() []protocol.Inbound {
	return c.inbox.Drain()
}

// Emit encodes and queues an outbound event. It never blocks; when the
// send queue is full the event is dropped and a warning is logged.
func (c *Client) Emit(evt protocol.Outbound) {
	select {
	case <-c.done:
		return
	default:
	}

	data, err := c.codec.Marshal(evt)
	if err != nil {
		c.logger.Warn("Failed to encode event", "type", evt.EventType(), "error", err)
		return
	}
	kind := ws.TextMessage
	if c.codec.Binary() {
		kind = ws.BinaryMessage
	}

	select {
	case c.sendCh <- frame{kind: kind, data: data}:
	default:
		c.dropped.Add(1)
		c.logger.Warn("Send queue full, dropping event", "type", evt.EventType())
	}
}

func (c *Client) writeLoop() {
	defer c.writerWG.Done()
	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, ""))
			return
		case f := <-c.sendCh:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.fail(fmt.Errorf("gateway: set write deadline: %w", err))
				return
			}
			if err := c.conn.WriteMessage(f.kind, f.data); err != nil {
				c.fail(fmt.Errorf("gateway: write: %w", err))
				return
			}
			c.sent.Add(1)
		}
	}
}

func (c *Client) readLoop() {
	defer c.readerWG.Done()
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return
			default:
			}
			if ws.IsCloseError(err, ws.CloseNormalClosure, ws.CloseGoingAway) {
				c.fail(ErrClosed)
			} else {
				c.fail(fmt.Errorf("gateway: read: %w", err))
			}
			return
		}

		evt, err := c.codec.Unmarshal(message)
		if err != nil {
			c.logger.Warn("Discarding malformed frame", "error", err)
			continue
		}
		in, ok := evt.(protocol.Inbound)
		if !ok {
			c.logger.Debug("Ignoring non-inbound event", "type", evt.EventType())
			continue
		}
		c.received.Add(1)
		if !c.inbox.Push(in) {
			c.logger.Debug("Inbox full, dropped an event", "type", in.EventType())
		}
	}
}

// fail records the first terminal error and stops the write loop.
func (c *Client) fail(err error) {
	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.mu.Unlock()
	if !errors.Is(err, ErrClosed) {
		c.logger.Warn("Connection lost", "error", err)
	}
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Err returns the error that ended the connection, if any.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Done closes when the connection ends for any reason.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Stats reports frames sent, received and dropped on the send queue.
func (c *Client) Stats() (sent, received, dropped int64) {
	return c.sent.Load(), c.received.Load(), c.dropped.Load()
}

// Close sends a close frame, waits for both loops and closes the inbox.
// Safe to call multiple times.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	c.writerWG.Wait()
	err := c.conn.Close()
	c.readerWG.Wait()
	c.inbox.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
