package simprotocol

import (
	"context"
	"net"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// State is the lifecycle state of a Conn.
type State int32

const (
	// StateConnecting is the state before the reader goroutine starts.
	StateConnecting State = iota
	// StateOpen means lines can be sent and received.
	StateOpen
	// StateClosed is terminal.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Sender accepts outbound protocol lines.
type Sender interface {
	Send(line string) error
}

// Transport is a persistent bidirectional line connection.
type Transport interface {
	Sender

	// Next blocks until an inbound line is available. After the connection
	// closes it returns ErrClosed once, then ErrNotConnected.
	Next(ctx context.Context) (string, error)

	// Close closes the connection. It is safe to call more than once.
	Close() error
}

// DisconnectHandler is called when the remote side closes the connection or
// the connection fails. It is not called for a local Close.
type DisconnectHandler func(err error)

// Conn is a line-framed connection to a debugger peer.
//
// Thread Safety:
// Send, Next and Close are safe for concurrent use. Sends are serialized so
// lines are never interleaved on the wire.
type Conn struct {
	mu sync.Mutex

	endpoint string
	wire     wire
	state    State
	cause    error // why the reader stopped
	signaled bool  // ErrClosed already returned by Next

	disconnectHandler DisconnectHandler

	writeMu sync.Mutex

	inbound    chan string
	done       chan struct{}
	readerDone chan struct{}
	closeOnce  sync.Once
}

// Dial connects to a peer. Supported endpoints are tcp://host:port (or a
// bare host:port), unix:///path and ws:// or wss:// URLs.
func Dial(ctx context.Context, endpoint string) (*Conn, error) {
	ep, err := ParseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	dialCtx, cancel := context.WithTimeout(ctx, ConnectionTimeout)
	defer cancel()

	var w wire
	switch ep.Scheme {
	case SchemeTCP, SchemeUnix:
		var d net.Dialer
		nc, err := d.DialContext(dialCtx, ep.Scheme, ep.Address)
		if err != nil {
			return nil, NewTransportError("dial", err)
		}
		w = newStreamWire(nc)
	case SchemeWebSocket, SchemeSecureWS:
		ws, _, err := websocket.DefaultDialer.DialContext(dialCtx, ep.Address, nil)
		if err != nil {
			return nil, NewTransportError("dial", err)
		}
		w = newWebSocketWire(ws)
	default:
		return nil, ErrUnsupportedScheme
	}

	return newConn(ep.String(), w), nil
}

// NewStreamConn wraps an already established stream connection.
func NewStreamConn(nc net.Conn) *Conn {
	return newConn(nc.RemoteAddr().String(), newStreamWire(nc))
}

// NewWebSocketConn wraps an already established websocket connection. Each
// text frame carries one protocol line.
func NewWebSocketConn(ws *websocket.Conn) *Conn {
	return newConn(ws.RemoteAddr().String(), newWebSocketWire(ws))
}

func newConn(endpoint string, w wire) *Conn {
	c := &Conn{
		endpoint:   endpoint,
		wire:       w,
		state:      StateConnecting,
		inbound:    make(chan string, 64),
		done:       make(chan struct{}),
		readerDone: make(chan struct{}),
	}

	c.mu.Lock()
	c.state = StateOpen
	c.mu.Unlock()

	go c.readerLoop()
	return c
}

// Endpoint returns the address this connection was made to.
func (c *Conn) Endpoint() string {
	return c.endpoint
}

// State returns the current lifecycle state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error that stopped the reader, if any.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cause
}

// SetDisconnectHandler sets the callback for remote disconnection.
func (c *Conn) SetDisconnectHandler(handler DisconnectHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnectHandler = handler
}

// Send writes one line to the peer. The line must not contain a newline.
// Failures are returned as *TransportError and are not retried.
func (c *Conn) Send(line string) error {
	if strings.Contains(line, LineTerminator) {
		return ErrInvalidLine
	}

	c.mu.Lock()
	state := c.state
	c.mu.Unlock()
	if state != StateOpen {
		return NewTransportError("send", ErrNotConnected)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.wire.WriteLine(line); err != nil {
		return NewTransportError("send", err)
	}
	return nil
}

// Next returns the next inbound line, blocking until one is available or
// ctx is done.
func (c *Conn) Next(ctx context.Context) (string, error) {
	select {
	case line, ok := <-c.inbound:
		if ok {
			return line, nil
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.signaled {
			return "", ErrNotConnected
		}
		c.signaled = true
		return "", ErrClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close closes the connection and waits for the reader goroutine to exit.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.state = StateClosed
		c.mu.Unlock()

		close(c.done)
		err = c.wire.Close()
		<-c.readerDone
	})
	return err
}

// readerLoop reads lines until the wire fails, then closes the inbound
// channel so Next can report ErrClosed.
func (c *Conn) readerLoop() {
	defer close(c.readerDone)
	defer close(c.inbound)

	for {
		line, err := c.wire.ReadLine()
		if err != nil {
			c.handleDisconnect(err)
			return
		}

		select {
		case c.inbound <- line:
		case <-c.done:
			return
		}
	}
}

// handleDisconnect records why the reader stopped and notifies the handler
// unless the close was local.
func (c *Conn) handleDisconnect(err error) {
	c.mu.Lock()
	local := c.state == StateClosed
	c.state = StateClosed
	if c.cause == nil {
		c.cause = err
	}
	handler := c.disconnectHandler
	c.mu.Unlock()

	if !local && handler != nil {
		handler(err)
	}
}
