package simprotocol

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Protocol constants.
const (
	// Delimiter separates the command name and its parameters.
	Delimiter = "|"

	// LineTerminator ends every message on stream transports.
	LineTerminator = "\n"

	// MaxLineLength is the maximum allowed length for a protocol line in bytes.
	MaxLineLength = 4096

	// DefaultHeartbeatInterval is how often ALIVE is sent to the peer.
	DefaultHeartbeatInterval = 100 * time.Millisecond

	// DefaultTickRate is the drain loop frequency in Hz.
	DefaultTickRate = 60

	// ConnectionTimeout is the timeout for establishing connections.
	ConnectionTimeout = 5 * time.Second

	// WriteTimeout bounds a single outbound write.
	WriteTimeout = 2 * time.Second

	// ProtocolVersion is the version string for the simulator protocol.
	ProtocolVersion = "1.0"
)

// Inbound command names (peer -> simulator).
const (
	CmdRect     = "RECT"
	CmdCircle   = "CIRCLE"
	CmdLine     = "LINE"
	CmdText     = "TEXT"
	CmdTextBox  = "TEXTBOX"
	CmdTriangle = "TRIANGLE"
	CmdColour   = "COLOUR"
	CmdClear    = "CLEAR"
)

// Outbound message names (simulator -> peer).
const (
	MsgScreenSize  = "SCREENSIZE"
	MsgScreenPower = "SCREENPOWER"
	MsgTouch       = "TOUCH"
	MsgAlive       = "ALIVE"
)

// Endpoint schemes understood by Dial.
const (
	SchemeTCP       = "tcp"
	SchemeUnix      = "unix"
	SchemeWebSocket = "ws"
	SchemeSecureWS  = "wss"
)

// Endpoint is a parsed dial target.
type Endpoint struct {
	Scheme  string
	Address string // host:port for tcp, filesystem path for unix, full URL for ws/wss
}

// String returns the endpoint in the same form ParseEndpoint accepts.
func (e Endpoint) String() string {
	switch e.Scheme {
	case SchemeWebSocket, SchemeSecureWS:
		return e.Address
	default:
		return e.Scheme + "://" + e.Address
	}
}

// ParseEndpoint parses an endpoint string. A bare "host:port" is treated as
// tcp.
func ParseEndpoint(s string) (Endpoint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Endpoint{}, newInvalidEndpointError(s)
	}

	scheme, rest, found := strings.Cut(s, "://")
	if !found {
		return Endpoint{Scheme: SchemeTCP, Address: s}, nil
	}

	switch strings.ToLower(scheme) {
	case SchemeTCP:
		if rest == "" {
			return Endpoint{}, newInvalidEndpointError(s)
		}
		return Endpoint{Scheme: SchemeTCP, Address: rest}, nil
	case SchemeUnix:
		if rest == "" {
			return Endpoint{}, newInvalidEndpointError(s)
		}
		return Endpoint{Scheme: SchemeUnix, Address: rest}, nil
	case SchemeWebSocket, SchemeSecureWS:
		u, err := url.Parse(s)
		if err != nil || u.Host == "" {
			return Endpoint{}, newInvalidEndpointError(s)
		}
		return Endpoint{Scheme: strings.ToLower(scheme), Address: u.String()}, nil
	default:
		return Endpoint{}, fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
	}
}
