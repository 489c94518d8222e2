package simprotocol

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// wire frames a byte stream into protocol lines.
type wire interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
}

// streamWire frames a net.Conn on '\n'.
type streamWire struct {
	conn    net.Conn
	scanner *bufio.Scanner
}

func newStreamWire(conn net.Conn) *streamWire {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 1024), MaxLineLength)
	return &streamWire{conn: conn, scanner: scanner}
}

func (w *streamWire) ReadLine() (string, error) {
	if !w.scanner.Scan() {
		err := w.scanner.Err()
		if errors.Is(err, bufio.ErrTooLong) {
			return "", ErrLineTooLong
		}
		if err == nil {
			err = io.EOF
		}
		return "", err
	}
	return strings.TrimSuffix(w.scanner.Text(), "\r"), nil
}

func (w *streamWire) WriteLine(line string) error {
	if err := w.conn.SetWriteDeadline(time.Now().Add(WriteTimeout)); err != nil {
		return err
	}
	_, err := io.WriteString(w.conn, line+LineTerminator)
	return err
}

func (w *streamWire) Close() error {
	return w.conn.Close()
}

// webSocketWire carries one protocol line per text frame.
type webSocketWire struct {
	conn *websocket.Conn
}

func newWebSocketWire(conn *websocket.Conn) *webSocketWire {
	conn.SetReadLimit(MaxLineLength)
	return &webSocketWire{conn: conn}
}

func (w *webSocketWire) ReadLine() (string, error) {
	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			if errors.Is(err, websocket.ErrReadLimit) {
				return "", ErrLineTooLong
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return "", io.EOF
			}
			return "", err
		}
		if messageType != websocket.TextMessage {
			continue
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
}

func (w *webSocketWire) WriteLine(line string) error {
	if err := w.conn.SetWriteDeadline(time.Now().Add(WriteTimeout)); err != nil {
		return err
	}
	return w.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

func (w *webSocketWire) Close() error {
	deadline := time.Now().Add(WriteTimeout)
	_ = w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	return w.conn.Close()
}
