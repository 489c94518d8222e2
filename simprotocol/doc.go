// Package simprotocol implements the line-based text protocol spoken between
// a debugger (the peer) and the screen simulator.
//
// # Protocol Overview
//
// Every message is a single line. Fields are separated by '|' and the first
// field is the command name, matched case-sensitively. There is no escaping:
// content must not contain the delimiter or a newline.
//
//	Message:   NAME|param|param|...\n
//
// Example Session:
//
//	PEER: COLOUR|1|255|0|0|255
//	PEER: RECT|1|1|0|0|16|8
//	SIM:  SCREENSIZE|1|32|32
//	SIM:  SCREENPOWER|1|1
//	SIM:  ALIVE
//	SIM:  TOUCH|1|1|0|12|7
//
// # Basic Usage
//
// Dial the debugger and exchange lines:
//
//	conn, err := simprotocol.Dial(ctx, "tcp://127.0.0.1:7777")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
//
//	for {
//	    line, err := conn.Next(ctx)
//	    if err != nil {
//	        break // ErrClosed once the peer detaches
//	    }
//	    cmd := simprotocol.Parse(line)
//	    fmt.Println(cmd.Name, cmd.Params)
//	}
//
// # Transports
//
// Dial understands tcp://host:port (the default when no scheme is given),
// unix:///path/to/socket and ws:// or wss:// URLs. Stream transports frame on
// '\n'; websocket transports carry one line per text frame.
//
// # Thread Safety
//
// Conn is safe for concurrent use. Sends are serialized; Next may be called
// from any goroutine.
package simprotocol
