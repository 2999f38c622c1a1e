package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
)

// MaxMessageSize bounds a single framed message: code byte, payload and the
// line terminator. Longer inbound lines are rejected, longer outbound
// payloads are truncated.
const MaxMessageSize = 512

// Code is the single-character control code that prefixes every message.
type Code byte

const (
	// CodeNone marks an inbound line that carried no recognized control code.
	CodeNone Code = 0
	// CodePrint tells the client to display the payload and acknowledge it.
	CodePrint Code = 'P'
	// CodePrintInput tells the client to display the payload and reply with
	// one raw line of input, without a code prefix.
	CodePrintInput Code = 'B'
	// CodeInput tells the client to display the payload as a prompt and
	// reply with a coded line.
	CodeInput Code = 'I'
	// CodeAck is the client's acknowledgment of a CodePrint message.
	CodeAck Code = 'A'
	// CodeExit tells the receiving side the connection is being terminated.
	CodeExit Code = 'E'
)

var ErrMessageTooLong = errors.New("protocol: message exceeds maximum size")

// Channel frames control-coded text messages over a stream connection.
// Reads are owned by a single session; writes are guarded so a shutdown
// notification can be sent while the session owner is mid-exchange.
type Channel struct {
	conn net.Conn
	r    *bufio.Reader

	writeMu sync.Mutex

	// pendingAcks counts Print frames the peer has not acknowledged yet.
	// ReceiveReply needs it to tell a late ack apart from a raw reply
	// that happens to be the ack character.
	pendingAcks atomic.Int32
}

func NewChannel(conn net.Conn) *Channel {
	return &Channel{
		conn: conn,
		r:    bufio.NewReaderSize(conn, MaxMessageSize),
	}
}

// Send writes one framed message. Payloads are single lines: any trailing
// newline is stripped and a terminator is appended after truncation.
func (c *Channel) Send(code Code, payload string) error {
	payload = strings.TrimRight(payload, "\r\n")
	if len(payload) > MaxMessageSize-2 {
		payload = payload[:MaxMessageSize-2]
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if _, err := fmt.Fprintf(c.conn, "%c%s\n", code, payload); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	if code == CodePrint {
		c.pendingAcks.Add(1)
	}
	return nil
}

// Receive blocks until a message arrives and returns its code and payload.
// Bare acknowledgments from the auto-acknowledging client are skipped. A
// line starting with an unrecognized byte is returned whole as the payload
// with CodeNone, so raw input replies still reach the caller.
func (c *Channel) Receive() (Code, string, error) {
	for {
		text, err := c.readLine()
		if err != nil {
			return CodeNone, "", err
		}
		if text == "" {
			return CodeNone, "", nil
		}

		code := Code(text[0])
		switch code {
		case CodePrint, CodePrintInput, CodeInput, CodeExit:
			return code, text[1:], nil
		case CodeAck:
			// A bare ack carries no payload. Anything longer is raw
			// input that happens to start with the ack byte.
			if len(text) == 1 {
				c.consumeAck()
				continue
			}
			return CodeNone, text, nil
		default:
			return CodeNone, text, nil
		}
	}
}

// ReceiveReply reads the raw line the client sends after a CodePrintInput
// prompt. Acknowledgments for earlier Print frames may still precede it on
// the wire, so a bare ack is discarded only while one is owed; the next
// line is the reply even if the player typed the ack character itself.
func (c *Channel) ReceiveReply() (string, error) {
	for {
		text, err := c.readLine()
		if err != nil {
			return "", err
		}
		if len(text) == 1 && Code(text[0]) == CodeAck && c.consumeAck() {
			continue
		}
		return text, nil
	}
}

func (c *Channel) readLine() (string, error) {
	line, err := c.r.ReadSlice('\n')
	if err != nil {
		if errors.Is(err, bufio.ErrBufferFull) {
			return "", ErrMessageTooLong
		}
		return "", fmt.Errorf("failed to receive message: %w", err)
	}
	return strings.TrimRight(string(line), "\r\n"), nil
}

// consumeAck retires one owed Print acknowledgment. Reads have a single
// owner, so checking before decrementing cannot race another consumer.
func (c *Channel) consumeAck() bool {
	if c.pendingAcks.Load() > 0 {
		c.pendingAcks.Add(-1)
		return true
	}
	return false
}

func (c *Channel) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *Channel) Close() error {
	return c.conn.Close()
}

// Print sends a display-only line.
func (c *Channel) Print(text string) error {
	return c.Send(CodePrint, text)
}

// PrintAll sends a sequence of display-only lines, stopping at the first
// send failure.
func (c *Channel) PrintAll(lines ...string) error {
	for _, line := range lines {
		if err := c.Print(line); err != nil {
			return err
		}
	}
	return nil
}

// Prompt sends a prompt that expects a coded reply.
func (c *Channel) Prompt(text string) error {
	return c.Send(CodeInput, text)
}
