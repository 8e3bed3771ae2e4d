// Package irc is the Twitch chat transport: a line connection, message
// formatting, an unbounded outbound queue drained by a rate-limited writer,
// the read loop and the reconnecting session around them.
package irc

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net"
	"sync"
	"time"
)

// Conn wraps a TCP connection with CRLF line framing.
type Conn struct {
	raw    net.Conn
	reader *bufio.Reader
	mu     sync.Mutex

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps a raw connection.
//
// Precondition: raw must be a valid, open network connection.
// Postcondition: Returns a Conn ready for reading and writing.
func NewConn(raw net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		reader:       bufio.NewReaderSize(raw, 4096),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Dial connects to addr and wraps the connection.
//
// Postcondition: Returns a connected Conn or a non-nil error.
func Dial(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) (*Conn, error) {
	var d net.Dialer
	raw, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}
	return NewConn(raw, readTimeout, writeTimeout), nil
}

// ReadLine reads one line without its trailing "\r\n" or "\n". NUL bytes
// are dropped.
//
// Postcondition: Returns the next line, or an error (including io.EOF)
// together with any partial line.
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	var line bytes.Buffer
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return line.String(), err
		}
		if b == '\n' {
			break
		}
		if b == '\r' {
			next, err := c.reader.Peek(1)
			if err == nil && len(next) > 0 && next[0] == '\n' {
				_, _ = c.reader.ReadByte()
			}
			break
		}
		if b == 0 {
			continue
		}
		line.WriteByte(b)
	}
	return line.String(), nil
}

// Send writes one formatted message.
//
// Postcondition: The message bytes, already CRLF terminated, are written.
func (c *Conn) Send(m Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err := c.raw.Write([]byte(m))
	return err
}

// Close closes the underlying connection.
//
// Postcondition: The connection is closed; a blocked ReadLine returns.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the remote network address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}
