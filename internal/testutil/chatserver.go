package testutil

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

// ChatServer is a loopback TCP listener standing in for the chat server.
type ChatServer struct {
	ln    net.Listener
	conns chan net.Conn
	t     *testing.T
}

// NewChatServer listens on a random loopback port and accepts connections
// in the background.
//
// Postcondition: Returns a listening server closed at test cleanup.
func NewChatServer(t *testing.T) *ChatServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listening: %v", err)
	}
	s := &ChatServer{ln: ln, conns: make(chan net.Conn, 8), t: t}
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				close(s.conns)
				return
			}
			s.conns <- c
		}
	}()
	t.Cleanup(func() { ln.Close() })
	return s
}

// Host returns the listening host.
func (s *ChatServer) Host() string {
	return s.ln.Addr().(*net.TCPAddr).IP.String()
}

// Port returns the listening port.
func (s *ChatServer) Port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

// Addr returns the "host:port" address.
func (s *ChatServer) Addr() string {
	return s.ln.Addr().String()
}

// Accept waits for the next client connection.
//
// Postcondition: Returns a peer for the accepted connection, or fails the
// test after timeout.
func (s *ChatServer) Accept(timeout time.Duration) *ChatPeer {
	s.t.Helper()
	select {
	case c, ok := <-s.conns:
		if !ok {
			s.t.Fatal("chat server closed")
		}
		s.t.Cleanup(func() { c.Close() })
		return &ChatPeer{conn: c, reader: bufio.NewReader(c), t: s.t}
	case <-time.After(timeout):
		s.t.Fatalf("no connection within %s", timeout)
		return nil
	}
}

// ChatPeer is the server side of one client connection.
type ChatPeer struct {
	conn   net.Conn
	reader *bufio.Reader
	t      *testing.T
}

// ReadLine returns the next line the client sent, without CRLF.
//
// Postcondition: Returns the line or fails the test on timeout.
func (p *ChatPeer) ReadLine(timeout time.Duration) string {
	p.t.Helper()
	_ = p.conn.SetReadDeadline(time.Now().Add(timeout))
	line, err := p.reader.ReadString('\n')
	if err != nil {
		p.t.Fatalf("reading line: got %q, error: %v", line, err)
	}
	return strings.TrimRight(line, "\r\n")
}

// ReadUntil reads lines until one contains substr and returns every line
// read, the match last.
//
// Precondition: substr must be non-empty.
func (p *ChatPeer) ReadUntil(substr string, timeout time.Duration) []string {
	p.t.Helper()
	deadline := time.Now().Add(timeout)
	var lines []string
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			p.t.Fatalf("no line containing %q; got %q", substr, lines)
		}
		l := p.ReadLine(remaining)
		lines = append(lines, l)
		if strings.Contains(l, substr) {
			return lines
		}
	}
}

// Send writes text followed by CRLF.
func (p *ChatPeer) Send(text string) {
	p.t.Helper()
	_ = p.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := fmt.Fprintf(p.conn, "%s\r\n", text); err != nil {
		p.t.Fatalf("sending %q: %v", text, err)
	}
}

// Privmsg sends a chat line from user to channel.
func (p *ChatPeer) Privmsg(user, channel, text string) {
	p.t.Helper()
	p.Send(fmt.Sprintf(":%s!%s@%s.tmi.twitch.tv PRIVMSG #%s :%s", user, user, user, channel, text))
}

// Close closes the connection, which the client sees as end of stream.
func (p *ChatPeer) Close() {
	p.conn.Close()
}
