package irc

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipeConn(t *testing.T) (*Conn, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return NewConn(client, time.Second, time.Second), server
}

func TestConn_ReadLine(t *testing.T) {
	c, server := pipeConn(t)
	go func() {
		_, _ = server.Write([]byte("PING :tmi.twitch.tv\r\nplain\nno\x00nul\rlast"))
		server.Close()
	}()

	for _, want := range []string{"PING :tmi.twitch.tv", "plain", "nonul"} {
		got, err := c.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	got, err := c.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "last", got, "partial line is returned with the error")
}

func TestConn_Send(t *testing.T) {
	c, server := pipeConn(t)
	got := make(chan string, 1)
	go func() {
		buf := make([]byte, 64)
		n, _ := server.Read(buf)
		got <- string(buf[:n])
	}()
	require.NoError(t, c.Send(Nick("folderbot")))
	assert.Equal(t, "NICK folderbot\r\n", <-got)
	assert.NotNil(t, c.RemoteAddr())
}

func TestConn_ReadTimeout(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()
	c := NewConn(client, 20*time.Millisecond, 0)
	defer c.Close()

	_, err := c.ReadLine()
	require.Error(t, err)
	assert.True(t, disconnected(err))
}
