package muxer

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/bootnode/pkg/protocolids"
)

func newPair(t *testing.T) (*Conn, *Conn) {
	t.Helper()
	a, b := net.Pipe()
	tr := NewTransport(nil)

	server, err := tr.NewConn(a, true)
	require.NoError(t, err)
	client, err := tr.NewConn(b, false)
	require.NoError(t, err)
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return client, server
}

func TestTransport_ID(t *testing.T) {
	assert.Equal(t, protocolids.Yamux, NewTransport(nil).ID())
}

func TestConn_StreamRoundTrip(t *testing.T) {
	client, server := newPair(t)

	go func() {
		s, err := server.AcceptStream()
		if err != nil {
			return
		}
		defer s.Close()
		io.Copy(s, s)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := client.OpenStream(ctx)
	require.NoError(t, err)

	_, err = s.Write([]byte("ping"))
	require.NoError(t, err)
	require.NoError(t, s.CloseWrite())

	got, err := io.ReadAll(s)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(got))
}

func TestConn_CloseUnblocksAccept(t *testing.T) {
	client, server := newPair(t)

	errCh := make(chan error, 1)
	go func() {
		_, err := server.AcceptStream()
		errCh <- err
	}()

	require.NoError(t, client.Close())
	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("accept not unblocked")
	}

	select {
	case <-server.CloseChan():
	case <-time.After(5 * time.Second):
		t.Fatal("server session not closed")
	}
	assert.True(t, server.IsClosed())
}

func TestStream_Reset(t *testing.T) {
	client, server := newPair(t)

	accepted := make(chan *Stream, 1)
	go func() {
		s, err := server.AcceptStream()
		if err == nil {
			accepted <- s
		}
	}()

	s, err := client.OpenStream(context.Background())
	require.NoError(t, err)
	_, err = s.Write([]byte("x"))
	require.NoError(t, err)

	remote := <-accepted
	buf := make([]byte, 1)
	_, err = io.ReadFull(remote, buf)
	require.NoError(t, err)

	require.NoError(t, s.Reset())
	_, err = remote.Read(buf)
	assert.ErrorIs(t, err, ErrStreamReset)
	assert.NotErrorIs(t, err, ErrConnClosed)

	_, err = s.Write([]byte("y"))
	assert.ErrorIs(t, err, ErrStreamReset)
}

func TestStream_ReadDeadline(t *testing.T) {
	client, server := newPair(t)
	go func() {
		if s, err := server.AcceptStream(); err == nil {
			// 不写任何数据，直到会话关闭
			<-server.CloseChan()
			s.Close()
		}
	}()

	s, err := client.OpenStream(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.SetReadDeadline(time.Now().Add(50*time.Millisecond)))

	_, err = s.Read(make([]byte, 1))
	require.ErrorIs(t, err, os.ErrDeadlineExceeded)

	var netErr net.Error
	require.True(t, errors.As(err, &netErr))
	assert.True(t, netErr.Timeout())
}

func TestStream_WriteAfterClose(t *testing.T) {
	client, server := newPair(t)
	go func() {
		if s, err := server.AcceptStream(); err == nil {
			io.Copy(io.Discard, s)
		}
	}()

	s, err := client.OpenStream(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.CloseWrite())

	_, err = s.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrStreamClosed)
}

func TestConn_OpenAfterClose(t *testing.T) {
	client, _ := newPair(t)
	require.NoError(t, client.Close())

	_, err := client.OpenStream(context.Background())
	assert.ErrorIs(t, err, ErrConnClosed)
	assert.NotErrorIs(t, err, ErrStreamReset)

	_, err = client.AcceptStream()
	assert.ErrorIs(t, err, ErrConnClosed)
}
