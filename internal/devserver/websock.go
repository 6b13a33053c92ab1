package devserver

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"
)

// websock serializes reads and writes to one websocket connection, whose
// underlying library requires at most one concurrent reader and one
// concurrent writer. Adapted from tabular's fastview websock: channel-backed
// semaphores instead of a mutex, so acquiring under a context is a select.
type websock struct {
	readSem  chan struct{}
	writeSem chan struct{}
	ws       *websocket.Conn
}

func newWebSocket(ws *websocket.Conn) *websock {
	return &websock{
		readSem:  make(chan struct{}, 1),
		writeSem: make(chan struct{}, 1),
		ws:       ws,
	}
}

func (sock *websock) Conn() *websocket.Conn { return sock.ws }

func (sock *websock) Close() {
	sock.readSem <- struct{}{}
	sock.writeSem <- struct{}{}

	_ = sock.ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = sock.ws.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	sock.ws.Close()
}

func (sock *websock) Read(ctx context.Context, readFn func(*websocket.Conn) error) error {
	select {
	case <-ctx.Done():
		return nil
	case sock.readSem <- struct{}{}:
		defer func() { <-sock.readSem }()
		return readFn(sock.ws)
	case <-time.After(readDeadline):
		return ErrSockCongestion
	}
}

func (sock *websock) Write(ctx context.Context, writeFn func(*websocket.Conn) error) error {
	select {
	case <-ctx.Done():
		return nil
	case sock.writeSem <- struct{}{}:
		defer func() { <-sock.writeSem }()
		return writeFn(sock.ws)
	case <-time.After(writeDeadline):
		return ErrSockCongestion
	}
}

// ErrSockCongestion indicates too many waiters on the socket for a given op.
var ErrSockCongestion = errors.New("devserver: socket operation congested")

const (
	readDeadline  = time.Second
	writeDeadline = time.Second
)
