// Package devserver streams game snapshots to a local browser tab over a
// websocket, for watching self-play run. It is not a graphical renderer: it
// draws nothing itself, it only ships the same Observation JSON an external
// renderer would already be handed via Engine.Observe. Adapted from
// tabular's server/fastview client: the same upgrade-then-fan-out-over-
// errgroup shape, generalized from UI element diffs to quantum.Observation
// snapshots.
package devserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"

	"qshogi/internal/quantum"
)

const (
	writeWait      = 1 * time.Second
	pubResolution  = 100 * time.Millisecond
	pingResolution = 200 * time.Millisecond
	pongWait       = pingResolution * 4
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Snapshot is one published update: a side-to-move observation plus enough
// bookkeeping for a viewer to label it.
type Snapshot struct {
	Turn       int                  `json:"turn"`
	SideToMove quantum.Owner        `json:"sideToMove"`
	Terminal   quantum.TerminalKind `json:"terminal"`
	Obs        quantum.Observation  `json:"observation"`
}

// Server publishes Snapshots received on Updates to connected websocket
// clients, at a bounded rate per client. All clients read the one Updates
// channel, so each Snapshot reaches at most one client; one arriving within
// pubResolution of that client's previous publish is dropped.
type Server struct {
	Updates chan Snapshot
	addr    string
	http    *http.Server
}

// New returns a Server that will listen on addr once Run is called. addr
// empty means the caller should not start it (engineconfig.Config.DevServerAddr
// unset disables the feature entirely).
func New(addr string) *Server {
	s := &Server{Updates: make(chan Snapshot, 64), addr: addr}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	s.http = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Run starts the HTTP server and blocks until ctx is canceled or the server
// fails to start. It is intended to be run under an errgroup alongside the
// self-play loop that feeds Updates.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.http.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cli := &client{ws: newWebSocket(conn), updates: s.Updates, rootCtx: r.Context()}
	_ = cli.Sync()
}

// client fans one connection's lifetime out over three goroutines: liveness
// ping/pong, reading (required for the pong handler to fire), and publishing
// Snapshots — mirroring tabular's fastview client[T].Sync.
type client struct {
	ws      *websock
	updates chan Snapshot
	rootCtx context.Context
}

func (cli *client) Sync() error {
	group, ctx := errgroup.WithContext(cli.rootCtx)

	group.Go(func() error { return cli.readMessages(ctx) })
	group.Go(func() error { return cli.pingPong(ctx) })
	group.Go(func() error { return cli.publish(ctx) })

	return group.Wait()
}

func (cli *client) readMessages(ctx context.Context) error {
	for {
		err := cli.ws.Read(ctx, func(ws *websocket.Conn) (readErr error) {
			_, _, readErr = ws.ReadMessage()
			return
		})
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (cli *client) pingPong(ctx context.Context) error {
	pong := make(chan struct{})
	defer close(pong)
	cli.ws.Conn().SetPongHandler(func(_ string) error {
		pong <- struct{}{}
		return nil
	})

	pinger := channerics.NewTicker(ctx.Done(), pingResolution)
	lastPong := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pinger:
			if time.Since(lastPong) > pongWait {
				return fmt.Errorf("devserver: pong deadline exceeded")
			}
			if err := cli.ping(ctx); err != nil {
				return err
			}
		case <-pong:
			lastPong = time.Now()
		}
	}
}

func (cli *client) ping(ctx context.Context) error {
	return cli.ws.Write(ctx, func(ws *websocket.Conn) error {
		return ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
	})
}

func (cli *client) publish(ctx context.Context) error {
	var lastSync time.Time // zero, so the first snapshot is always published
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-cli.updates:
			if !ok {
				return nil
			}
			if time.Since(lastSync) < pubResolution {
				continue
			}
			lastSync = time.Now()

			err := cli.ws.Write(ctx, func(ws *websocket.Conn) error {
				if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					return fmt.Errorf("devserver: set write deadline: %w", err)
				}
				if err := ws.WriteJSON(snap); err != nil {
					return fmt.Errorf("devserver: publish: %w", err)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
	}
}
