package signal

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/coderoom/internal/core"
	"github.com/dkeye/coderoom/internal/domain"
	"github.com/dkeye/coderoom/internal/protocol"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

// Hub receives connection lifecycle and decoded messages.
type Hub interface {
	Connect(id domain.ConnID, clientToken string, conn core.SignalConnection)
	Deliver(id domain.ConnID, msg protocol.Inbound)
	Disconnect(id domain.ConnID)
}

type Options struct {
	ReadLimit    int64
	PingPeriod   time.Duration
	PongWait     time.Duration
	WriteTimeout time.Duration
	SendBuffer   int
}

func DefaultOptions() Options {
	return Options{
		ReadLimit:    1 << 20,
		PingPeriod:   25 * time.Second,
		PongWait:     60 * time.Second,
		WriteTimeout: 5 * time.Second,
		SendBuffer:   256,
	}
}

type SignalWSController struct {
	Hub     Hub
	Limiter *ConnRateLimiter
	opts    Options
}

func NewSignalWSController(hub Hub, limiter *ConnRateLimiter, opts Options) *SignalWSController {
	return &SignalWSController{Hub: hub, Limiter: limiter, opts: opts}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWsSignalConn(ws *websocket.Conn, buffer int) *WsSignalConn {
	return &WsSignalConn{conn: ws, send: make(chan core.Frame, buffer)}
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnectionClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and blocks until both pumps exit.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	id := domain.ConnID(uuid.NewString())
	token := c.GetString("client_token")
	log.Info().Str("module", "signal").Str("sid", string(id)).Str("client", token).Msg("new WS connection")

	conn := newWsSignalConn(ws, ctl.opts.SendBuffer)
	ctl.Hub.Connect(id, token, conn)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg conc.WaitGroup
	wg.Go(func() { ctl.writePump(ctx, id, conn) })
	wg.Go(func() {
		defer cancel()
		ctl.readPump(ctx, id, conn)
	})
	if r := wg.WaitAndRecover(); r != nil {
		log.Error().Str("module", "signal").Str("sid", string(id)).Str("panic", r.String()).Msg("pump panicked")
		conn.Close()
	}

	ctl.Hub.Disconnect(id)
	if ctl.Limiter != nil {
		ctl.Limiter.Forget(id)
	}
	log.Info().Str("module", "signal").Str("sid", string(id)).Msg("WS connection closed")
}
