// Package signal is the websocket transport of the room event path.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Huddle/internal/adapters/rtc"
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

var ErrClosed = errors.New("connection closed")

const (
	DefaultSendBuffer = 64
	DefaultReadLimit  = 1 << 20
	DefaultPingPeriod = 54 * time.Second
	writeWait         = 5 * time.Second
)

type Options struct {
	SendBuffer int
	ReadLimit  int64
	PingPeriod time.Duration
	ICEServers []webrtc.ICEServer
}

type SignalWSController struct {
	Orch *orch.Orchestrator
	opts Options
	// joins and audio chunks per connection
	joins *RateLimiter
	audio *RateLimiter
}

func NewSignalWSController(o *orch.Orchestrator, opts Options) *SignalWSController {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = DefaultSendBuffer
	}
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = DefaultReadLimit
	}
	if opts.PingPeriod <= 0 {
		opts.PingPeriod = DefaultPingPeriod
	}
	if len(opts.ICEServers) == 0 {
		opts.ICEServers = rtc.DefaultICEServers()
	}
	return &SignalWSController{
		Orch:  o,
		opts:  opts,
		joins: NewRateLimiter(5, 10*time.Second),
		audio: NewRateLimiter(50, time.Second),
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
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
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and serves the connection until either
// side closes it or ctx is done. name is the display name remembered for
// this browser, if any.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context, name string) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.opts.ReadLimit)

	id := domain.ConnID(uuid.NewString())
	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.opts.SendBuffer),
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	name = ctl.Orch.Connect(id, conn, name, cancel)
	ctl.sendJSON(conn, welcomeMsg{Type: "welcome", Conn: id, Name: name, ICEServers: ctl.opts.ICEServers})

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, id, conn)
}
