package signal

import (
	"context"
	"errors"
	"time"

	"github.com/dkeye/coderoom/internal/domain"
	"github.com/dkeye/coderoom/internal/protocol"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, id domain.ConnID, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer ticker.Stop()
	defer c.Close()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("sid", string(id)).Msg("writePump ctx done")
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(time.Second))
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Str("sid", string(id)).Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteTimeout)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("sid", string(id)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctl.opts.WriteTimeout)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("sid", string(id)).Msg("writePump ping failed")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, id domain.ConnID, c *WsSignalConn) {
	defer func() {
		log.Debug().Str("module", "signal").Str("sid", string(id)).Msg("readPump closing")
		c.Close()
	}()

	c.conn.SetReadLimit(ctl.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	})

	for {
		if ctx.Err() != nil {
			return
		}
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "signal").Str("sid", string(id)).Msg("readPump read error")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		ctl.handleFrame(id, data)
	}
}

// handleFrame decodes one inbound frame. Malformed or throttled frames are
// dropped without a reply.
func (ctl *SignalWSController) handleFrame(id domain.ConnID, data []byte) {
	if ctl.Limiter != nil && !ctl.Limiter.Allow(id) {
		log.Debug().Str("module", "signal").Str("sid", string(id)).Msg("rate limited")
		return
	}
	msg, err := protocol.Decode(data)
	if err != nil {
		ev := log.Debug()
		if errors.Is(err, protocol.ErrUnknownType) {
			ev = log.Warn()
		}
		ev.Err(err).Str("module", "signal").Str("sid", string(id)).Msg("frame ignored")
		return
	}
	ctl.Hub.Deliver(id, msg)
}
