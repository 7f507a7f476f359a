package orch

import (
	"context"
	"errors"
	"time"

	"github.com/dkeye/coderoom/internal/app"
	"github.com/dkeye/coderoom/internal/chat"
	"github.com/dkeye/coderoom/internal/core"
	"github.com/dkeye/coderoom/internal/domain"
	"github.com/dkeye/coderoom/internal/exec"
	"github.com/dkeye/coderoom/internal/protocol"
	"github.com/rs/zerolog/log"
)

var ErrStopped = errors.New("coordinator stopped")

// Runner is the execution gateway as seen by the coordinator.
type Runner interface {
	Submit(ctx context.Context, job exec.Job) (exec.Result, error)
	Status() exec.QueueStatus
}

// Session is the per-connection context handed to every handler.
type Session struct {
	ID          domain.ConnID
	ClientToken string
	Conn        core.SignalConnection
	Name        string
	Room        domain.RoomID
}

type handler func(s *Session, msg protocol.Inbound)

// Coordinator serialises every room mutation on one goroutine. Transport
// goroutines post work with Connect, Deliver and Disconnect; nothing else
// touches the registry or the session table.
type Coordinator struct {
	Registry    *app.Registry
	Policy      app.Policy
	Exec        Runner
	Assistant   chat.Assistant
	ChatTimeout time.Duration

	sessions map[domain.ConnID]*Session
	handlers map[protocol.Type]handler
	events   chan func()
	done     chan struct{}
	runCtx   context.Context
}

func New(reg *app.Registry, policy app.Policy, runner Runner, assistant chat.Assistant) *Coordinator {
	if assistant == nil {
		assistant = chat.Disabled{}
	}
	c := &Coordinator{
		Registry:    reg,
		Policy:      policy,
		Exec:        runner,
		Assistant:   assistant,
		ChatTimeout: 30 * time.Second,
		sessions:    make(map[domain.ConnID]*Session),
		events:      make(chan func(), 1024),
		done:        make(chan struct{}),
		runCtx:      context.Background(),
	}
	c.handlers = map[protocol.Type]handler{
		protocol.TypeRequestAccess:  route(c.handleRequestAccess),
		protocol.TypeApproveAccess:  route(c.handleApproveAccess),
		protocol.TypeRejectAccess:   route(c.handleRejectAccess),
		protocol.TypeJoinRoom:       route(c.handleJoinRoom),
		protocol.TypeLeaveRoom:      route(c.handleLeaveRoom),
		protocol.TypeCodeChange:     route(c.handleCodeChange),
		protocol.TypeLanguageUpdate: route(c.handleLanguageUpdate),
		protocol.TypeConsoleVisible: route(c.handleConsoleVisibility),
		protocol.TypeOutputVisible:  route(c.handleOutputVisibility),
		protocol.TypeInputVisible:   route(c.handleInputVisibility),
		protocol.TypeConsoleHeight:  route(c.handleConsoleHeight),
		protocol.TypeInputChange:    route(c.handleInputChange),
		protocol.TypeRunCode:        route(c.handleRunCode),
		protocol.TypeQueueStatus:    route(c.handleQueueStatus),
		protocol.TypeAskAI:          route(c.handleAskAI),
		protocol.TypeCursorPosition: route(c.handleCursorPosition),
		protocol.TypeChatMessage:    route(c.handleChatMessage),
		protocol.TypeTyping:         route(c.handleTyping),
		protocol.TypePing:           route(c.handlePing),
	}
	return c
}

func route[T protocol.Inbound](fn func(*Session, T)) handler {
	return func(s *Session, msg protocol.Inbound) {
		if m, ok := msg.(T); ok {
			fn(s, m)
		}
	}
}

// Run processes posted work until ctx is done.
func (c *Coordinator) Run(ctx context.Context) error {
	c.runCtx = ctx
	defer close(c.done)
	log.Info().Str("module", "orch").Msg("coordinator started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "orch").Msg("coordinator stopped")
			return ctx.Err()
		case fn := <-c.events:
			c.safely(fn)
		}
	}
}

func (c *Coordinator) safely(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "orch").Interface("panic", r).Msg("handler panicked")
		}
	}()
	fn()
}

func (c *Coordinator) post(fn func()) bool {
	select {
	case c.events <- fn:
		return true
	case <-c.done:
		return false
	}
}

// Connect registers a new connection. It must precede Deliver for id.
func (c *Coordinator) Connect(id domain.ConnID, clientToken string, conn core.SignalConnection) {
	c.post(func() {
		c.sessions[id] = &Session{ID: id, ClientToken: clientToken, Conn: conn}
		log.Info().Str("module", "orch").Str("sid", string(id)).Int("sessions", len(c.sessions)).Msg("session connected")
	})
}

func (c *Coordinator) Deliver(id domain.ConnID, msg protocol.Inbound) {
	c.post(func() {
		s, ok := c.sessions[id]
		if !ok {
			return
		}
		h, ok := c.handlers[msg.Kind()]
		if !ok {
			log.Warn().Str("module", "orch").Str("type", string(msg.Kind())).Msg("no handler")
			return
		}
		h(s, msg)
	})
}

// Disconnect is an implicit leave of every room the connection is in.
func (c *Coordinator) Disconnect(id domain.ConnID) {
	c.post(func() {
		for _, res := range c.Registry.Disconnect(id) {
			c.announceLeave(res)
		}
		delete(c.sessions, id)
		log.Info().Str("module", "orch").Str("sid", string(id)).Int("sessions", len(c.sessions)).Msg("session disconnected")
	})
}

// Rooms returns a registry listing taken on the coordinator goroutine.
func (c *Coordinator) Rooms(ctx context.Context) ([]core.RoomInfo, error) {
	out := make(chan []core.RoomInfo, 1)
	if !c.post(func() { out <- c.Registry.List() }) {
		return nil, ErrStopped
	}
	select {
	case rooms := <-out:
		return rooms, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, ErrStopped
	}
}

func (c *Coordinator) QueueStatus() exec.QueueStatus {
	return c.Exec.Status()
}

func (c *Coordinator) send(s *Session, v any) {
	b, err := protocol.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode")
		return
	}
	c.sendFrame(s, b)
}

func (c *Coordinator) sendFrame(s *Session, f core.Frame) {
	err := s.Conn.TrySend(f)
	if err == nil {
		return
	}
	if !errors.Is(err, core.ErrBackpressure) || c.Policy == nil {
		log.Debug().Err(err).Str("module", "orch").Str("sid", string(s.ID)).Msg("send dropped")
		return
	}
	switch c.Policy.OnBackPressure(s.Room, s.ID) {
	case app.KickMember:
		log.Warn().Str("module", "orch").Str("sid", string(s.ID)).Msg("slow consumer kicked")
		s.Conn.Close()
	case app.DropFrame, app.NoAction:
	}
}

// sendTo addresses a connection by id; unknown ids are silently skipped.
func (c *Coordinator) sendTo(id domain.ConnID, v any) {
	if s, ok := c.sessions[id]; ok {
		c.send(s, v)
	}
}

// broadcast fans v out to every member of room except the given connection.
func (c *Coordinator) broadcast(room domain.RoomID, except domain.ConnID, v any) {
	members := c.Registry.Members(room)
	if len(members) == 0 {
		return
	}
	b, err := protocol.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode")
		return
	}
	sent := 0
	for _, m := range members {
		if m.ConnID == except {
			continue
		}
		if s, ok := c.sessions[m.ConnID]; ok {
			c.sendFrame(s, b)
			sent++
		}
	}
	log.Debug().Str("module", "orch").Str("room", string(room)).Str("from", string(except)).Int("sent_to", sent).Msg("broadcast")
}
