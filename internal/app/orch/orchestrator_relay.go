package orch

import (
	"time"

	"github.com/dkeye/coderoom/internal/protocol"
)

// Relays below carry no room state; they are forwarded and forgotten.

func (c *Coordinator) handleCursorPosition(s *Session, m *protocol.CursorPosition) {
	name := s.Name
	if name == "" {
		name = "Unknown"
	}
	c.broadcast(m.Target(), s.ID, protocol.CursorUpdate{
		Type:     protocol.TypeCursorUpdate,
		UserID:   s.ID,
		Username: name,
		Position: m.Position,
	})
}

func (c *Coordinator) handleChatMessage(s *Session, m *protocol.ChatMessage) {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	c.broadcast(m.Target(), "", protocol.ChatRelay{
		Type:      protocol.TypeChatMessage,
		Username:  m.Username,
		Message:   m.Message,
		Timestamp: ts,
	})
}

func (c *Coordinator) handleTyping(s *Session, m *protocol.Typing) {
	c.broadcast(m.Target(), s.ID, protocol.TypingRelay{
		Type:     protocol.TypeTyping,
		Username: m.Username,
		IsTyping: m.IsTyping,
	})
}

func (c *Coordinator) handlePing(s *Session, _ *protocol.Ping) {
	c.send(s, protocol.Pong{Type: protocol.TypePong})
}
