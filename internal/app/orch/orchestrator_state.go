package orch

import (
	"github.com/dkeye/coderoom/internal/protocol"
	"github.com/rs/zerolog/log"
)

// replicate applies a field change to the room snapshot, when the room
// exists, and relays it to every other member whether or not it applied.
func (c *Coordinator) replicate(s *Session, m protocol.Mutating) {
	room := m.Target()
	mut := m.Mutation()
	if _, err := c.Registry.ApplyStateMutation(room, mut); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("room", string(room)).Msg("state mutation rejected")
		return
	}
	c.broadcast(room, s.ID, protocol.NewMutationEvent(mut))
}

func (c *Coordinator) handleCodeChange(s *Session, m *protocol.CodeChange) { c.replicate(s, m) }

func (c *Coordinator) handleLanguageUpdate(s *Session, m *protocol.LanguageUpdate) {
	c.replicate(s, m)
}

func (c *Coordinator) handleConsoleVisibility(s *Session, m *protocol.ConsoleVisibility) {
	c.replicate(s, m)
}

func (c *Coordinator) handleOutputVisibility(s *Session, m *protocol.OutputVisibility) {
	c.replicate(s, m)
}

func (c *Coordinator) handleInputVisibility(s *Session, m *protocol.InputVisibility) {
	c.replicate(s, m)
}

func (c *Coordinator) handleConsoleHeight(s *Session, m *protocol.ConsoleHeight) { c.replicate(s, m) }

func (c *Coordinator) handleInputChange(s *Session, m *protocol.InputChange) { c.replicate(s, m) }
