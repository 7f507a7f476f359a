package orch

import (
	"context"

	"github.com/dkeye/coderoom/internal/chat"
	"github.com/dkeye/coderoom/internal/exec"
	"github.com/dkeye/coderoom/internal/protocol"
	"github.com/rs/zerolog/log"
)

// handleRunCode acknowledges at once and runs the job off the loop. The
// result is posted back and fanned out to whoever is in the room by then.
func (c *Coordinator) handleRunCode(s *Session, m *protocol.RunCode) {
	room := m.Target()
	runBy := m.Username
	if runBy == "" {
		runBy = s.Name
	}
	lang, ok := exec.LookupLanguage(m.Language)
	if !ok {
		c.broadcast(room, "", protocol.NewCodeOutput(exec.UnsupportedMessage(m.Language), true, runBy))
		return
	}
	c.broadcast(room, "", protocol.NewCodeOutput(exec.QueuedMessage(), false, runBy))

	job := exec.Job{Language: lang, Source: m.Code, Stdin: m.Input, RunBy: runBy}
	ctx := c.runCtx
	go func() {
		res, err := c.Exec.Submit(ctx, job)
		if err != nil {
			log.Warn().Err(err).Str("module", "orch").Str("room", string(room)).Str("run_by", runBy).Msg("execution failed")
		}
		text, isErr := exec.Render(res, err)
		c.post(func() {
			c.broadcast(room, "", protocol.NewCodeOutput(text, isErr, runBy))
		})
	}()
}

func (c *Coordinator) handleQueueStatus(s *Session, _ *protocol.QueueStatus) {
	st := c.Exec.Status()
	c.send(s, protocol.QueueStatusReply{
		Type:         protocol.TypeQueueStatus,
		QueueLength:  st.QueueLength,
		IsProcessing: st.IsProcessing,
	})
}

func (c *Coordinator) handleAskAI(s *Session, m *protocol.AskAI) {
	room := m.Target()
	askedBy := m.Username
	ctx, cancel := context.WithTimeout(c.runCtx, c.ChatTimeout)
	go func() {
		defer cancel()
		reply, err := c.Assistant.Reply(ctx, m.Prompt)
		if err != nil {
			log.Warn().Err(err).Str("module", "orch").Str("room", string(room)).Msg("assistant failed")
		}
		text, isErr := chat.Render(reply, err)
		c.post(func() {
			c.broadcast(room, "", protocol.AIResponse{
				Type:    protocol.TypeAIResponse,
				Reply:   text,
				AskedBy: askedBy,
				Error:   isErr,
			})
		})
	}()
}
