package orch

import (
	"github.com/dkeye/coderoom/internal/app"
	"github.com/dkeye/coderoom/internal/domain"
	"github.com/dkeye/coderoom/internal/protocol"
	"github.com/rs/zerolog/log"
)

func (c *Coordinator) handleRequestAccess(s *Session, m *protocol.RequestAccess) {
	room, name, ok := parseRoomAndName(m.RoomID, m.Username)
	if !ok {
		return
	}
	d := c.Registry.RequestAccess(room, s.ID, name)
	switch {
	case d.State == domain.AccessAutoApproved:
		log.Info().Str("module", "orch").Str("sid", string(s.ID)).Str("room", string(room)).Msg("access auto-approved")
		c.send(s, protocol.NewAccessApproved(room))
	case d.Duplicate:
		log.Debug().Str("module", "orch").Str("sid", string(s.ID)).Str("room", string(room)).Msg("duplicate access request ignored")
	default:
		c.sendTo(d.Owner.ConnID, protocol.NewAccessRequestNotice(room, d.Request))
		c.send(s, protocol.NewRoomOwnerInfo(room, d.Owner.Name, d.Request))
	}
}

func (c *Coordinator) handleApproveAccess(s *Session, m *protocol.ApproveAccess) {
	room := m.Target()
	req, err := c.Registry.Approve(room, s.ID, domain.ConnID(m.RequesterID))
	if err != nil {
		log.Debug().Err(err).Str("module", "orch").Str("sid", string(s.ID)).Str("room", string(room)).Msg("approve ignored")
		return
	}
	c.sendTo(req.ConnID, protocol.NewAccessApproved(room))
}

func (c *Coordinator) handleRejectAccess(s *Session, m *protocol.RejectAccess) {
	room := m.Target()
	req, err := c.Registry.Reject(room, s.ID, domain.ConnID(m.RequesterID))
	if err != nil {
		log.Debug().Err(err).Str("module", "orch").Str("sid", string(s.ID)).Str("room", string(room)).Msg("reject ignored")
		return
	}
	c.sendTo(req.ConnID, protocol.NewAccessRejected(room, m.Reason))
}

// handleJoinRoom commits membership. The joiner gets the full snapshot
// before anything else is sent to the room.
func (c *Coordinator) handleJoinRoom(s *Session, m *protocol.JoinRoom) {
	room, name, ok := parseRoomAndName(m.RoomID, m.Username)
	if !ok {
		return
	}
	if s.Room != "" && s.Room != room {
		c.leave(s, s.Room)
	}
	res := c.Registry.JoinRoom(room, s.ID, name)
	s.Room = room
	s.Name = name
	for _, d := range res.Displaced {
		if d.ConnID == s.ID {
			continue
		}
		if other, ok := c.sessions[d.ConnID]; ok && other.Room == room {
			other.Room = ""
		}
	}

	c.send(s, protocol.NewRoomState(room, res.State))
	c.broadcast(room, "", protocol.NewAllUsers(res.Members))
	c.broadcast(room, s.ID, protocol.NewUserJoined(res.Joined))
	c.handover(room, res.Handover)
}

func (c *Coordinator) handleLeaveRoom(s *Session, m *protocol.LeaveRoom) {
	c.leave(s, m.Target())
}

func (c *Coordinator) leave(s *Session, room domain.RoomID) {
	res, ok := c.Registry.LeaveRoom(room, s.ID)
	if s.Room == room {
		s.Room = ""
	}
	if !ok {
		return
	}
	c.announceLeave(res)
}

func (c *Coordinator) announceLeave(res app.LeaveResult) {
	if s, ok := c.sessions[res.Left.ConnID]; ok && s.Room == res.Room {
		s.Room = ""
	}
	if res.Closed {
		return
	}
	c.broadcast(res.Room, res.Left.ConnID, protocol.NewUserLeft(res.Left.ConnID))
	c.broadcast(res.Room, "", protocol.NewAllUsers(res.Members))
	c.handover(res.Room, res.Handover)
}

// handover re-delivers waiting requests to a newly promoted owner.
func (c *Coordinator) handover(room domain.RoomID, h *app.OwnerChange) {
	if h == nil {
		return
	}
	log.Info().Str("module", "orch").Str("room", string(room)).Str("owner", h.Owner.Name).Int("pending", len(h.Pending)).Msg("ownership changed, re-delivering requests")
	for _, req := range h.Pending {
		c.sendTo(h.Owner.ConnID, protocol.NewAccessRequestNotice(room, req))
	}
}

func parseRoomAndName(rawRoom, rawName string) (domain.RoomID, string, bool) {
	room, err := domain.ParseRoomID(rawRoom)
	if err != nil {
		return "", "", false
	}
	name, err := domain.NormalizeDisplayName(rawName)
	if err != nil {
		return "", "", false
	}
	return room, name, true
}
