package core

import "github.com/dkeye/coderoom/internal/domain"

// Room is the in-memory aggregate for one session: members, the shared
// state snapshot and the access requests still waiting for the owner.
type Room struct {
	ID      domain.RoomID
	Members *MemberList
	State   domain.RoomState
	pending []domain.AccessRequest
}

func NewRoom(id domain.RoomID) *Room {
	return &Room{
		ID:      id,
		Members: NewMemberList(),
		State:   domain.DefaultRoomState(),
	}
}

// AddPending records req unless the same connection is already waiting.
func (r *Room) AddPending(req domain.AccessRequest) bool {
	for _, p := range r.pending {
		if p.ConnID == req.ConnID {
			return false
		}
	}
	r.pending = append(r.pending, req)
	return true
}

func (r *Room) TakePending(id domain.ConnID) (domain.AccessRequest, bool) {
	for i, p := range r.pending {
		if p.ConnID == id {
			r.pending = append(r.pending[:i], r.pending[i+1:]...)
			return p, true
		}
	}
	return domain.AccessRequest{}, false
}

func (r *Room) Pending() []domain.AccessRequest {
	out := make([]domain.AccessRequest, len(r.pending))
	copy(out, r.pending)
	return out
}

func (r *Room) Info() RoomInfo {
	info := RoomInfo{
		ID:          r.ID,
		MemberCount: r.Members.Len(),
		Pending:     len(r.pending),
		Language:    r.State.LanguageID,
	}
	if owner, ok := r.Members.Owner(); ok {
		info.Owner = owner.Name
	}
	return info
}
