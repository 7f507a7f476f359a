package app

import (
	"time"

	"github.com/dkeye/coderoom/internal/core"
	"github.com/dkeye/coderoom/internal/domain"
	"github.com/rs/zerolog/log"
)

// Registry owns every room, its members, its state and its pending access
// requests. It is not safe for concurrent use: the coordinator loop is the
// only caller, and no method blocks.
type Registry struct {
	rooms core.RoomStore
	now   func() time.Time
}

func NewRegistry(store core.RoomStore) *Registry {
	return &Registry{rooms: store, now: time.Now}
}

// OwnerChange is reported when member[0] of a room changed identity while
// requests are still waiting; those requests must reach the new owner.
type OwnerChange struct {
	Owner   domain.Member
	Pending []domain.AccessRequest
}

type JoinResult struct {
	Joined    domain.Member
	Members   []domain.Member
	State     domain.RoomState
	Created   bool
	Displaced []domain.Member
	Handover  *OwnerChange
}

type LeaveResult struct {
	Room     domain.RoomID
	Left     domain.Member
	Members  []domain.Member
	Closed   bool
	Handover *OwnerChange
}

// JoinRoom admits (id, name) into room, creating the room on first use.
// Any prior member with the same connection or the same display name is
// dropped first, so the list never holds duplicates.
func (r *Registry) JoinRoom(roomID domain.RoomID, id domain.ConnID, name string) JoinResult {
	room, ok := r.rooms.Get(roomID)
	res := JoinResult{Created: !ok}
	if !ok {
		room = core.NewRoom(roomID)
		r.rooms.Put(room)
		log.Info().Str("module", "app.registry").Str("room", string(roomID)).Msg("room created")
	}
	before, _ := room.Members.Owner()

	if m, ok := room.Members.Remove(id); ok {
		res.Displaced = append(res.Displaced, m)
	}
	if prev, ok := room.Members.ConnByName(name); ok {
		m, _ := room.Members.Remove(prev)
		res.Displaced = append(res.Displaced, m)
	}

	res.Joined = domain.NewMember(id, name)
	room.Members.Append(res.Joined)
	room.TakePending(id)

	res.Members = room.Members.Snapshot()
	res.State = room.State
	res.Handover = handover(room, before)
	log.Info().Str("module", "app.registry").Str("room", string(roomID)).Str("conn", string(id)).Str("name", name).Int("members", len(res.Members)).Msg("member joined")
	return res
}

// LeaveRoom removes id from room. The boolean is false when there was
// nothing to remove. An emptied room is deleted with its state and requests;
// waiting requesters are not carried over to whoever joins next.
func (r *Registry) LeaveRoom(roomID domain.RoomID, id domain.ConnID) (LeaveResult, bool) {
	room, ok := r.rooms.Get(roomID)
	if !ok {
		return LeaveResult{}, false
	}
	before, _ := room.Members.Owner()
	m, ok := room.Members.Remove(id)
	if !ok {
		return LeaveResult{}, false
	}
	res := LeaveResult{Room: roomID, Left: m, Members: room.Members.Snapshot()}
	if room.Members.Len() == 0 {
		r.rooms.Delete(roomID)
		res.Closed = true
		log.Info().Str("module", "app.registry").Str("room", string(roomID)).Int("dropped_requests", len(room.Pending())).Msg("room closed")
		return res, true
	}
	res.Handover = handover(room, before)
	log.Info().Str("module", "app.registry").Str("room", string(roomID)).Str("conn", string(id)).Int("members", len(res.Members)).Msg("member left")
	return res, true
}

// ApplyStateMutation updates the room's snapshot if the room exists and
// reports whether it did. Callers relay the change either way.
func (r *Registry) ApplyStateMutation(roomID domain.RoomID, m domain.Mutation) (bool, error) {
	room, ok := r.rooms.Get(roomID)
	if !ok {
		return false, nil
	}
	if err := room.State.Apply(m); err != nil {
		return false, err
	}
	return true, nil
}

// Disconnect treats connection loss as a leave of every room listing id and
// withdraws any access request id still has outstanding.
func (r *Registry) Disconnect(id domain.ConnID) []LeaveResult {
	var out []LeaveResult
	for _, room := range r.rooms.List() {
		if _, ok := room.TakePending(id); ok {
			log.Info().Str("module", "app.registry").Str("room", string(room.ID)).Str("conn", string(id)).Msg("pending request withdrawn")
		}
		if !room.Members.Has(id) {
			continue
		}
		if res, ok := r.LeaveRoom(room.ID, id); ok {
			out = append(out, res)
		}
	}
	return out
}

func (r *Registry) Members(roomID domain.RoomID) []domain.Member {
	room, ok := r.rooms.Get(roomID)
	if !ok {
		return nil
	}
	return room.Members.Snapshot()
}

func (r *Registry) Owner(roomID domain.RoomID) (domain.Member, bool) {
	room, ok := r.rooms.Get(roomID)
	if !ok {
		return domain.Member{}, false
	}
	return room.Members.Owner()
}

func (r *Registry) State(roomID domain.RoomID) (domain.RoomState, bool) {
	room, ok := r.rooms.Get(roomID)
	if !ok {
		return domain.RoomState{}, false
	}
	return room.State, true
}

func (r *Registry) Pending(roomID domain.RoomID) []domain.AccessRequest {
	room, ok := r.rooms.Get(roomID)
	if !ok {
		return nil
	}
	return room.Pending()
}

func (r *Registry) List() []core.RoomInfo {
	rooms := r.rooms.List()
	out := make([]core.RoomInfo, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, room.Info())
	}
	return out
}

func handover(room *core.Room, before domain.Member) *OwnerChange {
	after, ok := room.Members.Owner()
	if !ok || after.ConnID == before.ConnID {
		return nil
	}
	pending := room.Pending()
	if len(pending) == 0 {
		return nil
	}
	return &OwnerChange{Owner: after, Pending: pending}
}
