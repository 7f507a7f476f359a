package app

import (
	"errors"

	"github.com/dkeye/coderoom/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrNoSuchRoom    = errors.New("no such room")
	ErrNotOwner      = errors.New("only the room owner may decide")
	ErrNoSuchRequest = errors.New("no such access request")
)

// AccessDecision is the outcome of a request-room-access attempt.
// Duplicate is set when the connection was already waiting; nothing new was
// recorded and nobody should be notified again.
type AccessDecision struct {
	State     domain.AccessState
	Owner     domain.Member
	Request   domain.AccessRequest
	Duplicate bool
}

// RequestAccess runs the first step of the handshake. An empty or unknown
// room admits the requester at once; otherwise the request waits for the
// owner (member[0]).
func (r *Registry) RequestAccess(roomID domain.RoomID, id domain.ConnID, name string) AccessDecision {
	room, ok := r.rooms.Get(roomID)
	if !ok || room.Members.Len() == 0 {
		return AccessDecision{State: domain.AccessAutoApproved}
	}
	if room.Members.Has(id) {
		return AccessDecision{State: domain.AccessAutoApproved}
	}
	owner, _ := room.Members.Owner()
	req := domain.AccessRequest{ConnID: id, Name: name, RequestedAt: r.now()}
	d := AccessDecision{State: domain.AccessPending, Owner: owner, Request: req}
	if !room.AddPending(req) {
		d.Duplicate = true
		return d
	}
	log.Info().Str("module", "app.access").Str("room", string(roomID)).Str("requester", string(id)).Str("owner", owner.Name).Msg("access pending")
	return d
}

// Approve resolves a pending request. Only the current owner's connection
// may decide.
func (r *Registry) Approve(roomID domain.RoomID, by, requester domain.ConnID) (domain.AccessRequest, error) {
	req, err := r.resolve(roomID, by, requester)
	if err == nil {
		log.Info().Str("module", "app.access").Str("room", string(roomID)).Str("requester", string(requester)).Msg("access approved")
	}
	return req, err
}

func (r *Registry) Reject(roomID domain.RoomID, by, requester domain.ConnID) (domain.AccessRequest, error) {
	req, err := r.resolve(roomID, by, requester)
	if err == nil {
		log.Info().Str("module", "app.access").Str("room", string(roomID)).Str("requester", string(requester)).Msg("access rejected")
	}
	return req, err
}

func (r *Registry) resolve(roomID domain.RoomID, by, requester domain.ConnID) (domain.AccessRequest, error) {
	room, ok := r.rooms.Get(roomID)
	if !ok {
		return domain.AccessRequest{}, ErrNoSuchRoom
	}
	owner, ok := room.Members.Owner()
	if !ok || owner.ConnID != by {
		return domain.AccessRequest{}, ErrNotOwner
	}
	req, ok := room.TakePending(requester)
	if !ok {
		return domain.AccessRequest{}, ErrNoSuchRequest
	}
	return req, nil
}
