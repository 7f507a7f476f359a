package core

import "github.com/dkeye/coderoom/internal/domain"

type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	Owner       string        `json:"owner"`
	MemberCount int           `json:"client_count"`
	Pending     int           `json:"pending_requests"`
	Language    string        `json:"language"`
}

// RoomStore holds rooms by key. Construction and teardown of rooms is the
// registry's job; the store only keeps them.
type RoomStore interface {
	Get(id domain.RoomID) (*Room, bool)
	Put(room *Room)
	Delete(id domain.RoomID)
	List() []*Room
	Len() int
}
