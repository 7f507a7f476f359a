package app

import "github.com/dkeye/coderoom/internal/domain"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

// Policy decides what happens to a connection whose outbound buffer is full.
type Policy interface {
	OnBackPressure(room domain.RoomID, id domain.ConnID) BackpressureAction
}

// SimplePolicy disconnects slow consumers. A member that cannot keep up has
// already missed document updates and must rejoin for a fresh snapshot.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(domain.RoomID, domain.ConnID) BackpressureAction {
	return KickMember
}
