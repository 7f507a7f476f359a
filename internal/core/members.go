package core

import "github.com/dkeye/coderoom/internal/domain"

// MemberList keeps members in admission order with O(1) lookup by
// connection and by display name. The head of the list is the room owner.
type MemberList struct {
	order  []domain.Member
	byConn map[domain.ConnID]string
	byName map[string]domain.ConnID
}

func NewMemberList() *MemberList {
	return &MemberList{
		byConn: make(map[domain.ConnID]string),
		byName: make(map[string]domain.ConnID),
	}
}

func (l *MemberList) Len() int { return len(l.order) }

func (l *MemberList) Owner() (domain.Member, bool) {
	if len(l.order) == 0 {
		return domain.Member{}, false
	}
	return l.order[0], true
}

func (l *MemberList) Has(id domain.ConnID) bool {
	_, ok := l.byConn[id]
	return ok
}

func (l *MemberList) ConnByName(name string) (domain.ConnID, bool) {
	id, ok := l.byName[name]
	return id, ok
}

// Append adds m at the tail. It reports false, leaving the list untouched,
// if the connection or the name is already present.
func (l *MemberList) Append(m domain.Member) bool {
	if _, ok := l.byConn[m.ConnID]; ok {
		return false
	}
	if _, ok := l.byName[m.Name]; ok {
		return false
	}
	l.order = append(l.order, m)
	l.byConn[m.ConnID] = m.Name
	l.byName[m.Name] = m.ConnID
	return true
}

func (l *MemberList) Remove(id domain.ConnID) (domain.Member, bool) {
	name, ok := l.byConn[id]
	if !ok {
		return domain.Member{}, false
	}
	delete(l.byConn, id)
	delete(l.byName, name)
	for i, m := range l.order {
		if m.ConnID == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			return m, true
		}
	}
	return domain.Member{ConnID: id, Name: name}, true
}

// Snapshot returns a copy safe to hand to other goroutines.
func (l *MemberList) Snapshot() []domain.Member {
	out := make([]domain.Member, len(l.order))
	copy(out, l.order)
	return out
}
