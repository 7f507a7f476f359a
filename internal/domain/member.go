package domain

// ConnID identifies one message-channel connection for its whole lifetime.
type ConnID string

// Member is a connection admitted to a room under a display name.
// No transport or lifecycle logic here.
type Member struct {
	ConnID ConnID `json:"id"`
	Name   string `json:"username"`
}

func NewMember(id ConnID, name string) Member {
	return Member{ConnID: id, Name: name}
}
