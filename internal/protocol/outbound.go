package protocol

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/dkeye/coderoom/internal/domain"
)

type AccessApproved struct {
	Type   Type          `json:"type"`
	RoomID domain.RoomID `json:"roomId"`
}

type AccessRejected struct {
	Type   Type          `json:"type"`
	RoomID domain.RoomID `json:"roomId"`
	Reason string        `json:"reason"`
}

type RoomOwnerInfo struct {
	Type      Type          `json:"type"`
	RoomID    domain.RoomID `json:"roomId"`
	Owner     string        `json:"owner"`
	Status    string        `json:"status"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

type AccessRequestNotice struct {
	Type        Type          `json:"type"`
	RoomID      domain.RoomID `json:"roomId"`
	Username    string        `json:"username"`
	RequesterID domain.ConnID `json:"requesterId"`
}

type RoomStateSnapshot struct {
	Type   Type             `json:"type"`
	RoomID domain.RoomID    `json:"roomId"`
	State  domain.RoomState `json:"state"`
}

type AllUsers struct {
	Type  Type            `json:"type"`
	Users []domain.Member `json:"users"`
}

type UserJoined struct {
	Type Type `json:"type"`
	domain.Member
}

type UserLeft struct {
	Type Type          `json:"type"`
	ID   domain.ConnID `json:"id"`
}

type CodeOutput struct {
	Type   Type   `json:"type"`
	Output string `json:"output"`
	Error  bool   `json:"error"`
	RunBy  string `json:"runBy"`
}

type CursorUpdate struct {
	Type     Type            `json:"type"`
	UserID   domain.ConnID   `json:"userId"`
	Username string          `json:"username"`
	Position json.RawMessage `json:"position"`
}

type ChatRelay struct {
	Type      Type      `json:"type"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	IsAI      bool      `json:"isAI"`
}

type TypingRelay struct {
	Type     Type   `json:"type"`
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

type AIResponse struct {
	Type    Type   `json:"type"`
	Reply   string `json:"reply"`
	AskedBy string `json:"askedBy"`
	Error   bool   `json:"error"`
}

type QueueStatusReply struct {
	Type         Type `json:"type"`
	QueueLength  int  `json:"queueLength"`
	IsProcessing bool `json:"isProcessing"`
}

type Pong struct {
	Type Type `json:"type"`
}

func NewAccessApproved(room domain.RoomID) AccessApproved {
	return AccessApproved{Type: TypeAccessApproved, RoomID: room}
}

func NewAccessRejected(room domain.RoomID, reason string) AccessRejected {
	if reason == "" {
		reason = domain.DefaultRejectReason
	}
	return AccessRejected{Type: TypeAccessRejected, RoomID: room, Reason: reason}
}

func NewRoomOwnerInfo(room domain.RoomID, owner string, req domain.AccessRequest) RoomOwnerInfo {
	return RoomOwnerInfo{
		Type:      TypeRoomOwnerInfo,
		RoomID:    room,
		Owner:     owner,
		Status:    domain.AccessPending.String(),
		ExpiresAt: req.Deadline(),
	}
}

func NewAccessRequestNotice(room domain.RoomID, req domain.AccessRequest) AccessRequestNotice {
	return AccessRequestNotice{Type: TypeAccessRequest, RoomID: room, Username: req.Name, RequesterID: req.ConnID}
}

func NewRoomState(room domain.RoomID, st domain.RoomState) RoomStateSnapshot {
	return RoomStateSnapshot{Type: TypeRoomState, RoomID: room, State: st}
}

func NewAllUsers(members []domain.Member) AllUsers {
	if members == nil {
		members = []domain.Member{}
	}
	return AllUsers{Type: TypeAllUsers, Users: members}
}

func NewUserJoined(m domain.Member) UserJoined {
	return UserJoined{Type: TypeUserJoined, Member: m}
}

func NewUserLeft(id domain.ConnID) UserLeft {
	return UserLeft{Type: TypeUserLeft, ID: id}
}

func NewCodeOutput(output string, isErr bool, runBy string) CodeOutput {
	return CodeOutput{Type: TypeCodeOutput, Output: output, Error: isErr, RunBy: runBy}
}

// NewMutationEvent builds the relay frame for a state change. Only the
// changed field travels.
func NewMutationEvent(m domain.Mutation) map[string]any {
	switch m.Field {
	case domain.FieldDocument:
		return map[string]any{"type": TypeCodeUpdate, "code": m.Value}
	case domain.FieldLanguage:
		return map[string]any{"type": TypeLanguageUpdate, "language": m.Value}
	case domain.FieldConsoleVisible:
		return map[string]any{"type": TypeConsoleVisible, "isVisible": m.Value}
	case domain.FieldOutputVisible:
		return map[string]any{"type": TypeOutputVisible, "isOutputOpen": m.Value}
	case domain.FieldInputVisible:
		return map[string]any{"type": TypeInputVisible, "isInputOpen": m.Value}
	case domain.FieldConsoleHeight:
		return map[string]any{"type": TypeConsoleHeight, "height": m.Value}
	case domain.FieldStdin:
		return map[string]any{"type": TypeInputChange, "input": m.Value}
	default:
		return nil
	}
}
