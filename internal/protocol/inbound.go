package protocol

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/dkeye/coderoom/internal/domain"
)

// Inbound is the tagged union of every client message.
type Inbound interface {
	Kind() Type
}

// Mutating messages carry a single RoomState field update.
type Mutating interface {
	Inbound
	Target() domain.RoomID
	Mutation() domain.Mutation
}

type roomRef struct {
	RoomID string `json:"roomId" validate:"required,max=64"`
}

func (r roomRef) Target() domain.RoomID { return domain.RoomID(r.RoomID) }

type RequestAccess struct {
	roomRef
	Username string `json:"username" validate:"required,max=36"`
}

type ApproveAccess struct {
	roomRef
	RequesterID string `json:"requesterId" validate:"required"`
}

type RejectAccess struct {
	roomRef
	RequesterID string `json:"requesterId" validate:"required"`
	Reason      string `json:"reason"`
}

type JoinRoom struct {
	roomRef
	Username string `json:"username" validate:"required,max=36"`
}

type LeaveRoom struct {
	roomRef
}

type CodeChange struct {
	roomRef
	Code string `json:"code"`
}

type LanguageUpdate struct {
	roomRef
	Language string `json:"language" validate:"required"`
}

type ConsoleVisibility struct {
	roomRef
	IsVisible bool `json:"isVisible"`
}

type OutputVisibility struct {
	roomRef
	IsOutputOpen bool `json:"isOutputOpen"`
}

type InputVisibility struct {
	roomRef
	IsInputOpen bool `json:"isInputOpen"`
}

type ConsoleHeight struct {
	roomRef
	Height int `json:"height" validate:"gte=0"`
}

type InputChange struct {
	roomRef
	Input string `json:"input"`
}

type RunCode struct {
	roomRef
	Code     string `json:"code"`
	Language string `json:"language"`
	Username string `json:"username"`
	Input    string `json:"input"`
}

type CursorPosition struct {
	roomRef
	Position json.RawMessage `json:"position"`
}

type ChatMessage struct {
	roomRef
	Username  string    `json:"username" validate:"required,max=36"`
	Message   string    `json:"message" validate:"required"`
	Timestamp time.Time `json:"timestamp"`
}

type Typing struct {
	roomRef
	Username string `json:"username" validate:"required,max=36"`
	IsTyping bool   `json:"isTyping"`
}

type AskAI struct {
	roomRef
	Username string `json:"username" validate:"required,max=36"`
	Prompt   string `json:"prompt" validate:"required"`
}

type QueueStatus struct{}

type Ping struct{}

func (*RequestAccess) Kind() Type     { return TypeRequestAccess }
func (*ApproveAccess) Kind() Type     { return TypeApproveAccess }
func (*RejectAccess) Kind() Type      { return TypeRejectAccess }
func (*JoinRoom) Kind() Type          { return TypeJoinRoom }
func (*LeaveRoom) Kind() Type         { return TypeLeaveRoom }
func (*CodeChange) Kind() Type        { return TypeCodeChange }
func (*LanguageUpdate) Kind() Type    { return TypeLanguageUpdate }
func (*ConsoleVisibility) Kind() Type { return TypeConsoleVisible }
func (*OutputVisibility) Kind() Type  { return TypeOutputVisible }
func (*InputVisibility) Kind() Type   { return TypeInputVisible }
func (*ConsoleHeight) Kind() Type     { return TypeConsoleHeight }
func (*InputChange) Kind() Type       { return TypeInputChange }
func (*RunCode) Kind() Type           { return TypeRunCode }
func (*CursorPosition) Kind() Type    { return TypeCursorPosition }
func (*ChatMessage) Kind() Type       { return TypeChatMessage }
func (*Typing) Kind() Type            { return TypeTyping }
func (*AskAI) Kind() Type             { return TypeAskAI }
func (*QueueStatus) Kind() Type       { return TypeQueueStatus }
func (*Ping) Kind() Type              { return TypePing }

func (m *CodeChange) Mutation() domain.Mutation {
	return domain.Mutation{Field: domain.FieldDocument, Value: m.Code}
}

func (m *LanguageUpdate) Mutation() domain.Mutation {
	return domain.Mutation{Field: domain.FieldLanguage, Value: m.Language}
}

func (m *ConsoleVisibility) Mutation() domain.Mutation {
	return domain.Mutation{Field: domain.FieldConsoleVisible, Value: m.IsVisible}
}

func (m *OutputVisibility) Mutation() domain.Mutation {
	return domain.Mutation{Field: domain.FieldOutputVisible, Value: m.IsOutputOpen}
}

func (m *InputVisibility) Mutation() domain.Mutation {
	return domain.Mutation{Field: domain.FieldInputVisible, Value: m.IsInputOpen}
}

func (m *ConsoleHeight) Mutation() domain.Mutation {
	return domain.Mutation{Field: domain.FieldConsoleHeight, Value: m.Height}
}

func (m *InputChange) Mutation() domain.Mutation {
	return domain.Mutation{Field: domain.FieldStdin, Value: m.Input}
}
