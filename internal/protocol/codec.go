package protocol

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var (
	ErrMalformed   = errors.New("malformed message")
	ErrUnknownType = errors.New("unknown message type")
	ErrIncomplete  = errors.New("incomplete message")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var factories = map[Type]func() Inbound{
	TypeRequestAccess:  func() Inbound { return &RequestAccess{} },
	TypeApproveAccess:  func() Inbound { return &ApproveAccess{} },
	TypeRejectAccess:   func() Inbound { return &RejectAccess{} },
	TypeJoinRoom:       func() Inbound { return &JoinRoom{} },
	TypeLeaveRoom:      func() Inbound { return &LeaveRoom{} },
	TypeCodeChange:     func() Inbound { return &CodeChange{} },
	TypeLanguageUpdate: func() Inbound { return &LanguageUpdate{} },
	TypeConsoleVisible: func() Inbound { return &ConsoleVisibility{} },
	TypeOutputVisible:  func() Inbound { return &OutputVisibility{} },
	TypeInputVisible:   func() Inbound { return &InputVisibility{} },
	TypeConsoleHeight:  func() Inbound { return &ConsoleHeight{} },
	TypeInputChange:    func() Inbound { return &InputChange{} },
	TypeRunCode:        func() Inbound { return &RunCode{} },
	TypeCursorPosition: func() Inbound { return &CursorPosition{} },
	TypeChatMessage:    func() Inbound { return &ChatMessage{} },
	TypeTyping:         func() Inbound { return &Typing{} },
	TypeAskAI:          func() Inbound { return &AskAI{} },
	TypeQueueStatus:    func() Inbound { return &QueueStatus{} },
	TypePing:           func() Inbound { return &Ping{} },
}

// Decode parses one client frame. Frames missing a room id or display name
// fail with ErrIncomplete; the coordinator drops those without replying.
func Decode(data []byte) (Inbound, error) {
	var env struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	mk, ok := factories[env.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
	msg := mk()
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, env.Type, err)
	}
	if err := validate.Struct(msg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrIncomplete, env.Type, err)
	}
	return msg, nil
}

func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}
