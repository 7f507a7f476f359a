package domain

import (
	"errors"
	"fmt"
)

type RoomID string

const (
	DefaultLanguage = "javascript"
	DefaultDocument = "// Start coding..."
)

var (
	ErrUnknownField = errors.New("unknown room state field")
	ErrFieldType    = errors.New("wrong value type for room state field")
)

// Field names one replicated attribute of RoomState.
type Field string

const (
	FieldDocument       Field = "documentText"
	FieldLanguage       Field = "languageId"
	FieldConsoleVisible Field = "consoleVisible"
	FieldOutputVisible  Field = "outputVisible"
	FieldInputVisible   Field = "inputVisible"
	FieldConsoleHeight  Field = "consoleHeight"
	FieldStdin          Field = "stdinBuffer"
)

// RoomState is the authoritative snapshot shared by every member of a room.
type RoomState struct {
	DocumentText   string `json:"code"`
	LanguageID     string `json:"language"`
	ConsoleVisible bool   `json:"isConsoleVisible"`
	OutputVisible  bool   `json:"isOutputOpen"`
	InputVisible   bool   `json:"isInputOpen"`
	ConsoleHeight  int    `json:"consoleHeight,omitempty"`
	Stdin          string `json:"input"`
}

func DefaultRoomState() RoomState {
	return RoomState{
		DocumentText:   DefaultDocument,
		LanguageID:     DefaultLanguage,
		ConsoleVisible: true,
		OutputVisible:  true,
		InputVisible:   true,
	}
}

// Mutation is a single-field update. Value must be a string, bool or int
// depending on Field.
type Mutation struct {
	Field Field
	Value any
}

// Apply writes m into s. Last writer wins; there is no version check.
func (s *RoomState) Apply(m Mutation) error {
	switch m.Field {
	case FieldDocument:
		return assign(&s.DocumentText, m)
	case FieldLanguage:
		return assign(&s.LanguageID, m)
	case FieldStdin:
		return assign(&s.Stdin, m)
	case FieldConsoleVisible:
		return assign(&s.ConsoleVisible, m)
	case FieldOutputVisible:
		return assign(&s.OutputVisible, m)
	case FieldInputVisible:
		return assign(&s.InputVisible, m)
	case FieldConsoleHeight:
		return assign(&s.ConsoleHeight, m)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, m.Field)
	}
}

func assign[T any](dst *T, m Mutation) error {
	v, ok := m.Value.(T)
	if !ok {
		return fmt.Errorf("%w: %s got %T", ErrFieldType, m.Field, m.Value)
	}
	*dst = v
	return nil
}
