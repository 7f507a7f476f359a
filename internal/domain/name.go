// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MaxDisplayNameLen = 36
	MaxRoomIDLen      = 64
)

var (
	ErrDisplayNameTooLong = errors.New("display name too long")
	ErrDisplayNameEmpty   = errors.New("display name empty")
	ErrRoomIDEmpty        = errors.New("room id empty")
	ErrRoomIDTooLong      = errors.New("room id too long")
)

// NormalizeDisplayName trims surrounding whitespace and enforces length bounds.
// Lengths are counted in runes, matching the wire validation.
func NormalizeDisplayName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		return "", ErrDisplayNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxDisplayNameLen {
		return "", ErrDisplayNameTooLong
	}
	return name, nil
}

func ParseRoomID(raw string) (RoomID, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) == 0 {
		return "", ErrRoomIDEmpty
	}
	if utf8.RuneCountInString(raw) > MaxRoomIDLen {
		return "", ErrRoomIDTooLong
	}
	return RoomID(raw), nil
}
