package exec

import (
	"errors"
	"fmt"
)

var (
	ErrRateLimited   = errors.New("execution backend rate limited")
	ErrNotConfigured = errors.New("execution backend not configured")
	ErrStopped       = errors.New("execution gateway stopped")
)

// StatusError is a non-2xx answer from the backend other than 429.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("execution backend status %d: %s", e.Code, e.Body)
}

const (
	msgQueued         = "⏳ Executing code (queued)..."
	msgNoOutput       = "⚠ No output"
	msgRateLimited    = "⚠ API rate limit exceeded. Please try again in a moment."
	msgNotConfigured  = "⚠ Code execution is not configured on this server."
	msgFailed         = "⚠ Code execution failed. Try again later."
	msgUnsupportedFmt = "❌ Unsupported language: %s"
)

func QueuedMessage() string { return msgQueued }

func UnsupportedMessage(language string) string {
	return fmt.Sprintf(msgUnsupportedFmt, language)
}

// Render turns a finished job into the text shown in the room console and
// whether it should be flagged as an error.
func Render(res Result, err error) (string, bool) {
	switch {
	case errors.Is(err, ErrRateLimited):
		return msgRateLimited, true
	case errors.Is(err, ErrNotConfigured):
		return msgNotConfigured, true
	case err != nil:
		return msgFailed, true
	}
	isErr := res.Stderr != "" || res.CompileOutput != ""
	switch {
	case res.Stdout != "":
		return res.Stdout, isErr
	case res.Stderr != "":
		return res.Stderr, isErr
	case res.CompileOutput != "":
		return res.CompileOutput, isErr
	default:
		return msgNoOutput, isErr
	}
}
