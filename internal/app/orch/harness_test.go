package orch

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/coderoom/internal/app"
	"github.com/dkeye/coderoom/internal/chat"
	"github.com/dkeye/coderoom/internal/core"
	"github.com/dkeye/coderoom/internal/domain"
	"github.com/dkeye/coderoom/internal/protocol"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []map[string]any
	full   bool
	closed bool
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return core.ErrConnectionClosed
	}
	if f.full {
		return core.ErrBackpressure
	}
	var m map[string]any
	if err := json.Unmarshal(fr, &m); err != nil {
		return err
	}
	f.frames = append(f.frames, m)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *fakeConn) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeConn) Frames() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.frames...)
}

func (f *fakeConn) Types() []string {
	var out []string
	for _, fr := range f.Frames() {
		out = append(out, fr["type"].(string))
	}
	return out
}

func (f *fakeConn) OfType(typ protocol.Type) []map[string]any {
	var out []map[string]any
	for _, fr := range f.Frames() {
		if fr["type"] == string(typ) {
			out = append(out, fr)
		}
	}
	return out
}

func (f *fakeConn) Reset() {
	f.mu.Lock()
	f.frames = nil
	f.mu.Unlock()
}

type harness struct {
	t     *testing.T
	c     *Coordinator
	conns map[domain.ConnID]*fakeConn
}

func newHarness(t *testing.T, runner Runner, assistant chat.Assistant) *harness {
	t.Helper()
	reg := app.NewRegistry(app.NewRoomStore())
	c := New(reg, app.SimplePolicy{}, runner, assistant)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = c.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-c.done
	})
	return &harness{t: t, c: c, conns: make(map[domain.ConnID]*fakeConn)}
}

func (h *harness) connect(id domain.ConnID) *fakeConn {
	conn := &fakeConn{}
	h.conns[id] = conn
	h.c.Connect(id, "token-"+string(id), conn)
	return conn
}

func (h *harness) send(id domain.ConnID, format string, args ...any) {
	h.t.Helper()
	msg, err := protocol.Decode([]byte(fmt.Sprintf(format, args...)))
	require.NoError(h.t, err)
	h.c.Deliver(id, msg)
}

// flush waits until everything posted so far has been processed.
func (h *harness) flush() {
	h.t.Helper()
	_, err := h.c.Rooms(context.Background())
	require.NoError(h.t, err)
}

func (h *harness) reset() {
	h.flush()
	for _, c := range h.conns {
		c.Reset()
	}
}

func (h *harness) join(id domain.ConnID, room, name string) {
	h.send(id, `{"type":"join-room","roomId":%q,"username":%q}`, room, name)
}

func (h *harness) eventually(cond func() bool, msg string) {
	h.t.Helper()
	assert.Eventually(h.t, cond, 2*time.Second, 5*time.Millisecond, msg)
}

func userNames(frame map[string]any) []string {
	var out []string
	for _, u := range frame["users"].([]any) {
		out = append(out, u.(map[string]any)["username"].(string))
	}
	return out
}
