package orch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dkeye/coderoom/internal/exec"
	"github.com/dkeye/coderoom/internal/mocks"
	"github.com/dkeye/coderoom/internal/protocol"
)

func TestRunCodeBroadcastsQueuedThenResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	h := newHarness(t, runner, nil)
	alice := h.connect("a")
	bob := h.connect("b")
	h.join("a", "r1", "alice")
	h.join("b", "r1", "bob")
	h.reset()

	runner.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, job exec.Job) (exec.Result, error) {
			assert.Equal(t, "python", job.Language.Name)
			assert.Equal(t, "print(1+2)", job.Source)
			assert.Equal(t, "alice", job.RunBy)
			return exec.Result{Stdout: "3\n"}, nil
		})

	h.send("a", `{"type":"run-code","roomId":"r1","code":"print(1+2)","language":"python","username":"alice","input":""}`)

	for _, conn := range []*fakeConn{alice, bob} {
		h.eventually(func() bool { return len(conn.OfType(protocol.TypeCodeOutput)) == 2 }, "two code-output frames")
		out := conn.OfType(protocol.TypeCodeOutput)
		assert.Equal(t, "⏳ Executing code (queued)...", out[0]["output"])
		assert.Equal(t, false, out[0]["error"])
		assert.Equal(t, "3\n", out[1]["output"])
		assert.Equal(t, false, out[1]["error"])
		assert.Equal(t, "alice", out[1]["runBy"])
	}
}

func TestRunCodeSurvivesRequesterDisconnect(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	h := newHarness(t, runner, nil)
	h.connect("a")
	bob := h.connect("b")
	h.join("a", "r1", "alice")
	h.join("b", "r1", "bob")
	h.reset()

	started := make(chan struct{})
	release := make(chan struct{})
	runner.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ exec.Job) (exec.Result, error) {
			close(started)
			<-release
			assert.NoError(t, ctx.Err())
			return exec.Result{Stdout: "done"}, nil
		})

	h.send("a", `{"type":"run-code","roomId":"r1","code":"x","language":"javascript","username":"alice"}`)
	<-started
	h.c.Disconnect("a")
	h.flush()
	close(release)

	h.eventually(func() bool { return len(bob.OfType(protocol.TypeCodeOutput)) == 2 }, "result reaches remaining member")
	out := bob.OfType(protocol.TypeCodeOutput)
	assert.Equal(t, "⏳ Executing code (queued)...", out[0]["output"])
	assert.Equal(t, "done", out[1]["output"])
	assert.Equal(t, "alice", out[1]["runBy"])
}

func TestRunCodeUnsupportedLanguage(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	h := newHarness(t, runner, nil)
	alice := h.connect("a")
	h.join("a", "r1", "alice")
	h.reset()

	h.send("a", `{"type":"run-code","roomId":"r1","code":"x","language":"cobol","username":"alice"}`)
	h.flush()

	out := alice.OfType(protocol.TypeCodeOutput)
	require.Len(t, out, 1)
	assert.Equal(t, "❌ Unsupported language: cobol", out[0]["output"])
	assert.Equal(t, true, out[0]["error"])
}

func TestRunCodeFailureIsRendered(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	h := newHarness(t, runner, nil)
	alice := h.connect("a")
	h.join("a", "r1", "alice")
	h.reset()

	runner.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(exec.Result{}, exec.ErrRateLimited)

	h.send("a", `{"type":"run-code","roomId":"r1","code":"x","language":"javascript","username":"alice"}`)
	h.eventually(func() bool { return len(alice.OfType(protocol.TypeCodeOutput)) == 2 }, "result delivered")

	out := alice.OfType(protocol.TypeCodeOutput)
	assert.Equal(t, "⚠ API rate limit exceeded. Please try again in a moment.", out[1]["output"])
	assert.Equal(t, true, out[1]["error"])
}

func TestQueueStatusReply(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Status().Return(exec.QueueStatus{QueueLength: 2, IsProcessing: true})

	h := newHarness(t, runner, nil)
	alice := h.connect("a")
	h.send("a", `{"type":"queue-status"}`)
	h.flush()

	require.Equal(t, []string{"queue-status"}, alice.Types())
	assert.EqualValues(t, 2, alice.Frames()[0]["queueLength"])
	assert.Equal(t, true, alice.Frames()[0]["isProcessing"])
}

func TestAskAIBroadcastsReply(t *testing.T) {
	ctrl := gomock.NewController(t)
	assistant := mocks.NewMockAssistant(ctrl)
	h := newHarness(t, nil, assistant)
	alice := h.connect("a")
	bob := h.connect("b")
	h.join("a", "r1", "alice")
	h.join("b", "r1", "bob")
	h.reset()

	assistant.EXPECT().Reply(gomock.Any(), "what is a closure?").Return("A function with captured scope.", nil)

	h.send("b", `{"type":"askAI","roomId":"r1","username":"bob","prompt":"what is a closure?"}`)
	for _, conn := range []*fakeConn{alice, bob} {
		h.eventually(func() bool { return len(conn.OfType(protocol.TypeAIResponse)) == 1 }, "ai reply")
		r := conn.OfType(protocol.TypeAIResponse)[0]
		assert.Equal(t, "A function with captured scope.", r["reply"])
		assert.Equal(t, "bob", r["askedBy"])
	}
}

func TestAskAIFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	assistant := mocks.NewMockAssistant(ctrl)
	h := newHarness(t, nil, assistant)
	alice := h.connect("a")
	h.join("a", "r1", "alice")
	h.reset()

	assistant.EXPECT().Reply(gomock.Any(), gomock.Any()).Return("", errors.New("boom"))
	h.send("a", `{"type":"askAI","roomId":"r1","username":"alice","prompt":"hi"}`)
	h.eventually(func() bool { return len(alice.OfType(protocol.TypeAIResponse)) == 1 }, "ai failure")
	assert.Equal(t, true, alice.OfType(protocol.TypeAIResponse)[0]["error"])
}
