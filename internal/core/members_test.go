package core

import (
	"testing"

	"github.com/dkeye/coderoom/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberListOwnerIsHead(t *testing.T) {
	l := NewMemberList()
	_, ok := l.Owner()
	assert.False(t, ok)

	require.True(t, l.Append(domain.NewMember("c1", "alice")))
	require.True(t, l.Append(domain.NewMember("c2", "bob")))

	owner, ok := l.Owner()
	require.True(t, ok)
	assert.Equal(t, "alice", owner.Name)

	_, ok = l.Remove("c1")
	require.True(t, ok)
	owner, _ = l.Owner()
	assert.Equal(t, "bob", owner.Name)
}

func TestMemberListRejectsDuplicates(t *testing.T) {
	l := NewMemberList()
	require.True(t, l.Append(domain.NewMember("c1", "alice")))

	assert.False(t, l.Append(domain.NewMember("c1", "carol")), "same connection")
	assert.False(t, l.Append(domain.NewMember("c9", "alice")), "same name")
	assert.Equal(t, 1, l.Len())

	id, ok := l.ConnByName("alice")
	require.True(t, ok)
	assert.Equal(t, domain.ConnID("c1"), id)
}

func TestMemberListRemoveUnknown(t *testing.T) {
	l := NewMemberList()
	_, ok := l.Remove("nope")
	assert.False(t, ok)
}

func TestMemberListSnapshotIsCopy(t *testing.T) {
	l := NewMemberList()
	l.Append(domain.NewMember("c1", "alice"))
	snap := l.Snapshot()
	snap[0].Name = "mallory"
	owner, _ := l.Owner()
	assert.Equal(t, "alice", owner.Name)
}

func TestRoomPending(t *testing.T) {
	r := NewRoom("r1")
	assert.True(t, r.AddPending(domain.AccessRequest{ConnID: "c2", Name: "bob"}))
	assert.False(t, r.AddPending(domain.AccessRequest{ConnID: "c2", Name: "bob"}))
	assert.True(t, r.AddPending(domain.AccessRequest{ConnID: "c3", Name: "carol"}))
	assert.Len(t, r.Pending(), 2)

	req, ok := r.TakePending("c2")
	require.True(t, ok)
	assert.Equal(t, "bob", req.Name)
	_, ok = r.TakePending("c2")
	assert.False(t, ok)

	info := r.Info()
	assert.Equal(t, 1, info.Pending)
	assert.Equal(t, "javascript", info.Language)
}
