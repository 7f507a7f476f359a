package app

import (
	"testing"

	"github.com/dkeye/coderoom/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestAccessAutoApprovesEmptyRoom(t *testing.T) {
	r := newTestRegistry()
	d := r.RequestAccess("r1", "c1", "alice")
	assert.Equal(t, domain.AccessAutoApproved, d.State)
	assert.Nil(t, r.Pending("r1"))
}

func TestRequestAccessPendsOnOwner(t *testing.T) {
	r := newTestRegistry()
	r.JoinRoom("r1", "c1", "alice")

	d := r.RequestAccess("r1", "c2", "bob")
	assert.Equal(t, domain.AccessPending, d.State)
	assert.False(t, d.Duplicate)
	assert.Equal(t, "alice", d.Owner.Name)
	assert.Equal(t, "bob", d.Request.Name)

	d = r.RequestAccess("r1", "c2", "bob")
	assert.True(t, d.Duplicate)
	assert.Len(t, r.Pending("r1"), 1)
}

func TestRequestAccessMemberIsAdmitted(t *testing.T) {
	r := newTestRegistry()
	r.JoinRoom("r1", "c1", "alice")
	d := r.RequestAccess("r1", "c1", "alice")
	assert.Equal(t, domain.AccessAutoApproved, d.State)
}

func TestApproveOnlyByOwner(t *testing.T) {
	r := newTestRegistry()
	r.JoinRoom("r1", "c1", "alice")
	r.JoinRoom("r1", "c2", "bob")
	r.RequestAccess("r1", "c3", "carol")

	_, err := r.Approve("r1", "c2", "c3")
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Len(t, r.Pending("r1"), 1)

	req, err := r.Approve("r1", "c1", "c3")
	require.NoError(t, err)
	assert.Equal(t, "carol", req.Name)
	assert.Empty(t, r.Pending("r1"))

	_, err = r.Approve("r1", "c1", "c3")
	assert.ErrorIs(t, err, ErrNoSuchRequest)
}

func TestRejectUnknownRoomOrRequester(t *testing.T) {
	r := newTestRegistry()
	_, err := r.Reject("ghost", "c1", "c2")
	assert.ErrorIs(t, err, ErrNoSuchRoom)

	r.JoinRoom("r1", "c1", "alice")
	_, err = r.Reject("r1", "c1", "c9")
	assert.ErrorIs(t, err, ErrNoSuchRequest)
}

func TestJoinClearsOwnPendingRequest(t *testing.T) {
	r := newTestRegistry()
	r.JoinRoom("r1", "c1", "alice")
	r.RequestAccess("r1", "c2", "bob")
	r.JoinRoom("r1", "c2", "bob")
	assert.Empty(t, r.Pending("r1"))
}

func TestDisconnectWithdrawsPendingRequest(t *testing.T) {
	r := newTestRegistry()
	r.JoinRoom("r1", "c1", "alice")
	r.RequestAccess("r1", "c2", "bob")
	r.Disconnect("c2")
	assert.Empty(t, r.Pending("r1"))
}

func TestSimplePolicyKicks(t *testing.T) {
	assert.Equal(t, KickMember, SimplePolicy{}.OnBackPressure("r1", "c1"))
}
