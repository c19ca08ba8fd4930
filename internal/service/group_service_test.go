package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amar-295/student-finance-db-sub001/pkg/api"
)

func createTestGroup(t *testing.T, env *testEnv, owner string, members ...string) *api.Group {
	t.Helper()
	ctx := context.Background()
	resp, err := env.groups.CreateGroup(ctx, as(owner, &api.CreateGroupRequest{Name: "Flat 4B"}))
	require.NoError(t, err)
	group := resp.Msg.Group
	for _, email := range members {
		added, err := env.groups.AddGroupMember(ctx, as(owner, &api.AddGroupMemberRequest{GroupID: group.ID, Email: email}))
		require.NoError(t, err)
		group = added.Msg.Group
	}
	return group
}

func TestCreateGroup(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice, bob := env.user(t, "alice"), env.user(t, "bob")

	group := createTestGroup(t, env, alice, "Bob@Example.com")
	assert.Equal(t, alice, group.CreatedBy)
	assert.Equal(t, []string{alice, bob}, group.Members)

	_, err := env.groups.CreateGroup(ctx, as(alice, &api.CreateGroupRequest{Name: "  "}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	list, err := env.groups.ListGroups(ctx, as(bob, &api.ListGroupsRequest{}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Groups, 1)
	assert.Equal(t, group.ID, list.Msg.Groups[0].ID)
}

func TestAddGroupMember(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice, carol := env.user(t, "alice"), env.user(t, "carol")
	env.user(t, "bob")
	group := createTestGroup(t, env, alice, "bob@example.com")

	tests := []struct {
		name   string
		caller string
		email  string
		code   connect.Code
	}{
		{"unknown email", alice, "nobody@example.com", connect.CodeNotFound},
		{"malformed email", alice, "not-an-email", connect.CodeInvalidArgument},
		{"already a member", alice, "bob@example.com", connect.CodeAlreadyExists},
		{"caller outside the group", carol, "carol@example.com", connect.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.groups.AddGroupMember(ctx, as(tt.caller, &api.AddGroupMemberRequest{GroupID: group.ID, Email: tt.email}))
			assert.Equal(t, tt.code, connect.CodeOf(err))
		})
	}
}

func TestGroupVisibility(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice, bob, carol := env.user(t, "alice"), env.user(t, "bob"), env.user(t, "carol")
	group := createTestGroup(t, env, alice, "bob@example.com")

	_, err := env.groups.GetGroup(ctx, as(carol, &api.GetGroupRequest{GroupID: group.ID}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = env.groups.GetGroupBalances(ctx, as(carol, &api.GetGroupBalancesRequest{GroupID: group.ID}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = env.splits.ListSplits(ctx, as(carol, &api.ListSplitsRequest{GroupID: group.ID}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = env.splits.CreateSplit(ctx, as(alice, &api.CreateSplitRequest{
		GroupID:      group.ID,
		Description:  "Rent",
		TotalAmount:  900,
		SplitType:    "equal",
		Participants: []*api.ParticipantShare{{UserID: bob}, {UserID: carol}},
	}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err), "carol is not in the group")

	_, err = env.groups.LeaveGroup(ctx, as(bob, &api.LeaveGroupRequest{GroupID: group.ID}))
	require.NoError(t, err)
	_, err = env.groups.GetGroup(ctx, as(bob, &api.GetGroupRequest{GroupID: group.ID}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	got, err := env.groups.GetGroup(ctx, as(alice, &api.GetGroupRequest{GroupID: group.ID}))
	require.NoError(t, err)
	assert.Equal(t, []string{alice}, got.Msg.Group.Members)
}

func TestGetGroupBalances(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice, bob, carol := env.user(t, "alice"), env.user(t, "bob"), env.user(t, "carol")
	group := createTestGroup(t, env, alice, "bob@example.com", "carol@example.com")

	created, err := env.splits.CreateSplit(ctx, as(alice, &api.CreateSplitRequest{
		GroupID:     group.ID,
		Description: "Groceries",
		TotalAmount: 90,
		SplitType:   "equal",
		Participants: []*api.ParticipantShare{
			{UserID: alice}, {UserID: bob}, {UserID: carol},
		},
	}))
	require.NoError(t, err)

	balanceOf := func(resp *api.GetGroupBalancesResponse, userID string) *api.MemberBalance {
		for _, b := range resp.Balances {
			if b.UserID == userID {
				return b
			}
		}
		t.Fatalf("no balance for %s", userID)
		return nil
	}

	resp, err := env.groups.GetGroupBalances(ctx, as(bob, &api.GetGroupBalancesRequest{GroupID: group.ID}))
	require.NoError(t, err)
	assert.Equal(t, 60.0, balanceOf(resp.Msg, alice).NetBalance)
	assert.Equal(t, -30.0, balanceOf(resp.Msg, bob).NetBalance)
	assert.Equal(t, -30.0, balanceOf(resp.Msg, carol).NetBalance)
	assert.Equal(t, "carol", balanceOf(resp.Msg, carol).DisplayName)
	require.Len(t, resp.Msg.Debts, 2)
	for _, d := range resp.Msg.Debts {
		assert.Equal(t, alice, d.To)
		assert.Equal(t, 30.0, d.Amount)
	}

	_, err = env.splits.RecordPayment(ctx, as(bob, &api.RecordPaymentRequest{SplitID: created.Msg.Split.ID, Amount: 30}))
	require.NoError(t, err)

	resp, err = env.groups.GetGroupBalances(ctx, as(alice, &api.GetGroupBalancesRequest{GroupID: group.ID}))
	require.NoError(t, err)
	assert.Equal(t, 30.0, balanceOf(resp.Msg, alice).NetBalance)
	assert.Equal(t, 0.0, balanceOf(resp.Msg, bob).NetBalance)
	require.Len(t, resp.Msg.Debts, 1)
	assert.Equal(t, api.Debt{From: carol, To: alice, Amount: 30}, *resp.Msg.Debts[0])

	splits, err := env.splits.ListSplits(ctx, as(carol, &api.ListSplitsRequest{GroupID: group.ID}))
	require.NoError(t, err)
	assert.Len(t, splits.Msg.Splits, 1)
}
