package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amar-295/student-finance-db-sub001/internal/notify"
	"github.com/amar-295/student-finance-db-sub001/pkg/api"
)

func equalSplit(t *testing.T, env *testEnv, creator string, total float64, participants ...string) *api.Split {
	t.Helper()
	shares := make([]*api.ParticipantShare, len(participants))
	for i, id := range participants {
		shares[i] = &api.ParticipantShare{UserID: id}
	}
	resp, err := env.splits.CreateSplit(context.Background(), as(creator, &api.CreateSplitRequest{
		Description:  "Dinner",
		TotalAmount:  total,
		SplitType:    "equal",
		Participants: shares,
	}))
	require.NoError(t, err)
	return resp.Msg.Split
}

func participantOf(t *testing.T, split *api.Split, userID string) *api.Participant {
	t.Helper()
	for _, p := range split.Participants {
		if p.UserID == userID {
			return p
		}
	}
	t.Fatalf("user %s is not on split %s", userID, split.ID)
	return nil
}

func TestCreateSplit_Equal(t *testing.T) {
	env := setupTestServer(t)
	alice, bob, carol := env.user(t, "alice"), env.user(t, "bob"), env.user(t, "carol")

	split := equalSplit(t, env, alice, 100, alice, bob, carol)
	assert.Equal(t, "pending", split.Status)
	assert.Equal(t, alice, split.CreatedBy)
	require.Len(t, split.Participants, 3)

	var sum float64
	for _, p := range split.Participants {
		sum += p.AmountOwed
		assert.Equal(t, "pending", p.Status)
		assert.Equal(t, p.AmountOwed, p.Outstanding)
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
	assert.Equal(t, 33.33, participantOf(t, split, alice).AmountOwed)
	assert.Equal(t, 33.33, participantOf(t, split, bob).AmountOwed)
	assert.Equal(t, 33.34, participantOf(t, split, carol).AmountOwed)
	assert.Equal(t, "bob", participantOf(t, split, bob).DisplayName)
}

func TestCreateSplit_Custom(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice, bob := env.user(t, "alice"), env.user(t, "bob")

	req := func(a, b float64) *api.CreateSplitRequest {
		return &api.CreateSplitRequest{
			Description: "Groceries",
			TotalAmount: 50,
			SplitType:   "custom",
			Participants: []*api.ParticipantShare{
				{UserID: alice, AmountOwed: a},
				{UserID: bob, AmountOwed: b},
			},
		}
	}

	_, err := env.splits.CreateSplit(ctx, as(alice, req(20, 29.9)))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	resp, err := env.splits.CreateSplit(ctx, as(alice, req(20, 29.97)))
	require.NoError(t, err)
	assert.Equal(t, 29.97, participantOf(t, resp.Msg.Split, bob).AmountOwed)
}

func TestCreateSplit_Validation(t *testing.T) {
	env := setupTestServer(t)
	alice, bob := env.user(t, "alice"), env.user(t, "bob")

	tests := []struct {
		name string
		req  *api.CreateSplitRequest
	}{
		{"no description", &api.CreateSplitRequest{TotalAmount: 10, SplitType: "equal", Participants: []*api.ParticipantShare{{UserID: bob}}}},
		{"zero total", &api.CreateSplitRequest{Description: "x", SplitType: "equal", Participants: []*api.ParticipantShare{{UserID: bob}}}},
		{"unknown type", &api.CreateSplitRequest{Description: "x", TotalAmount: 10, SplitType: "itemized", Participants: []*api.ParticipantShare{{UserID: bob}}}},
		{"no participants", &api.CreateSplitRequest{Description: "x", TotalAmount: 10, SplitType: "equal"}},
		{"duplicate participant", &api.CreateSplitRequest{Description: "x", TotalAmount: 10, SplitType: "equal", Participants: []*api.ParticipantShare{{UserID: bob}, {UserID: bob}}}},
		{"unknown participant", &api.CreateSplitRequest{Description: "x", TotalAmount: 10, SplitType: "equal", Participants: []*api.ParticipantShare{{UserID: "ghost"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.splits.CreateSplit(context.Background(), as(alice, tt.req))
			assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
		})
	}
}

func TestRecordPayment_SettlesSplit(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob, carol, dave := env.user(t, "bob"), env.user(t, "carol"), env.user(t, "dave")

	split := equalSplit(t, env, alice, 90, bob, carol, dave)

	resp, err := env.splits.RecordPayment(ctx, as(bob, &api.RecordPaymentRequest{SplitID: split.ID, Amount: 10}))
	require.NoError(t, err)
	assert.Equal(t, "partial", resp.Msg.Participant.Status)
	assert.Equal(t, 20.0, resp.Msg.Participant.Outstanding)
	assert.Equal(t, "partial", resp.Msg.Split.Status)

	resp, err = env.splits.RecordPayment(ctx, as(bob, &api.RecordPaymentRequest{SplitID: split.ID, Amount: 20, Method: "venmo"}))
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.Msg.Participant.Status)
	assert.NotZero(t, resp.Msg.Participant.PaidAt)

	for _, payer := range []string{carol, dave} {
		resp, err = env.splits.RecordPayment(ctx, as(payer, &api.RecordPaymentRequest{SplitID: split.ID, Amount: 30}))
		require.NoError(t, err)
	}
	assert.Equal(t, "settled", resp.Msg.Split.Status)
	assert.NotZero(t, resp.Msg.Split.SettledAt)
	assert.Equal(t, []string{notify.KindSplitSettled}, env.publisher.kinds())

	got, err := env.splits.GetSplit(ctx, as(alice, &api.GetSplitRequest{SplitID: split.ID}))
	require.NoError(t, err)
	assert.Equal(t, "settled", got.Msg.Split.Status)
	require.Len(t, got.Msg.Settlements, 4)
	var total float64
	for _, st := range got.Msg.Settlements {
		total += st.Amount
		assert.Equal(t, st.PayerID, st.RecordedBy)
	}
	assert.Equal(t, 90.0, total)
}

func TestRecordPayment_Rejections(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice, bob, carol, eve := env.user(t, "alice"), env.user(t, "bob"), env.user(t, "carol"), env.user(t, "eve")

	split := equalSplit(t, env, alice, 60, bob, carol)

	_, err := env.splits.RecordPayment(ctx, as(bob, &api.RecordPaymentRequest{SplitID: split.ID, Amount: 0}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = env.splits.RecordPayment(ctx, as(eve, &api.RecordPaymentRequest{SplitID: split.ID, Amount: 5}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = env.splits.RecordPayment(ctx, as(alice, &api.RecordPaymentRequest{SplitID: split.ID, Amount: 5}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err), "the creator holds no share")

	resp, err := env.splits.RecordPayment(ctx, as(bob, &api.RecordPaymentRequest{SplitID: split.ID, Amount: 45}))
	require.NoError(t, err, "overpayment is accepted")
	assert.Equal(t, "paid", resp.Msg.Participant.Status)
	assert.Equal(t, 45.0, resp.Msg.Participant.AmountPaid)
	assert.Equal(t, 0.0, resp.Msg.Participant.Outstanding)

	_, err = env.splits.RecordPayment(ctx, as(bob, &api.RecordPaymentRequest{SplitID: split.ID, Amount: 1}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = env.splits.GetSplit(ctx, as(eve, &api.GetSplitRequest{SplitID: split.ID}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestRecordPayment_RejectsSubCentAmount(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice, bob := env.user(t, "alice"), env.user(t, "bob")

	split := equalSplit(t, env, alice, 20, bob)

	_, err := env.splits.RecordPayment(ctx, as(bob, &api.RecordPaymentRequest{SplitID: split.ID, Amount: 0.004}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	got, err := env.splits.GetSplit(ctx, as(bob, &api.GetSplitRequest{SplitID: split.ID}))
	require.NoError(t, err)
	assert.Equal(t, "pending", got.Msg.Split.Status)
	assert.Equal(t, "pending", participantOf(t, got.Msg.Split, bob).Status)
	assert.Equal(t, 0.0, participantOf(t, got.Msg.Split, bob).AmountPaid)
	assert.Empty(t, got.Msg.Settlements)
}

func TestCreateSplit_OneCentAcrossThree(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice, bob, carol := env.user(t, "alice"), env.user(t, "bob"), env.user(t, "carol")

	split := equalSplit(t, env, alice, 0.01, alice, bob, carol)
	assert.Equal(t, "pending", split.Status)
	assert.Equal(t, "paid", participantOf(t, split, alice).Status)
	assert.Equal(t, "paid", participantOf(t, split, bob).Status)
	assert.Equal(t, "pending", participantOf(t, split, carol).Status)
	assert.Equal(t, 0.01, participantOf(t, split, carol).AmountOwed)

	_, err := env.splits.RecordPayment(ctx, as(bob, &api.RecordPaymentRequest{SplitID: split.ID, Amount: 0.01}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err), "a zero share is already paid")

	resp, err := env.splits.RecordPayment(ctx, as(carol, &api.RecordPaymentRequest{SplitID: split.ID, Amount: 0.01}))
	require.NoError(t, err)
	assert.Equal(t, "settled", resp.Msg.Split.Status)
}

func TestSettleShare(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice, bob, carol := env.user(t, "alice"), env.user(t, "bob"), env.user(t, "carol")

	split := equalSplit(t, env, alice, 40, bob, carol)

	_, err := env.splits.SettleShare(ctx, as(bob, &api.SettleShareRequest{SplitID: split.ID, UserID: carol}))
	assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))

	_, err = env.splits.RecordPayment(ctx, as(bob, &api.RecordPaymentRequest{SplitID: split.ID, Amount: 5}))
	require.NoError(t, err)

	resp, err := env.splits.SettleShare(ctx, as(alice, &api.SettleShareRequest{SplitID: split.ID, UserID: bob, Note: "paid in person"}))
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.Msg.Participant.Status)
	assert.Equal(t, 20.0, resp.Msg.Participant.AmountPaid)
	assert.Equal(t, "partial", resp.Msg.Split.Status)

	_, err = env.splits.SettleShare(ctx, as(alice, &api.SettleShareRequest{SplitID: split.ID, UserID: bob}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	resp, err = env.splits.SettleShare(ctx, as(alice, &api.SettleShareRequest{SplitID: split.ID, UserID: carol}))
	require.NoError(t, err)
	assert.Equal(t, "settled", resp.Msg.Split.Status)

	got, err := env.splits.GetSplit(ctx, as(bob, &api.GetSplitRequest{SplitID: split.ID}))
	require.NoError(t, err)
	require.Len(t, got.Msg.Settlements, 3)
	for _, st := range got.Msg.Settlements[1:] {
		assert.Equal(t, alice, st.RecordedBy)
	}
}

func TestSendReminder(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice, bob, carol := env.user(t, "alice"), env.user(t, "bob"), env.user(t, "carol")

	split := equalSplit(t, env, alice, 50, alice, bob, carol)

	_, err := env.splits.SendReminder(ctx, as(bob, &api.SendReminderRequest{SplitID: split.ID, UserID: carol}))
	assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))

	_, err = env.splits.SendReminder(ctx, as(alice, &api.SendReminderRequest{SplitID: split.ID, UserID: alice}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = env.splits.SendReminder(ctx, as(alice, &api.SendReminderRequest{SplitID: split.ID, UserID: bob, ReminderType: "rude"}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = env.splits.RecordPayment(ctx, as(bob, &api.RecordPaymentRequest{SplitID: split.ID, Amount: 16.66}))
	require.NoError(t, err)
	_, err = env.splits.SendReminder(ctx, as(alice, &api.SendReminderRequest{SplitID: split.ID, UserID: bob}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	resp, err := env.splits.SendReminder(ctx, as(alice, &api.SendReminderRequest{SplitID: split.ID, UserID: carol, ReminderType: "urgent"}))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Msg.ReminderID)
	assert.Equal(t, 16.68, resp.Msg.Outstanding)
	assert.Equal(t, []string{notify.KindPaymentReminder}, env.publisher.kinds())
}

func TestSplitComments(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice, bob, eve := env.user(t, "alice"), env.user(t, "bob"), env.user(t, "eve")

	split := equalSplit(t, env, alice, 20, bob)

	for _, c := range []struct{ user, content string }{
		{alice, "pay me back please"},
		{bob, "  on it  "},
	} {
		_, err := env.splits.AddComment(ctx, as(c.user, &api.AddCommentRequest{SplitID: split.ID, Content: c.content}))
		require.NoError(t, err)
	}

	_, err := env.splits.AddComment(ctx, as(bob, &api.AddCommentRequest{SplitID: split.ID, Content: "   "}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = env.splits.AddComment(ctx, as(eve, &api.AddCommentRequest{SplitID: split.ID, Content: "hi"}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	resp, err := env.splits.ListComments(ctx, as(bob, &api.ListCommentsRequest{SplitID: split.ID}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Comments, 2)
	assert.Equal(t, "pay me back please", resp.Msg.Comments[0].Content)
	assert.Equal(t, "on it", resp.Msg.Comments[1].Content)
}

func TestListAndDeleteSplits(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice, bob, carol := env.user(t, "alice"), env.user(t, "bob"), env.user(t, "carol")

	first := equalSplit(t, env, alice, 30, bob)
	equalSplit(t, env, carol, 30, carol, bob)
	equalSplit(t, env, carol, 10, carol)

	_, err := env.splits.RecordPayment(ctx, as(bob, &api.RecordPaymentRequest{SplitID: first.ID, Amount: 30}))
	require.NoError(t, err)

	mine, err := env.splits.ListSplits(ctx, as(bob, &api.ListSplitsRequest{}))
	require.NoError(t, err)
	assert.Len(t, mine.Msg.Splits, 2)

	settled, err := env.splits.ListSplits(ctx, as(bob, &api.ListSplitsRequest{Status: "settled"}))
	require.NoError(t, err)
	require.Len(t, settled.Msg.Splits, 1)
	assert.Equal(t, first.ID, settled.Msg.Splits[0].ID)

	_, err = env.splits.DeleteSplit(ctx, as(bob, &api.DeleteSplitRequest{SplitID: first.ID}))
	assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))

	_, err = env.splits.DeleteSplit(ctx, as(carol, &api.DeleteSplitRequest{SplitID: first.ID}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = env.splits.DeleteSplit(ctx, as(alice, &api.DeleteSplitRequest{SplitID: first.ID}))
	require.NoError(t, err)

	_, err = env.splits.GetSplit(ctx, as(alice, &api.GetSplitRequest{SplitID: first.ID}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}
