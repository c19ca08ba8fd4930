package service

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/amar-295/student-finance-db-sub001/internal/apperr"
	"github.com/amar-295/student-finance-db-sub001/internal/calculator"
	"github.com/amar-295/student-finance-db-sub001/internal/metrics"
	"github.com/amar-295/student-finance-db-sub001/internal/models"
	"github.com/amar-295/student-finance-db-sub001/internal/notify"
	"github.com/amar-295/student-finance-db-sub001/internal/storage"
	"github.com/amar-295/student-finance-db-sub001/pkg/api"
)

const (
	defaultPaymentMethod = "cash"
	maxCommentLength     = 1000
)

// SplitService implements the SplitService.
type SplitService struct {
	store     storage.Store
	tolerance decimal.Decimal
	publisher notify.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewSplitService creates a SplitService. tolerance bounds how far the shares
// of a percentage or custom split may stray from its total. publisher and m
// may be nil.
func NewSplitService(store storage.Store, tolerance float64, publisher notify.Publisher, m *metrics.Metrics) *SplitService {
	if publisher == nil {
		publisher = notify.LogPublisher{}
	}
	return &SplitService{
		store:     store,
		tolerance: decimal.NewFromFloat(tolerance),
		publisher: publisher,
		metrics:   m,
		now:       time.Now,
	}
}

// visibleSplit loads a split the caller created or holds a share in.
// Anyone else gets not found.
func (s *SplitService) visibleSplit(ctx context.Context, userID, splitID string) (*models.BillSplit, error) {
	split, err := s.store.GetSplit(ctx, splitID)
	if err != nil {
		return nil, err
	}
	if !split.IsVisibleTo(userID) {
		return nil, apperr.NotFound("split", splitID)
	}
	return split, nil
}

// requireCreator rejects participants with forbidden and outsiders with not found.
func requireCreator(split *models.BillSplit, userID, action string) error {
	if split.CreatedBy == userID {
		return nil
	}
	if split.IsVisibleTo(userID) {
		return apperr.Forbidden("only the creator of a split can %s", action)
	}
	return apperr.NotFound("split", split.ID)
}

// names resolves display names for the people on the given splits.
func (s *SplitService) names(ctx context.Context, splits ...*models.BillSplit) map[string]*models.User {
	var ids []string
	for _, split := range splits {
		ids = append(ids, split.CreatedBy)
		for _, p := range split.Participants {
			ids = append(ids, p.UserID)
		}
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		slog.Warn("Failed to resolve participant names", "error", err)
		return nil
	}
	return users
}

// checkGroup verifies that the creator and every participant belong to the group.
func (s *SplitService) checkGroup(ctx context.Context, groupID, userID string, participants []*api.ParticipantShare) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !group.HasMember(userID) {
		return apperr.NotFound("group", groupID)
	}
	for _, p := range participants {
		if !group.HasMember(p.UserID) {
			return apperr.Validation("participant %s is not a member of the group", p.UserID)
		}
	}
	return nil
}

// CreateSplit divides a bill among participants.
func (s *SplitService) CreateSplit(ctx context.Context, req *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	slog.Info("CreateSplit request received",
		"user_id", userID,
		"split_type", msg.SplitType,
		"total_amount", msg.TotalAmount,
		"participants_count", len(msg.Participants),
	)

	description := strings.TrimSpace(msg.Description)
	if description == "" {
		return nil, connectError(apperr.Validation("description is required"))
	}

	requests := make([]calculator.ShareRequest, len(msg.Participants))
	for i, p := range msg.Participants {
		if p == nil {
			return nil, connectError(apperr.Validation("participant %d is empty", i))
		}
		requests[i] = calculator.ShareRequest{UserID: p.UserID, AmountOwed: decimal.NewFromFloat(p.AmountOwed)}
	}
	total := calculator.Money(msg.TotalAmount)
	shares, err := calculator.AllocateSplit(total, models.SplitType(msg.SplitType), requests, s.tolerance)
	if err != nil {
		return nil, connectError(err)
	}

	ids := make([]string, len(shares))
	for i, sh := range shares {
		ids[i] = sh.UserID
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, connectError(err)
	}
	for _, id := range ids {
		if _, ok := users[id]; !ok {
			return nil, connectError(apperr.Validation("unknown participant: %s", id))
		}
	}
	if msg.GroupID != "" {
		if err := s.checkGroup(ctx, msg.GroupID, userID, msg.Participants); err != nil {
			return nil, connectError(err)
		}
	}

	split := &models.BillSplit{
		CreatedBy:    userID,
		GroupID:      msg.GroupID,
		Description:  description,
		TotalAmount:  total,
		SplitType:    models.SplitType(msg.SplitType),
		Status:       models.SplitPending,
		BillDate:     msg.BillDate,
		Participants: make([]models.SplitParticipant, len(shares)),
	}
	now := s.now().Unix()
	for i, sh := range shares {
		split.Participants[i] = models.SplitParticipant{
			UserID:     sh.UserID,
			AmountOwed: sh.AmountOwed,
			Status:     sh.Status,
		}
		if sh.Status == models.ParticipantPaid {
			split.Participants[i].PaidAt = now
		}
	}

	if err := s.store.CreateSplit(ctx, split); err != nil {
		slog.Error("CreateSplit failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Split created", "split_id", split.ID, "user_id", userID)
	return connect.NewResponse(&api.CreateSplitResponse{Split: toAPISplit(split, users)}), nil
}

// GetSplit returns a split with its payment history.
func (s *SplitService) GetSplit(ctx context.Context, req *connect.Request[api.GetSplitRequest]) (*connect.Response[api.GetSplitResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	split, err := s.visibleSplit(ctx, userID, req.Msg.SplitID)
	if err != nil {
		return nil, connectError(err)
	}
	settlements, err := s.store.ListSettlementsBySplit(ctx, split.ID)
	if err != nil {
		return nil, connectError(err)
	}

	resp := &api.GetSplitResponse{
		Split:       toAPISplit(split, s.names(ctx, split)),
		Settlements: make([]*api.Settlement, len(settlements)),
	}
	for i, st := range settlements {
		resp.Settlements[i] = toAPISettlement(st)
	}
	return connect.NewResponse(resp), nil
}

// ListSplits returns the splits the caller is part of, or those of a group
// the caller belongs to.
func (s *SplitService) ListSplits(ctx context.Context, req *connect.Request[api.ListSplitsRequest]) (*connect.Response[api.ListSplitsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	var splits []*models.BillSplit
	if req.Msg.GroupID != "" {
		group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
		if err != nil {
			return nil, connectError(err)
		}
		if !group.HasMember(userID) {
			return nil, connectError(apperr.NotFound("group", req.Msg.GroupID))
		}
		splits, err = s.store.ListSplitsByGroup(ctx, group.ID)
		if err != nil {
			return nil, connectError(err)
		}
	} else {
		splits, err = s.store.ListSplitsForUser(ctx, userID)
		if err != nil {
			return nil, connectError(err)
		}
	}

	if req.Msg.Status != "" {
		filtered := splits[:0]
		for _, split := range splits {
			if string(split.Status) == req.Msg.Status {
				filtered = append(filtered, split)
			}
		}
		splits = filtered
	}

	names := s.names(ctx, splits...)
	resp := &api.ListSplitsResponse{Splits: make([]*api.Split, len(splits))}
	for i, split := range splits {
		resp.Splits[i] = toAPISplit(split, names)
	}
	return connect.NewResponse(resp), nil
}

// applyPayment adds amount to userID's share and recomputes the split status.
func (s *SplitService) applyPayment(split *models.BillSplit, userID string, amount decimal.Decimal) (*models.SplitParticipant, error) {
	p, ok := split.Participant(userID)
	if !ok {
		return nil, apperr.NotFound("participant", userID)
	}

	updated, err := calculator.ApplyPayment(*p, amount, s.now().Unix())
	if err != nil {
		return nil, err
	}
	*p = updated
	split.Status = calculator.SplitStatusFor(split.Status, split.Participants)
	return p, nil
}

func (s *SplitService) paymentRecorded(ctx context.Context, split *models.BillSplit) {
	settled := split.Status == models.SplitSettled
	s.metrics.PaymentRecorded(settled)
	if !settled {
		return
	}

	slog.Info("Split settled", "split_id", split.ID)
	err := s.publisher.Publish(ctx, notify.NewSplitSettledEvent(split, s.now()))
	s.metrics.NotificationPublished(notify.KindSplitSettled, err)
	if err != nil {
		slog.Warn("Failed to publish settlement", "split_id", split.ID, "error", err)
	}
}

// RecordPayment records the caller paying towards their own share.
func (s *SplitService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	amount := calculator.Money(msg.Amount)
	if amount.LessThan(decimal.New(1, -2)) {
		return nil, connectError(apperr.Validation("payment amount must be at least 0.01"))
	}
	method := msg.Method
	if method == "" {
		method = defaultPaymentMethod
	}

	var participant models.SplitParticipant
	split, err := s.store.UpdateSplit(ctx, msg.SplitID, func(split *models.BillSplit) (*models.Settlement, error) {
		if !split.IsVisibleTo(userID) {
			return nil, apperr.NotFound("split", split.ID)
		}
		p, err := s.applyPayment(split, userID, amount)
		if err != nil {
			return nil, err
		}
		participant = *p
		return &models.Settlement{
			ParticipantID: p.ID,
			PayerID:       userID,
			RecordedBy:    userID,
			Amount:        amount,
			Method:        method,
			Note:          msg.Note,
		}, nil
	})
	if err != nil {
		slog.Warn("RecordPayment failed", "split_id", msg.SplitID, "user_id", userID, "error", err)
		return nil, connectError(err)
	}
	s.paymentRecorded(ctx, split)

	slog.Info("Payment recorded",
		"split_id", split.ID,
		"user_id", userID,
		"amount", amount,
		"participant_status", participant.Status,
		"split_status", split.Status,
	)
	names := s.names(ctx, split)
	return connect.NewResponse(&api.RecordPaymentResponse{
		Participant: toAPIParticipant(&participant, names),
		Split:       toAPISplit(split, names),
	}), nil
}

// SettleShare lets the creator mark a participant's share as paid in full.
func (s *SplitService) SettleShare(ctx context.Context, req *connect.Request[api.SettleShareRequest]) (*connect.Response[api.SettleShareResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	method := msg.Method
	if method == "" {
		method = defaultPaymentMethod
	}

	var participant models.SplitParticipant
	split, err := s.store.UpdateSplit(ctx, msg.SplitID, func(split *models.BillSplit) (*models.Settlement, error) {
		if err := requireCreator(split, userID, "settle a share"); err != nil {
			return nil, err
		}
		p, ok := split.Participant(msg.UserID)
		if !ok {
			return nil, apperr.NotFound("participant", msg.UserID)
		}

		if p.Status == models.ParticipantPaid {
			return nil, apperr.Validation("share is already paid")
		}

		outstanding := calculator.Outstanding(*p)
		p, err := s.applyPayment(split, msg.UserID, outstanding)
		if err != nil {
			return nil, err
		}
		participant = *p
		return &models.Settlement{
			ParticipantID: p.ID,
			PayerID:       msg.UserID,
			RecordedBy:    userID,
			Amount:        outstanding,
			Method:        method,
			Note:          msg.Note,
		}, nil
	})
	if err != nil {
		slog.Warn("SettleShare failed", "split_id", msg.SplitID, "user_id", userID, "error", err)
		return nil, connectError(err)
	}
	s.paymentRecorded(ctx, split)

	slog.Info("Share settled by creator", "split_id", split.ID, "participant", msg.UserID)
	names := s.names(ctx, split)
	return connect.NewResponse(&api.SettleShareResponse{
		Participant: toAPIParticipant(&participant, names),
		Split:       toAPISplit(split, names),
	}), nil
}

// DeleteSplit soft-deletes a split. Only its creator may do so.
func (s *SplitService) DeleteSplit(ctx context.Context, req *connect.Request[api.DeleteSplitRequest]) (*connect.Response[api.DeleteSplitResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	split, err := s.store.GetSplit(ctx, req.Msg.SplitID)
	if err != nil {
		return nil, connectError(err)
	}
	if err := requireCreator(split, userID, "delete it"); err != nil {
		return nil, connectError(err)
	}
	if err := s.store.DeleteSplit(ctx, split.ID); err != nil {
		return nil, connectError(err)
	}

	slog.Info("Split deleted", "split_id", split.ID, "user_id", userID)
	return connect.NewResponse(&api.DeleteSplitResponse{}), nil
}

// AddComment posts a comment on a split visible to the caller.
func (s *SplitService) AddComment(ctx context.Context, req *connect.Request[api.AddCommentRequest]) (*connect.Response[api.AddCommentResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Msg.Content)
	if content == "" {
		return nil, connectError(apperr.Validation("comment cannot be empty"))
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return nil, connectError(apperr.Validation("comment must be at most %d characters", maxCommentLength))
	}

	split, err := s.visibleSplit(ctx, userID, req.Msg.SplitID)
	if err != nil {
		return nil, connectError(err)
	}

	comment := &models.SplitComment{SplitID: split.ID, UserID: userID, Content: content}
	if err := s.store.AddComment(ctx, comment); err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.AddCommentResponse{Comment: toAPIComment(comment)}), nil
}

// ListComments returns a split's comments, oldest first.
func (s *SplitService) ListComments(ctx context.Context, req *connect.Request[api.ListCommentsRequest]) (*connect.Response[api.ListCommentsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	split, err := s.visibleSplit(ctx, userID, req.Msg.SplitID)
	if err != nil {
		return nil, connectError(err)
	}
	comments, err := s.store.ListComments(ctx, split.ID)
	if err != nil {
		return nil, connectError(err)
	}

	resp := &api.ListCommentsResponse{Comments: make([]*api.Comment, len(comments))}
	for i, c := range comments {
		resp.Comments[i] = toAPIComment(c)
	}
	return connect.NewResponse(resp), nil
}

// SendReminder nudges a participant who still owes money. Only the creator
// may send reminders.
func (s *SplitService) SendReminder(ctx context.Context, req *connect.Request[api.SendReminderRequest]) (*connect.Response[api.SendReminderResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	reminderType := models.ReminderType(msg.ReminderType)
	switch reminderType {
	case "":
		reminderType = models.ReminderPolite
	case models.ReminderPolite, models.ReminderUrgent:
	default:
		return nil, connectError(apperr.Validation("invalid reminder type: %q", msg.ReminderType))
	}

	split, err := s.store.GetSplit(ctx, msg.SplitID)
	if err != nil {
		return nil, connectError(err)
	}
	if err := requireCreator(split, userID, "send reminders"); err != nil {
		return nil, connectError(err)
	}
	p, ok := split.Participant(msg.UserID)
	if !ok {
		return nil, connectError(apperr.NotFound("participant", msg.UserID))
	}
	if p.UserID == userID {
		return nil, connectError(apperr.Validation("cannot send a reminder to yourself"))
	}
	if p.Status == models.ParticipantPaid {
		return nil, connectError(apperr.Validation("participant has already paid"))
	}

	reminder := &models.PaymentReminder{
		ParticipantID: p.ID,
		SplitID:       split.ID,
		SentBy:        userID,
		SentTo:        p.UserID,
		ReminderType:  reminderType,
	}
	if err := s.store.CreateReminder(ctx, reminder); err != nil {
		return nil, connectError(err)
	}

	outstanding := calculator.Outstanding(*p)
	err = s.publisher.Publish(ctx, notify.NewReminderEvent(reminder, split.Description, outstanding, s.now()))
	s.metrics.NotificationPublished(notify.KindPaymentReminder, err)
	if err != nil {
		slog.Warn("Failed to publish reminder", "split_id", split.ID, "reminder_id", reminder.ID, "error", err)
	}

	slog.Info("Reminder sent", "split_id", split.ID, "sent_to", p.UserID, "type", reminderType)
	return connect.NewResponse(&api.SendReminderResponse{ReminderID: reminder.ID, Outstanding: toFloat(outstanding)}), nil
}
