package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/amar-295/student-finance-db-sub001/internal/apperr"
	"github.com/amar-295/student-finance-db-sub001/internal/auth"
	"github.com/amar-295/student-finance-db-sub001/internal/calculator"
	"github.com/amar-295/student-finance-db-sub001/internal/models"
	"github.com/amar-295/student-finance-db-sub001/internal/storage"
	"github.com/amar-295/student-finance-db-sub001/pkg/api"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// memberGroup loads a group the caller belongs to. Non-members get not found.
func (s *GroupService) memberGroup(ctx context.Context, userID, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, apperr.NotFound("group", groupID)
	}
	return group, nil
}

// CreateGroup creates a new group with the caller as its first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connectError(apperr.Validation("group name is required"))
	}

	group := &models.Group{
		Name:      name,
		CreatedBy: userID,
		Members:   []string{userID},
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, connectError(err)
	}

	slog.Info("Group created", "group_id", group.ID, "user_id", userID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.memberGroup(ctx, userID, req.Msg.GroupID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups retrieves the groups the caller belongs to.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, connectError(err)
	}

	resp := &api.ListGroupsResponse{Groups: make([]*api.Group, len(groups))}
	for i, g := range groups {
		resp.Groups[i] = toAPIGroup(g)
	}
	return connect.NewResponse(resp), nil
}

// AddGroupMember adds a registered user, found by email, to a group the
// caller belongs to.
func (s *GroupService) AddGroupMember(ctx context.Context, req *connect.Request[api.AddGroupMemberRequest]) (*connect.Response[api.AddGroupMemberResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	email, err := auth.NormalizeEmail(req.Msg.Email)
	if err != nil {
		return nil, connectError(err)
	}
	group, err := s.memberGroup(ctx, userID, req.Msg.GroupID)
	if err != nil {
		return nil, connectError(err)
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, connectError(err)
	}
	if user == nil {
		return nil, connectError(apperr.NotFound("user", email))
	}

	if err := s.store.AddGroupMember(ctx, group.ID, user.ID); err != nil {
		return nil, connectError(err)
	}
	group.Members = append(group.Members, user.ID)

	slog.Info("Group member added", "group_id", group.ID, "member", user.ID, "added_by", userID)
	return connect.NewResponse(&api.AddGroupMemberResponse{Group: toAPIGroup(group)}), nil
}

// LeaveGroup removes the caller from a group.
func (s *GroupService) LeaveGroup(ctx context.Context, req *connect.Request[api.LeaveGroupRequest]) (*connect.Response[api.LeaveGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.memberGroup(ctx, userID, req.Msg.GroupID); err != nil {
		return nil, connectError(err)
	}
	if err := s.store.RemoveGroupMember(ctx, req.Msg.GroupID, userID); err != nil {
		return nil, connectError(err)
	}

	slog.Info("Group member left", "group_id", req.Msg.GroupID, "user_id", userID)
	return connect.NewResponse(&api.LeaveGroupResponse{}), nil
}

// GetGroupBalances computes who owes whom across the group's splits.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.memberGroup(ctx, userID, req.Msg.GroupID)
	if err != nil {
		return nil, connectError(err)
	}
	splits, err := s.store.ListSplitsByGroup(ctx, group.ID)
	if err != nil {
		slog.Error("GetGroupBalances failed", "group_id", group.ID, "error", err)
		return nil, connectError(err)
	}

	input := make([]calculator.SplitForBalance, len(splits))
	for i, split := range splits {
		shares := make([]calculator.ShareForBalance, len(split.Participants))
		for j, p := range split.Participants {
			shares[j] = calculator.ShareForBalance{UserID: p.UserID, AmountOwed: p.AmountOwed, AmountPaid: p.AmountPaid}
		}
		input[i] = calculator.SplitForBalance{
			CreatedBy:   split.CreatedBy,
			TotalAmount: split.TotalAmount,
			Shares:      shares,
		}
	}
	balances, debts := calculator.CalculateGroupBalances(input)

	ids := make([]string, len(balances))
	for i, b := range balances {
		ids[i] = b.UserID
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, connectError(err)
	}

	resp := &api.GetGroupBalancesResponse{
		Balances: make([]*api.MemberBalance, len(balances)),
		Debts:    make([]*api.Debt, len(debts)),
	}
	for i, b := range balances {
		resp.Balances[i] = &api.MemberBalance{
			UserID:     b.UserID,
			NetBalance: toFloat(b.NetBalance),
			TotalPaid:  toFloat(b.TotalPaid),
			TotalOwed:  toFloat(b.TotalOwed),
		}
		if u, ok := users[b.UserID]; ok {
			resp.Balances[i].DisplayName = u.DisplayName
		}
	}
	for i, d := range debts {
		resp.Debts[i] = &api.Debt{From: d.From, To: d.To, Amount: toFloat(d.Amount)}
	}

	slog.Info("GetGroupBalances successful", "group_id", group.ID, "splits", len(splits), "debts", len(debts))
	return connect.NewResponse(resp), nil
}
