package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/amar-295/student-finance-db-sub001/pkg/api"
)

// SplitServiceName is the fully-qualified name of the SplitService.
const SplitServiceName = "finance.v1.SplitService"

const (
	SplitServiceCreateSplitProcedure   = "/" + SplitServiceName + "/CreateSplit"
	SplitServiceGetSplitProcedure      = "/" + SplitServiceName + "/GetSplit"
	SplitServiceListSplitsProcedure    = "/" + SplitServiceName + "/ListSplits"
	SplitServiceRecordPaymentProcedure = "/" + SplitServiceName + "/RecordPayment"
	SplitServiceSettleShareProcedure   = "/" + SplitServiceName + "/SettleShare"
	SplitServiceDeleteSplitProcedure   = "/" + SplitServiceName + "/DeleteSplit"
	SplitServiceAddCommentProcedure    = "/" + SplitServiceName + "/AddComment"
	SplitServiceListCommentsProcedure  = "/" + SplitServiceName + "/ListComments"
	SplitServiceSendReminderProcedure  = "/" + SplitServiceName + "/SendReminder"
)

// SplitServiceClient is a client for the SplitService.
type SplitServiceClient interface {
	CreateSplit(context.Context, *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error)
	GetSplit(context.Context, *connect.Request[api.GetSplitRequest]) (*connect.Response[api.GetSplitResponse], error)
	ListSplits(context.Context, *connect.Request[api.ListSplitsRequest]) (*connect.Response[api.ListSplitsResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	SettleShare(context.Context, *connect.Request[api.SettleShareRequest]) (*connect.Response[api.SettleShareResponse], error)
	DeleteSplit(context.Context, *connect.Request[api.DeleteSplitRequest]) (*connect.Response[api.DeleteSplitResponse], error)
	AddComment(context.Context, *connect.Request[api.AddCommentRequest]) (*connect.Response[api.AddCommentResponse], error)
	ListComments(context.Context, *connect.Request[api.ListCommentsRequest]) (*connect.Response[api.ListCommentsResponse], error)
	SendReminder(context.Context, *connect.Request[api.SendReminderRequest]) (*connect.Response[api.SendReminderResponse], error)
}

// NewSplitServiceClient returns a client for the SplitService served at baseURL.
func NewSplitServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SplitServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &splitServiceClient{
		createSplit:   connect.NewClient[api.CreateSplitRequest, api.CreateSplitResponse](httpClient, baseURL+SplitServiceCreateSplitProcedure, opts...),
		getSplit:      connect.NewClient[api.GetSplitRequest, api.GetSplitResponse](httpClient, baseURL+SplitServiceGetSplitProcedure, opts...),
		listSplits:    connect.NewClient[api.ListSplitsRequest, api.ListSplitsResponse](httpClient, baseURL+SplitServiceListSplitsProcedure, opts...),
		recordPayment: connect.NewClient[api.RecordPaymentRequest, api.RecordPaymentResponse](httpClient, baseURL+SplitServiceRecordPaymentProcedure, opts...),
		settleShare:   connect.NewClient[api.SettleShareRequest, api.SettleShareResponse](httpClient, baseURL+SplitServiceSettleShareProcedure, opts...),
		deleteSplit:   connect.NewClient[api.DeleteSplitRequest, api.DeleteSplitResponse](httpClient, baseURL+SplitServiceDeleteSplitProcedure, opts...),
		addComment:    connect.NewClient[api.AddCommentRequest, api.AddCommentResponse](httpClient, baseURL+SplitServiceAddCommentProcedure, opts...),
		listComments:  connect.NewClient[api.ListCommentsRequest, api.ListCommentsResponse](httpClient, baseURL+SplitServiceListCommentsProcedure, opts...),
		sendReminder:  connect.NewClient[api.SendReminderRequest, api.SendReminderResponse](httpClient, baseURL+SplitServiceSendReminderProcedure, opts...),
	}
}

type splitServiceClient struct {
	createSplit   *connect.Client[api.CreateSplitRequest, api.CreateSplitResponse]
	getSplit      *connect.Client[api.GetSplitRequest, api.GetSplitResponse]
	listSplits    *connect.Client[api.ListSplitsRequest, api.ListSplitsResponse]
	recordPayment *connect.Client[api.RecordPaymentRequest, api.RecordPaymentResponse]
	settleShare   *connect.Client[api.SettleShareRequest, api.SettleShareResponse]
	deleteSplit   *connect.Client[api.DeleteSplitRequest, api.DeleteSplitResponse]
	addComment    *connect.Client[api.AddCommentRequest, api.AddCommentResponse]
	listComments  *connect.Client[api.ListCommentsRequest, api.ListCommentsResponse]
	sendReminder  *connect.Client[api.SendReminderRequest, api.SendReminderResponse]
}

func (c *splitServiceClient) CreateSplit(ctx context.Context, req *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error) {
	return c.createSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) GetSplit(ctx context.Context, req *connect.Request[api.GetSplitRequest]) (*connect.Response[api.GetSplitResponse], error) {
	return c.getSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) ListSplits(ctx context.Context, req *connect.Request[api.ListSplitsRequest]) (*connect.Response[api.ListSplitsResponse], error) {
	return c.listSplits.CallUnary(ctx, req)
}

func (c *splitServiceClient) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *splitServiceClient) SettleShare(ctx context.Context, req *connect.Request[api.SettleShareRequest]) (*connect.Response[api.SettleShareResponse], error) {
	return c.settleShare.CallUnary(ctx, req)
}

func (c *splitServiceClient) DeleteSplit(ctx context.Context, req *connect.Request[api.DeleteSplitRequest]) (*connect.Response[api.DeleteSplitResponse], error) {
	return c.deleteSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) AddComment(ctx context.Context, req *connect.Request[api.AddCommentRequest]) (*connect.Response[api.AddCommentResponse], error) {
	return c.addComment.CallUnary(ctx, req)
}

func (c *splitServiceClient) ListComments(ctx context.Context, req *connect.Request[api.ListCommentsRequest]) (*connect.Response[api.ListCommentsResponse], error) {
	return c.listComments.CallUnary(ctx, req)
}

func (c *splitServiceClient) SendReminder(ctx context.Context, req *connect.Request[api.SendReminderRequest]) (*connect.Response[api.SendReminderResponse], error) {
	return c.sendReminder.CallUnary(ctx, req)
}

// SplitServiceHandler is implemented by the server side of the SplitService.
type SplitServiceHandler interface {
	CreateSplit(context.Context, *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error)
	GetSplit(context.Context, *connect.Request[api.GetSplitRequest]) (*connect.Response[api.GetSplitResponse], error)
	ListSplits(context.Context, *connect.Request[api.ListSplitsRequest]) (*connect.Response[api.ListSplitsResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	SettleShare(context.Context, *connect.Request[api.SettleShareRequest]) (*connect.Response[api.SettleShareResponse], error)
	DeleteSplit(context.Context, *connect.Request[api.DeleteSplitRequest]) (*connect.Response[api.DeleteSplitResponse], error)
	AddComment(context.Context, *connect.Request[api.AddCommentRequest]) (*connect.Response[api.AddCommentResponse], error)
	ListComments(context.Context, *connect.Request[api.ListCommentsRequest]) (*connect.Response[api.ListCommentsResponse], error)
	SendReminder(context.Context, *connect.Request[api.SendReminderRequest]) (*connect.Response[api.SendReminderResponse], error)
}

// NewSplitServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewSplitServiceHandler(svc SplitServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + SplitServiceName + "/", serviceMux{
		SplitServiceCreateSplitProcedure:   connect.NewUnaryHandler(SplitServiceCreateSplitProcedure, svc.CreateSplit, opts...),
		SplitServiceGetSplitProcedure:      connect.NewUnaryHandler(SplitServiceGetSplitProcedure, svc.GetSplit, opts...),
		SplitServiceListSplitsProcedure:    connect.NewUnaryHandler(SplitServiceListSplitsProcedure, svc.ListSplits, opts...),
		SplitServiceRecordPaymentProcedure: connect.NewUnaryHandler(SplitServiceRecordPaymentProcedure, svc.RecordPayment, opts...),
		SplitServiceSettleShareProcedure:   connect.NewUnaryHandler(SplitServiceSettleShareProcedure, svc.SettleShare, opts...),
		SplitServiceDeleteSplitProcedure:   connect.NewUnaryHandler(SplitServiceDeleteSplitProcedure, svc.DeleteSplit, opts...),
		SplitServiceAddCommentProcedure:    connect.NewUnaryHandler(SplitServiceAddCommentProcedure, svc.AddComment, opts...),
		SplitServiceListCommentsProcedure:  connect.NewUnaryHandler(SplitServiceListCommentsProcedure, svc.ListComments, opts...),
		SplitServiceSendReminderProcedure:  connect.NewUnaryHandler(SplitServiceSendReminderProcedure, svc.SendReminder, opts...),
	}
}
