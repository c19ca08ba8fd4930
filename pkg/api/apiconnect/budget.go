package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/amar-295/student-finance-db-sub001/pkg/api"
)

// BudgetServiceName is the fully-qualified name of the BudgetService.
const BudgetServiceName = "finance.v1.BudgetService"

const (
	BudgetServiceCreateBudgetProcedure             = "/" + BudgetServiceName + "/CreateBudget"
	BudgetServiceGetBudgetProcedure                = "/" + BudgetServiceName + "/GetBudget"
	BudgetServiceListBudgetsProcedure              = "/" + BudgetServiceName + "/ListBudgets"
	BudgetServiceUpdateBudgetProcedure             = "/" + BudgetServiceName + "/UpdateBudget"
	BudgetServiceDeleteBudgetProcedure             = "/" + BudgetServiceName + "/DeleteBudget"
	BudgetServiceGetBudgetStatusesProcedure        = "/" + BudgetServiceName + "/GetBudgetStatuses"
	BudgetServiceCheckBudgetAlertsProcedure        = "/" + BudgetServiceName + "/CheckBudgetAlerts"
	BudgetServiceGetBudgetRecommendationsProcedure = "/" + BudgetServiceName + "/GetBudgetRecommendations"
)

// BudgetServiceClient is a client for the BudgetService.
type BudgetServiceClient interface {
	CreateBudget(context.Context, *connect.Request[api.CreateBudgetRequest]) (*connect.Response[api.CreateBudgetResponse], error)
	GetBudget(context.Context, *connect.Request[api.GetBudgetRequest]) (*connect.Response[api.GetBudgetResponse], error)
	ListBudgets(context.Context, *connect.Request[api.ListBudgetsRequest]) (*connect.Response[api.ListBudgetsResponse], error)
	UpdateBudget(context.Context, *connect.Request[api.UpdateBudgetRequest]) (*connect.Response[api.UpdateBudgetResponse], error)
	DeleteBudget(context.Context, *connect.Request[api.DeleteBudgetRequest]) (*connect.Response[api.DeleteBudgetResponse], error)
	GetBudgetStatuses(context.Context, *connect.Request[api.GetBudgetStatusesRequest]) (*connect.Response[api.GetBudgetStatusesResponse], error)
	CheckBudgetAlerts(context.Context, *connect.Request[api.CheckBudgetAlertsRequest]) (*connect.Response[api.CheckBudgetAlertsResponse], error)
	GetBudgetRecommendations(context.Context, *connect.Request[api.GetBudgetRecommendationsRequest]) (*connect.Response[api.GetBudgetRecommendationsResponse], error)
}

// NewBudgetServiceClient returns a client for the BudgetService served at baseURL.
func NewBudgetServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BudgetServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &budgetServiceClient{
		createBudget:             connect.NewClient[api.CreateBudgetRequest, api.CreateBudgetResponse](httpClient, baseURL+BudgetServiceCreateBudgetProcedure, opts...),
		getBudget:                connect.NewClient[api.GetBudgetRequest, api.GetBudgetResponse](httpClient, baseURL+BudgetServiceGetBudgetProcedure, opts...),
		listBudgets:              connect.NewClient[api.ListBudgetsRequest, api.ListBudgetsResponse](httpClient, baseURL+BudgetServiceListBudgetsProcedure, opts...),
		updateBudget:             connect.NewClient[api.UpdateBudgetRequest, api.UpdateBudgetResponse](httpClient, baseURL+BudgetServiceUpdateBudgetProcedure, opts...),
		deleteBudget:             connect.NewClient[api.DeleteBudgetRequest, api.DeleteBudgetResponse](httpClient, baseURL+BudgetServiceDeleteBudgetProcedure, opts...),
		getBudgetStatuses:        connect.NewClient[api.GetBudgetStatusesRequest, api.GetBudgetStatusesResponse](httpClient, baseURL+BudgetServiceGetBudgetStatusesProcedure, opts...),
		checkBudgetAlerts:        connect.NewClient[api.CheckBudgetAlertsRequest, api.CheckBudgetAlertsResponse](httpClient, baseURL+BudgetServiceCheckBudgetAlertsProcedure, opts...),
		getBudgetRecommendations: connect.NewClient[api.GetBudgetRecommendationsRequest, api.GetBudgetRecommendationsResponse](httpClient, baseURL+BudgetServiceGetBudgetRecommendationsProcedure, opts...),
	}
}

type budgetServiceClient struct {
	createBudget             *connect.Client[api.CreateBudgetRequest, api.CreateBudgetResponse]
	getBudget                *connect.Client[api.GetBudgetRequest, api.GetBudgetResponse]
	listBudgets              *connect.Client[api.ListBudgetsRequest, api.ListBudgetsResponse]
	updateBudget             *connect.Client[api.UpdateBudgetRequest, api.UpdateBudgetResponse]
	deleteBudget             *connect.Client[api.DeleteBudgetRequest, api.DeleteBudgetResponse]
	getBudgetStatuses        *connect.Client[api.GetBudgetStatusesRequest, api.GetBudgetStatusesResponse]
	checkBudgetAlerts        *connect.Client[api.CheckBudgetAlertsRequest, api.CheckBudgetAlertsResponse]
	getBudgetRecommendations *connect.Client[api.GetBudgetRecommendationsRequest, api.GetBudgetRecommendationsResponse]
}

func (c *budgetServiceClient) CreateBudget(ctx context.Context, req *connect.Request[api.CreateBudgetRequest]) (*connect.Response[api.CreateBudgetResponse], error) {
	return c.createBudget.CallUnary(ctx, req)
}

func (c *budgetServiceClient) GetBudget(ctx context.Context, req *connect.Request[api.GetBudgetRequest]) (*connect.Response[api.GetBudgetResponse], error) {
	return c.getBudget.CallUnary(ctx, req)
}

func (c *budgetServiceClient) ListBudgets(ctx context.Context, req *connect.Request[api.ListBudgetsRequest]) (*connect.Response[api.ListBudgetsResponse], error) {
	return c.listBudgets.CallUnary(ctx, req)
}

func (c *budgetServiceClient) UpdateBudget(ctx context.Context, req *connect.Request[api.UpdateBudgetRequest]) (*connect.Response[api.UpdateBudgetResponse], error) {
	return c.updateBudget.CallUnary(ctx, req)
}

func (c *budgetServiceClient) DeleteBudget(ctx context.Context, req *connect.Request[api.DeleteBudgetRequest]) (*connect.Response[api.DeleteBudgetResponse], error) {
	return c.deleteBudget.CallUnary(ctx, req)
}

func (c *budgetServiceClient) GetBudgetStatuses(ctx context.Context, req *connect.Request[api.GetBudgetStatusesRequest]) (*connect.Response[api.GetBudgetStatusesResponse], error) {
	return c.getBudgetStatuses.CallUnary(ctx, req)
}

func (c *budgetServiceClient) CheckBudgetAlerts(ctx context.Context, req *connect.Request[api.CheckBudgetAlertsRequest]) (*connect.Response[api.CheckBudgetAlertsResponse], error) {
	return c.checkBudgetAlerts.CallUnary(ctx, req)
}

func (c *budgetServiceClient) GetBudgetRecommendations(ctx context.Context, req *connect.Request[api.GetBudgetRecommendationsRequest]) (*connect.Response[api.GetBudgetRecommendationsResponse], error) {
	return c.getBudgetRecommendations.CallUnary(ctx, req)
}

// BudgetServiceHandler is implemented by the server side of the BudgetService.
type BudgetServiceHandler interface {
	CreateBudget(context.Context, *connect.Request[api.CreateBudgetRequest]) (*connect.Response[api.CreateBudgetResponse], error)
	GetBudget(context.Context, *connect.Request[api.GetBudgetRequest]) (*connect.Response[api.GetBudgetResponse], error)
	ListBudgets(context.Context, *connect.Request[api.ListBudgetsRequest]) (*connect.Response[api.ListBudgetsResponse], error)
	UpdateBudget(context.Context, *connect.Request[api.UpdateBudgetRequest]) (*connect.Response[api.UpdateBudgetResponse], error)
	DeleteBudget(context.Context, *connect.Request[api.DeleteBudgetRequest]) (*connect.Response[api.DeleteBudgetResponse], error)
	GetBudgetStatuses(context.Context, *connect.Request[api.GetBudgetStatusesRequest]) (*connect.Response[api.GetBudgetStatusesResponse], error)
	CheckBudgetAlerts(context.Context, *connect.Request[api.CheckBudgetAlertsRequest]) (*connect.Response[api.CheckBudgetAlertsResponse], error)
	GetBudgetRecommendations(context.Context, *connect.Request[api.GetBudgetRecommendationsRequest]) (*connect.Response[api.GetBudgetRecommendationsResponse], error)
}

// NewBudgetServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewBudgetServiceHandler(svc BudgetServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + BudgetServiceName + "/", serviceMux{
		BudgetServiceCreateBudgetProcedure:             connect.NewUnaryHandler(BudgetServiceCreateBudgetProcedure, svc.CreateBudget, opts...),
		BudgetServiceGetBudgetProcedure:                connect.NewUnaryHandler(BudgetServiceGetBudgetProcedure, svc.GetBudget, opts...),
		BudgetServiceListBudgetsProcedure:              connect.NewUnaryHandler(BudgetServiceListBudgetsProcedure, svc.ListBudgets, opts...),
		BudgetServiceUpdateBudgetProcedure:             connect.NewUnaryHandler(BudgetServiceUpdateBudgetProcedure, svc.UpdateBudget, opts...),
		BudgetServiceDeleteBudgetProcedure:             connect.NewUnaryHandler(BudgetServiceDeleteBudgetProcedure, svc.DeleteBudget, opts...),
		BudgetServiceGetBudgetStatusesProcedure:        connect.NewUnaryHandler(BudgetServiceGetBudgetStatusesProcedure, svc.GetBudgetStatuses, opts...),
		BudgetServiceCheckBudgetAlertsProcedure:        connect.NewUnaryHandler(BudgetServiceCheckBudgetAlertsProcedure, svc.CheckBudgetAlerts, opts...),
		BudgetServiceGetBudgetRecommendationsProcedure: connect.NewUnaryHandler(BudgetServiceGetBudgetRecommendationsProcedure, svc.GetBudgetRecommendations, opts...),
	}
}
