package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/amar-295/student-finance-db-sub001/pkg/api"
)

// AnalyticsServiceName is the fully-qualified name of the AnalyticsService.
const AnalyticsServiceName = "finance.v1.AnalyticsService"

const (
	AnalyticsServiceGetOverviewProcedure          = "/" + AnalyticsServiceName + "/GetOverview"
	AnalyticsServiceGetSpendingTrendsProcedure    = "/" + AnalyticsServiceName + "/GetSpendingTrends"
	AnalyticsServiceGetCategoryBreakdownProcedure = "/" + AnalyticsServiceName + "/GetCategoryBreakdown"
	AnalyticsServiceGetTopMerchantsProcedure      = "/" + AnalyticsServiceName + "/GetTopMerchants"
	AnalyticsServiceGetMonthlyReportProcedure     = "/" + AnalyticsServiceName + "/GetMonthlyReport"
	AnalyticsServiceGetSpendingReportProcedure    = "/" + AnalyticsServiceName + "/GetSpendingReport"
)

// AnalyticsServiceClient is a client for the AnalyticsService.
type AnalyticsServiceClient interface {
	GetOverview(context.Context, *connect.Request[api.GetOverviewRequest]) (*connect.Response[api.GetOverviewResponse], error)
	GetSpendingTrends(context.Context, *connect.Request[api.GetSpendingTrendsRequest]) (*connect.Response[api.GetSpendingTrendsResponse], error)
	GetCategoryBreakdown(context.Context, *connect.Request[api.GetCategoryBreakdownRequest]) (*connect.Response[api.GetCategoryBreakdownResponse], error)
	GetTopMerchants(context.Context, *connect.Request[api.GetTopMerchantsRequest]) (*connect.Response[api.GetTopMerchantsResponse], error)
	GetMonthlyReport(context.Context, *connect.Request[api.GetMonthlyReportRequest]) (*connect.Response[api.GetMonthlyReportResponse], error)
	GetSpendingReport(context.Context, *connect.Request[api.GetSpendingReportRequest]) (*connect.Response[api.GetSpendingReportResponse], error)
}

// NewAnalyticsServiceClient returns a client for the AnalyticsService served at baseURL.
func NewAnalyticsServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AnalyticsServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &analyticsServiceClient{
		getOverview:          connect.NewClient[api.GetOverviewRequest, api.GetOverviewResponse](httpClient, baseURL+AnalyticsServiceGetOverviewProcedure, opts...),
		getSpendingTrends:    connect.NewClient[api.GetSpendingTrendsRequest, api.GetSpendingTrendsResponse](httpClient, baseURL+AnalyticsServiceGetSpendingTrendsProcedure, opts...),
		getCategoryBreakdown: connect.NewClient[api.GetCategoryBreakdownRequest, api.GetCategoryBreakdownResponse](httpClient, baseURL+AnalyticsServiceGetCategoryBreakdownProcedure, opts...),
		getTopMerchants:      connect.NewClient[api.GetTopMerchantsRequest, api.GetTopMerchantsResponse](httpClient, baseURL+AnalyticsServiceGetTopMerchantsProcedure, opts...),
		getMonthlyReport:     connect.NewClient[api.GetMonthlyReportRequest, api.GetMonthlyReportResponse](httpClient, baseURL+AnalyticsServiceGetMonthlyReportProcedure, opts...),
		getSpendingReport:    connect.NewClient[api.GetSpendingReportRequest, api.GetSpendingReportResponse](httpClient, baseURL+AnalyticsServiceGetSpendingReportProcedure, opts...),
	}
}

type analyticsServiceClient struct {
	getOverview          *connect.Client[api.GetOverviewRequest, api.GetOverviewResponse]
	getSpendingTrends    *connect.Client[api.GetSpendingTrendsRequest, api.GetSpendingTrendsResponse]
	getCategoryBreakdown *connect.Client[api.GetCategoryBreakdownRequest, api.GetCategoryBreakdownResponse]
	getTopMerchants      *connect.Client[api.GetTopMerchantsRequest, api.GetTopMerchantsResponse]
	getMonthlyReport     *connect.Client[api.GetMonthlyReportRequest, api.GetMonthlyReportResponse]
	getSpendingReport    *connect.Client[api.GetSpendingReportRequest, api.GetSpendingReportResponse]
}

func (c *analyticsServiceClient) GetOverview(ctx context.Context, req *connect.Request[api.GetOverviewRequest]) (*connect.Response[api.GetOverviewResponse], error) {
	return c.getOverview.CallUnary(ctx, req)
}

func (c *analyticsServiceClient) GetSpendingTrends(ctx context.Context, req *connect.Request[api.GetSpendingTrendsRequest]) (*connect.Response[api.GetSpendingTrendsResponse], error) {
	return c.getSpendingTrends.CallUnary(ctx, req)
}

func (c *analyticsServiceClient) GetCategoryBreakdown(ctx context.Context, req *connect.Request[api.GetCategoryBreakdownRequest]) (*connect.Response[api.GetCategoryBreakdownResponse], error) {
	return c.getCategoryBreakdown.CallUnary(ctx, req)
}

func (c *analyticsServiceClient) GetTopMerchants(ctx context.Context, req *connect.Request[api.GetTopMerchantsRequest]) (*connect.Response[api.GetTopMerchantsResponse], error) {
	return c.getTopMerchants.CallUnary(ctx, req)
}

func (c *analyticsServiceClient) GetMonthlyReport(ctx context.Context, req *connect.Request[api.GetMonthlyReportRequest]) (*connect.Response[api.GetMonthlyReportResponse], error) {
	return c.getMonthlyReport.CallUnary(ctx, req)
}

func (c *analyticsServiceClient) GetSpendingReport(ctx context.Context, req *connect.Request[api.GetSpendingReportRequest]) (*connect.Response[api.GetSpendingReportResponse], error) {
	return c.getSpendingReport.CallUnary(ctx, req)
}

// AnalyticsServiceHandler is implemented by the server side of the AnalyticsService.
type AnalyticsServiceHandler interface {
	GetOverview(context.Context, *connect.Request[api.GetOverviewRequest]) (*connect.Response[api.GetOverviewResponse], error)
	GetSpendingTrends(context.Context, *connect.Request[api.GetSpendingTrendsRequest]) (*connect.Response[api.GetSpendingTrendsResponse], error)
	GetCategoryBreakdown(context.Context, *connect.Request[api.GetCategoryBreakdownRequest]) (*connect.Response[api.GetCategoryBreakdownResponse], error)
	GetTopMerchants(context.Context, *connect.Request[api.GetTopMerchantsRequest]) (*connect.Response[api.GetTopMerchantsResponse], error)
	GetMonthlyReport(context.Context, *connect.Request[api.GetMonthlyReportRequest]) (*connect.Response[api.GetMonthlyReportResponse], error)
	GetSpendingReport(context.Context, *connect.Request[api.GetSpendingReportRequest]) (*connect.Response[api.GetSpendingReportResponse], error)
}

// NewAnalyticsServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewAnalyticsServiceHandler(svc AnalyticsServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + AnalyticsServiceName + "/", serviceMux{
		AnalyticsServiceGetOverviewProcedure:          connect.NewUnaryHandler(AnalyticsServiceGetOverviewProcedure, svc.GetOverview, opts...),
		AnalyticsServiceGetSpendingTrendsProcedure:    connect.NewUnaryHandler(AnalyticsServiceGetSpendingTrendsProcedure, svc.GetSpendingTrends, opts...),
		AnalyticsServiceGetCategoryBreakdownProcedure: connect.NewUnaryHandler(AnalyticsServiceGetCategoryBreakdownProcedure, svc.GetCategoryBreakdown, opts...),
		AnalyticsServiceGetTopMerchantsProcedure:      connect.NewUnaryHandler(AnalyticsServiceGetTopMerchantsProcedure, svc.GetTopMerchants, opts...),
		AnalyticsServiceGetMonthlyReportProcedure:     connect.NewUnaryHandler(AnalyticsServiceGetMonthlyReportProcedure, svc.GetMonthlyReport, opts...),
		AnalyticsServiceGetSpendingReportProcedure:    connect.NewUnaryHandler(AnalyticsServiceGetSpendingReportProcedure, svc.GetSpendingReport, opts...),
	}
}
