package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/amar-295/student-finance-db-sub001/pkg/api"
)

// TransactionServiceName is the fully-qualified name of the TransactionService.
const TransactionServiceName = "finance.v1.TransactionService"

const (
	TransactionServiceCreateTransactionProcedure      = "/" + TransactionServiceName + "/CreateTransaction"
	TransactionServiceGetTransactionProcedure         = "/" + TransactionServiceName + "/GetTransaction"
	TransactionServiceListTransactionsProcedure       = "/" + TransactionServiceName + "/ListTransactions"
	TransactionServiceUpdateTransactionProcedure      = "/" + TransactionServiceName + "/UpdateTransaction"
	TransactionServiceDeleteTransactionProcedure      = "/" + TransactionServiceName + "/DeleteTransaction"
	TransactionServiceBulkDeleteTransactionsProcedure = "/" + TransactionServiceName + "/BulkDeleteTransactions"
	TransactionServiceGetTransactionSummaryProcedure  = "/" + TransactionServiceName + "/GetTransactionSummary"
)

// TransactionServiceClient is a client for the TransactionService.
type TransactionServiceClient interface {
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error)
	GetTransaction(context.Context, *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.GetTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	UpdateTransaction(context.Context, *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
	BulkDeleteTransactions(context.Context, *connect.Request[api.BulkDeleteTransactionsRequest]) (*connect.Response[api.BulkDeleteTransactionsResponse], error)
	GetTransactionSummary(context.Context, *connect.Request[api.GetTransactionSummaryRequest]) (*connect.Response[api.GetTransactionSummaryResponse], error)
}

// NewTransactionServiceClient returns a client for the TransactionService served at baseURL.
func NewTransactionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TransactionServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &transactionServiceClient{
		createTransaction:      connect.NewClient[api.CreateTransactionRequest, api.CreateTransactionResponse](httpClient, baseURL+TransactionServiceCreateTransactionProcedure, opts...),
		getTransaction:         connect.NewClient[api.GetTransactionRequest, api.GetTransactionResponse](httpClient, baseURL+TransactionServiceGetTransactionProcedure, opts...),
		listTransactions:       connect.NewClient[api.ListTransactionsRequest, api.ListTransactionsResponse](httpClient, baseURL+TransactionServiceListTransactionsProcedure, opts...),
		updateTransaction:      connect.NewClient[api.UpdateTransactionRequest, api.UpdateTransactionResponse](httpClient, baseURL+TransactionServiceUpdateTransactionProcedure, opts...),
		deleteTransaction:      connect.NewClient[api.DeleteTransactionRequest, api.DeleteTransactionResponse](httpClient, baseURL+TransactionServiceDeleteTransactionProcedure, opts...),
		bulkDeleteTransactions: connect.NewClient[api.BulkDeleteTransactionsRequest, api.BulkDeleteTransactionsResponse](httpClient, baseURL+TransactionServiceBulkDeleteTransactionsProcedure, opts...),
		getTransactionSummary:  connect.NewClient[api.GetTransactionSummaryRequest, api.GetTransactionSummaryResponse](httpClient, baseURL+TransactionServiceGetTransactionSummaryProcedure, opts...),
	}
}

type transactionServiceClient struct {
	createTransaction      *connect.Client[api.CreateTransactionRequest, api.CreateTransactionResponse]
	getTransaction         *connect.Client[api.GetTransactionRequest, api.GetTransactionResponse]
	listTransactions       *connect.Client[api.ListTransactionsRequest, api.ListTransactionsResponse]
	updateTransaction      *connect.Client[api.UpdateTransactionRequest, api.UpdateTransactionResponse]
	deleteTransaction      *connect.Client[api.DeleteTransactionRequest, api.DeleteTransactionResponse]
	bulkDeleteTransactions *connect.Client[api.BulkDeleteTransactionsRequest, api.BulkDeleteTransactionsResponse]
	getTransactionSummary  *connect.Client[api.GetTransactionSummaryRequest, api.GetTransactionSummaryResponse]
}

func (c *transactionServiceClient) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	return c.createTransaction.CallUnary(ctx, req)
}

func (c *transactionServiceClient) GetTransaction(ctx context.Context, req *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.GetTransactionResponse], error) {
	return c.getTransaction.CallUnary(ctx, req)
}

func (c *transactionServiceClient) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *transactionServiceClient) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error) {
	return c.updateTransaction.CallUnary(ctx, req)
}

func (c *transactionServiceClient) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	return c.deleteTransaction.CallUnary(ctx, req)
}

func (c *transactionServiceClient) BulkDeleteTransactions(ctx context.Context, req *connect.Request[api.BulkDeleteTransactionsRequest]) (*connect.Response[api.BulkDeleteTransactionsResponse], error) {
	return c.bulkDeleteTransactions.CallUnary(ctx, req)
}

func (c *transactionServiceClient) GetTransactionSummary(ctx context.Context, req *connect.Request[api.GetTransactionSummaryRequest]) (*connect.Response[api.GetTransactionSummaryResponse], error) {
	return c.getTransactionSummary.CallUnary(ctx, req)
}

// TransactionServiceHandler is implemented by the server side of the TransactionService.
type TransactionServiceHandler interface {
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error)
	GetTransaction(context.Context, *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.GetTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	UpdateTransaction(context.Context, *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
	BulkDeleteTransactions(context.Context, *connect.Request[api.BulkDeleteTransactionsRequest]) (*connect.Response[api.BulkDeleteTransactionsResponse], error)
	GetTransactionSummary(context.Context, *connect.Request[api.GetTransactionSummaryRequest]) (*connect.Response[api.GetTransactionSummaryResponse], error)
}

// NewTransactionServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewTransactionServiceHandler(svc TransactionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + TransactionServiceName + "/", serviceMux{
		TransactionServiceCreateTransactionProcedure:      connect.NewUnaryHandler(TransactionServiceCreateTransactionProcedure, svc.CreateTransaction, opts...),
		TransactionServiceGetTransactionProcedure:         connect.NewUnaryHandler(TransactionServiceGetTransactionProcedure, svc.GetTransaction, opts...),
		TransactionServiceListTransactionsProcedure:       connect.NewUnaryHandler(TransactionServiceListTransactionsProcedure, svc.ListTransactions, opts...),
		TransactionServiceUpdateTransactionProcedure:      connect.NewUnaryHandler(TransactionServiceUpdateTransactionProcedure, svc.UpdateTransaction, opts...),
		TransactionServiceDeleteTransactionProcedure:      connect.NewUnaryHandler(TransactionServiceDeleteTransactionProcedure, svc.DeleteTransaction, opts...),
		TransactionServiceBulkDeleteTransactionsProcedure: connect.NewUnaryHandler(TransactionServiceBulkDeleteTransactionsProcedure, svc.BulkDeleteTransactions, opts...),
		TransactionServiceGetTransactionSummaryProcedure:  connect.NewUnaryHandler(TransactionServiceGetTransactionSummaryProcedure, svc.GetTransactionSummary, opts...),
	}
}
