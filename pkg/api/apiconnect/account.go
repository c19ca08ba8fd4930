package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/amar-295/student-finance-db-sub001/pkg/api"
)

// AccountServiceName is the fully-qualified name of the AccountService.
const AccountServiceName = "finance.v1.AccountService"

const (
	AccountServiceCreateAccountProcedure    = "/" + AccountServiceName + "/CreateAccount"
	AccountServiceGetAccountProcedure       = "/" + AccountServiceName + "/GetAccount"
	AccountServiceListAccountsProcedure     = "/" + AccountServiceName + "/ListAccounts"
	AccountServiceUpdateAccountProcedure    = "/" + AccountServiceName + "/UpdateAccount"
	AccountServiceDeleteAccountProcedure    = "/" + AccountServiceName + "/DeleteAccount"
	AccountServiceReconcileAccountProcedure = "/" + AccountServiceName + "/ReconcileAccount"
	AccountServiceCreateCategoryProcedure   = "/" + AccountServiceName + "/CreateCategory"
	AccountServiceListCategoriesProcedure   = "/" + AccountServiceName + "/ListCategories"
)

// AccountServiceClient is a client for the AccountService.
type AccountServiceClient interface {
	CreateAccount(context.Context, *connect.Request[api.CreateAccountRequest]) (*connect.Response[api.CreateAccountResponse], error)
	GetAccount(context.Context, *connect.Request[api.GetAccountRequest]) (*connect.Response[api.GetAccountResponse], error)
	ListAccounts(context.Context, *connect.Request[api.ListAccountsRequest]) (*connect.Response[api.ListAccountsResponse], error)
	UpdateAccount(context.Context, *connect.Request[api.UpdateAccountRequest]) (*connect.Response[api.UpdateAccountResponse], error)
	DeleteAccount(context.Context, *connect.Request[api.DeleteAccountRequest]) (*connect.Response[api.DeleteAccountResponse], error)
	ReconcileAccount(context.Context, *connect.Request[api.ReconcileAccountRequest]) (*connect.Response[api.ReconcileAccountResponse], error)
	CreateCategory(context.Context, *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error)
	ListCategories(context.Context, *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error)
}

// NewAccountServiceClient returns a client for the AccountService served at baseURL.
func NewAccountServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AccountServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &accountServiceClient{
		createAccount:    connect.NewClient[api.CreateAccountRequest, api.CreateAccountResponse](httpClient, baseURL+AccountServiceCreateAccountProcedure, opts...),
		getAccount:       connect.NewClient[api.GetAccountRequest, api.GetAccountResponse](httpClient, baseURL+AccountServiceGetAccountProcedure, opts...),
		listAccounts:     connect.NewClient[api.ListAccountsRequest, api.ListAccountsResponse](httpClient, baseURL+AccountServiceListAccountsProcedure, opts...),
		updateAccount:    connect.NewClient[api.UpdateAccountRequest, api.UpdateAccountResponse](httpClient, baseURL+AccountServiceUpdateAccountProcedure, opts...),
		deleteAccount:    connect.NewClient[api.DeleteAccountRequest, api.DeleteAccountResponse](httpClient, baseURL+AccountServiceDeleteAccountProcedure, opts...),
		reconcileAccount: connect.NewClient[api.ReconcileAccountRequest, api.ReconcileAccountResponse](httpClient, baseURL+AccountServiceReconcileAccountProcedure, opts...),
		createCategory:   connect.NewClient[api.CreateCategoryRequest, api.CreateCategoryResponse](httpClient, baseURL+AccountServiceCreateCategoryProcedure, opts...),
		listCategories:   connect.NewClient[api.ListCategoriesRequest, api.ListCategoriesResponse](httpClient, baseURL+AccountServiceListCategoriesProcedure, opts...),
	}
}

type accountServiceClient struct {
	createAccount    *connect.Client[api.CreateAccountRequest, api.CreateAccountResponse]
	getAccount       *connect.Client[api.GetAccountRequest, api.GetAccountResponse]
	listAccounts     *connect.Client[api.ListAccountsRequest, api.ListAccountsResponse]
	updateAccount    *connect.Client[api.UpdateAccountRequest, api.UpdateAccountResponse]
	deleteAccount    *connect.Client[api.DeleteAccountRequest, api.DeleteAccountResponse]
	reconcileAccount *connect.Client[api.ReconcileAccountRequest, api.ReconcileAccountResponse]
	createCategory   *connect.Client[api.CreateCategoryRequest, api.CreateCategoryResponse]
	listCategories   *connect.Client[api.ListCategoriesRequest, api.ListCategoriesResponse]
}

func (c *accountServiceClient) CreateAccount(ctx context.Context, req *connect.Request[api.CreateAccountRequest]) (*connect.Response[api.CreateAccountResponse], error) {
	return c.createAccount.CallUnary(ctx, req)
}

func (c *accountServiceClient) GetAccount(ctx context.Context, req *connect.Request[api.GetAccountRequest]) (*connect.Response[api.GetAccountResponse], error) {
	return c.getAccount.CallUnary(ctx, req)
}

func (c *accountServiceClient) ListAccounts(ctx context.Context, req *connect.Request[api.ListAccountsRequest]) (*connect.Response[api.ListAccountsResponse], error) {
	return c.listAccounts.CallUnary(ctx, req)
}

func (c *accountServiceClient) UpdateAccount(ctx context.Context, req *connect.Request[api.UpdateAccountRequest]) (*connect.Response[api.UpdateAccountResponse], error) {
	return c.updateAccount.CallUnary(ctx, req)
}

func (c *accountServiceClient) DeleteAccount(ctx context.Context, req *connect.Request[api.DeleteAccountRequest]) (*connect.Response[api.DeleteAccountResponse], error) {
	return c.deleteAccount.CallUnary(ctx, req)
}

func (c *accountServiceClient) ReconcileAccount(ctx context.Context, req *connect.Request[api.ReconcileAccountRequest]) (*connect.Response[api.ReconcileAccountResponse], error) {
	return c.reconcileAccount.CallUnary(ctx, req)
}

func (c *accountServiceClient) CreateCategory(ctx context.Context, req *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	return c.createCategory.CallUnary(ctx, req)
}

func (c *accountServiceClient) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	return c.listCategories.CallUnary(ctx, req)
}

// AccountServiceHandler is implemented by the server side of the AccountService.
type AccountServiceHandler interface {
	CreateAccount(context.Context, *connect.Request[api.CreateAccountRequest]) (*connect.Response[api.CreateAccountResponse], error)
	GetAccount(context.Context, *connect.Request[api.GetAccountRequest]) (*connect.Response[api.GetAccountResponse], error)
	ListAccounts(context.Context, *connect.Request[api.ListAccountsRequest]) (*connect.Response[api.ListAccountsResponse], error)
	UpdateAccount(context.Context, *connect.Request[api.UpdateAccountRequest]) (*connect.Response[api.UpdateAccountResponse], error)
	DeleteAccount(context.Context, *connect.Request[api.DeleteAccountRequest]) (*connect.Response[api.DeleteAccountResponse], error)
	ReconcileAccount(context.Context, *connect.Request[api.ReconcileAccountRequest]) (*connect.Response[api.ReconcileAccountResponse], error)
	CreateCategory(context.Context, *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error)
	ListCategories(context.Context, *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error)
}

// NewAccountServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewAccountServiceHandler(svc AccountServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + AccountServiceName + "/", serviceMux{
		AccountServiceCreateAccountProcedure:    connect.NewUnaryHandler(AccountServiceCreateAccountProcedure, svc.CreateAccount, opts...),
		AccountServiceGetAccountProcedure:       connect.NewUnaryHandler(AccountServiceGetAccountProcedure, svc.GetAccount, opts...),
		AccountServiceListAccountsProcedure:     connect.NewUnaryHandler(AccountServiceListAccountsProcedure, svc.ListAccounts, opts...),
		AccountServiceUpdateAccountProcedure:    connect.NewUnaryHandler(AccountServiceUpdateAccountProcedure, svc.UpdateAccount, opts...),
		AccountServiceDeleteAccountProcedure:    connect.NewUnaryHandler(AccountServiceDeleteAccountProcedure, svc.DeleteAccount, opts...),
		AccountServiceReconcileAccountProcedure: connect.NewUnaryHandler(AccountServiceReconcileAccountProcedure, svc.ReconcileAccount, opts...),
		AccountServiceCreateCategoryProcedure:   connect.NewUnaryHandler(AccountServiceCreateCategoryProcedure, svc.CreateCategory, opts...),
		AccountServiceListCategoriesProcedure:   connect.NewUnaryHandler(AccountServiceListCategoriesProcedure, svc.ListCategories, opts...),
	}
}
