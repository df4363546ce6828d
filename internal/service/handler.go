package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "divider.v1.LedgerService"

// Procedure paths of the LedgerService RPCs.
const (
	LedgerServiceListLedgersProcedure        = "/divider.v1.LedgerService/ListLedgers"
	LedgerServiceGetLedgerProcedure          = "/divider.v1.LedgerService/GetLedger"
	LedgerServiceCreateLedgerProcedure       = "/divider.v1.LedgerService/CreateLedger"
	LedgerServiceAddUserProcedure            = "/divider.v1.LedgerService/AddUser"
	LedgerServiceAddTransferProcedure        = "/divider.v1.LedgerService/AddTransfer"
	LedgerServiceAddExpenseProcedure         = "/divider.v1.LedgerService/AddExpense"
	LedgerServiceUndoTransactionProcedure    = "/divider.v1.LedgerService/UndoTransaction"
	LedgerServiceGetBalancesProcedure        = "/divider.v1.LedgerService/GetBalances"
	LedgerServiceListTransactionsProcedure   = "/divider.v1.LedgerService/ListTransactions"
	LedgerServiceSuggestSettlementsProcedure = "/divider.v1.LedgerService/SuggestSettlements"
)

// LedgerServiceHandler is implemented by LedgerService.
type LedgerServiceHandler interface {
	ListLedgers(context.Context, *connect.Request[ListLedgersRequest]) (*connect.Response[ListLedgersResponse], error)
	GetLedger(context.Context, *connect.Request[GetLedgerRequest]) (*connect.Response[GetLedgerResponse], error)
	CreateLedger(context.Context, *connect.Request[CreateLedgerRequest]) (*connect.Response[CreateLedgerResponse], error)
	AddUser(context.Context, *connect.Request[AddUserRequest]) (*connect.Response[AddUserResponse], error)
	AddTransfer(context.Context, *connect.Request[AddTransferRequest]) (*connect.Response[TransactionResponse], error)
	AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[TransactionResponse], error)
	UndoTransaction(context.Context, *connect.Request[UndoTransactionRequest]) (*connect.Response[TransactionResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	ListTransactions(context.Context, *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error)
	SuggestSettlements(context.Context, *connect.Request[SuggestSettlementsRequest]) (*connect.Response[SuggestSettlementsResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself. Messages are exchanged as JSON.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(LedgerServiceListLedgersProcedure, connect.NewUnaryHandler(LedgerServiceListLedgersProcedure, svc.ListLedgers, opts...))
	mux.Handle(LedgerServiceGetLedgerProcedure, connect.NewUnaryHandler(LedgerServiceGetLedgerProcedure, svc.GetLedger, opts...))
	mux.Handle(LedgerServiceCreateLedgerProcedure, connect.NewUnaryHandler(LedgerServiceCreateLedgerProcedure, svc.CreateLedger, opts...))
	mux.Handle(LedgerServiceAddUserProcedure, connect.NewUnaryHandler(LedgerServiceAddUserProcedure, svc.AddUser, opts...))
	mux.Handle(LedgerServiceAddTransferProcedure, connect.NewUnaryHandler(LedgerServiceAddTransferProcedure, svc.AddTransfer, opts...))
	mux.Handle(LedgerServiceAddExpenseProcedure, connect.NewUnaryHandler(LedgerServiceAddExpenseProcedure, svc.AddExpense, opts...))
	mux.Handle(LedgerServiceUndoTransactionProcedure, connect.NewUnaryHandler(LedgerServiceUndoTransactionProcedure, svc.UndoTransaction, opts...))
	mux.Handle(LedgerServiceGetBalancesProcedure, connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...))
	mux.Handle(LedgerServiceListTransactionsProcedure, connect.NewUnaryHandler(LedgerServiceListTransactionsProcedure, svc.ListTransactions, opts...))
	mux.Handle(LedgerServiceSuggestSettlementsProcedure, connect.NewUnaryHandler(LedgerServiceSuggestSettlementsProcedure, svc.SuggestSettlements, opts...))
	return "/" + LedgerServiceName + "/", mux
}

// LedgerServiceClient is a client for the LedgerService.
type LedgerServiceClient struct {
	listLedgers        *connect.Client[ListLedgersRequest, ListLedgersResponse]
	getLedger          *connect.Client[GetLedgerRequest, GetLedgerResponse]
	createLedger       *connect.Client[CreateLedgerRequest, CreateLedgerResponse]
	addUser            *connect.Client[AddUserRequest, AddUserResponse]
	addTransfer        *connect.Client[AddTransferRequest, TransactionResponse]
	addExpense         *connect.Client[AddExpenseRequest, TransactionResponse]
	undoTransaction    *connect.Client[UndoTransactionRequest, TransactionResponse]
	getBalances        *connect.Client[GetBalancesRequest, GetBalancesResponse]
	listTransactions   *connect.Client[ListTransactionsRequest, ListTransactionsResponse]
	suggestSettlements *connect.Client[SuggestSettlementsRequest, SuggestSettlementsResponse]
}

// NewLedgerServiceClient constructs a client for the LedgerService served at
// baseURL, for example http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &LedgerServiceClient{
		listLedgers:        connect.NewClient[ListLedgersRequest, ListLedgersResponse](httpClient, baseURL+LedgerServiceListLedgersProcedure, opts...),
		getLedger:          connect.NewClient[GetLedgerRequest, GetLedgerResponse](httpClient, baseURL+LedgerServiceGetLedgerProcedure, opts...),
		createLedger:       connect.NewClient[CreateLedgerRequest, CreateLedgerResponse](httpClient, baseURL+LedgerServiceCreateLedgerProcedure, opts...),
		addUser:            connect.NewClient[AddUserRequest, AddUserResponse](httpClient, baseURL+LedgerServiceAddUserProcedure, opts...),
		addTransfer:        connect.NewClient[AddTransferRequest, TransactionResponse](httpClient, baseURL+LedgerServiceAddTransferProcedure, opts...),
		addExpense:         connect.NewClient[AddExpenseRequest, TransactionResponse](httpClient, baseURL+LedgerServiceAddExpenseProcedure, opts...),
		undoTransaction:    connect.NewClient[UndoTransactionRequest, TransactionResponse](httpClient, baseURL+LedgerServiceUndoTransactionProcedure, opts...),
		getBalances:        connect.NewClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
		listTransactions:   connect.NewClient[ListTransactionsRequest, ListTransactionsResponse](httpClient, baseURL+LedgerServiceListTransactionsProcedure, opts...),
		suggestSettlements: connect.NewClient[SuggestSettlementsRequest, SuggestSettlementsResponse](httpClient, baseURL+LedgerServiceSuggestSettlementsProcedure, opts...),
	}
}

func (c *LedgerServiceClient) ListLedgers(ctx context.Context, req *connect.Request[ListLedgersRequest]) (*connect.Response[ListLedgersResponse], error) {
	return c.listLedgers.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetLedger(ctx context.Context, req *connect.Request[GetLedgerRequest]) (*connect.Response[GetLedgerResponse], error) {
	return c.getLedger.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) CreateLedger(ctx context.Context, req *connect.Request[CreateLedgerRequest]) (*connect.Response[CreateLedgerResponse], error) {
	return c.createLedger.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) AddUser(ctx context.Context, req *connect.Request[AddUserRequest]) (*connect.Response[AddUserResponse], error) {
	return c.addUser.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) AddTransfer(ctx context.Context, req *connect.Request[AddTransferRequest]) (*connect.Response[TransactionResponse], error) {
	return c.addTransfer.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[TransactionResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) UndoTransaction(ctx context.Context, req *connect.Request[UndoTransactionRequest]) (*connect.Response[TransactionResponse], error) {
	return c.undoTransaction.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListTransactions(ctx context.Context, req *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) SuggestSettlements(ctx context.Context, req *connect.Request[SuggestSettlementsRequest]) (*connect.Response[SuggestSettlementsResponse], error) {
	return c.suggestSettlements.CallUnary(ctx, req)
}
