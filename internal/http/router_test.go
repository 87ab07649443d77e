package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/ledgerql/internal/export"
	"github.com/MrJamesThe3rd/ledgerql/internal/graph"
	ledgerHttp "github.com/MrJamesThe3rd/ledgerql/internal/http"
	exportHandler "github.com/MrJamesThe3rd/ledgerql/internal/http/export"
	"github.com/MrJamesThe3rd/ledgerql/internal/http/graphql"
	importHandler "github.com/MrJamesThe3rd/ledgerql/internal/http/importcsv"
	"github.com/MrJamesThe3rd/ledgerql/internal/importer"
	"github.com/MrJamesThe3rd/ledgerql/internal/method"
	"github.com/MrJamesThe3rd/ledgerql/internal/transaction"
)

func newRouter(t *testing.T, playground bool, logs io.Writer, setupMock func(m *transaction.MockRepository)) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)

	if setupMock != nil {
		setupMock(repo)
	}

	var (
		svc      = transaction.NewService(repo, nil)
		methods  = method.Default()
		resolver = graph.NewResolver(svc, methods)
	)

	schema, err := graph.NewSchema(resolver, graph.Options{MaxDepth: 10, MaxParallelism: 10})
	require.NoError(t, err)

	return ledgerHttp.New(
		zerolog.New(logs),
		[]string{"https://ledger.example"},
		graphql.NewHandler(schema, playground),
		importHandler.NewHandler(importer.NewParser(), svc),
		exportHandler.NewHandler(export.NewService(svc, methods)),
	)
}

func TestRouter(t *testing.T) {
	type testCase struct {
		name        string
		method      string
		path        string
		contentType string
		body        string
		playground  bool
		setupMock   func(m *transaction.MockRepository)
		wantStatus  int
		wantBody    string
	}

	tests := []testCase{
		{
			name:        "Query",
			method:      http.MethodPost,
			path:        "/graphql",
			contentType: "application/json",
			body:        `{"query":"{ methodCodeToMethodNameMapping { methodName } }"}`,
			wantStatus:  http.StatusOK,
			wantBody:    `"methodName":"Card Purchase"`,
		},
		{
			name:        "Mutation With Variables",
			method:      http.MethodPost,
			path:        "/graphql",
			contentType: "application/json",
			body: `{"query":"mutation Create($in: TransactionInput!) { createTransaction(input: $in) { id amount } }",
				"operationName":"Create",
				"variables":{"in":{"date":"2023-09-20","amount":100.5,"status":"Posted","counterparty":"abc Company","methodCode":12}}}`,
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), transaction.Input{
						Date:         "2023-09-20",
						Amount:       100.5,
						Status:       transaction.StatusPosted,
						Counterparty: "abc Company",
						MethodCode:   12,
					}).
					Return(&transaction.Transaction{ID: "650a0131197d1356b14456ec", Amount: 100.5}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"data":{"createTransaction":{"id":"650a0131197d1356b14456ec","amount":100.5}}}`,
		},
		{
			name:        "GraphQL Errors Still 200",
			method:      http.MethodPost,
			path:        "/graphql",
			contentType: "application/json",
			body:        `{"query":"{ transactionsByMethodName(methodName: \"Nope\") { id } }"}`,
			wantStatus:  http.StatusOK,
			wantBody:    `Error fetching transaction by method name: methodName not found`,
		},
		{
			name:        "Malformed Body",
			method:      http.MethodPost,
			path:        "/graphql",
			contentType: "application/json",
			body:        `{"query":`,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "Wrong Content Type",
			method:      http.MethodPost,
			path:        "/graphql",
			contentType: "text/plain",
			body:        `{ transactions { id } }`,
			wantStatus:  http.StatusUnsupportedMediaType,
		},
		{
			name:       "GraphiQL",
			method:     http.MethodGet,
			path:       "/graphql",
			playground: true,
			wantStatus: http.StatusOK,
			wantBody:   "GraphiQL",
		},
		{
			name:       "GraphiQL Disabled",
			method:     http.MethodGet,
			path:       "/graphql",
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "Export CSV",
			method: http.MethodGet,
			path:   "/api/v1/export/transactions.csv?methodName=Fee",
			setupMock: func(m *transaction.MockRepository) {
				fee := 78
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{MethodCode: &fee}).
					Return([]*transaction.Transaction{
						{ID: "b", Date: "2023-09-21", Amount: -2.5, Status: transaction.StatusPosted, Counterparty: "Bank", MethodCode: 78},
					}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "date,amount,status,counterparty,methodCode,note\n2023-09-21,-2.5,Posted,Bank,78,\n",
		},
		{
			name:       "Export CSV Unknown Method",
			method:     http.MethodGet,
			path:       "/api/v1/export/transactions.csv?methodName=Cheque",
			wantStatus: http.StatusNotFound,
			wantBody:   "methodName not found",
		},
		{
			name:       "Health",
			method:     http.MethodGet,
			path:       "/health",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(t, tt.playground, io.Discard, tt.setupMock)

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newRouter(t, false, io.Discard, nil)

	req := httptest.NewRequest(http.MethodOptions, "/graphql", nil)
	req.Header.Set("Origin", "https://ledger.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://ledger.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_AccessLog(t *testing.T) {
	var logs bytes.Buffer

	router := newRouter(t, false, &logs, nil)

	req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(logs.Bytes()), &entry))

	assert.Equal(t, "request", entry["message"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/graphql", entry["path"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	assert.NotEmpty(t, entry["request_id"])
}

func multipartCSV(t *testing.T, content string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", "ledger.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

func TestRouter_Import(t *testing.T) {
	const csv = "date,amount,status,counterparty,methodCode,note\n" +
		"2023-09-20,100,Pending,abc Company,12,Sample transaction\n" +
		"2023-09-21,-2.5,Posted,Bank,78,\n"

	type testCase struct {
		name       string
		query      string
		content    string
		setupMock  func(m *transaction.MockRepository)
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name:    "Created",
			content: csv,
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, in transaction.Input) (*transaction.Transaction, error) {
						return in.Transaction("id-" + in.Date), nil
					}).
					Times(2)
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"imported":2`,
		},
		{
			name:       "Dry Run",
			query:      "?dryRun=true",
			content:    csv,
			wantStatus: http.StatusOK,
			wantBody:   `"dryRun":true`,
		},
		{
			name:       "Invalid Row",
			content:    "date,amount,status,counterparty\n2023-09-20,1,Cleared,abc\n",
			wantStatus: http.StatusBadRequest,
			wantBody:   "row 2: Transaction validation failed",
		},
		{
			name:       "Invalid Row Reports File Line",
			content:    "date,amount,status,counterparty\n2023-09-20,1,Posted,abc\n\n2023-09-21,1,Cleared,abc\n",
			wantStatus: http.StatusBadRequest,
			wantBody:   "row 4: Transaction validation failed",
		},
		{
			name:       "Unknown Format",
			content:    "foo,bar\n1,2\n",
			wantStatus: http.StatusBadRequest,
			wantBody:   "no matching CSV format",
		},
		{
			name:    "Store Error",
			content: csv,
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("db error"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(t, false, io.Discard, tt.setupMock)

			body, contentType := multipartCSV(t, tt.content)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/import"+tt.query, body)
			req.Header.Set("Content-Type", contentType)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
