package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/application/acquirer"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/application/payment"
	domain "github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/metrics"
	httpapi "github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/http"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePayments struct {
	payFn func(ctx context.Context, cmd payment.Command) (*domain.Payment, error)
}

func (f *fakePayments) Pay(ctx context.Context, cmd payment.Command) (*domain.Payment, error) {
	return f.payFn(ctx, cmd)
}

type fakeQueries struct {
	queryFn func(ctx context.Context, f payment.QueryFilter) (*payment.QueryResult, error)
}

func (f *fakeQueries) Query(ctx context.Context, qf payment.QueryFilter) (*payment.QueryResult, error) {
	return f.queryFn(ctx, qf)
}

var approvedAt = time.Date(2024, 1, 23, 10, 0, 0, 0, time.UTC)

func samplePayment() *domain.Payment {
	return &domain.Payment{
		ID:             99,
		PartnerID:      1,
		Amount:         decimal.NewFromInt(10000),
		AppliedFeeRate: decimal.RequireFromString("0.03"),
		FeeAmount:      decimal.NewFromInt(400),
		NetAmount:      decimal.NewFromInt(9600),
		CardLast4:      "4242",
		ApprovalCode:   "APPROVAL-123",
		ApprovedAt:     approvedAt,
		Status:         domain.StatusApproved,
		CreatedAt:      approvedAt,
		UpdatedAt:      approvedAt,
	}
}

func newRouter(p httpapi.PaymentService, q httpapi.QueryService) *gin.Engine {
	return httpapi.NewRouter(&httpapi.Handler{
		Payments: p,
		Queries:  q,
		Metrics:  &metrics.Counters{},
	}, nil)
}

func do(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreatePayment_Success(t *testing.T) {
	var got payment.Command
	router := newRouter(&fakePayments{payFn: func(_ context.Context, cmd payment.Command) (*domain.Payment, error) {
		got = cmd
		return samplePayment(), nil
	}}, nil)

	w := do(t, router, http.MethodPost, "/api/v1/payments",
		`{"partnerId":1,"amount":10000,"cardBin":"123456","cardLast4":"4242","productName":"sample"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, int64(1), got.PartnerID)
	require.True(t, got.Amount.Equal(decimal.NewFromInt(10000)))
	require.Equal(t, "123456", got.CardBin)

	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, float64(99), res["id"])
	require.Equal(t, "400", res["feeAmount"])
	require.Equal(t, "9600", res["netAmount"])
	require.Equal(t, "APPROVED", res["status"])
	require.Equal(t, "2024-01-23 10:00:00", res["approvedAt"])
	require.NotEmpty(t, w.Header().Get(httpapi.RequestIDHeader))
}

func TestCreatePayment_BadBody(t *testing.T) {
	router := newRouter(&fakePayments{payFn: func(context.Context, payment.Command) (*domain.Payment, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}, nil)

	w := do(t, router, http.MethodPost, "/api/v1/payments", `{"partnerId":`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/api/v1/payments", `{"amount":100}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePayment_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", payment.ErrPartnerInactive, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"negative amount", payment.ErrInvalidAmount, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"configuration", payment.ErrNoFeePolicy, http.StatusInternalServerError, "CONFIGURATION_ERROR"},
		{"declined", &acquirer.Error{Adapter: "testpg", Kind: acquirer.FailureClient, StatusCode: 422}, http.StatusUnprocessableEntity, "ACQUIRER_DECLINED"},
		{"acquirer down", &acquirer.Error{Adapter: "testpg", Kind: acquirer.FailureServer, StatusCode: 500}, http.StatusBadGateway, "ACQUIRER_ERROR"},
		{"acquirer timeout", &acquirer.Error{Adapter: "testpg", Kind: acquirer.FailureConnectivity}, http.StatusGatewayTimeout, "ACQUIRER_UNREACHABLE"},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newRouter(&fakePayments{payFn: func(context.Context, payment.Command) (*domain.Payment, error) {
				return nil, tc.err
			}}, nil)

			w := do(t, router, http.MethodPost, "/api/v1/payments", `{"partnerId":1,"amount":100}`)
			require.Equal(t, tc.status, w.Code)

			var res httpapi.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			require.Equal(t, tc.code, res.Error)
			require.NotEmpty(t, res.RequestID)
			if tc.code == "INTERNAL_ERROR" {
				require.Equal(t, "internal error", res.Message)
			}
		})
	}
}

func TestListPayments_ParsesQuery(t *testing.T) {
	var got payment.QueryFilter
	cursor := "next-token"
	router := newRouter(nil, &fakeQueries{queryFn: func(_ context.Context, f payment.QueryFilter) (*payment.QueryResult, error) {
		got = f
		return &payment.QueryResult{
			Items:      []domain.Payment{*samplePayment()},
			Summary:    domain.Summary{Count: 35, TotalAmount: decimal.NewFromInt(350000), TotalNetAmount: decimal.NewFromInt(339500)},
			NextCursor: &cursor,
			HasNext:    true,
		}, nil
	}})

	w := do(t, router, http.MethodGet,
		"/api/v1/payments?partnerId=2&status=APPROVED&from=2024-01-01%2000:00:00&to=2024-02-01T00:00:00Z&cursor=abc&limit=500", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.Equal(t, int64(2), *got.PartnerID)
	require.Equal(t, "APPROVED", got.Status)
	require.True(t, got.From.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.True(t, got.To.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, "abc", got.Cursor)
	require.Equal(t, httpapi.DefaultMaxLimit, got.Limit)

	var res httpapi.QueryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Items, 1)
	require.Equal(t, int64(35), res.Summary.Count)
	require.True(t, res.Summary.TotalNetAmount.Equal(decimal.NewFromInt(339500)))
	require.True(t, res.HasNext)
	require.Equal(t, "next-token", *res.NextCursor)
}

func TestListPayments_DefaultsAndEmpty(t *testing.T) {
	var got payment.QueryFilter
	router := newRouter(nil, &fakeQueries{queryFn: func(_ context.Context, f payment.QueryFilter) (*payment.QueryResult, error) {
		got = f
		return &payment.QueryResult{Items: []domain.Payment{}}, nil
	}})

	w := do(t, router, http.MethodGet, "/api/v1/payments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Nil(t, got.PartnerID)
	require.Zero(t, got.Limit)

	require.JSONEq(t,
		`{"items":[],"summary":{"count":0,"totalAmount":"0","totalNetAmount":"0"},"nextCursor":null,"hasNext":false}`,
		w.Body.String())
}

func TestListPayments_RejectsBadParams(t *testing.T) {
	router := newRouter(nil, &fakeQueries{queryFn: func(context.Context, payment.QueryFilter) (*payment.QueryResult, error) {
		return nil, payment.ErrInvalidCursor
	}})

	for _, target := range []string{
		"/api/v1/payments?partnerId=abc",
		"/api/v1/payments?limit=0",
		"/api/v1/payments?limit=ten",
		"/api/v1/payments?from=yesterday",
		"/api/v1/payments?to=2024-13-01%2000:00:00",
		"/api/v1/payments?cursor=broken",
	} {
		w := do(t, router, http.MethodGet, target, nil)
		require.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestRequestID_IsPropagated(t *testing.T) {
	router := newRouter(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(httpapi.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "req-123", w.Header().Get(httpapi.RequestIDHeader))
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	counters := &metrics.Counters{}
	counters.IncApproved()
	counters.IncQueries()

	router := httpapi.NewRouter(&httpapi.Handler{Metrics: counters}, nil)

	w := do(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var snap metrics.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Equal(t, uint64(1), snap.PaymentsApproved)
	require.Equal(t, uint64(1), snap.Queries)
}
