package paymentgateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"marketplace/internal/adapters/out/paymentgateway"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type providerStub struct {
	tokenCalls atomic.Int32
	payment    http.HandlerFunc
	cancel     http.HandlerFunc
}

func (s *providerStub) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/getToken", func(w http.ResponseWriter, r *http.Request) {
		s.tokenCalls.Add(1)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "key", body["imp_key"])
		assert.Equal(t, "secret", body["imp_secret"])
		writeEnvelope(w, http.StatusOK, 0, map[string]any{
			"access_token": "token-1",
			"expired_at":   time.Now().Add(30 * time.Minute).Unix(),
		})
	})
	mux.HandleFunc("GET /payments/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token-1", r.Header.Get("Authorization"))
		s.payment(w, r)
	})
	mux.HandleFunc("POST /payments/cancel", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token-1", r.Header.Get("Authorization"))
		s.cancel(w, r)
	})
	return mux
}

func writeEnvelope(w http.ResponseWriter, status, code int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"code": code, "message": "", "response": response})
}

func newGateway(t *testing.T, stub *providerStub, timeout time.Duration) *paymentgateway.HTTPGateway {
	t.Helper()
	server := httptest.NewServer(stub.handler(t))
	t.Cleanup(server.Close)

	gateway, err := paymentgateway.NewHTTPGateway(paymentgateway.HTTPGatewayConfig{
		BaseURL:          server.URL,
		APIKey:           "key",
		APISecret:        "secret",
		CheckoutEndpoint: "https://checkout.example.com",
		Timeout:          timeout,
	})
	require.NoError(t, err)
	return gateway
}

func TestNewHTTPGateway_Validation(t *testing.T) {
	_, err := paymentgateway.NewHTTPGateway(paymentgateway.HTTPGatewayConfig{Timeout: time.Second})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = paymentgateway.NewHTTPGateway(paymentgateway.HTTPGatewayConfig{BaseURL: "http://provider"})
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestHTTPGateway_FetchPayment(t *testing.T) {
	paidAt := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	stub := &providerStub{
		payment: func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "imp_123", r.PathValue("id"))
			writeEnvelope(w, http.StatusOK, 0, map[string]any{
				"imp_uid":      "imp_123",
				"merchant_uid": "ORDER_x_y",
				"amount":       28000,
				"status":       "paid",
				"pay_method":   "card",
				"paid_at":      paidAt.Unix(),
			})
		},
	}
	gateway := newGateway(t, stub, time.Second)

	record, err := gateway.FetchPayment(context.Background(), "imp_123")
	require.NoError(t, err)
	assert.Equal(t, payment.ProviderPayment{
		ExternalID:        "imp_123",
		Status:            payment.ProviderStatusPaid,
		Amount:            28000,
		MerchantReference: "ORDER_x_y",
		Method:            "card",
		PaidAt:            &paidAt,
	}, record)

	_, err = gateway.FetchPayment(context.Background(), "imp_123")
	require.NoError(t, err)
	assert.Equal(t, int32(1), stub.tokenCalls.Load(), "token is cached")
	assert.Equal(t, "https://checkout.example.com", gateway.Endpoint())
}

func TestHTTPGateway_FetchPayment_Failures(t *testing.T) {
	t.Run("server error is retryable", func(t *testing.T) {
		stub := &providerStub{payment: func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		}}

		_, err := newGateway(t, stub, time.Second).FetchPayment(context.Background(), "imp_1")
		require.ErrorIs(t, err, errs.ErrGatewayCommunication)
		assert.True(t, errs.IsRetryable(err))
	})

	t.Run("timeout is retryable", func(t *testing.T) {
		stub := &providerStub{payment: func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		}}

		_, err := newGateway(t, stub, 50*time.Millisecond).FetchPayment(context.Background(), "imp_1")
		require.ErrorIs(t, err, errs.ErrGatewayCommunication)
	})

	t.Run("rejection is terminal", func(t *testing.T) {
		stub := &providerStub{payment: func(w http.ResponseWriter, _ *http.Request) {
			writeEnvelope(w, http.StatusOK, -1, nil)
		}}

		_, err := newGateway(t, stub, time.Second).FetchPayment(context.Background(), "imp_1")
		require.ErrorIs(t, err, paymentgateway.ErrProviderRejected)
		require.ErrorIs(t, err, payment.ErrVerificationFailed)
		assert.False(t, errs.IsRetryable(err))
	})

	t.Run("client error with plain text body is terminal", func(t *testing.T) {
		stub := &providerStub{payment: func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("<html>unauthorized</html>"))
		}}

		_, err := newGateway(t, stub, time.Second).FetchPayment(context.Background(), "imp_1")
		require.ErrorIs(t, err, paymentgateway.ErrProviderRejected)
		assert.NotErrorIs(t, err, errs.ErrGatewayCommunication)
		assert.False(t, errs.IsRetryable(err))
		assert.Contains(t, err.Error(), "status 401")
	})

	t.Run("client error with envelope keeps provider message", func(t *testing.T) {
		stub := &providerStub{payment: func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"code": -1, "message": "invalid imp_uid"})
		}}

		_, err := newGateway(t, stub, time.Second).FetchPayment(context.Background(), "imp_1")
		require.ErrorIs(t, err, paymentgateway.ErrProviderRejected)
		assert.False(t, errs.IsRetryable(err))
		assert.Contains(t, err.Error(), "invalid imp_uid")
	})

	t.Run("unknown payment", func(t *testing.T) {
		stub := &providerStub{payment: func(w http.ResponseWriter, _ *http.Request) {
			writeEnvelope(w, http.StatusNotFound, 1, nil)
		}}

		_, err := newGateway(t, stub, time.Second).FetchPayment(context.Background(), "imp_1")
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("blank id", func(t *testing.T) {
		_, err := newGateway(t, &providerStub{}, time.Second).FetchPayment(context.Background(), " ")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestHTTPGateway_CancelPayment(t *testing.T) {
	var got map[string]string
	stub := &providerStub{cancel: func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeEnvelope(w, http.StatusOK, 0, map[string]any{"imp_uid": "imp_9", "status": "cancelled"})
	}}

	err := newGateway(t, stub, time.Second).CancelPayment(context.Background(), "imp_9", "buyer abandoned")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"imp_uid": "imp_9", "reason": "buyer abandoned"}, got)
}
