// Package paymentgateway implements ports.PaymentGateway for the supported
// payment providers.
//
// Transport failures (network errors, timeouts, 5xx responses) are returned as
// errs.GatewayCommunicationError and may be retried. Responses in which the
// provider rejects the request are terminal and wrap ErrProviderRejected.
package paymentgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/pkg/errs"
)

// ErrProviderRejected is returned when the provider answers but refuses the request.
var ErrProviderRejected = fmt.Errorf("%w: provider rejected the request", payment.ErrVerificationFailed)

const (
	tokenRefreshMargin = time.Minute
	maxErrorBodyBytes  = 4 << 10
)

type HTTPGatewayConfig struct {
	BaseURL          string
	APIKey           string
	APISecret        string
	CheckoutEndpoint string
	Timeout          time.Duration
}

// HTTPGateway talks to a token-authenticated REST payment provider. The access
// token is cached until shortly before it expires.
type HTTPGateway struct {
	httpClient *http.Client
	cfg        HTTPGatewayConfig
	now        func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewHTTPGateway(cfg HTTPGatewayConfig) (*HTTPGateway, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errs.NewValueIsRequiredError("payment gateway base url")
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("payment gateway base url", err)
	}
	if cfg.Timeout <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("payment gateway timeout", cfg.Timeout, "1ns", "unbounded")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &HTTPGateway{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		now:        time.Now,
	}, nil
}

type envelope struct {
	Code     int             `json:"code"`
	Message  string          `json:"message"`
	Response json.RawMessage `json:"response"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiredAt   int64  `json:"expired_at"`
}

type paymentResponse struct {
	ImpUID      string `json:"imp_uid"`
	MerchantUID string `json:"merchant_uid"`
	Amount      int64  `json:"amount"`
	Status      string `json:"status"`
	PayMethod   string `json:"pay_method"`
	PaidAt      int64  `json:"paid_at"`
}

func (g *HTTPGateway) Endpoint() string {
	return g.cfg.CheckoutEndpoint
}

func (g *HTTPGateway) FetchPayment(ctx context.Context, externalID string) (payment.ProviderPayment, error) {
	const op = "fetch payment"
	if strings.TrimSpace(externalID) == "" {
		return payment.ProviderPayment{}, errs.NewValueIsRequiredError("external payment id")
	}

	token, err := g.accessToken(ctx)
	if err != nil {
		return payment.ProviderPayment{}, err
	}

	var res paymentResponse
	if err = g.do(ctx, op, http.MethodGet, "/payments/"+url.PathEscape(externalID), token, nil, &res); err != nil {
		return payment.ProviderPayment{}, err
	}

	record := payment.ProviderPayment{
		ExternalID:        res.ImpUID,
		Status:            res.Status,
		Amount:            res.Amount,
		MerchantReference: res.MerchantUID,
		Method:            res.PayMethod,
	}
	if res.PaidAt > 0 {
		paidAt := time.Unix(res.PaidAt, 0).UTC()
		record.PaidAt = &paidAt
	}
	return record, nil
}

func (g *HTTPGateway) CancelPayment(ctx context.Context, externalID, reason string) error {
	const op = "cancel payment"
	if strings.TrimSpace(externalID) == "" {
		return errs.NewValueIsRequiredError("external payment id")
	}

	token, err := g.accessToken(ctx)
	if err != nil {
		return err
	}

	body := map[string]string{"imp_uid": externalID, "reason": reason}
	return g.do(ctx, op, http.MethodPost, "/payments/cancel", token, body, nil)
}

func (g *HTTPGateway) accessToken(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.token != "" && g.now().Add(tokenRefreshMargin).Before(g.tokenExpiry) {
		return g.token, nil
	}

	var res tokenResponse
	body := map[string]string{"imp_key": g.cfg.APIKey, "imp_secret": g.cfg.APISecret}
	if err := g.do(ctx, "get access token", http.MethodPost, "/users/getToken", "", body, &res); err != nil {
		return "", err
	}
	if res.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrProviderRejected)
	}

	g.token = res.AccessToken
	g.tokenExpiry = time.Unix(res.ExpiredAt, 0)
	return g.token, nil
}

// do sends one request and decodes the envelope's response field into out.
func (g *HTTPGateway) do(ctx context.Context, op, method, path, token string, in, out any) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return errs.NewGatewayCommunicationError(op, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return errs.NewGatewayCommunicationError(op, fmt.Errorf("provider error %d: %s", resp.StatusCode, string(b)))
	case resp.StatusCode == http.StatusNotFound:
		return errs.NewObjectNotFoundErrorWithCause("provider resource", path, ErrProviderRejected)
	case resp.StatusCode >= http.StatusBadRequest:
		// The body of a rejection may be HTML or plain text; it stays terminal either way.
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		var env envelope
		if json.Unmarshal(b, &env) == nil && env.Message != "" {
			return fmt.Errorf("%w: %s: status %d, code %d: %s", ErrProviderRejected, op, resp.StatusCode, env.Code, env.Message)
		}
		return fmt.Errorf("%w: %s: status %d: %s", ErrProviderRejected, op, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var env envelope
	if err = json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return errs.NewGatewayCommunicationError(op, err)
		}
		return errs.NewGatewayCommunicationError(op, fmt.Errorf("decode provider response: %w", err))
	}
	if env.Code != 0 {
		return fmt.Errorf("%w: %s: code %d: %s", ErrProviderRejected, op, env.Code, env.Message)
	}
	if out == nil {
		return nil
	}
	if len(env.Response) == 0 || string(env.Response) == "null" {
		return fmt.Errorf("%w: %s: empty response", ErrProviderRejected, op)
	}
	if err = json.Unmarshal(env.Response, out); err != nil {
		return fmt.Errorf("%w: %s: decode response: %v", ErrProviderRejected, op, err)
	}
	return nil
}
