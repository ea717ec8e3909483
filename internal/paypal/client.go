package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client // nil -> otelhttp-instrumented default client
}

// Client talks to the PayPal REST API. It holds no token cache: every
// operation exchanges the client credentials again.
type Client struct {
	baseURL  string
	clientID string
	secret   string
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker[*http.Response]
}

func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		clientID: cfg.ClientID,
		secret:   cfg.ClientSecret,
		http:     hc,
		breaker: gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
			Name:    "paypal",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Printf("breaker=%s state %s -> %s", name, from, to)
			},
		}),
	}
}

// Token exchanges the client credentials for a bearer token.
func (c *Client) Token(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", apperr.Wrap(apperr.KindAuthentication, err)
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, body, err := c.do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.KindAuthentication, err)
	}
	if !success(resp.StatusCode) {
		return "", apperr.FromStatus(apperr.KindAuthentication, resp.StatusCode, parseError(body).ErrorDescription)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", apperr.Wrap(apperr.KindAuthentication, fmt.Errorf("decode token response: %w", err))
	}
	if tr.AccessToken == "" {
		return "", apperr.New(apperr.KindAuthentication, "token response carried no access_token")
	}
	return tr.AccessToken, nil
}

// CreateOrder submits an order. The caller checks the approval link.
func (c *Client) CreateOrder(ctx context.Context, in OrderRequest) (*Order, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindOrderCreation, fmt.Errorf("encode order: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/checkout/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindOrderCreation, err)
	}
	c.authorize(req, token)
	req.Header.Set("PayPal-Request-Id", uuid.NewString())

	return c.orderCall(req, apperr.KindOrderCreation)
}

// CaptureOrder finalizes an approved order.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*Order, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/v2/checkout/orders/%s/capture", c.baseURL, url.PathEscape(orderID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindCapture, err)
	}
	c.authorize(req, token)

	return c.orderCall(req, apperr.KindCapture)
}

func (c *Client) orderCall(req *http.Request, kind apperr.Kind) (*Order, error) {
	resp, body, err := c.do(req)
	if err != nil {
		return nil, apperr.Wrap(kind, err)
	}
	if !success(resp.StatusCode) {
		return nil, apperr.FromStatus(kind, resp.StatusCode, parseError(body).Message)
	}
	var o Order
	if err := json.Unmarshal(body, &o); err != nil {
		return nil, apperr.Wrap(kind, fmt.Errorf("decode order: %w", err))
	}
	return &o, nil
}

func (c *Client) authorize(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

// do runs the request through the breaker. Only transport failures count
// against it; HTTP error statuses are the processor's answer and pass through.
func (c *Client) do(req *http.Request) (*http.Response, []byte, error) {
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.http.Do(req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, nil, fmt.Errorf("payment processor unavailable: %w", err)
		}
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}
	return resp, body, nil
}

func success(code int) bool { return code >= 200 && code < 300 }

func parseError(body []byte) errorBody {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	return eb
}
