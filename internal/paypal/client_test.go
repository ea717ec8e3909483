package paypal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePayPal is a minimal processor: token, create and capture endpoints.
type fakePayPal struct {
	tokenStatus   int
	tokenBody     string
	createStatus  int
	createBody    string
	captureStatus int
	captureBody   string

	tokenCalls atomic.Int32
	lastCreate OrderRequest
	lastAuth   string
	requestID  string
	capturedID string
}

func (f *fakePayPal) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":"invalid_client","error_description":"Client Authentication failed"}`)
			return
		}
		_ = r.ParseForm()
		if r.PostForm.Get("grant_type") != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(orDefault(f.tokenStatus))
		_, _ = io.WriteString(w, orBody(f.tokenBody, `{"access_token":"A21AA","token_type":"Bearer","expires_in":32400}`))
	})
	mux.HandleFunc("POST /v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth = r.Header.Get("Authorization")
		f.requestID = r.Header.Get("PayPal-Request-Id")
		_ = json.NewDecoder(r.Body).Decode(&f.lastCreate)
		w.WriteHeader(orDefault(f.createStatus))
		_, _ = io.WriteString(w, orBody(f.createBody, `{"id":"5O190127TN364715T","status":"CREATED","links":[{"href":"https://www.sandbox.paypal.com/checkoutnow?token=5O190127TN364715T","rel":"approve","method":"GET"}]}`))
	})
	mux.HandleFunc("POST /v2/checkout/orders/{id}/capture", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth = r.Header.Get("Authorization")
		f.capturedID = r.PathValue("id")
		w.WriteHeader(orDefault(f.captureStatus))
		_, _ = io.WriteString(w, orBody(f.captureBody, `{"id":"`+f.capturedID+`","status":"COMPLETED","purchase_units":[{"payments":{"captures":[{"id":"3C679366HH908993F","status":"COMPLETED","amount":{"currency_code":"USD","value":"1.54"}}]}}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func orDefault(code int) int {
	if code == 0 {
		return http.StatusOK
	}
	return code
}

func orBody(body, def string) string {
	if body == "" {
		return def
	}
	return body
}

func newTestClient(srv *httptest.Server, secret string) *Client {
	return New(Config{BaseURL: srv.URL, ClientID: "client-id", ClientSecret: secret, HTTPClient: srv.Client()})
}

func TestToken_Success(t *testing.T) {
	f := &fakePayPal{}
	c := newTestClient(f.server(t), "secret")

	token, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A21AA", token)
}

func TestToken_FailureCarriesDescription(t *testing.T) {
	f := &fakePayPal{}
	c := newTestClient(f.server(t), "wrong")

	_, err := c.Token(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrAuthentication)
	assert.Equal(t, "Client Authentication failed", err.Error())
}

func TestToken_FailureGenericMessage(t *testing.T) {
	f := &fakePayPal{tokenStatus: http.StatusServiceUnavailable, tokenBody: "<html>down</html>"}
	c := newTestClient(f.server(t), "secret")

	_, err := c.Token(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrAuthentication)
	assert.Equal(t, "API Error: 503", err.Error())
}

func TestCreateOrder_SendsBearerAndBody(t *testing.T) {
	f := &fakePayPal{}
	c := newTestClient(f.server(t), "secret")

	in := OrderRequest{
		Intent: IntentCapture,
		PurchaseUnits: []PurchaseUnit{{
			Amount: Amount{CurrencyCode: "USD", Value: "1.54"},
		}},
		ApplicationContext: ApplicationContext{ReturnURL: "http://shop.local/", CancelURL: "http://shop.local/"},
	}
	o, err := c.CreateOrder(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "5O190127TN364715T", o.ID)
	assert.Equal(t, "CREATED", o.Status)
	link, ok := o.ApprovalLink()
	assert.True(t, ok)
	assert.Contains(t, link, "checkoutnow")

	assert.Equal(t, "Bearer A21AA", f.lastAuth)
	assert.NotEmpty(t, f.requestID)
	assert.Equal(t, in, f.lastCreate)
	assert.Equal(t, int32(1), f.tokenCalls.Load())
}

func TestCreateOrder_FailureWrapsProcessorMessage(t *testing.T) {
	f := &fakePayPal{
		createStatus: http.StatusUnprocessableEntity,
		createBody:   `{"name":"UNPROCESSABLE_ENTITY","message":"The requested action could not be performed, semantically incorrect, or failed business validation."}`,
	}
	c := newTestClient(f.server(t), "secret")

	_, err := c.CreateOrder(context.Background(), OrderRequest{Intent: IntentCapture})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrOrderCreation)
	assert.Contains(t, err.Error(), "failed business validation")
}

func TestCreateOrder_TokenFailureSurfacesVerbatim(t *testing.T) {
	f := &fakePayPal{}
	c := newTestClient(f.server(t), "wrong")

	_, err := c.CreateOrder(context.Background(), OrderRequest{Intent: IntentCapture})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrAuthentication)
	assert.NotErrorIs(t, err, apperr.ErrOrderCreation)
}

func TestCaptureOrder_Success(t *testing.T) {
	f := &fakePayPal{}
	c := newTestClient(f.server(t), "secret")

	o, err := c.CaptureOrder(context.Background(), "5O190127TN364715T")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, o.Status)
	assert.Equal(t, "5O190127TN364715T", f.capturedID)

	amt, ok := o.CapturedAmount()
	require.True(t, ok)
	assert.Equal(t, Money{CurrencyCode: "USD", Value: "1.54"}, amt)
}

func TestCaptureOrder_FreshTokenEveryCall(t *testing.T) {
	f := &fakePayPal{}
	c := newTestClient(f.server(t), "secret")

	_, err := c.CaptureOrder(context.Background(), "A")
	require.NoError(t, err)
	_, err = c.CaptureOrder(context.Background(), "B")
	require.NoError(t, err)
	assert.Equal(t, int32(2), f.tokenCalls.Load())
}

func TestCaptureOrder_Failure(t *testing.T) {
	f := &fakePayPal{captureStatus: http.StatusUnprocessableEntity, captureBody: `{"name":"UNPROCESSABLE_ENTITY","message":"ORDER_NOT_APPROVED"}`}
	c := newTestClient(f.server(t), "secret")

	_, err := c.CaptureOrder(context.Background(), "X")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrCapture)
	assert.Equal(t, "ORDER_NOT_APPROVED", err.Error())
}

func TestApprovalLink_Missing(t *testing.T) {
	o := Order{Links: []Link{{Href: "https://api/v2/checkout/orders/1", Rel: "self"}}}
	_, ok := o.ApprovalLink()
	assert.False(t, ok)
}

func TestCaptureOrder_HungProcessorIsTimeout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"access_token":"A21AA"}`)
	})
	mux.HandleFunc("POST /v2/checkout/orders/{id}/capture", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := newTestClient(srv, "secret")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err := c.CaptureOrder(ctx, "X")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrCapture)
	assert.Equal(t, apperr.KindTimeout, apperr.KindOf(err))
	assert.Equal(t, http.StatusGatewayTimeout, apperr.HTTPStatus(err))
}
