package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	ErrNotAuthenticated = errors.New("Not authenticated. Please login.")
	ErrEmptySubject     = errors.New("Input cannot be empty.")
	ErrInvalidSubject   = errors.New("Invalid characters in input.")
)

// APIError is a non-2xx answer from the Graph API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

type Client struct {
	BaseURL    string // https://graph.facebook.com
	APIVersion string // v24.0
	HTTP       *http.Client
}

func NewClient(baseURL, version string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIVersion: version,
		HTTP:       &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

// Fetch GETs {base}/{version}/{endpoint} with the access token and decodes into out.
func (c *Client) Fetch(ctx context.Context, token, endpoint string, params url.Values, out any) error {
	if token == "" {
		return ErrNotAuthenticated
	}
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("access_token", token)
	u := fmt.Sprintf("%s/%s/%s?%s", c.BaseURL, c.APIVersion, strings.TrimLeft(endpoint, "/"), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("read graph response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(body, &eb)
		msg := eb.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("API Error: %d", resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode graph response: %w", err)
	}
	return nil
}

var invalidSubject = regexp.MustCompile(`[^\w.]`)

// ValidateSubject checks a user id or username typed into the search box.
func ValidateSubject(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptySubject
	}
	if invalidSubject.MatchString(s) {
		return "", ErrInvalidSubject
	}
	return s, nil
}
