// Package api is a client for the fichajes backend REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// A Client talks to the fichajes backend. Authenticated calls take the
// bearer token explicitly so callers decide where it comes from.
type Client struct {
	cfg     *config
	baseURL *url.URL
}

// New creates a new Client for the backend at baseURL.
func New(baseURL *url.URL, options ...Option) *Client {
	return &Client{
		cfg:     getConfig(options...),
		baseURL: baseURL,
	}
}

// Login exchanges a DNI and password for a token.
func (c *Client) Login(ctx context.Context, dni, password string) (string, error) {
	var res loginResponse
	err := c.do(ctx, http.MethodPost, c.baseURL, EndpointLogin, nil, "", loginRequest{DNI: dni, Password: password}, &res)
	if err != nil {
		return "", err
	}
	if res.Token == "" {
		return "", &Error{StatusCode: http.StatusOK, Endpoint: EndpointLogin}
	}
	return res.Token, nil
}

// Address resolves "lat,lon" coordinates into a street address.
func (c *Client) Address(ctx context.Context, token, coordinates string) (string, error) {
	var res addressResponse
	q := url.Values{"coordenadas": {coordinates}}
	if err := c.do(ctx, http.MethodGet, c.baseURL, EndpointAddress, q, token, nil, &res); err != nil {
		return "", err
	}
	return res.Address, nil
}

// Events lists the fichajes of the logged in user.
func (c *Client) Events(ctx context.Context, token string) ([]Event, error) {
	var res eventsResponse
	if err := c.do(ctx, http.MethodGet, c.baseURL, EndpointEvents, nil, token, nil, &res); err != nil {
		return nil, err
	}
	return res.Events, nil
}

// CreateEvent registers a new fichaje. The backend decides its kind.
func (c *Client) CreateEvent(ctx context.Context, token string, req CreateEventRequest) (Event, error) {
	var res createEventResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL, EndpointEvents, nil, token, req, &res); err != nil {
		return Event{}, err
	}
	if res.Event == nil {
		return Event{}, &Error{StatusCode: http.StatusOK, Endpoint: EndpointEvents}
	}
	return *res.Event, nil
}

// Report downloads the fichajes report in format into w and returns the
// number of bytes written.
func (c *Client) Report(ctx context.Context, token string, format ReportFormat, w io.Writer) (int64, error) {
	endpoint := EndpointReports + string(format)
	req, err := c.newRequest(ctx, http.MethodGet, c.cfg.reportURL(c.baseURL), endpoint, nil, token, nil)
	if err != nil {
		return 0, err
	}
	res, err := c.cfg.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return 0, newError(res.StatusCode, endpoint, body)
	}
	n, err := io.Copy(w, res.Body)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	return n, nil
}

const maxErrorBody = 64 << 10

func (c *Client) newRequest(ctx context.Context, method string, base *url.URL, endpoint string, query url.Values, token string, body any) (*http.Request, error) {
	dst := base.ResolveReference(&url.URL{Path: strings.TrimSuffix(base.Path, "/") + endpoint})
	if query != nil {
		dst.RawQuery = query.Encode()
	}

	var rd io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encode %s request: %w", endpoint, err)
		}
		rd = bytes.NewReader(bs)
	}

	req, err := http.NewRequestWithContext(ctx, method, dst.String(), rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method string, base *url.URL, endpoint string, query url.Values, token string, body, out any) error {
	req, err := c.newRequest(ctx, method, base, endpoint, query, token, body)
	if err != nil {
		return err
	}

	res, err := c.cfg.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer res.Body.Close()

	bs, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s response: %w", ErrUnreachable, endpoint, err)
	}

	if res.StatusCode/100 != 2 {
		return newError(res.StatusCode, endpoint, bs)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bs, out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", ErrUnreachable, endpoint, err)
	}
	return nil
}

