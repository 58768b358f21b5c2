// Package httpclient is the transport the update engine and full-hash
// resolver share for talking to the list service, generalized from
// the request/response plumbing of the teacher's fetch.go
// (GetLastDumpID/FetchDump): build a request, set auth, check the
// status code, hand back the body for the caller to parse.
package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNot200 is returned when the list service responds with anything
// other than HTTP 200.
var ErrNot200 = errors.New("httpclient: non-200 response")

// ErrRequestTooLarge is returned before a request is sent when its
// body would exceed the protocol's hard size cap (spec section 4.2).
var ErrRequestTooLarge = errors.New("httpclient: request body too large")

// MaxUpdateRequestBytes is the update endpoint's hard request-body
// size cap, including the trailing newline.
const MaxUpdateRequestBytes = 4096

// Config configures a Client.
type Config struct {
	// Server is the list service's base URL, e.g. "https://example.com/".
	Server string

	// APIKey is sent as the "key" query parameter on every request.
	APIKey string

	// AppVer and PVer are sent as the "appver" and "pver" query
	// parameters (spec section 7).
	AppVer string
	PVer   string

	// UserAgent overrides the default "<client-name> client {VERSION}"
	// header (spec section 7). Optional.
	UserAgent string

	// Timeout bounds every request issued by the client (default 60s).
	Timeout time.Duration

	// HTTPClient overrides the *http.Client used for requests. Tests
	// use this to point at an httptest.Server's own trusting client
	// instead of weakening TLS verification for production traffic.
	HTTPClient *http.Client
}

// Client is the shared HTTP transport for the update and full-hash
// endpoints, and for following update-response redirects.
type Client struct {
	cfg    Config
	client *http.Client
}

// New constructs a Client. TLS certificate verification is left at Go's
// default (mandatory, no InsecureSkipVerify) per spec section 7.
func New(cfg Config) *Client {
	if cfg.HTTPClient != nil {
		return &Client{cfg: cfg, client: cfg.HTTPClient}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *Client) userAgent() string {
	if c.cfg.UserAgent != "" {
		return c.cfg.UserAgent
	}

	return "urlguard client " + Version
}

// Version is the client version reported in the default User-Agent.
const Version = "1.0"

func (c *Client) endpointURL(path string) string {
	return fmt.Sprintf("%s%s?client=api&key=%s&appver=%s&pver=%s",
		c.cfg.Server, path, c.cfg.APIKey, c.cfg.AppVer, c.cfg.PVer)
}

// PostUpdate posts body to the update endpoint and returns the
// response body for the caller (chunkproto.ParseHeader) to parse.
// The caller must Close the returned body.
func (c *Client) PostUpdate(ctx context.Context, body []byte) (io.ReadCloser, error) {
	if len(body) > MaxUpdateRequestBytes {
		return nil, fmt.Errorf("%w: %d > %d", ErrRequestTooLarge, len(body), MaxUpdateRequestBytes)
	}

	return c.post(ctx, c.endpointURL("downloads"), body)
}

// PostFullHash posts body to the full-hash endpoint and returns the
// response body for the caller (chunkproto.ParseFullHashResponse) to
// parse. The caller must Close the returned body.
func (c *Client) PostFullHash(ctx context.Context, body []byte) (io.ReadCloser, error) {
	return c.post(ctx, c.endpointURL("gethash"), body)
}

// FetchRedirect fetches the binary chunk stream at a redirect URL
// returned by the update endpoint's "u:" directive. The caller must
// Close the returned body.
func (c *Client) FetchRedirect(ctx context.Context, redirect string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://"+redirect, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: construct redirect request: %w", err)
	}

	return c.do(req)
}

func (c *Client) post(ctx context.Context, url string, body []byte) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("httpclient: construct request: %w", err)
	}

	req.Header.Set("Content-Type", "text/plain")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (io.ReadCloser, error) {
	req.Header.Set("User-Agent", c.userAgent())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()

		return nil, fmt.Errorf("%w: %d", ErrNot200, resp.StatusCode)
	}

	return resp.Body, nil
}
