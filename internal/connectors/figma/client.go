package figma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
	"github.com/custodia-labs/nineslice-cli/internal/core/ports/driven"
	"github.com/custodia-labs/nineslice-cli/internal/logger"
)

// Ensure Client implements the driven ports.
var (
	_ driven.DocumentSource = (*Client)(nil)
	_ driven.ImageFetcher   = (*Client)(nil)
)

const (
	// DefaultBaseURL is the Figma REST API root.
	DefaultBaseURL = "https://api.figma.com"

	// DefaultTimeout is the default HTTP request timeout. Large files can
	// take a while to serialise on Figma's side.
	DefaultTimeout = 2 * time.Minute

	// MaxRetries is the maximum number of retries after a 429.
	MaxRetries = 3

	// MaxImageBytes bounds a single rendered image download.
	MaxImageBytes = 64 << 20

	// HeaderFigmaToken carries a personal access token.
	HeaderFigmaToken = "X-Figma-Token" //nolint:gosec // G101: header name, not a credential.

	// maxErrorBody bounds how much of an error body is read for its message.
	maxErrorBody = 4 << 10
)

// Client talks to the Figma REST API.
type Client struct {
	http        *http.Client
	baseURL     string
	rateLimiter *RateLimiter
}

// NewClient creates a Figma client against the public API.
func NewClient() *Client {
	return &Client{
		http:        &http.Client{Timeout: DefaultTimeout},
		baseURL:     DefaultBaseURL,
		rateLimiter: NewRateLimiter(),
	}
}

// NewClientWithHTTPClient creates a client with a custom http.Client and
// base URL. Useful for tests against httptest servers.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, limiter *RateLimiter) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if limiter == nil {
		limiter = NewRateLimiter()
	}
	return &Client{
		http:        httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: limiter,
	}
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// FetchDocument retrieves the document tree of a file.
func (c *Client) FetchDocument(ctx context.Context, fileKey string, token domain.AccessToken) (domain.Node, error) {
	endpoint := fmt.Sprintf("%s/v1/files/%s", c.baseURL, url.PathEscape(fileKey))

	var body fileResponse
	if err := c.getJSON(ctx, endpoint, token, "get file", &body); err != nil {
		return domain.Node{}, err
	}
	if body.Document == nil {
		return domain.Node{}, fmt.Errorf("%w: %w", domain.ErrParse, ErrMissingDocument)
	}

	root := body.Document.toDomain()
	logger.Debug("Fetched file %q: %d nodes", body.Name, root.Count())
	return root, nil
}

// FetchImageURLs renders ids as PNG at scale in one request.
func (c *Client) FetchImageURLs(
	ctx context.Context, fileKey string, token domain.AccessToken, ids []string, scale float64,
) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("format", "png")
	q.Set("scale", strconv.FormatFloat(scale, 'f', -1, 64))
	endpoint := fmt.Sprintf("%s/v1/images/%s?%s", c.baseURL, url.PathEscape(fileKey), q.Encode())

	var body imagesResponse
	if err := c.getJSON(ctx, endpoint, token, "get images", &body); err != nil {
		return nil, err
	}
	if body.Err != nil && *body.Err != "" {
		return nil, fmt.Errorf("%w: get images: %s", domain.ErrParse, *body.Err)
	}
	if body.Images == nil {
		return nil, fmt.Errorf("%w: get images: response has no images map", domain.ErrParse)
	}

	return body.urls(), nil
}

// FetchImage downloads a rendered image. Render URLs are pre-signed, so no
// credentials are sent and the API rate limiter is not consulted.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build image request: %v", domain.ErrTransport, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: download image: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.apiError(resp)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read image: %v", domain.ErrTransport, err)
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransport, ErrImageTooLarge)
	}
	return data, nil
}

// getJSON performs an authenticated GET against the API and decodes the
// body into out. A 429 is retried up to MaxRetries times after the
// Retry-After delay.
func (c *Client) getJSON(ctx context.Context, endpoint string, token domain.AccessToken, op string, out any) error {
	httpClient := c.clientFor(ctx, token)

	for attempt := 0; ; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limit wait: %v", domain.ErrTransport, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrTransport, op, err)
		}
		req.Header.Set("Accept", "application/json")
		if token.Type != domain.TokenOAuth {
			req.Header.Set(HeaderFigmaToken, token.Value)
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrTransport, op, err)
		}

		if rlErr := c.rateLimiter.CheckRateLimit(resp); rlErr != nil {
			drain(resp)
			if attempt >= MaxRetries {
				return rlErr
			}
			logger.Warn("Figma rate limited on %s, retrying (attempt %d/%d)", op, attempt+1, MaxRetries)
			continue
		}

		err = decodeResponse(resp, out)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				apiErr.URL = redact(endpoint)
			} else {
				err = fmt.Errorf("%w: %s: %v", domain.ErrParse, op, err)
			}
		}
		return err
	}
}

// clientFor returns the HTTP client that presents token. OAuth tokens go
// through an oauth2 client layered on the base client; personal tokens use
// the base client with a header set per request.
func (c *Client) clientFor(ctx context.Context, token domain.AccessToken) *http.Client {
	if token.Type != domain.TokenOAuth {
		return c.http
	}
	base := context.WithValue(ctx, oauth2.HTTPClient, c.http)
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token.Value})
	tc := oauth2.NewClient(base, ts)
	tc.Timeout = c.http.Timeout
	return tc
}

// decodeResponse decodes a 2xx body into out, or converts an error status
// into an *APIError.
func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) apiError(resp *http.Response) error {
	err := errorFromResponse(resp)
	var apiErr *APIError
	if errors.As(err, &apiErr) && resp.Request != nil && resp.Request.URL != nil {
		apiErr.URL = redact(resp.Request.URL.String())
	}
	return err
}

// errorFromResponse builds an APIError from an error status, taking the
// message from Figma's JSON error body when there is one.
func errorFromResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := strings.TrimSpace(string(raw))
	var body errorResponse
	if json.Unmarshal(raw, &body) == nil {
		switch {
		case body.Err != "":
			msg = body.Err
		case body.Message != "":
			msg = body.Message
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
}

// redact strips the query string, which for render URLs holds signatures.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	return u.String()
}
