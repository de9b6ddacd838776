package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/repositories/credentials"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/logging"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// RESTClient implements Client against a single base endpoint.
type RESTClient struct {
	baseURL string
	http    *http.Client
	creds   credentials.Repository
	log     logging.Logger

	mu   sync.Mutex
	subs []chan struct{}
}

// NewRESTClient builds a client for baseURL (no trailing slash). The bearer
// token is read from creds on every request; a 401 response evicts the stored
// session and signals eviction subscribers.
func NewRESTClient(baseURL string, creds credentials.Repository, log logging.Logger) *RESTClient {
	c := &RESTClient{
		baseURL: baseURL,
		creds:   creds,
		log:     log.With("component", "api"),
	}
	c.http = &http.Client{
		Timeout:   60 * time.Second,
		Transport: &authTransport{base: http.DefaultTransport, client: c},
	}
	return c
}

func (c *RESTClient) Close() error {
	c.http.CloseIdleConnections()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs {
		close(ch)
	}
	c.subs = nil
	return nil
}

// SubscribeEvictions returns a buffered channel signalled on each credential
// eviction. The channel is closed when the client is closed.
func (c *RESTClient) SubscribeEvictions() <-chan struct{} {
	ch := make(chan struct{}, 1)
	c.mu.Lock()
	c.subs = append(c.subs, ch)
	c.mu.Unlock()
	return ch
}

// evict clears the stored session and notifies subscribers. Called by the
// auth transport when the server answers 401, whichever endpoint was hit.
func (c *RESTClient) evict(ctx context.Context) {
	if err := c.creds.ClearSession(ctx); err != nil {
		c.log.Error(ctx, "failed to evict credentials", "error", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// authTransport injects the bearer token into outgoing requests and watches
// responses for authorization failures.
type authTransport struct {
	base   http.RoundTripper
	client *RESTClient
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.client.creds.Token(req.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	if token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		t.client.evict(req.Context())
	}
	return resp, nil
}

// do executes method+path with an optional JSON body, decoding a JSON
// response into out when out is non-nil.
func (c *RESTClient) do(ctx context.Context, method, path string, body any, out any) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return c.mapNetworkError(ctx, err)
	}
	defer resp.Body.Close()

	return c.decode(resp, out)
}

// mapNetworkError keeps context cancellation distinct from connectivity
// failures, which collapse into ErrUnavailable.
func (c *RESTClient) mapNetworkError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// decode maps response status to sentinel errors and unmarshals 2xx bodies.
func (c *RESTClient) decode(resp *http.Response, out any) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		var er errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&er)
		if msg := er.text(); msg != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("server error (%d)", resp.StatusCode)
	}
}
