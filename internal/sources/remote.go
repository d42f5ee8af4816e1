// Package sources fetches and normalises the two game catalog feeds (the
// third-party games API and the local static catalog) into domain.CatalogItem.
package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenk/backoff"
	"github.com/rs/dnscache"
	circuit "github.com/rubyist/circuitbreaker"
)

var (
	// ErrUpstreamUnavailable indicates the games API returned a server error
	// or the circuit breaker is open.
	ErrUpstreamUnavailable = errors.New("sources: upstream games api unavailable")
	// ErrMalformedResponse indicates the upstream body could not be decoded.
	ErrMalformedResponse = errors.New("sources: malformed upstream response")
)

const (
	remoteBaseDelay    = 500 * time.Millisecond
	breakerTripAfter   = 5
	maxErrorBodySample = 1024
)

// remoteGame mirrors the subset of the upstream payload the catalog needs.
type remoteGame struct {
	Title            string `json:"title"`
	Thumbnail        string `json:"thumbnail"`
	ShortDescription string `json:"short_description"`
	Genre            string `json:"genre"`
	Platform         string `json:"platform"`
	ReleaseDate      string `json:"release_date"`
}

// RemoteClient fetches the third-party games catalog. All requests go through
// a shared pooled transport with DNS caching; retryable failures back off
// exponentially and repeated failures trip a circuit breaker so a dead
// upstream does not stall every page load.
type RemoteClient struct {
	client     *http.Client
	url        string
	userAgent  string
	maxRetries int
	baseDelay  time.Duration
	breaker    *circuit.Breaker
}

// RemoteOption configures a RemoteClient.
type RemoteOption func(*RemoteClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *RemoteClient) {
		if c != nil {
			r.client = c
		}
	}
}

// WithTimeout bounds each upstream request end to end. Unlike WithHTTPClient
// it keeps the pooled transport and its cached resolver.
func WithTimeout(d time.Duration) RemoteOption {
	return func(r *RemoteClient) {
		if d > 0 {
			r.client.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) RemoteOption {
	return func(r *RemoteClient) {
		if strings.TrimSpace(ua) != "" {
			r.userAgent = ua
		}
	}
}

// WithMaxRetries sets the maximum retry attempts for retryable failures.
func WithMaxRetries(n int) RemoteOption {
	return func(r *RemoteClient) {
		if n >= 0 {
			r.maxRetries = n
		}
	}
}

// WithBaseDelay sets the initial delay for exponential backoff.
func WithBaseDelay(d time.Duration) RemoteOption {
	return func(r *RemoteClient) {
		if d > 0 {
			r.baseDelay = d
		}
	}
}

// NewRemoteClient creates a client for the given games API URL.
func NewRemoteClient(url string, opts ...RemoteOption) *RemoteClient {
	resolver := &dnscache.Resolver{}
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			resolver.Refresh(true)
		}
	}()

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	r := &RemoteClient{
		client: &http.Client{
			Timeout: 20 * time.Second,
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
					host, port, err := net.SplitHostPort(addr)
					if err != nil {
						return nil, err
					}
					ips, err := resolver.LookupHost(ctx, host)
					if err != nil {
						return nil, err
					}
					for _, ip := range ips {
						conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
						if err == nil {
							return conn, nil
						}
					}
					return nil, fmt.Errorf("failed to dial any resolved IP")
				},
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		url:        url,
		userAgent:  "aa-remote-site/1.0",
		maxRetries: 3,
		baseDelay:  remoteBaseDelay,
		breaker: circuit.NewBreakerWithOptions(&circuit.Options{
			BackOff:    expBackoff,
			ShouldTrip: circuit.ThresholdTripFunc(breakerTripAfter),
		}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// FetchRaw performs one proxied GET and returns the upstream body and status
// verbatim. Used by the /api/games passthrough endpoint; no retries so the
// proxy reflects the upstream's state honestly.
func (r *RemoteClient) FetchRaw(ctx context.Context) ([]byte, int, error) {
	if !r.breaker.Ready() {
		return nil, http.StatusServiceUnavailable, fmt.Errorf("circuit breaker open: %w", ErrUpstreamUnavailable)
	}

	var (
		body   []byte
		status int
	)
	err := r.breaker.Call(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", r.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := r.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetching games: %w", err)
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		status = resp.StatusCode
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}
		if status >= http.StatusInternalServerError {
			return fmt.Errorf("upstream status %d: %w", status, ErrUpstreamUnavailable)
		}
		return nil
	}, 0)
	if err != nil {
		if status == 0 {
			status = http.StatusBadGateway
		}
		return body, status, err
	}
	return body, status, nil
}

// FetchCatalog fetches and normalises the upstream catalog. Retryable
// failures (5xx, transport errors) are retried with exponential backoff up
// to the configured attempt budget.
func (r *RemoteClient) FetchCatalog(ctx context.Context) ([]CatalogRecord, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.baseDelay
	policy.Reset()

	var games []remoteGame
	operation := func() error {
		fetched, err := r.fetchOnce(ctx)
		if err != nil {
			// Malformed bodies will not improve with retries.
			if errors.Is(err, ErrMalformedResponse) {
				return backoff.Permanent(err)
			}
			return err
		}
		games = fetched
		return nil
	}

	retry := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(r.maxRetries)), ctx)
	if err := backoff.Retry(operation, retry); err != nil {
		return nil, err
	}

	records := make([]CatalogRecord, 0, len(games))
	for _, g := range games {
		title := strings.TrimSpace(g.Title)
		if title == "" {
			continue
		}
		records = append(records, CatalogRecord{
			Title:            title,
			Genre:            strings.TrimSpace(g.Genre),
			ReleaseDate:      strings.TrimSpace(g.ReleaseDate),
			Platform:         strings.TrimSpace(g.Platform),
			Thumbnail:        strings.TrimSpace(g.Thumbnail),
			ShortDescription: strings.TrimSpace(g.ShortDescription),
		})
	}
	return records, nil
}

func (r *RemoteClient) fetchOnce(ctx context.Context) ([]remoteGame, error) {
	if !r.breaker.Ready() {
		return nil, backoff.Permanent(fmt.Errorf("circuit breaker open: %w", ErrUpstreamUnavailable))
	}

	var games []remoteGame
	err := r.breaker.Call(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", r.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := r.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetching games: %w", err)
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
			}
			return nil
		case resp.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("upstream status %d: %w", resp.StatusCode, ErrUpstreamUnavailable)
		default:
			sample, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySample))
			return backoff.Permanent(fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(sample))))
		}
	}, 0)
	if err != nil {
		return nil, err
	}
	return games, nil
}
