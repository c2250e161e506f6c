// Package client drives the lookup and continuation pair on behalf of a caller:
// it catches the lookup signal, fetches the answer from the advertised
// services and resubmits it for verification.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/hashicorp/go-retryablehttp"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/keyward/keyward/codec"
	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/core"
	"github.com/keyward/keyward/gateway"
)

var (
	// ErrLookupFailed is returned when no service produced an answer.
	ErrLookupFailed = errors.New("offchain lookup failed")
	// ErrNoLookup is returned when resolve did not signal a lookup.
	ErrNoLookup = errors.New("resolve did not request offchain lookup")
)

// maxBody bounds service responses, hex doubles the size of the result.
const maxBody = 2*gateway.MaxResultSize + 1024

// Resolver is the pair of entry points driven by the client.
type Resolver interface {
	Resolve(ctx context.Context, call core.Call, name, data []byte) ([]byte, error)
	ResolveWithProof(ctx context.Context, call core.Call, response, extraData []byte) ([]byte, error)
}

// Config for the client.
type Config struct {
	RetryMax     int           `mapstructure:"retry-max"`
	RetryWaitMin time.Duration `mapstructure:"retry-wait-min"`
	RetryWaitMax time.Duration `mapstructure:"retry-wait-max"`
	CacheSize    int           `mapstructure:"cache-size"`
}

// DefaultConfig for the client.
func DefaultConfig() Config {
	return Config{
		RetryMax:     3,
		RetryWaitMin: 100 * time.Millisecond,
		RetryWaitMax: 2 * time.Second,
		CacheSize:    1024,
	}
}

// A wrapper around zap.Logger to make it compatible with
// retryablehttp.LeveledLogger interface.
type retryableHttpLogger struct {
	inner *zap.Logger
}

func (r retryableHttpLogger) Error(format string, args ...any) {
	r.inner.Sugar().Errorw(format, args...)
}

func (r retryableHttpLogger) Info(format string, args ...any) {
	r.inner.Sugar().Infow(format, args...)
}

func (r retryableHttpLogger) Warn(format string, args ...any) {
	r.inner.Sugar().Warnw(format, args...)
}

func (r retryableHttpLogger) Debug(format string, args ...any) {
	r.inner.Sugar().Debugw(format, args...)
}

// Opt for configuring Client.
type Opt func(*Client)

// WithLogger sets logger.
func WithLogger(logger *zap.Logger) Opt {
	return func(c *Client) {
		c.logger = logger
		c.http.Logger = &retryableHttpLogger{inner: logger}
		c.http.ResponseLogHook = func(_ retryablehttp.Logger, resp *http.Response) {
			c.logger.Debug("response received",
				zap.Stringer("url", resp.Request.URL),
				zap.Int("status", resp.StatusCode),
			)
		}
	}
}

// WithClock sets clock used to expire cached answers.
func WithClock(clock clockwork.Clock) Opt {
	return func(c *Client) {
		c.clock = clock
	}
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(client *http.Client) Opt {
	return func(c *Client) {
		c.http.HTTPClient = client
	}
}

// Client resolves names through Resolver, fetching answers over HTTP.
type Client struct {
	logger   *zap.Logger
	caller   types.Address
	resolver Resolver
	clock    clockwork.Clock
	http     *retryablehttp.Client
	cache    *lru.Cache[string, entry]
}

// entry is a verified answer. Zero expires never expires.
type entry struct {
	result  []byte
	expires time.Time
}

// New creates Client that submits calls as caller.
func New(resolver Resolver, caller types.Address, cfg Config, opts ...Opt) (*Client, error) {
	cache, err := lru.New[string, entry](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	c := &Client{
		logger:   zap.NewNop(),
		caller:   caller,
		resolver: resolver,
		clock:    clockwork.NewRealClock(),
		http: &retryablehttp.Client{
			HTTPClient:   retryablehttp.NewClient().HTTPClient,
			RetryMax:     cfg.RetryMax,
			RetryWaitMin: cfg.RetryWaitMin,
			RetryWaitMax: cfg.RetryWaitMax,
			Backoff:      retryablehttp.LinearJitterBackoff,
			CheckRetry:   retryablehttp.DefaultRetryPolicy,
		},
		cache: cache,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func cacheKey(name, query []byte) string {
	return hexutil.Encode(name) + "/" + hexutil.Encode(query)
}

// Resolve returns the verified answer for name and query.
func (c *Client) Resolve(ctx context.Context, name, query []byte) ([]byte, error) {
	key := cacheKey(name, query)
	if cached, exist := c.cache.Get(key); exist {
		if cached.expires.IsZero() || c.clock.Now().Before(cached.expires) {
			return cached.result, nil
		}
		c.cache.Remove(key)
	}
	call := core.Call{Caller: c.caller}
	_, err := c.resolver.Resolve(ctx, call, name, query)
	var lookup *core.OffchainLookup
	switch {
	case errors.As(err, &lookup):
	case err != nil:
		return nil, err
	default:
		return nil, ErrNoLookup
	}
	if lookup.CallbackFunction != gateway.CallbackFunction {
		return nil, fmt.Errorf("%w: unknown callback %s", ErrLookupFailed, lookup.CallbackFunction)
	}

	var errs []error
	for _, url := range lookup.URLs {
		response, err := c.fetch(ctx, url, lookup.Sender, lookup.CallData)
		if err != nil {
			c.logger.Debug("gateway fetch failed", zap.String("url", url), zap.Error(err))
			errs = append(errs, err)
			var status *statusError
			if errors.As(err, &status) && status.code < http.StatusInternalServerError {
				break
			}
			continue
		}
		result, err := c.resolver.ResolveWithProof(ctx, call, response, lookup.ExtraData)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, entry{result: result, expires: expiry(response, result)})
		return result, nil
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: no urls", ErrLookupFailed)
	}
	return nil, fmt.Errorf("%w: %w", ErrLookupFailed, errors.Join(errs...))
}

// expiry of a verified response. Responses that are not signed envelopes
// around result are cached until evicted.
func expiry(response, result []byte) time.Time {
	var signed gateway.SignedResponse
	if err := codec.Decode(response, &signed); err != nil || !bytes.Equal(signed.Result, result) {
		return time.Time{}
	}
	return time.Unix(int64(signed.Expires), 0)
}

// Purge drops cached answers.
func (c *Client) Purge() {
	c.cache.Purge()
}

type statusError struct {
	code    int
	message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.code, e.message)
}

func (c *Client) fetch(ctx context.Context, template string, sender types.Address, data []byte) ([]byte, error) {
	url, get := gateway.ExpandURL(template, sender, data)
	var (
		req *retryablehttp.Request
		err error
	)
	if get {
		req, err = retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	} else {
		body, merr := json.Marshal(gateway.LookupRequest{
			Sender: sender.Hex(),
			Data:   hexutil.Encode(data),
		})
		if merr != nil {
			return nil, fmt.Errorf("marshaling request body: %w", merr)
		}
		req, err = retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("doing request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		var lerr gateway.LookupError
		if err := json.Unmarshal(body, &lerr); err != nil || lerr.Message == "" {
			lerr.Message = string(body)
		}
		return nil, &statusError{code: res.StatusCode, message: lerr.Message}
	}
	var resp gateway.LookupResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding response body: %w", err)
	}
	result, err := hexutil.Decode(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding response data: %w", err)
	}
	return result, nil
}
