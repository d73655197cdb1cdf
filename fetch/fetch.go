// Package fetch issues abortable HTTP requests. Begin returns a ticket:
// a future for the response paired with an idempotent cancel function.
// Non-2xx responses are classified into a small error taxonomy unless the
// caller supplies a status handler that owns the outcome.
package fetch

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/unkn0wn-root/memoflight"
	"github.com/unkn0wn-root/memoflight/future"
)

// Client wraps net/http with JSON-oriented defaults. Safe for concurrent
// use. The zero-config New is ready to go.
type Client struct {
	hc      *http.Client
	log     memoflight.Logger
	base    string
	headers http.Header
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

func WithLogger(l memoflight.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithBaseURL prefixes relative request URLs.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.base = strings.TrimRight(base, "/") }
}

// WithHeader adds a default header sent on every request unless the
// request sets the same key itself.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers.Set(key, value) }
}

func New(opts ...Option) *Client {
	c := &Client{
		hc:      &http.Client{Timeout: 30 * time.Second},
		log:     memoflight.NopLogger{},
		headers: http.Header{},
	}
	c.headers.Set("Accept", "application/json")
	c.headers.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Response is a fully-read HTTP response. Headers flattens the header map
// to single string values (multi-values joined with ", ") for callers that
// want a plain mapping; Header keeps the canonical form.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Headers    map[string]string
	Body       []byte
}

// StatusHandler owns the outcome of a non-2xx response when supplied: the
// wrapper performs no classification and the handler's return values
// settle the ticket. The response body is readable.
type StatusHandler func(resp *http.Response, url string, req *http.Request) (*Response, error)

type reqOptions struct {
	header   http.Header
	onStatus StatusHandler
}

type RequestOption func(*reqOptions)

func WithRequestHeader(key, value string) RequestOption {
	return func(o *reqOptions) { o.header.Set(key, value) }
}

func WithStatusHandler(h StatusHandler) RequestOption {
	return func(o *reqOptions) { o.onStatus = h }
}

// Begin issues the request and returns its ticket. The cancel function
// aborts the in-flight request (the future then rejects with the transport
// error); calling it after settlement is a harmless no-op, and callers
// should defer it to release the request context either way.
func (c *Client) Begin(ctx context.Context, method, url string, body io.Reader, opts ...RequestOption) (*future.Future[*Response], context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	f := future.New[*Response]()

	ro := reqOptions{header: http.Header{}}
	for _, opt := range opts {
		opt(&ro)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(url), body)
	if err != nil {
		f.Reject(err)
		return f, cancel
	}
	for k, vs := range ro.header {
		req.Header[k] = vs
	}
	// defaults apply only where the request did not speak
	for k, vs := range c.headers {
		if req.Header.Get(k) == "" {
			req.Header[k] = vs
		}
	}

	go c.run(f, req, ro.onStatus)
	return f, cancel
}

func (c *Client) run(f *future.Future[*Response], req *http.Request, onStatus StatusHandler) {
	resp, err := c.hc.Do(req)
	if err != nil {
		// transport failure or cancellation
		f.Reject(err)
		return
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		f.Reject(err)
		return
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		url := req.URL.String()
		if onStatus != nil {
			resp.Body = io.NopCloser(strings.NewReader(string(b)))
			out, herr := onStatus(resp, url, req)
			if herr != nil {
				f.Reject(herr)
				return
			}
			f.Resolve(out)
			return
		}
		serr := classify(resp.StatusCode, url)
		c.log.Debug("request failed", memoflight.Fields{"url": url, "status": resp.StatusCode, "kind": serr.Kind.String()})
		f.Reject(serr)
		return
	}

	f.Resolve(&Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Headers:    flattenHeader(resp.Header),
		Body:       b,
	})
}

// Do is the synchronous form of Begin.
func (c *Client) Do(ctx context.Context, method, url string, body io.Reader, opts ...RequestOption) (*Response, error) {
	f, cancel := c.Begin(ctx, method, url, body, opts...)
	defer cancel()
	return f.Wait(ctx)
}

func (c *Client) Get(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil, opts...)
}

func (c *Client) Post(ctx context.Context, url string, body io.Reader, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, url, body, opts...)
}

func (c *Client) resolve(url string) string {
	if c.base == "" || strings.Contains(url, "://") {
		return url
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return c.base + url
}

func flattenHeader(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vs := range h {
		out[k] = strings.Join(vs, ", ")
	}
	return out
}
