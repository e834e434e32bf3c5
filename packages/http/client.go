package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	neturl "net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultDialTimeout bounds TCP connection setup when no dialer is given
	DefaultDialTimeout = 30 * time.Second
	// DefaultTLSHandshakeTimeout bounds the TLS handshake
	DefaultTLSHandshakeTimeout = 10 * time.Second
)

type Client struct {
	defaultHeaders Headers
	tlsConfig      *tls.Config
	dialer         *net.Dialer
}

type ClientOption func(*Client)

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		defaultHeaders: make(Headers),
		dialer:         &net.Dialer{Timeout: DefaultDialTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTLSConfig sets the TLS configuration used when a call does not bring
// its own.
func WithTLSConfig(cfg *tls.Config) ClientOption {
	return func(c *Client) {
		c.tlsConfig = cfg
	}
}

func WithDialer(d *net.Dialer) ClientOption {
	return func(c *Client) {
		if d != nil {
			c.dialer = d
		}
	}
}

func WithDefaultHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.defaultHeaders.Set(key, value)
	}
}

// WithDefaultHeaders sets multiple default headers for all requests
func WithDefaultHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.defaultHeaders.Set(k, v)
		}
	}
}

func WithUserAgent(ua string) ClientOption {
	return WithDefaultHeader("User-Agent", ua)
}

// Go starts a call against target and returns immediately.
func (c *Client) Go(ctx context.Context, target string, opts *Options) *Call {
	call := newCall()
	if target == "" {
		c.finish(ctx, call, nil, localError(StatusBadRequest, msgNoURL))
		return call
	}
	t, err := ParseTarget(target)
	if err != nil {
		c.finish(ctx, call, nil, badRequest(err))
		return call
	}
	c.start(ctx, call, t, opts)
	return call
}

// GoURL is Go for an already parsed URL.
func (c *Client) GoURL(ctx context.Context, u *neturl.URL, opts *Options) *Call {
	call := newCall()
	if u == nil {
		c.finish(ctx, call, nil, localError(StatusBadRequest, msgNoURL))
		return call
	}
	t, err := TargetFromURL(u)
	if err != nil {
		c.finish(ctx, call, nil, badRequest(err))
		return call
	}
	c.start(ctx, call, t, opts)
	return call
}

// Do performs a call and waits for it to settle. A non-nil error is always
// an *Error.
func (c *Client) Do(ctx context.Context, target string, opts *Options) (*Response, error) {
	return c.Go(ctx, target, opts).Wait()
}

func (c *Client) DoURL(ctx context.Context, u *neturl.URL, opts *Options) (*Response, error) {
	return c.GoURL(ctx, u, opts).Wait()
}

func (c *Client) Get(ctx context.Context, target string, opts *Options) (*Response, error) {
	return c.Do(ctx, target, opts.withMethod(http.MethodGet))
}

func (c *Client) Post(ctx context.Context, target string, opts *Options) (*Response, error) {
	return c.Do(ctx, target, opts.withMethod(http.MethodPost))
}

func (c *Client) Put(ctx context.Context, target string, opts *Options) (*Response, error) {
	return c.Do(ctx, target, opts.withMethod(http.MethodPut))
}

func (c *Client) Patch(ctx context.Context, target string, opts *Options) (*Response, error) {
	return c.Do(ctx, target, opts.withMethod(http.MethodPatch))
}

func (c *Client) Delete(ctx context.Context, target string, opts *Options) (*Response, error) {
	return c.Do(ctx, target, opts.withMethod(http.MethodDelete))
}

func (c *Client) start(ctx context.Context, call *Call, t *Target, opts *Options) {
	p, perr := prepare(t, opts, c.defaultHeaders)
	if perr != nil {
		c.finish(ctx, call, nil, perr)
		return
	}

	log.FromContext(ctx).Debug("sending request", "method", p.method, "url", t.String(), "bytes", len(p.payload))

	var execCtx context.Context
	var cancel context.CancelFunc
	if p.timeout > 0 {
		execCtx, cancel = context.WithTimeout(ctx, p.timeout)
	} else {
		execCtx, cancel = context.WithCancel(ctx)
	}

	begin := time.Now()

	// Cancellation and timeout race the exchange itself; whichever settles
	// the call first decides the outcome.
	go func() {
		select {
		case <-execCtx.Done():
			if e := interrupted(ctx, execCtx); e != nil {
				e.Duration = time.Since(begin)
				c.finish(ctx, call, nil, e)
			}
		case <-call.Done():
		}
	}()

	go func() {
		defer cancel()
		resp, err := c.exchange(ctx, execCtx, p)
		if err != nil {
			err.Duration = time.Since(begin)
		} else {
			resp.Duration = time.Since(begin)
		}
		c.finish(ctx, call, resp, err)
	}()
}

func (c *Client) finish(ctx context.Context, call *Call, resp *Response, err *Error) {
	if !call.settle(resp, err) {
		return
	}
	logger := log.FromContext(ctx)
	if err != nil {
		logger.Debug("request failed", "status", err.Status, "remote", err.Remote, "message", err.Message)
		return
	}
	logger.Debug("request succeeded", "status", resp.Status, "duration", resp.Duration)
}

func (c *Client) exchange(parent, ctx context.Context, p *prepared) (*Response, *Error) {
	var body io.Reader
	if p.payload != nil {
		body = bytes.NewReader(p.payload)
	}

	req, err := http.NewRequestWithContext(ctx, p.method, "https://"+p.target.Host()+"/", body)
	if err != nil {
		return nil, badRequest(err)
	}
	req.URL.Opaque = requestTarget(p.target)

	for k, v := range p.headers {
		req.Header.Set(k, v)
	}

	tr := c.transport(p)
	defer tr.CloseIdleConnections()

	httpResp, err := tr.RoundTrip(req)
	if err != nil {
		return nil, classifyTransportErr(parent, ctx, err, false)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, classifyTransportErr(parent, ctx, err, true)
	}

	headers := responseHeaders(httpResp.Header)
	decoded, ok := decodeBody(headers.Get("Content-Type"), raw)
	if !ok {
		return nil, &Error{
			Status:   StatusMalformed,
			Remote:   false,
			Message:  msgMalformed,
			Response: decoded,
		}
	}

	message := statusMessage(httpResp)
	if httpResp.StatusCode >= 300 {
		return nil, &Error{
			Status:   httpResp.StatusCode,
			Remote:   true,
			Message:  message,
			Headers:  headers,
			Response: decoded,
		}
	}

	return &Response{
		Status:  httpResp.StatusCode,
		Remote:  true,
		Message: message,
		Headers: headers,
		Body:    decoded,
	}, nil
}

// requestTarget is the request line target, written as-is with the fragment
// included. A path starting with "//" would be read as an authority, so it is
// sent in absolute form instead.
func requestTarget(t *Target) string {
	if strings.HasPrefix(t.Path, "//") {
		return "//" + t.Host() + t.Path
	}
	return t.Path
}

// transport builds a single-use transport: no pooling, no proxy, no HTTP/2
// and no transparent decompression.
func (c *Client) transport(p *prepared) *http.Transport {
	tlsConfig := p.tlsConfig
	if tlsConfig == nil {
		tlsConfig = c.tlsConfig
	}
	if tlsConfig != nil {
		tlsConfig = tlsConfig.Clone()
	}

	return &http.Transport{
		Proxy:               nil,
		DialContext:         c.dialer.DialContext,
		TLSClientConfig:     tlsConfig,
		TLSHandshakeTimeout: DefaultTLSHandshakeTimeout,
		TLSNextProto:        map[string]func(string, *tls.Conn) http.RoundTripper{},
		DisableKeepAlives:   true,
		DisableCompression:  true,
	}
}

// interrupted reports a cancellation or timeout, or nil if ctx is still live
// or was released after the call finished.
func interrupted(parent, ctx context.Context) *Error {
	if parent.Err() != nil {
		return localError(StatusClientAborted, msgClientAborted)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return localError(StatusRequestTimeout, msgTimeout)
	}
	return nil
}

// classifyTransportErr maps a transport error to a failure envelope. afterHeaders is
// true once the status line has been received.
func classifyTransportErr(parent, ctx context.Context, err error, afterHeaders bool) *Error {
	if e := interrupted(parent, ctx); e != nil {
		return e
	}
	if afterHeaders {
		return localError(StatusServerAborted, msgServerAborted)
	}
	return localError(StatusConnectionFailed, "Connection error: "+err.Error())
}

func statusMessage(resp *http.Response) string {
	msg := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))
	msg = strings.TrimSpace(msg)
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return msg
}
