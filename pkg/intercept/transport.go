package intercept

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

var (
	ErrUpstreamRead   = errors.New("failed to read upstream response body")
	ErrUpstreamStatus = errors.New("unexpected upstream status")
)

// ResponseRewriter is something that can inspect a response and replace it.
// A rewriter that doesn't care about a response must return it as-is.
type ResponseRewriter interface {
	RewriteResponse(req *http.Request, resp *http.Response) (*http.Response, error)
}

// RewriterFunc adapts a function to a ResponseRewriter.
type RewriterFunc func(req *http.Request, resp *http.Response) (*http.Response, error)

func (f RewriterFunc) RewriteResponse(req *http.Request, resp *http.Response) (*http.Response, error) {
	return f(req, resp)
}

var _ http.RoundTripper = (*Transport)(nil)

// Transport passes requests to a base http.RoundTripper and runs each response through its rewriters in order.
type Transport struct {
	base      http.RoundTripper
	rewriters []ResponseRewriter
	headers   http.Header
	log       zerolog.Logger
}

// TransportOpt configures a Transport in NewTransport.
// If any TransportOpt returns an error, then construction stops and the error is returned.
type TransportOpt = func(t *Transport) error

// WithBase sets the http.RoundTripper used to perform requests.
// http.DefaultTransport is used if this isn't specified.
func WithBase(base http.RoundTripper) TransportOpt {
	return func(t *Transport) error {
		if base == nil {
			return errors.New("nil base transport")
		}
		t.base = base
		return nil
	}
}

// WithRewriter appends a ResponseRewriter to the chain.
// If no rewriter is given, then a PageImageRewriter with default settings is used.
func WithRewriter(rw ResponseRewriter) TransportOpt {
	return func(t *Transport) error {
		if rw == nil {
			return errors.New("nil response rewriter")
		}
		t.rewriters = append(t.rewriters, rw)
		return nil
	}
}

// WithRequestHeader adds a header to every outgoing request that doesn't already set it.
// The caller's request is cloned rather than modified.
func WithRequestHeader(key, value string) TransportOpt {
	return func(t *Transport) error {
		if len(key) == 0 {
			return errors.New("empty header name")
		}
		t.headers.Add(key, value)
		return nil
	}
}

// WithLogger sets the logger for the Transport and its default rewriter.
func WithLogger(log zerolog.Logger) TransportOpt {
	return func(t *Transport) error {
		t.log = log
		return nil
	}
}

// NewTransport creates a Transport using the options provided as zero or more TransportOpt.
func NewTransport(opts ...TransportOpt) (*Transport, error) {
	t := &Transport{
		base:    http.DefaultTransport,
		headers: http.Header{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	if len(t.rewriters) == 0 {
		rw, err := NewPageImageRewriter(UseLogger(t.log))
		if err != nil {
			return nil, err
		}
		t.rewriters = append(t.rewriters, rw)
	}
	return t, nil
}

// NewClient returns an http.Client that uses a Transport built from opts.
func NewClient(opts ...TransportOpt) (*http.Client, error) {
	t, err := NewTransport(opts...)
	if err != nil {
		return nil, err
	}
	return &http.Client{Transport: t}, nil
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = t.withHeaders(req)
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	for _, rw := range t.rewriters {
		next, err := rw.RewriteResponse(req, resp)
		if err != nil {
			if resp != nil && resp.Body != nil {
				_ = resp.Body.Close()
			}
			t.log.Warn().Err(err).Str("url", req.URL.Redacted()).Msg("failed to rewrite response")
			return nil, err
		}
		resp = next
	}
	return resp, nil
}

func (t *Transport) withHeaders(req *http.Request) *http.Request {
	var missing []string
	for key := range t.headers {
		if _, ok := req.Header[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return req
	}
	req = req.Clone(req.Context())
	if req.Header == nil {
		req.Header = http.Header{}
	}
	for _, key := range missing {
		req.Header[key] = append([]string(nil), t.headers[key]...)
	}
	return req
}

// CheckStatus returns an error wrapping ErrUpstreamStatus if resp doesn't have a 2xx status code.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUpstreamStatus, resp.Status)
}
