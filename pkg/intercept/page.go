package intercept

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/saylorsolutions/ikcx/pkg/ikc"
)

const (
	// DefaultSuffix is appended by the content service to page image URLs that serve obfuscated payloads.
	DefaultSuffix = "w1600.ikc"
	MediaTypeWebP = "image/webp"

	maxSizeHint = 64 << 20
	// Matches http.Client's default redirect limit.
	maxRedirectHops = 10
)

var _ ResponseRewriter = (*PageImageRewriter)(nil)

// PageImageRewriter decodes page image responses into WebP.
type PageImageRewriter struct {
	suffix string
	decode func([]byte) ([]byte, error)
	log    zerolog.Logger
}

type PageImageOpt = func(rw *PageImageRewriter) error

// UseSuffix overrides DefaultSuffix.
func UseSuffix(suffix string) PageImageOpt {
	return func(rw *PageImageRewriter) error {
		if len(suffix) == 0 {
			return errors.New("empty page image suffix")
		}
		rw.suffix = suffix
		return nil
	}
}

func UseLogger(log zerolog.Logger) PageImageOpt {
	return func(rw *PageImageRewriter) error {
		rw.log = log
		return nil
	}
}

func NewPageImageRewriter(opts ...PageImageOpt) (*PageImageRewriter, error) {
	rw := &PageImageRewriter{
		suffix: DefaultSuffix,
		decode: ikc.Decode,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		if err := opt(rw); err != nil {
			return nil, err
		}
	}
	return rw, nil
}

// Matches reports whether the request URL, or the URL of any request that redirected to it, ends with the page image suffix.
func (rw *PageImageRewriter) Matches(req *http.Request) bool {
	for hops := 0; req != nil && hops <= maxRedirectHops; hops++ {
		if req.URL != nil && strings.HasSuffix(req.URL.String(), rw.suffix) {
			return true
		}
		if req.Response == nil {
			return false
		}
		req = req.Response.Request
	}
	return false
}

// RewriteResponse reads the whole body of a matching response and returns a copy of resp with the decoded body.
// The original body is consumed and closed, so it must not be read again.
// Status, protocol, trailers, and all other headers are carried over.
// Content-Type is set to image/webp and the content length is set to match the new body.
// Responses without a 2xx status, including redirects, are returned unchanged.
func (rw *PageImageRewriter) RewriteResponse(req *http.Request, resp *http.Response) (*http.Response, error) {
	if resp == nil || resp.StatusCode < 200 || resp.StatusCode > 299 || !rw.Matches(req) {
		return resp, nil
	}
	raw, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstreamRead, req.URL.Redacted(), err)
	}
	decoded, err := rw.decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", req.URL.Redacted(), err)
	}

	out := new(http.Response)
	*out = *resp
	out.Header = resp.Header.Clone()
	if out.Header == nil {
		out.Header = http.Header{}
	}
	out.Header.Set("Content-Type", MediaTypeWebP)
	out.Header.Set("Content-Length", strconv.Itoa(len(decoded)))
	out.ContentLength = int64(len(decoded))
	out.Body = io.NopCloser(bytes.NewReader(decoded))

	rw.log.Debug().
		Str("url", req.URL.Redacted()).
		Bool("obfuscated", ikc.IsObfuscated(raw)).
		Str("received", humanize.Bytes(uint64(len(raw)))).
		Str("decoded", humanize.Bytes(uint64(len(decoded)))).
		Msg("rewrote page image")
	return out, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	if resp.Body == nil {
		return nil, nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	var buf bytes.Buffer
	if resp.ContentLength > 0 {
		buf.Grow(int(min(resp.ContentLength, maxSizeHint)))
	}
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
