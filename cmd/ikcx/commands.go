package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/saylorsolutions/ikcx/pkg/ikc"
	"github.com/saylorsolutions/ikcx/pkg/intercept"
	"github.com/saylorsolutions/ikcx/pkg/riff"
)

const (
	extWebP = ".webp"
	extIKC  = ".ikc"
)

type runner struct {
	cfg *Config
	log zerolog.Logger
}

func (r *runner) forEach(ctx context.Context, inputs []string, fn func(ctx context.Context, input string) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Jobs)
	for _, input := range inputs {
		input := input
		g.Go(func() error {
			if err := fn(ctx, input); err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (r *runner) decode(ctx context.Context, inputs []string) error {
	return r.forEach(ctx, inputs, func(_ context.Context, input string) error {
		data, err := os.ReadFile(input)
		if err != nil {
			return err
		}
		out, err := ikc.Decode(data)
		if err != nil {
			return err
		}
		return r.write(outputPath(r.cfg.OutDir, input, extWebP), data, out)
	})
}

func (r *runner) encode(ctx context.Context, inputs []string) error {
	return r.forEach(ctx, inputs, func(_ context.Context, input string) error {
		data, err := os.ReadFile(input)
		if err != nil {
			return err
		}
		out, err := ikc.Encode(data)
		if err != nil {
			return err
		}
		return r.write(outputPath(r.cfg.OutDir, input, extIKC), data, out)
	})
}

func (r *runner) fetch(ctx context.Context, urls []string) error {
	opts := append(r.cfg.transportOpts(), intercept.WithLogger(r.log))
	if r.cfg.Suffix != intercept.DefaultSuffix {
		rw, err := intercept.NewPageImageRewriter(intercept.UseSuffix(r.cfg.Suffix), intercept.UseLogger(r.log))
		if err != nil {
			return err
		}
		opts = append(opts, intercept.WithRewriter(rw))
	}
	client, err := intercept.NewClient(opts...)
	if err != nil {
		return err
	}
	client.Timeout = r.cfg.Timeout

	return r.forEach(ctx, urls, func(ctx context.Context, target string) error {
		u, err := url.Parse(target)
		if err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer func() {
			_ = resp.Body.Close()
		}()
		if err := intercept.CheckStatus(resp); err != nil {
			return err
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: %w", intercept.ErrUpstreamRead, err)
		}
		dir := r.cfg.OutDir
		if len(dir) == 0 {
			dir = "."
		}
		return r.write(filepath.Join(dir, fetchName(u, r.cfg.Suffix)), nil, data)
	})
}

func (r *runner) write(target string, in, out []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(target, out, 0644); err != nil {
		return err
	}
	ev := r.log.Info().Str("file", target).Str("size", humanize.Bytes(uint64(len(out))))
	if in != nil {
		ev = ev.Str("input", humanize.Bytes(uint64(len(in))))
	}
	if h, err := riff.Sniff(out); err == nil {
		ev = ev.Stringer("form", h.Form)
	}
	ev.Msg("wrote file")
	return nil
}

// outputPath swaps the extension of input for ext, placing it in dir if one is given.
func outputPath(dir, input, ext string) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ext
	if len(dir) == 0 {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name)
}

// fetchName derives a file name from a page image URL.
// Page image URLs end with a fixed suffix, so the preceding path segment is used to tell pages apart.
func fetchName(u *url.URL, suffix string) string {
	p := strings.TrimSuffix(u.Path, "/")
	if strings.HasSuffix(p, suffix) {
		p = strings.TrimSuffix(p, suffix)
		p = strings.TrimSuffix(p, "/")
	}
	base := path.Base(p)
	if base == "." || base == "/" || len(base) == 0 {
		base = "page"
	}
	return strings.TrimSuffix(base, path.Ext(base)) + extWebP
}
