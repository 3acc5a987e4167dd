// Package batch cleans search-result pages outside a live browser session:
// it fetches or reads each source, runs one filtering pass over it and keeps
// what stays visible.
package batch

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/fwojciec/serpwall"
	"github.com/fwojciec/serpwall/engine"
	"github.com/fwojciec/serpwall/goquery"
)

// Cleaner turns the HTML of one results page into a filtered Page.
type Cleaner struct {
	// Config drives the engine. Nil uses serpwall.DefaultConfig.
	Config *serpwall.Config

	// Converter is required for serpwall.FormatMarkdown.
	Converter serpwall.Converter

	// Format of the produced page. Defaults to serpwall.FormatHTML.
	Format serpwall.Format

	// BaseURL is used to classify links when the source is not itself an
	// absolute URL, e.g. a saved page on disk.
	BaseURL *url.URL

	Logger *slog.Logger
}

// Clean filters html and returns the visible remainder. Hidden modules and
// the style overlay are left out of Content.
func (c *Cleaner) Clean(ctx context.Context, source, html string) (*serpwall.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := c.Config
	if cfg == nil {
		cfg = serpwall.DefaultConfig()
	}
	format := c.Format
	if format == "" {
		format = serpwall.FormatHTML
	}
	if format == serpwall.FormatMarkdown && c.Converter == nil {
		return nil, serpwall.Errorf(serpwall.EINVALID, "markdown output requires a converter")
	}

	base := c.baseFor(source)
	doc, err := goquery.NewDocumentFromString(html, goquery.WithBaseURL(base))
	if err != nil {
		return nil, err
	}

	before, err := doc.Fingerprint()
	if err != nil {
		return nil, err
	}
	report := engine.New(doc, cfg, engine.WithLogger(c.logger())).Run()
	after, err := doc.Fingerprint()
	if err != nil {
		return nil, err
	}

	content, err := doc.VisibleHTML(cfg.MarkerAttr, cfg.OverlayID)
	if err != nil {
		return nil, err
	}
	if format == serpwall.FormatMarkdown {
		var baseURL string
		if base != nil {
			baseURL = base.String()
		}
		content, err = c.Converter.Convert(content, baseURL)
		if err != nil {
			return nil, err
		}
	}

	return &serpwall.Page{
		Source:  source,
		Title:   doc.Title(),
		Format:  format,
		Content: content,
		Report:  report,
		Before:  before,
		After:   after,
	}, nil
}

func (c *Cleaner) baseFor(source string) *url.URL {
	if u, ok := parseURL(source); ok {
		return u
	}
	return c.BaseURL
}

func (c *Cleaner) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

// IsURL reports whether source is an absolute http(s) URL rather than a path.
func IsURL(source string) bool {
	_, ok := parseURL(source)
	return ok
}

func parseURL(source string) (*url.URL, bool) {
	source = strings.TrimSpace(source)
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return nil, false
	}
	u, err := url.Parse(source)
	if err != nil || u.Host == "" {
		return nil, false
	}
	return u, true
}
