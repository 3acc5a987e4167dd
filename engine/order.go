package engine

import (
	"net/url"
	"slices"
	"strings"

	"github.com/fwojciec/serpwall"
)

// redirectParams carry the destination of a host-relative redirect link.
var redirectParams = []string{"q", "url"}

// FirstOrganicAnchor returns the first link in zone, in document order, that
// points outside the host site and is not inside a promotional container.
func FirstOrganicAnchor(zone serpwall.Node, base *url.URL, cfg *serpwall.Config) (serpwall.Node, bool) {
	if zone == nil {
		return nil, false
	}

	promo := strings.Join(cfg.PromoContainers, ", ")
	for _, a := range zone.FindAll("a[href]") {
		href, _ := a.Attr("href")
		if !IsExternalLink(base, href, cfg.RedirectPaths) {
			continue
		}
		if promo != "" && insidePromo(a, zone, promo) {
			continue
		}
		return a, true
	}
	return nil, false
}

// FirstOrganicBlock returns the direct child of zone containing the first
// organic anchor.
func FirstOrganicBlock(zone serpwall.Node, base *url.URL, cfg *serpwall.Config) (serpwall.Node, bool) {
	anchor, ok := FirstOrganicAnchor(zone, base, cfg)
	if !ok {
		return nil, false
	}

	cur := anchor
	for {
		p, ok := cur.Parent()
		if !ok {
			return nil, false
		}
		if p == zone {
			return cur, true
		}
		cur = p
	}
}

// insidePromo reports whether n or any ancestor below zone matches promo.
func insidePromo(n, zone serpwall.Node, promo string) bool {
	for cur := n; cur != zone; {
		if cur.Matches(promo) {
			return true
		}
		p, ok := cur.Parent()
		if !ok {
			return false
		}
		cur = p
	}
	return false
}

// IsExternalLink reports whether href leads off the host site. Relative links
// resolve against base. Links to a redirect path on the host site are judged
// by the destination in their q or url parameter. With a nil base every
// absolute http(s) link is external.
func IsExternalLink(base *url.URL, href string, redirectPaths []string) bool {
	href = strings.TrimSpace(href)
	if href == "" || isNonHTTPLink(href) {
		return false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return false
	}
	target := ref
	if base != nil {
		target = base.ResolveReference(ref)
	}

	if target.Scheme != "http" && target.Scheme != "https" {
		return false
	}
	if target.Host == "" {
		return false
	}
	if base == nil || !sameSite(base.Hostname(), target.Hostname()) {
		return true
	}

	if slices.Contains(redirectPaths, target.Path) {
		q := target.Query()
		for _, key := range redirectParams {
			if dest := q.Get(key); dest != "" {
				return IsExternalLink(base, dest, nil)
			}
		}
	}
	return false
}

// sameSite treats a host and its subdomains as one site, ignoring "www.".
func sameSite(a, b string) bool {
	a = strings.TrimPrefix(strings.ToLower(a), "www.")
	b = strings.TrimPrefix(strings.ToLower(b), "www.")
	if a == "" || b == "" {
		return a == b
	}
	return a == b || strings.HasSuffix(a, "."+b) || strings.HasSuffix(b, "."+a)
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "#")
}
