// Package fs provides file-based storage for filtered pages.
package fs

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/fwojciec/serpwall"
)

// Ext returns the file extension for a page format.
func Ext(format serpwall.Format) string {
	if format == serpwall.FormatMarkdown {
		return ".md"
	}
	return ".html"
}

// SourceToPath converts a page source to a relative file path.
//
// URLs keep their host and path; the search query becomes the file name:
// https://www.google.com/search?q=Running+Shoes → www.google.com/search/running-shoes.md
// Local files keep their base name with the extension of the output format.
func SourceToPath(source string, format serpwall.Format) (string, error) {
	ext := Ext(format)

	u, err := url.Parse(source)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		base := filepath.Base(source)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
			return "", serpwall.Errorf(serpwall.EINVALID, "cannot derive file name from %q", source)
		}
		return name + ext, nil
	}

	if hasTraversal(u.Path) {
		return "", serpwall.Errorf(serpwall.EINVALID, "path traversal in %q", source)
	}

	dir := strings.Trim(u.Path, "/")
	if q := u.Query().Get("q"); q != "" {
		return path.Join(u.Hostname(), dir, slug(q)+ext), nil
	}
	if dir == "" {
		return path.Join(u.Hostname(), "index"+ext), nil
	}
	return path.Join(u.Hostname(), dir+ext), nil
}

func hasTraversal(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

// slug lowercases s and joins its letter and digit runs with dashes.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "index"
	}
	return b.String()
}
