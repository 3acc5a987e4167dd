package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/serpwall"
	"github.com/fwojciec/serpwall/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements serpwall.Converter at compile time.
var _ serpwall.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts result headings and links", func(t *testing.T) {
		t.Parallel()

		html := `<div class="g"><h3>Best shoes</h3><p><a href="https://shoes.example.com/">shoes.example.com</a> reviewed <strong>daily</strong>.</p></div>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html, "")

		require.NoError(t, err)
		assert.Contains(t, md, "### Best shoes")
		assert.Contains(t, md, "https://shoes.example.com/")
		assert.Contains(t, md, "**daily**")
	})

	t.Run("resolves relative links against the page", func(t *testing.T) {
		t.Parallel()

		html := `<p><a href="/search?q=boots">boots</a></p>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html, "https://www.google.com/search?q=shoes")

		require.NoError(t, err)
		assert.Contains(t, md, "[boots](https://www.google.com/search?q=boots)")
	})

	t.Run("ignores non-URL base", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p>Hello, world!</p>`, "testdata/serp.html")

		require.NoError(t, err)
		assert.Contains(t, md, "Hello, world!")
	})

	t.Run("drops styles and scripts", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><style id="serpwall-style">#rhs{display:none}</style></head>
<body><script>var x = 1;</script><p>Result</p></body></html>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html, "")

		require.NoError(t, err)
		assert.Contains(t, md, "Result")
		assert.NotContains(t, md, "display:none")
		assert.NotContains(t, md, "var x")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<thead><tr><th>Store</th><th>Price</th></tr></thead>
<tbody><tr><td>Alpha</td><td>30</td></tr></tbody>
</table>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html, "")

		require.NoError(t, err)
		assert.Contains(t, md, "Store")
		assert.Contains(t, md, "Alpha")
		assert.Contains(t, md, "|")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.Convert("  ", "")

		require.Error(t, err)
		assert.Equal(t, serpwall.EINVALID, serpwall.ErrorCode(err))
	})
}
