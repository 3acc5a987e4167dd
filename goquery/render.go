package goquery

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Title returns the trimmed text of the <title> element, or "".
func (d *Document) Title() string {
	d.Lock()
	defer d.Unlock()

	n, ok := d.QueryFirst("title")
	if !ok {
		return ""
	}
	return strings.TrimSpace(n.Text())
}

// VisibleHTML renders a copy of the document without the elements carrying
// markerAttr and without the overlay with overlayID. The document itself is
// not changed, so no notifications are produced.
func (d *Document) VisibleHTML(markerAttr, overlayID string) (string, error) {
	d.Lock()
	clone := cloneTree(d.root)
	d.Unlock()

	sel := goquery.NewDocumentFromNode(clone).Selection
	if markerAttr != "" {
		sel.Find("[" + markerAttr + "]").Remove()
	}
	if overlayID != "" {
		sel.Find(overlaySelector(overlayID)).Remove()
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, clone); err != nil {
		return "", fmt.Errorf("rendering document: %w", err)
	}
	return buf.String(), nil
}

func cloneTree(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneTree(child))
	}
	return c
}
