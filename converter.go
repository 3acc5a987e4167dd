package serpwall

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms a filtered page into Markdown. Relative links are
	// resolved against baseURL when it is an absolute URL.
	Convert(html, baseURL string) (string, error)
}
