package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/serpwall"
)

// Ensure FileStore implements serpwall.PageStore at compile time.
var _ serpwall.PageStore = (*FileStore)(nil)

// FileStore implements serpwall.PageStore with atomic update semantics.
// Pages are saved to a temporary directory, then moved atomically on Commit.
type FileStore struct {
	baseDir string
	name    string
	now     func() time.Time
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
		now:     time.Now,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes the page below the temporary directory.
func (s *FileStore) Save(ctx context.Context, page *serpwall.Page) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := page.Validate(); err != nil {
		return err
	}

	relPath, err := SourceToPath(page.Source, page.Format)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	content := page.Content
	if page.Format == serpwall.FormatMarkdown {
		content = FormatPage(page, s.now())
	}
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// FormatPage formats a Markdown page with YAML frontmatter describing the
// filtering pass.
func FormatPage(page *serpwall.Page, filtered time.Time) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(page.Source)
	b.WriteString("\ntitle: ")
	b.WriteString(page.Title)
	b.WriteString("\nfiltered: ")
	b.WriteString(filtered.Format("2006-01-02"))
	fmt.Fprintf(&b, "\nhidden: %d", page.Report.Hidden)
	fmt.Fprintf(&b, "\nstructural: %d", page.Report.Structural)
	if page.Before != "" {
		b.WriteString("\nbefore: ")
		b.WriteString(page.Before)
	}
	if page.After != "" {
		b.WriteString("\nafter: ")
		b.WriteString(page.After)
	}
	b.WriteString("\n---\n\n")
	b.WriteString(page.Content)
	return b.String()
}

// Commit replaces the final directory with the temporary one.
func (s *FileStore) Commit() error {
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards everything saved since the last commit.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
