package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/serpwall"
	"github.com/fwojciec/serpwall/batch"
	"github.com/fwojciec/serpwall/fs"
	"github.com/fwojciec/serpwall/htmltomarkdown"
	serphttp "github.com/fwojciec/serpwall/http"
	"github.com/fwojciec/serpwall/rod"
	serpslog "github.com/fwojciec/serpwall/slog"
	"github.com/fwojciec/serpwall/sqlite"
	"github.com/fwojciec/serpwall/yaml"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Stdin feeds "-" sources. Defaults to os.Stdin.
	Stdin io.Reader

	// SQLite database holding replay sessions, opened on demand.
	DB *sqlite.DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Stdin: os.Stdin, Now: time.Now}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("serpwall"),
		kong.Description("Hide non-primary modules of search result pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'serpwall --help' to see available commands")
	}
	if len(args) == 1 && (args[0] == "help" || args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps.Config, err = loadConfig(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", serpwall.ErrorMessage(err))
		return err
	}
	deps.Converter = htmltomarkdown.NewConverter()

	switch cmd := strings.Fields(kongCtx.Command())[0]; cmd {
	case "clean":
		if batch.IsURL(cli.Clean.Source) {
			closeFn, err := m.wireFetcher(deps, cli.Clean.PageOptions)
			if err != nil {
				return err
			}
			defer closeFn()
		}

	case "batch":
		if anyURL(cli.Batch.Sources) {
			closeFn, err := m.wireFetcher(deps, cli.Batch.PageOptions)
			if err != nil {
				return err
			}
			defer closeFn()
		}
		out := filepath.Clean(cli.Batch.Out)
		deps.Store = serpslog.NewLoggingPageStore(
			fs.NewFileStore(filepath.Dir(out), filepath.Base(out)),
			deps.Logger,
		)

	case "replay":
		m.DB = sqlite.NewDB(cli.Replay.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set SERPWALL_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cli.Replay.DB, err)
		}
		defer m.Close()

		if err := m.purgeSessions(ctx, cli.Replay.MaxAge, deps.Logger); err != nil {
			fmt.Fprintf(stderr, "error: %s\n", serpwall.ErrorMessage(err))
			return err
		}

		store, err := m.sessionStore(ctx, cli.Replay.Session)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", serpwall.ErrorMessage(err))
			return err
		}
		if cli.Replay.Keep {
			fmt.Fprintf(stderr, "session %s\n", store.ID())
		} else {
			defer func() { _ = store.End(ctx) }()
		}
		deps.Sessions = serpslog.NewLoggingSessionStore(store, deps.Logger)
	}

	return kongCtx.Run(deps)
}

func (m *Main) wireFetcher(deps *Dependencies, opts PageOptions) (func(), error) {
	var f serpwall.Fetcher
	if opts.Render {
		rf, err := rod.NewFetcher(
			rod.WithFetchTimeout(opts.Timeout),
			rod.WithManagerOptions(rod.WithLang(opts.Lang)),
		)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		f = rf
	} else {
		f = serphttp.NewFetcher(
			serphttp.WithTimeout(opts.Timeout),
			serphttp.WithLanguage(opts.Lang),
		)
	}
	deps.Fetcher = serpslog.NewLoggingFetcher(f, deps.Logger)
	return func() { _ = deps.Fetcher.Close() }, nil
}

// purgeSessions drops sessions left behind by earlier runs. A zero maxAge
// keeps everything.
func (m *Main) purgeSessions(ctx context.Context, maxAge time.Duration, logger *slog.Logger) error {
	if maxAge <= 0 {
		return nil
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	n, err := m.DB.PurgeSessions(ctx, now().Add(-maxAge))
	if err != nil {
		return fmt.Errorf("purge sessions: %w", err)
	}
	if n > 0 {
		logger.Debug("purged sessions", "count", n, "max_age", maxAge)
	}
	return nil
}

func (m *Main) sessionStore(ctx context.Context, id string) (*sqlite.SessionStore, error) {
	if id != "" {
		return sqlite.ResumeSessionStore(ctx, m.DB, id)
	}
	return sqlite.NewSessionStore(ctx, m.DB)
}

func loadConfig(path string) (*serpwall.Config, error) {
	if path == "" {
		return serpwall.DefaultConfig(), nil
	}
	return yaml.LoadConfig(path)
}

func anyURL(sources []string) bool {
	for _, s := range sources {
		if batch.IsURL(s) {
			return true
		}
	}
	return false
}
