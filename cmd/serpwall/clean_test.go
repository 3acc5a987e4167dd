package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/serpwall"
	main "github.com/fwojciec/serpwall/cmd/serpwall"
	"github.com/fwojciec/serpwall/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanOptions() main.PageOptions {
	return main.PageOptions{Format: "html", Base: "https://www.google.com/search"}
}

func TestCleanCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("fetches URL sources", func(t *testing.T) {
		t.Parallel()

		var fetched string
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Config: serpwall.DefaultConfig(),
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					fetched = url
					return serp, nil
				},
			},
		}

		cmd := &main.CleanCmd{Source: "https://www.google.com/search?q=shoes", PageOptions: cleanOptions()}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "https://www.google.com/search?q=shoes", fetched)
		assert.Contains(t, stdout.String(), "Best shoes")
		assert.NotContains(t, stdout.String(), "People also ask")
	})

	t.Run("missing file is reported", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Config: serpwall.DefaultConfig(),
		}

		cmd := &main.CleanCmd{Source: "/nonexistent/page.html", PageOptions: cleanOptions()}
		err := cmd.Run(deps)

		assert.Equal(t, serpwall.ENOTFOUND, serpwall.ErrorCode(err))
		assert.Contains(t, stderr.String(), "no such file")
	})

	t.Run("URL without fetcher is invalid", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Config: serpwall.DefaultConfig(),
		}

		cmd := &main.CleanCmd{Source: "https://www.google.com/search?q=shoes", PageOptions: cleanOptions()}
		err := cmd.Run(deps)

		assert.Equal(t, serpwall.EINVALID, serpwall.ErrorCode(err))
	})

	t.Run("converts to markdown", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdin:  bytes.NewBufferString(serp),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Config: serpwall.DefaultConfig(),
			Converter: &mock.Converter{
				ConvertFn: func(_, _ string) (string, error) {
					return "converted", nil
				},
			},
		}

		opts := cleanOptions()
		opts.Format = "markdown"
		cmd := &main.CleanCmd{Source: "-", PageOptions: opts}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "converted", stdout.String())
	})

	t.Run("rejects an invalid base URL", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdin:  bytes.NewBufferString(serp),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Config: serpwall.DefaultConfig(),
		}

		opts := cleanOptions()
		opts.Base = "not a url"
		cmd := &main.CleanCmd{Source: "-", PageOptions: opts}
		err := cmd.Run(deps)

		assert.Equal(t, serpwall.EINVALID, serpwall.ErrorCode(err))
	})
}
