package main

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/serpwall"
	"github.com/fwojciec/serpwall/batch"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *serpwall.Config

	Fetcher   serpwall.Fetcher
	Converter serpwall.Converter
	Store     serpwall.PageStore
	Sessions  serpwall.SessionStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `type:"path" env:"SERPWALL_CONFIG" help:"YAML file overlaying the built-in rule tables"`
	Verbose bool   `short:"v" help:"Log debug output to stderr"`

	Clean  CleanCmd  `cmd:"" help:"Filter one results page and print what stays visible"`
	Batch  BatchCmd  `cmd:"" help:"Filter many results pages into an output directory"`
	Replay ReplayCmd `cmd:"" help:"Replay host mutations against a live filtering session"`
	Rules  RulesCmd  `cmd:"" help:"Print the effective configuration"`
}

// PageOptions are shared by the commands that load and filter pages.
type PageOptions struct {
	Format  string        `short:"f" enum:"html,markdown" default:"html" help:"Output format (html, markdown)"`
	Render  bool          `short:"r" help:"Load URLs in a headless browser so late modules are present"`
	Timeout time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	Lang    string        `default:"en-US" help:"Accept-Language sent with fetches"`
	Base    string        `default:"https://www.google.com/search" help:"Address used to classify links in pages read from disk"`
}

func (o PageOptions) cleaner(deps *Dependencies) (*batch.Cleaner, error) {
	base, err := parseBase(o.Base)
	if err != nil {
		return nil, err
	}
	return &batch.Cleaner{
		Config:    deps.Config,
		Converter: deps.Converter,
		Format:    serpwall.Format(o.Format),
		BaseURL:   base,
		Logger:    deps.Logger,
	}, nil
}

func parseBase(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, serpwall.Errorf(serpwall.EINVALID, "invalid base URL %q", raw)
	}
	return u, nil
}

// CleanCmd is the "clean" subcommand.
type CleanCmd struct {
	Source string `arg:"" help:"File, URL, or - for stdin"`
	Stats  bool   `short:"s" help:"Print the filtering report to stderr"`

	PageOptions `embed:""`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	Sources     []string `arg:"" help:"Files or URLs to filter"`
	Out         string   `short:"o" required:"" type:"path" help:"Output directory"`
	Concurrency int      `short:"j" default:"4" help:"Pages processed at once"`
	RPS         float64  `name:"rps" default:"1" help:"Fetches per second per host (0 disables the limit)"`

	PageOptions `embed:""`
}

// ReplayCmd is the "replay" subcommand.
type ReplayCmd struct {
	Page      string        `arg:"" type:"existingfile" help:"Saved results page"`
	Mutations string        `arg:"" help:"JSON-lines mutation script, or - for stdin"`
	Base      string        `default:"https://www.google.com/search" help:"Address the page was loaded from"`
	Start     string        `enum:"on,off,restore" default:"on" help:"Initial toggle state (on, off, restore)"`
	Settle    time.Duration `default:"100ms" help:"Quiet period that ends each step"`
	Print     bool          `short:"p" help:"Print the visible page after the last step"`
	DB        string        `name:"db" env:"SERPWALL_DB" default:":memory:" help:"SQLite database holding session state"`
	Session   string        `help:"Resume an existing session instead of starting one"`
	Keep      bool          `help:"Keep the session after the replay so it can be resumed"`
	MaxAge    time.Duration `name:"max-age" default:"24h" help:"Delete sessions older than this before starting (0 keeps all)"`
}

// RulesCmd is the "rules" subcommand.
type RulesCmd struct {
	Table bool `help:"Print only the phrase table"`
}
