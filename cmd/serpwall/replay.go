package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/serpwall"
	"github.com/fwojciec/serpwall/engine"
	"github.com/fwojciec/serpwall/goquery"
	serpslog "github.com/fwojciec/serpwall/slog"
)

// Step operations understood by replay.
const (
	OpAppend = "append"
	OpRemove = "remove"
	OpOn     = "on"
	OpOff    = "off"
	OpToggle = "toggle"
)

// Step is one line of a replay script.
type Step struct {
	Op     string `json:"op"`
	Target string `json:"target,omitempty"`
	HTML   string `json:"html,omitempty"`
}

// Validate returns an error if the step cannot be replayed.
func (s Step) Validate() error {
	switch s.Op {
	case OpAppend, OpRemove:
		if s.Target == "" {
			return serpwall.Errorf(serpwall.EINVALID, "%s requires a target", s.Op)
		}
	case OpOn, OpOff, OpToggle:
	default:
		return serpwall.Errorf(serpwall.EINVALID, "unknown op %q", s.Op)
	}
	return nil
}

// ParseSteps reads a JSON-lines replay script. Blank lines are skipped.
func ParseSteps(r io.Reader) ([]Step, error) {
	var steps []Step
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 8*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var s Step
		if err := json.Unmarshal(text, &s); err != nil {
			return nil, serpwall.Errorf(serpwall.EINVALID, "line %d: %v", line, err)
		}
		if err := s.Validate(); err != nil {
			return nil, serpwall.Errorf(serpwall.EINVALID, "line %d: %s", line, serpwall.ErrorMessage(err))
		}
		steps = append(steps, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read mutations: %w", err)
	}
	return steps, nil
}

// Run executes the replay command.
func (c *ReplayCmd) Run(deps *Dependencies) error {
	if deps.Sessions == nil {
		return serpwall.Errorf(serpwall.EINVALID, "replay requires a session store")
	}

	doc, steps, err := c.load(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", serpwall.ErrorMessage(err))
		return err
	}

	// The hook runs on the watcher worker, which Toggle OFF waits for, so it
	// must never block.
	runs := make(chan serpwall.Report, 64)
	session := engine.NewSession(doc, deps.Config, deps.Sessions,
		engine.WithSessionLogger(deps.Logger),
		engine.WithFilterDecorator(func(f serpwall.Filter) serpwall.Filter {
			return serpslog.NewLoggingFilter(f, deps.Logger)
		}),
		engine.WithSessionRunHook(func(r serpwall.Report) {
			select {
			case runs <- r:
			default:
			}
		}),
	)
	defer session.Toggle.Detach()

	session.Toggle.Init(deps.Ctx)
	switch c.Start {
	case "on":
		session.Toggle.Set(deps.Ctx, serpwall.On)
	case "off":
		session.Toggle.Set(deps.Ctx, serpwall.Off)
	}
	fmt.Fprintf(deps.Stdout, "0 start: %s hidden=%d\n", session.Toggle.State(), len(session.Engine.Hidden()))

	for i, s := range steps {
		c.apply(deps, session, doc, i+1, s)
		n := settle(runs, c.Settle)
		fmt.Fprintf(deps.Stdout, "%d %s: %s hidden=%d runs=%d\n",
			i+1, describe(s), session.Toggle.State(), len(session.Engine.Hidden()), n)
	}

	fp, err := doc.Fingerprint()
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "fingerprint: %s\n", fp)

	if c.Print {
		visible, err := doc.VisibleHTML(deps.Config.MarkerAttr, deps.Config.OverlayID)
		if err != nil {
			return err
		}
		fmt.Fprintln(deps.Stdout, visible)
	}
	return nil
}

func (c *ReplayCmd) load(deps *Dependencies) (*goquery.Document, []Step, error) {
	base, err := parseBase(c.Base)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(c.Page)
	if err != nil {
		return nil, nil, serpwall.Errorf(serpwall.ENOTFOUND, "cannot open %s", c.Page)
	}
	defer f.Close()
	doc, err := goquery.NewDocument(f, goquery.WithBaseURL(base))
	if err != nil {
		return nil, nil, err
	}

	var r io.Reader
	if c.Mutations == "-" {
		if deps.Stdin == nil {
			return nil, nil, serpwall.Errorf(serpwall.EINVALID, "no input on stdin")
		}
		r = deps.Stdin
	} else {
		mf, err := os.Open(c.Mutations)
		if err != nil {
			return nil, nil, serpwall.Errorf(serpwall.ENOTFOUND, "cannot open %s", c.Mutations)
		}
		defer mf.Close()
		r = mf
	}

	steps, err := ParseSteps(r)
	if err != nil {
		return nil, nil, err
	}
	return doc, steps, nil
}

// apply performs one step. Host mutations that miss are reported and the
// replay continues, as a page would.
func (c *ReplayCmd) apply(deps *Dependencies, session *engine.Session, doc *goquery.Document, n int, s Step) {
	switch s.Op {
	case OpAppend:
		if err := doc.AppendHTML(s.Target, s.HTML); err != nil {
			fmt.Fprintf(deps.Stderr, "step %d: %s\n", n, serpwall.ErrorMessage(err))
		}
	case OpRemove:
		if doc.Remove(s.Target) == 0 {
			fmt.Fprintf(deps.Stderr, "step %d: no element matches %q\n", n, s.Target)
		}
	case OpOn:
		session.Toggle.Set(deps.Ctx, serpwall.On)
	case OpOff:
		session.Toggle.Set(deps.Ctx, serpwall.Off)
	case OpToggle:
		session.Toggle.Flip(deps.Ctx)
	}
}

// settle counts watcher runs until none arrives for quiet.
func settle(runs <-chan serpwall.Report, quiet time.Duration) int {
	n := 0
	timer := time.NewTimer(quiet)
	defer timer.Stop()
	for {
		select {
		case <-runs:
			n++
			timer.Reset(quiet)
		case <-timer.C:
			return n
		}
	}
}

func describe(s Step) string {
	if s.Target == "" {
		return s.Op
	}
	return strings.Join([]string{s.Op, s.Target}, " ")
}
