package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/serpwall"
	"github.com/fwojciec/serpwall/engine"
	"github.com/fwojciec/serpwall/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects the calls made on mock collaborators in order.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func recordingMocks(rec *recorder) (*mock.Filter, *mock.Watcher) {
	filter := &mock.Filter{
		RunFn: func() serpwall.Report {
			rec.add("run")
			return serpwall.Report{}
		},
		ClearFn: func() { rec.add("clear") },
	}
	watcher := &mock.Watcher{
		StartFn: func() { rec.add("start") },
		StopFn:  func() { rec.add("stop") },
	}
	return filter, watcher
}

// memoryStore returns a session store backed by a map.
func memoryStore() *mock.SessionStore {
	var mu sync.Mutex
	values := make(map[string]string)
	return &mock.SessionStore{
		GetFn: func(_ context.Context, key string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			v, ok := values[key]
			if !ok {
				return "", serpwall.Errorf(serpwall.ENOTFOUND, "key %q not set", key)
			}
			return v, nil
		},
		SetFn: func(_ context.Context, key, value string) error {
			mu.Lock()
			defer mu.Unlock()
			values[key] = value
			return nil
		},
	}
}

func TestToggle_Init(t *testing.T) {
	t.Parallel()

	t.Run("missing state means off and clears", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		filter, watcher := recordingMocks(rec)
		tg := engine.NewToggle(filter, watcher, memoryStore())

		state := tg.Init(context.Background())

		assert.Equal(t, serpwall.Off, state)
		assert.Equal(t, []string{"stop", "clear"}, rec.list())
	})

	t.Run("stored on state resumes filtering", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		filter, watcher := recordingMocks(rec)
		store := memoryStore()
		require.NoError(t, store.Set(context.Background(), serpwall.DefaultSessionKey, "1"))
		tg := engine.NewToggle(filter, watcher, store)

		state := tg.Init(context.Background())

		assert.Equal(t, serpwall.On, state)
		assert.Equal(t, []string{"run", "start"}, rec.list())
	})

	t.Run("store failure falls back to off", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		filter, watcher := recordingMocks(rec)
		store := &mock.SessionStore{
			GetFn: func(context.Context, string) (string, error) {
				return "", errors.New("storage unavailable")
			},
		}
		tg := engine.NewToggle(filter, watcher, store)

		assert.Equal(t, serpwall.Off, tg.Init(context.Background()))
		assert.Equal(t, []string{"stop", "clear"}, rec.list())
	})
}

func TestToggle_Set(t *testing.T) {
	t.Parallel()

	t.Run("on runs before starting the watcher and persists", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		filter, watcher := recordingMocks(rec)
		store := memoryStore()
		tg := engine.NewToggle(filter, watcher, store)

		tg.Set(context.Background(), serpwall.On)

		v, err := store.Get(context.Background(), serpwall.DefaultSessionKey)
		require.NoError(t, err)
		assert.Equal(t, "1", v)
		assert.Equal(t, serpwall.On, tg.State())
		assert.Equal(t, []string{"run", "start"}, rec.list())
	})

	t.Run("off stops the watcher before clearing and persists", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		filter, watcher := recordingMocks(rec)
		store := memoryStore()
		tg := engine.NewToggle(filter, watcher, store)
		tg.Set(context.Background(), serpwall.On)

		tg.Set(context.Background(), serpwall.Off)

		v, err := store.Get(context.Background(), serpwall.DefaultSessionKey)
		require.NoError(t, err)
		assert.Equal(t, "0", v)
		assert.Equal(t, []string{"run", "start", "stop", "clear"}, rec.list())
	})

	t.Run("setting the current state is a no-op", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		filter, watcher := recordingMocks(rec)
		tg := engine.NewToggle(filter, watcher, memoryStore())

		tg.Set(context.Background(), serpwall.Off)

		assert.Empty(t, rec.list())
	})

	t.Run("store failure does not block the transition", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		filter, watcher := recordingMocks(rec)
		store := &mock.SessionStore{
			SetFn: func(context.Context, string, string) error {
				return errors.New("storage unavailable")
			},
		}
		tg := engine.NewToggle(filter, watcher, store)

		tg.Set(context.Background(), serpwall.On)

		assert.Equal(t, serpwall.On, tg.State())
	})

	t.Run("uses the configured key", func(t *testing.T) {
		t.Parallel()

		filter, watcher := recordingMocks(&recorder{})
		var gotKey string
		store := &mock.SessionStore{
			SetFn: func(_ context.Context, key, _ string) error {
				gotKey = key
				return nil
			},
		}
		tg := engine.NewToggle(filter, watcher, store, engine.WithSessionKey("custom"))

		tg.Set(context.Background(), serpwall.On)

		assert.Equal(t, "custom", gotKey)
	})
}

func TestToggle_Flip(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	filter, watcher := recordingMocks(rec)
	tg := engine.NewToggle(filter, watcher, memoryStore())

	assert.Equal(t, serpwall.On, tg.Flip(context.Background()))
	assert.Equal(t, serpwall.Off, tg.Flip(context.Background()))
	assert.Equal(t, []string{"run", "start", "stop", "clear"}, rec.list())
}

func TestToggle_Detach(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	filter, watcher := recordingMocks(rec)
	tg := engine.NewToggle(filter, watcher, memoryStore())
	tg.Set(context.Background(), serpwall.On)

	tg.Detach()

	assert.Equal(t, serpwall.On, tg.State())
	assert.Equal(t, []string{"run", "start", "stop"}, rec.list())
}

func TestSession(t *testing.T) {
	t.Parallel()

	t.Run("on then off restores the document", func(t *testing.T) {
		t.Parallel()

		doc := mustDocument(t, serp)
		before := fingerprint(t, doc)
		s := engine.NewSession(doc, nil, memoryStore())
		ctx := context.Background()

		s.Toggle.Set(ctx, serpwall.On)
		require.NotEmpty(t, s.Engine.Hidden())
		require.True(t, s.Watcher.Running())

		s.Toggle.Set(ctx, serpwall.Off)

		assert.False(t, s.Watcher.Running())
		assert.Empty(t, s.Engine.Hidden())
		assert.Equal(t, before, fingerprint(t, doc))
	})

	t.Run("hides late content while on", func(t *testing.T) {
		t.Parallel()

		doc := mustDocument(t, serp)
		s := engine.NewSession(doc, nil, memoryStore())
		ctx := context.Background()
		s.Toggle.Set(ctx, serpwall.On)
		defer s.Toggle.Detach()

		require.NoError(t, doc.AppendHTML("#rso", `<div id="late" jscontroller="l"><h3>Videos</h3></div>`))

		require.Eventually(t, func() bool {
			doc.Lock()
			late, ok := doc.QueryFirst("#late")
			doc.Unlock()
			return ok && s.Engine.IsHidden(late)
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("late content stays visible after off", func(t *testing.T) {
		t.Parallel()

		doc := mustDocument(t, serp)
		s := engine.NewSession(doc, nil, memoryStore())
		ctx := context.Background()
		s.Toggle.Set(ctx, serpwall.On)
		s.Toggle.Set(ctx, serpwall.Off)

		require.NoError(t, doc.AppendHTML("#rso", `<div id="late" jscontroller="l"><h3>Videos</h3></div>`))

		assert.Never(t, func() bool { return len(s.Engine.Hidden()) > 0 }, 50*time.Millisecond, 5*time.Millisecond)
	})

	t.Run("init restores the persisted state", func(t *testing.T) {
		t.Parallel()

		store := memoryStore()
		ctx := context.Background()
		first := engine.NewSession(mustDocument(t, serp), nil, store)
		first.Toggle.Set(ctx, serpwall.On)
		first.Toggle.Detach()

		next := engine.NewSession(mustDocument(t, serp), nil, store)
		state := next.Toggle.Init(ctx)
		defer next.Toggle.Detach()

		assert.Equal(t, serpwall.On, state)
		assert.NotEmpty(t, next.Engine.Hidden())
	})

	t.Run("decorator sees every run", func(t *testing.T) {
		t.Parallel()

		var runs int
		doc := mustDocument(t, serp)
		s := engine.NewSession(doc, nil, memoryStore(), engine.WithFilterDecorator(func(f serpwall.Filter) serpwall.Filter {
			return &mock.Filter{
				RunFn: func() serpwall.Report {
					runs++
					return f.Run()
				},
				ClearFn: f.Clear,
			}
		}))

		s.Toggle.Set(context.Background(), serpwall.On)
		s.Toggle.Set(context.Background(), serpwall.Off)

		assert.Equal(t, 1, runs)
	})
}
