package mock

import (
	"context"

	"github.com/fwojciec/serpwall"
)

var _ serpwall.SessionStore = (*SessionStore)(nil)

// SessionStore is a mock implementation of serpwall.SessionStore.
type SessionStore struct {
	GetFn func(ctx context.Context, key string) (string, error)
	SetFn func(ctx context.Context, key, value string) error
}

func (s *SessionStore) Get(ctx context.Context, key string) (string, error) {
	return s.GetFn(ctx, key)
}

func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	return s.SetFn(ctx, key, value)
}
