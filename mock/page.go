package mock

import (
	"context"

	"github.com/fwojciec/serpwall"
)

var _ serpwall.PageStore = (*PageStore)(nil)

// PageStore is a mock implementation of serpwall.PageStore.
type PageStore struct {
	SaveFn   func(ctx context.Context, page *serpwall.Page) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *PageStore) Save(ctx context.Context, page *serpwall.Page) error {
	return s.SaveFn(ctx, page)
}

func (s *PageStore) Commit() error {
	return s.CommitFn()
}

func (s *PageStore) Abort() error {
	return s.AbortFn()
}
