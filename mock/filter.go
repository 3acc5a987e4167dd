package mock

import "github.com/fwojciec/serpwall"

var (
	_ serpwall.Filter  = (*Filter)(nil)
	_ serpwall.Watcher = (*Watcher)(nil)
)

// Filter is a mock implementation of serpwall.Filter.
type Filter struct {
	RunFn   func() serpwall.Report
	ClearFn func()
}

func (f *Filter) Run() serpwall.Report {
	return f.RunFn()
}

func (f *Filter) Clear() {
	f.ClearFn()
}

// Watcher is a mock implementation of serpwall.Watcher.
type Watcher struct {
	StartFn func()
	StopFn  func()
}

func (w *Watcher) Start() {
	w.StartFn()
}

func (w *Watcher) Stop() {
	w.StopFn()
}
