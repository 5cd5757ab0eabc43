package core

import "sync"

// Invoker spawns goroutines. Production code always uses
// DefaultInvoker; another implementation can, for example, track every
// spawned goroutine on a sync.WaitGroup, as invoker_test.go does.
type Invoker interface {
	Spawn(f func())
}

// DefaultInvoker spawns a bare goroutine per call.
type DefaultInvoker struct{}

func (DefaultInvoker) Spawn(f func()) {
	go f()
}

var (
	instance     Invoker
	instanceOnce sync.Once
)

// InvokerInstance returns the process-wide default Invoker.
func InvokerInstance() Invoker {
	instanceOnce.Do(func() {
		instance = DefaultInvoker{}
	})
	return instance
}
