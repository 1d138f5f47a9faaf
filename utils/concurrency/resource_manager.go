// Package concurrency implements a channel based resource manager for concurrent operations.
package concurrency

import (
	"sync"
)

// ResourceManager stores a channel of some given resource (e.g. a scratch
// buffer) meant to be used concurrently and a channel for errors.
type ResourceManager[T any] struct {
	sync.WaitGroup
	Resources chan T
	Errors    chan error
}

// NewResourceManager instantiates a new [ResourceManager].
// The number of resources bounds the number of concurrent tasks.
func NewResourceManager[T any](resources []T) *ResourceManager[T] {
	Resources := make(chan T, len(resources))
	for i := range resources {
		Resources <- resources[i]
	}
	return &ResourceManager[T]{
		Resources: Resources,
		Errors:    make(chan error, len(resources)),
	}
}

// Task is a function taking as input a resource of any kind.
type Task[T any] func(resource T) (err error)

// Run runs a [Task] concurrently.
// If an error was already recorded, does nothing.
// Adds any error returned by [Task] to the internal error channel.
func (r *ResourceManager[T]) Run(f Task[T]) {
	r.Add(1)
	go func() {
		defer r.Done()
		if len(r.Errors) != 0 {
			return
		}
		resource := <-r.Resources
		if err := f(resource); err != nil {
			select {
			case r.Errors <- err:
			default:
			}
		}
		r.Resources <- resource
	}()
}

// Wait waits until all concurrent [Task] have finished and returns
// the first encountered error, if any.
func (r *ResourceManager[T]) Wait() (err error) {
	r.WaitGroup.Wait()
	select {
	case err = <-r.Errors:
	default:
	}
	return
}
