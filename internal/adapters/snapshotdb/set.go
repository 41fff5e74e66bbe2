package snapshotdb

import (
	"errors"
	"sync"
)

// Set owns one Handle per snapshot resource. Handles are created on first
// request and share the Set's loader and options.
type Set struct {
	loader func(resource string) Loader
	opts   []Option

	mu      sync.Mutex
	handles map[string]*Handle
}

// NewSet constructs a Set. loader returns the Loader for a resource name.
func NewSet(loader func(resource string) Loader, opts ...Option) *Set {
	return &Set{
		loader:  loader,
		opts:    opts,
		handles: make(map[string]*Handle),
	}
}

// Handle returns the Handle for resource, creating it when needed.
func (s *Set) Handle(resource string) *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.handles[resource]
	if !ok {
		h = New(resource, s.loader(resource), s.opts...)
		s.handles[resource] = h
	}
	return h
}

// Reset drops every loaded snapshot so the next query reloads it.
func (s *Set) Reset() error {
	return s.each((*Handle).Reset)
}

// Close releases every handle.
func (s *Set) Close() error {
	return s.each((*Handle).Close)
}

func (s *Set) each(fn func(*Handle) error) error {
	s.mu.Lock()
	hs := make([]*Handle, 0, len(s.handles))
	for _, h := range s.handles {
		hs = append(hs, h)
	}
	s.mu.Unlock()

	var errs []error
	for _, h := range hs {
		if err := fn(h); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
