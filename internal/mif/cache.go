package mif

import (
	"slices"
	"sync"
)

// Cache memoizes compiled layouts keyed by grammar text and by the layouts
// its inline object fields resolved to. Two files that share an outer
// grammar but define its inline types differently get distinct layouts.
// Layouts are immutable once compiled, so a Cache may be shared by
// concurrent parses of independent files.
type Cache struct {
	mu      sync.RWMutex
	layouts map[string][]*cached
	n       int
}

// cached is one compiled variant of a grammar text.
type cached struct {
	layout *Layout
	deps   []dependency
}

// dependency is an inline object type resolved while compiling.
type dependency struct {
	name   string
	layout *Layout
}

// matches reports whether resolve still yields the layouts e was compiled
// against.
func (e *cached) matches(resolve Resolver) bool {
	for _, d := range e.deps {
		if resolve == nil {
			return false
		}
		l, err := resolve(d.name)
		if err != nil || l != d.layout {
			return false
		}
	}
	return true
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{layouts: make(map[string][]*cached)}
}

// Compile returns the cached layout for text, compiling it on first use.
// Failed compilations are not cached.
func (c *Cache) Compile(text string, resolve Resolver) (*Layout, error) {
	c.mu.RLock()
	variants := c.layouts[text]
	c.mu.RUnlock()
	// resolve may re-enter the cache, so it runs without the lock.
	for _, e := range variants {
		if e.matches(resolve) {
			return e.layout, nil
		}
	}

	var deps []dependency
	record := resolve
	if resolve != nil {
		record = func(name string) (*Layout, error) {
			l, err := resolve(name)
			if err == nil {
				deps = append(deps, dependency{name: name, layout: l})
			}
			return l, err
		}
	}
	l, err := Compile(text, record)
	if err != nil {
		return nil, err
	}
	entry := &cached{layout: l, deps: deps}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, prev := range c.layouts[text] {
		if slices.Equal(prev.deps, deps) {
			return prev.layout, nil
		}
	}
	c.layouts[text] = append(c.layouts[text], entry)
	c.n++
	return l, nil
}

// Len returns the number of cached layouts.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.n
}
