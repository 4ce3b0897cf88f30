package template

import (
	"iter"
	"slices"
)

// Context holds the variables available to a template. It is immutable once
// built; use a ContextBuilder to create one.
type Context struct {
	keys []string
	vars map[string]any
}

// Get returns the value of a variable.
func (c *Context) Get(name string) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.vars[name]
	return v, ok
}

// Keys returns variable names in the order they were first added.
func (c *Context) Keys() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.keys)
}

// Len returns the number of variables.
func (c *Context) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// All iterates over the variables in insertion order.
func (c *Context) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if c == nil {
			return
		}
		for _, k := range c.keys {
			if !yield(k, c.vars[k]) {
				return
			}
		}
	}
}

// ContextBuilder accumulates variables for a Context.
// Values are expected to be strings, string slices, or Tools.
type ContextBuilder struct {
	keys []string
	vars map[string]any
}

// NewContextBuilder returns an empty builder.
func NewContextBuilder() *ContextBuilder {
	return &ContextBuilder{vars: make(map[string]any)}
}

// Put sets a variable. Putting an existing name replaces its value and keeps
// its original position.
func (b *ContextBuilder) Put(name string, value any) *ContextBuilder {
	if _, exists := b.vars[name]; !exists {
		b.keys = append(b.keys, name)
	}
	b.vars[name] = value
	return b
}

// Get returns a variable that has been put so far.
func (b *ContextBuilder) Get(name string) (any, bool) {
	v, ok := b.vars[name]
	return v, ok
}

// Build returns a Context holding a snapshot of the builder's variables.
// Later calls to Put do not affect contexts that were already built.
func (b *ContextBuilder) Build() *Context {
	vars := make(map[string]any, len(b.vars))
	for k, v := range b.vars {
		if list, ok := v.([]string); ok {
			v = slices.Clone(list)
		}
		vars[k] = v
	}
	return &Context{keys: slices.Clone(b.keys), vars: vars}
}
