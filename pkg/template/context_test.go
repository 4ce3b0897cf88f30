package template

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextBuilder(t *testing.T) {
	b := NewContextBuilder().
		Put("b", "1").
		Put("a", "2").
		Put("b", "3")
	ctx := b.Build()

	assert.Equal(t, []string{"b", "a"}, ctx.Keys())
	assert.Equal(t, 2, ctx.Len())

	v, ok := ctx.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	_, ok = ctx.Get("missing")
	assert.False(t, ok)
}

func TestContextIsSnapshot(t *testing.T) {
	list := []string{"x"}
	b := NewContextBuilder().Put("list", list)
	ctx := b.Build()

	b.Put("later", "y")
	list[0] = "changed"

	assert.Equal(t, 1, ctx.Len())
	v, _ := ctx.Get("list")
	assert.Equal(t, []string{"x"}, v)
}

func TestContextAll(t *testing.T) {
	ctx := NewContextBuilder().Put("one", "1").Put("two", "2").Build()

	var keys []string
	for k := range ctx.All() {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"one", "two"}, keys)
	assert.Equal(t, map[string]any{"one": "1", "two": "2"}, maps.Collect(ctx.All()))
}

func TestNilContext(t *testing.T) {
	var ctx *Context
	_, ok := ctx.Get("x")
	assert.False(t, ok)
	assert.Zero(t, ctx.Len())
	assert.Nil(t, ctx.Keys())
	for range ctx.All() {
		t.Fatal("nil context yielded a variable")
	}
}
