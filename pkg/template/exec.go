package template

import (
	"errors"
	"fmt"
	"io"
)

// Mode controls how undefined references are handled.
type Mode int

const (
	// Lenient renders undefined references as written.
	Lenient Mode = iota
	// Strict fails rendering on undefined references.
	Strict
)

// Variables exposing loop status inside #foreach. countVar is the
// Velocity 1.x name, kept so older templates render unchanged.
const (
	loopVar  = "foreach"
	countVar = "velocityCount"
)

// state is the per-render evaluation state. #set and #foreach write to
// locals; the Context itself is never modified.
type state struct {
	tmpl   *Template
	ctx    *Context
	mode   Mode
	locals map[string]any
	w      io.Writer
}

// Execute merges ctx into the template and writes the result to w.
// Failures are returned as *RenderError.
func (t *Template) Execute(w io.Writer, ctx *Context, mode Mode) error {
	st := &state{
		tmpl:   t,
		ctx:    ctx,
		mode:   mode,
		locals: make(map[string]any),
		w:      w,
	}
	return st.walk(t.root)
}

func (st *state) walk(nodes []node) error {
	for _, n := range nodes {
		if err := st.exec(n); err != nil {
			return err
		}
	}
	return nil
}

func (st *state) exec(n node) error {
	switch n := n.(type) {
	case *textNode:
		return st.write(n.text)

	case *refNode:
		v, ok, err := st.resolve(n)
		if err != nil {
			return st.fail(n.off, n.raw, err)
		}
		switch {
		case ok:
			return st.write(Stringify(v))
		case n.quiet:
			return nil
		case st.mode == Strict:
			return st.fail(n.off, n.raw, ErrUndefinedReference)
		default:
			return st.write(n.raw)
		}

	case *setNode:
		v, err := n.value.eval(st)
		if err != nil {
			return st.fail(n.off, n.raw, err)
		}
		// A null right-hand side leaves the variable as it was.
		if v != nil {
			st.locals[n.name] = v
		}
		return nil

	case *ifNode:
		for _, br := range n.branches {
			ok, err := br.cond.eval(st)
			if err != nil {
				return st.fail(br.off, "", err)
			}
			if ok {
				return st.walk(br.body)
			}
		}
		return st.walk(n.elseBody)

	case *foreachNode:
		return st.foreach(n)
	}
	return fmt.Errorf("template: unknown node %T", n)
}

func (st *state) foreach(n *foreachNode) error {
	src, err := n.src.eval(st)
	if err != nil {
		return st.fail(n.off, n.raw, err)
	}
	if src == nil {
		return nil
	}
	items, ok := collect(src)
	if !ok {
		if st.mode == Strict {
			return st.fail(n.off, n.raw, fmt.Errorf("cannot iterate over %T", src))
		}
		return nil
	}

	prevItem, hadItem := st.locals[n.name]
	prevLoop, hadLoop := st.locals[loopVar]
	prevCount, hadCount := st.locals[countVar]
	for i, item := range items {
		st.locals[n.name] = item
		st.locals[loopVar] = map[string]any{
			"index":   i,
			"count":   i + 1,
			"hasNext": i < len(items)-1,
			"first":   i == 0,
			"last":    i == len(items)-1,
		}
		st.locals[countVar] = i + 1
		if err := st.walk(n.body); err != nil {
			return err
		}
	}
	restore(st.locals, n.name, prevItem, hadItem)
	restore(st.locals, loopVar, prevLoop, hadLoop)
	restore(st.locals, countVar, prevCount, hadCount)
	return nil
}

func restore(m map[string]any, key string, prev any, had bool) {
	if had {
		m[key] = prev
	} else {
		delete(m, key)
	}
}

func (st *state) lookup(name string) (any, bool) {
	if v, ok := st.locals[name]; ok {
		return v, true
	}
	return st.ctx.Get(name)
}

// resolve evaluates a reference chain. ok is false when any step is
// undefined or null. Method lookups that fail are undefined in lenient mode
// and errors in strict mode.
func (st *state) resolve(ref *refNode) (any, bool, error) {
	v, ok := st.lookup(ref.name)
	if !ok || v == nil {
		return nil, false, nil
	}
	for _, acc := range ref.chain {
		switch {
		case acc.index != nil:
			idx, err := acc.index.eval(st)
			if err != nil {
				return nil, false, err
			}
			if v, err = index(v, idx); err != nil {
				return nil, false, err
			}
		case acc.call:
			args := make([]any, len(acc.args))
			for i, arg := range acc.args {
				val, err := arg.eval(st)
				if err != nil {
					return nil, false, err
				}
				args[i] = val
			}
			var err error
			v, err = invoke(v, acc.name, args)
			if err != nil {
				if errors.Is(err, ErrNoSuchMethod) && st.mode == Lenient {
					return nil, false, nil
				}
				return nil, false, err
			}
		default:
			v, _ = property(v, acc.name)
		}
		if v == nil {
			return nil, false, nil
		}
	}
	return v, true, nil
}

// eval makes a reference usable as an argument. Undefined references
// evaluate to nil, or fail in strict mode.
func (r *refNode) eval(st *state) (any, error) {
	v, ok, err := st.resolve(r)
	if err != nil {
		return nil, st.fail(r.off, r.raw, err)
	}
	if !ok && !r.quiet && st.mode == Strict {
		return nil, st.fail(r.off, r.raw, ErrUndefinedReference)
	}
	return v, nil
}

func (l literal) eval(*state) (any, error) { return l.value, nil }

func (l listLit) eval(st *state) (any, error) {
	out := make([]any, len(l.items))
	for i, item := range l.items {
		v, err := item.eval(st)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (r rangeLit) eval(st *state) (any, error) {
	fromVal, err := r.from.eval(st)
	if err != nil {
		return nil, err
	}
	toVal, err := r.to.eval(st)
	if err != nil {
		return nil, err
	}
	from, err := toInt(fromVal)
	if err != nil {
		return nil, err
	}
	to, err := toInt(toVal)
	if err != nil {
		return nil, err
	}
	step := 1
	if to < from {
		step = -1
	}
	out := make([]any, 0, (to-from)*step+1)
	for i := from; ; i += step {
		out = append(out, i)
		if i == to {
			break
		}
	}
	return out, nil
}

func (st *state) write(s string) error {
	_, err := io.WriteString(st.w, s)
	return err
}

// fail wraps err as a RenderError at off unless it already is one.
func (st *state) fail(off int, ref string, err error) error {
	var re *RenderError
	if errors.As(err, &re) {
		return err
	}
	line, col := position(st.tmpl.src, off)
	return &RenderError{Template: st.tmpl.name, Line: line, Column: col, Ref: ref, Err: err}
}
