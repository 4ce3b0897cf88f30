package template

// node is one element of a parsed template.
type node interface {
	offset() int
}

type textNode struct {
	off  int
	text string
}

// refNode is a reference such as $name, ${name.prop} or $!name.method(arg).
// raw is the source text, written back verbatim when the reference is
// undefined in lenient mode.
type refNode struct {
	off   int
	raw   string
	quiet bool
	name  string
	chain []accessor
}

// accessor is one step of a reference chain: .name, .name(args) or [index].
type accessor struct {
	name  string
	call  bool
	args  []operand
	index operand
}

type setNode struct {
	off   int
	raw   string
	name  string
	value operand
}

type foreachNode struct {
	off  int
	raw  string
	name string
	src  operand
	body []node
}

type ifNode struct {
	off      int
	branches []branch
	elseBody []node
}

type branch struct {
	off  int
	cond *condition
	body []node
}

func (n *textNode) offset() int    { return n.off }
func (n *refNode) offset() int     { return n.off }
func (n *setNode) offset() int     { return n.off }
func (n *foreachNode) offset() int { return n.off }
func (n *ifNode) offset() int      { return n.off }

// operand is a value in directive or method arguments.
type operand interface {
	eval(st *state) (any, error)
}

type literal struct {
	value any
}

type listLit struct {
	items []operand
}

// rangeLit is [from..to], inclusive in either direction.
type rangeLit struct {
	from, to operand
}
