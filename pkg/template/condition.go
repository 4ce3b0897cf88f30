package template

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// refVar names the expr variable that stands in for the n-th reference of a
// condition.
const refVar = "__ref"

// wordOperators maps Velocity's comparison keywords to expr operators.
// and, or and not are spelled the same in both.
var wordOperators = map[string]string{
	"eq": "==",
	"ne": "!=",
	"gt": ">",
	"lt": "<",
	"ge": ">=",
	"le": "<=",
}

// condition is a compiled #if or #elseif test. References are resolved by the
// template at render time and handed to the expr program as variables.
type condition struct {
	refs []*refNode

	// bare is set when the whole condition is one reference, optionally negated.
	bare    bool
	negate  bool
	program *vm.Program
}

func compileCondition(src string, from, to int) (*condition, error) {
	c := &condition{}
	var code strings.Builder
	for i := from; i < to; {
		switch ch := src[i]; ch {
		case '"', '\'':
			end := strings.IndexByte(src[i+1:to], ch)
			if end < 0 {
				return nil, &syntaxError{i, "unterminated string literal"}
			}
			code.WriteString(src[i : i+end+2])
			i += end + 2
		case '$':
			ref, end, err := parseRef(src, i)
			if err != nil {
				return nil, err
			}
			if ref == nil || end > to {
				return nil, &syntaxError{i, "invalid reference in condition"}
			}
			code.WriteString(refVar + strconv.Itoa(len(c.refs)))
			c.refs = append(c.refs, ref)
			i = end
		default:
			if !isIdentStart(ch) {
				code.WriteByte(ch)
				i++
				continue
			}
			j := i + 1
			for j < to && isNameChar(src[j]) {
				j++
			}
			word := src[i:j]
			if op, ok := wordOperators[word]; ok {
				word = op
			}
			code.WriteString(word)
			i = j
		}
	}

	text := strings.TrimSpace(code.String())
	if text == "" {
		return nil, &syntaxError{from, "empty condition"}
	}
	if len(c.refs) == 1 {
		switch text {
		case refVar + "0":
			c.bare = true
			return c, nil
		case "!" + refVar + "0":
			c.bare, c.negate = true, true
			return c, nil
		}
	}

	program, err := expr.Compile(text, expr.Env(map[string]any{}), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, &syntaxError{from, fmt.Sprintf("invalid condition %q: %v", strings.TrimSpace(src[from:to]), err)}
	}
	c.program = program
	return c, nil
}

func (c *condition) eval(st *state) (bool, error) {
	if c.bare {
		v, _, err := st.resolve(c.refs[0])
		if err != nil {
			return false, err
		}
		return truthy(v) != c.negate, nil
	}

	env := make(map[string]any, len(c.refs))
	for i, ref := range c.refs {
		v, err := ref.eval(st)
		if err != nil {
			return false, err
		}
		env[refVar+strconv.Itoa(i)] = v
	}
	out, err := expr.Run(c.program, env)
	if err != nil {
		return false, err
	}
	return truthy(out), nil
}
