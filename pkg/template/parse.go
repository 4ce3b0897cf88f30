package template

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Template is a parsed template. It holds no per-render state and is safe
// for concurrent use.
type Template struct {
	name string
	src  string
	root []node
}

// Parse parses template source. name is used in error messages.
// Syntax errors are returned as *ParseError.
func Parse(name, src string) (*Template, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, toParseError(name, src, err)
	}
	p := &parser{src: src, toks: toks}
	root, _, err := p.parseList()
	if err != nil {
		return nil, toParseError(name, src, err)
	}
	return &Template{name: name, src: src, root: root}, nil
}

// Name returns the name the template was parsed with.
func (t *Template) Name() string { return t.name }

// syntaxError is a parse failure at a byte offset, converted to a
// ParseError once the template name and source are known.
type syntaxError struct {
	off int
	msg string
}

func (e *syntaxError) Error() string { return e.msg }

func toParseError(name, src string, err error) error {
	var se *syntaxError
	if !errors.As(err, &se) {
		return err
	}
	line, col := position(src, se.off)
	return &ParseError{Name: name, Line: line, Column: col, Msg: se.msg}
}

// position converts a byte offset to a 1-based line and column.
func position(src string, off int) (line, col int) {
	off = min(off, len(src))
	before := src[:off]
	line = strings.Count(before, "\n") + 1
	col = utf8.RuneCountInString(before[strings.LastIndexByte(before, '\n')+1:]) + 1
	return line, col
}

type tokenKind int

const (
	tokText tokenKind = iota
	tokRef
	tokDirective
)

type token struct {
	kind tokenKind
	off  int
	end  int
	text string
	ref  *refNode

	// directive name and the source range between its parentheses
	name     string
	argsFrom int
	argsTo   int
}

var directives = map[string]bool{
	"set":     true,
	"foreach": true,
	"if":      true,
	"elseif":  true,
	"else":    true,
	"end":     true,
}

type lexer struct {
	src     string
	pos     int
	toks    []token
	text    strings.Builder
	textOff int
}

func lex(src string) ([]token, error) {
	l := &lexer{src: src}
	for l.pos < len(l.src) {
		rest := l.src[l.pos:]
		switch {
		case strings.HasPrefix(rest, `\$`), strings.HasPrefix(rest, `\#`):
			l.writeText(rest[1:2])
			l.pos += 2
		case strings.HasPrefix(rest, "##"):
			l.flush()
			if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
				l.pos += nl + 1
			} else {
				l.pos = len(l.src)
			}
		case strings.HasPrefix(rest, "#*"):
			l.flush()
			end := strings.Index(rest[2:], "*#")
			if end < 0 {
				return nil, &syntaxError{l.pos, "unterminated #* comment"}
			}
			l.pos += end + 4
		case rest[0] == '#':
			ok, err := l.directive()
			if err != nil {
				return nil, err
			}
			if !ok {
				l.writeText("#")
				l.pos++
			}
		case rest[0] == '$':
			ref, end, err := parseRef(l.src, l.pos)
			if err != nil {
				return nil, err
			}
			if ref == nil {
				l.writeText("$")
				l.pos++
				continue
			}
			l.flush()
			l.toks = append(l.toks, token{kind: tokRef, off: l.pos, end: end, ref: ref})
			l.pos = end
		default:
			n := strings.IndexAny(rest, `\#$`)
			if n < 0 {
				n = len(rest)
			}
			if n == 0 {
				n = 1
			}
			l.writeText(rest[:n])
			l.pos += n
		}
	}
	l.flush()
	gobbleLines(l.src, l.toks)
	return l.toks, nil
}

func (l *lexer) writeText(s string) {
	if l.text.Len() == 0 {
		l.textOff = l.pos
	}
	l.text.WriteString(s)
}

func (l *lexer) flush() {
	if l.text.Len() == 0 {
		return
	}
	l.toks = append(l.toks, token{kind: tokText, off: l.textOff, end: l.pos, text: l.text.String()})
	l.text.Reset()
}

// directive lexes #name(...) or #{name}. It reports false when the # does not
// start a known directive and should be kept as text.
func (l *lexer) directive() (bool, error) {
	start := l.pos
	i := start + 1
	braced := i < len(l.src) && l.src[i] == '{'
	if braced {
		i++
	}
	j := i
	for j < len(l.src) && isLetter(l.src[j]) {
		j++
	}
	name := l.src[i:j]
	if !directives[name] {
		return false, nil
	}
	if braced {
		if j >= len(l.src) || l.src[j] != '}' {
			return false, nil
		}
		j++
	} else if j < len(l.src) && isNameChar(l.src[j]) {
		return false, nil
	}

	tok := token{kind: tokDirective, off: start, end: j, name: name}
	if name != "else" && name != "end" {
		k := j
		for k < len(l.src) && (l.src[k] == ' ' || l.src[k] == '\t') {
			k++
		}
		if k >= len(l.src) || l.src[k] != '(' {
			return false, &syntaxError{start, fmt.Sprintf("#%s must be followed by (", name)}
		}
		closeIdx, err := matchParen(l.src, k)
		if err != nil {
			return false, err
		}
		tok.argsFrom, tok.argsTo, tok.end = k+1, closeIdx, closeIdx+1
	}
	l.flush()
	l.toks = append(l.toks, tok)
	l.pos = tok.end
	return true, nil
}

// gobbleLines removes the indentation and line break around directives that
// stand alone on their line.
func gobbleLines(src string, toks []token) {
	for i := range toks {
		t := &toks[i]
		if t.kind != tokDirective {
			continue
		}
		lineStart := strings.LastIndexByte(src[:t.off], '\n') + 1
		if !isBlank(src[lineStart:t.off]) {
			continue
		}
		lineEnd := len(src)
		if nl := strings.IndexByte(src[t.end:], '\n'); nl >= 0 {
			lineEnd = t.end + nl + 1
		}
		if !blankOrComment(src[t.end:lineEnd]) {
			continue
		}
		if lead := t.off - lineStart; lead > 0 && i > 0 {
			if prev := &toks[i-1]; prev.kind == tokText && prev.end == t.off && lead <= len(prev.text) {
				prev.text = prev.text[:len(prev.text)-lead]
			}
		}
		// The rest of the line holds only whitespace text; a trailing ## comment
		// already produced no token.
		for j := i + 1; j < len(toks) && toks[j].off < lineEnd; j++ {
			next := &toks[j]
			if next.kind != tokText {
				break
			}
			next.text = next.text[min(lineEnd-next.off, len(next.text)):]
		}
	}
}

// blankOrComment reports whether s is whitespace, optionally followed by a
// ## line comment.
func blankOrComment(s string) bool {
	if n := strings.Index(s, "##"); n >= 0 {
		s = s[:n]
	}
	return isBlank(s)
}

// matchParen returns the index of the ) closing the ( at open, skipping
// quoted strings.
func matchParen(src string, open int) (int, error) {
	depth := 0
	for i := open; i < len(src); i++ {
		switch c := src[i]; c {
		case '"', '\'':
			end := strings.IndexByte(src[i+1:], c)
			if end < 0 {
				return 0, &syntaxError{i, "unterminated string literal"}
			}
			i += end + 1
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, &syntaxError{open, "unclosed ("}
}

// parseRef parses a reference starting at the $ at src[start]. It returns a
// nil node when the $ does not begin a reference.
func parseRef(src string, start int) (*refNode, int, error) {
	if start >= len(src) || src[start] != '$' {
		return nil, start, nil
	}
	i := start + 1
	quiet := i < len(src) && src[i] == '!'
	if quiet {
		i++
	}
	braced := i < len(src) && src[i] == '{'
	if braced {
		i++
	}
	if i >= len(src) || !isIdentStart(src[i]) {
		return nil, start, nil
	}
	j := i + 1
	for j < len(src) && isIdentChar(src[j]) {
		j++
	}
	if !braced {
		for src[j-1] == '-' {
			j--
		}
	}

	ref := &refNode{off: start, quiet: quiet, name: src[i:j]}
	for j < len(src) {
		next, acc, err := parseAccessor(src, j)
		if err != nil {
			if braced {
				return nil, start, err
			}
			// Unbraced references end where the chain stops parsing;
			// the rest is plain text.
			break
		}
		if next == j {
			break
		}
		ref.chain = append(ref.chain, acc)
		j = next
	}
	if braced {
		if j >= len(src) || src[j] != '}' {
			return nil, start, &syntaxError{start, "unterminated ${ reference"}
		}
		j++
	}
	ref.raw = src[start:j]
	return ref, j, nil
}

func parseAccessor(src string, at int) (int, accessor, error) {
	switch {
	case src[at] == '.' && at+1 < len(src) && isIdentStart(src[at+1]):
		k := at + 2
		for k < len(src) && isNameChar(src[k]) {
			k++
		}
		acc := accessor{name: src[at+1 : k]}
		if k < len(src) && src[k] == '(' {
			closeIdx, err := matchParen(src, k)
			if err != nil {
				return at, accessor{}, err
			}
			args, err := parseArgs(src, k+1, closeIdx)
			if err != nil {
				return at, accessor{}, err
			}
			acc.call, acc.args = true, args
			k = closeIdx + 1
		}
		return k, acc, nil
	case src[at] == '[':
		p := &operandParser{src: src, pos: at + 1, end: len(src)}
		idx, err := p.operand()
		if err != nil {
			return at, accessor{}, err
		}
		if !p.consume(']') {
			return at, accessor{}, p.errorf("expected ]")
		}
		return p.pos, accessor{index: idx}, nil
	}
	return at, accessor{}, nil
}

func parseArgs(src string, from, to int) ([]operand, error) {
	p := &operandParser{src: src, pos: from, end: to}
	p.skipSpace()
	if p.pos == p.end {
		return nil, nil
	}
	var args []operand
	for {
		arg, err := p.operand()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.consume(',') {
			break
		}
	}
	return args, p.finish()
}

// operandParser reads values from src[pos:end].
type operandParser struct {
	src string
	pos int
	end int
}

func (p *operandParser) errorf(format string, args ...any) error {
	return &syntaxError{p.pos, fmt.Sprintf(format, args...)}
}

func (p *operandParser) skipSpace() {
	for p.pos < p.end && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *operandParser) consume(c byte) bool {
	p.skipSpace()
	if p.pos < p.end && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *operandParser) keyword(kw string) bool {
	p.skipSpace()
	rest := p.src[p.pos:p.end]
	if !strings.HasPrefix(rest, kw) {
		return false
	}
	if len(rest) > len(kw) && isNameChar(rest[len(kw)]) {
		return false
	}
	p.pos += len(kw)
	return true
}

func (p *operandParser) finish() error {
	p.skipSpace()
	if p.pos != p.end {
		return p.errorf("unexpected %q", p.src[p.pos:p.end])
	}
	return nil
}

// variable reads a plain $name as used by #set and #foreach.
func (p *operandParser) variable() (string, error) {
	p.skipSpace()
	ref, end, err := parseRef(p.src, p.pos)
	if err != nil {
		return "", err
	}
	if ref == nil || ref.quiet || len(ref.chain) > 0 || end > p.end {
		return "", p.errorf("expected a variable such as $name")
	}
	p.pos = end
	return ref.name, nil
}

func (p *operandParser) operand() (operand, error) {
	p.skipSpace()
	if p.pos >= p.end {
		return nil, p.errorf("expected a value")
	}
	rest := p.src[p.pos:p.end]
	switch c := rest[0]; {
	case c == '"' || c == '\'':
		n := strings.IndexByte(rest[1:], c)
		if n < 0 {
			return nil, p.errorf("unterminated string literal")
		}
		p.pos += n + 2
		return literal{value: rest[1 : n+1]}, nil
	case c == '-' || isDigit(c):
		n := 1
		for n < len(rest) && isDigit(rest[n]) {
			n++
		}
		v, err := strconv.Atoi(rest[:n])
		if err != nil {
			return nil, p.errorf("invalid number %q", rest[:n])
		}
		p.pos += n
		return literal{value: v}, nil
	case c == '$':
		ref, end, err := parseRef(p.src, p.pos)
		if err != nil {
			return nil, err
		}
		if ref == nil || end > p.end {
			return nil, p.errorf("invalid reference")
		}
		p.pos = end
		return ref, nil
	case c == '[':
		return p.list()
	case p.keyword("true"):
		return literal{value: true}, nil
	case p.keyword("false"):
		return literal{value: false}, nil
	}
	return nil, p.errorf("unexpected %q", rest[:1])
}

// list reads [a, b, c] or the range [from..to].
func (p *operandParser) list() (operand, error) {
	p.pos++
	if p.consume(']') {
		return listLit{}, nil
	}
	first, err := p.operand()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:p.end], "..") {
		p.pos += 2
		last, err := p.operand()
		if err != nil {
			return nil, err
		}
		if !p.consume(']') {
			return nil, p.errorf("expected ] to close range")
		}
		return rangeLit{from: first, to: last}, nil
	}
	items := []operand{first}
	for p.consume(',') {
		item, err := p.operand()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if !p.consume(']') {
		return nil, p.errorf("expected ] to close list")
	}
	return listLit{items: items}, nil
}

// parser builds the node tree from the token stream.
type parser struct {
	src  string
	toks []token
	pos  int
}

// parseList collects nodes until one of the stop directives, which it
// consumes and returns. It returns a nil token at end of input.
func (p *parser) parseList(stops ...string) ([]node, *token, error) {
	var nodes []node
	for p.pos < len(p.toks) {
		tok := &p.toks[p.pos]
		p.pos++
		switch tok.kind {
		case tokText:
			if tok.text != "" {
				nodes = append(nodes, &textNode{off: tok.off, text: tok.text})
			}
		case tokRef:
			nodes = append(nodes, tok.ref)
		case tokDirective:
			if slices.Contains(stops, tok.name) {
				return nodes, tok, nil
			}
			n, err := p.directive(tok)
			if err != nil {
				return nil, nil, err
			}
			nodes = append(nodes, n)
		}
	}
	return nodes, nil, nil
}

func (p *parser) directive(tok *token) (node, error) {
	switch tok.name {
	case "set":
		return p.set(tok)
	case "foreach":
		return p.foreach(tok)
	case "if":
		return p.ifChain(tok)
	}
	return nil, &syntaxError{tok.off, "unexpected #" + tok.name}
}

func (p *parser) set(tok *token) (node, error) {
	op := &operandParser{src: p.src, pos: tok.argsFrom, end: tok.argsTo}
	name, err := op.variable()
	if err != nil {
		return nil, err
	}
	if !op.consume('=') {
		return nil, op.errorf("expected = in #set")
	}
	value, err := op.operand()
	if err != nil {
		return nil, err
	}
	if err := op.finish(); err != nil {
		return nil, err
	}
	return &setNode{off: tok.off, raw: p.src[tok.off:tok.end], name: name, value: value}, nil
}

func (p *parser) foreach(tok *token) (node, error) {
	op := &operandParser{src: p.src, pos: tok.argsFrom, end: tok.argsTo}
	name, err := op.variable()
	if err != nil {
		return nil, err
	}
	if !op.keyword("in") {
		return nil, op.errorf("expected in after #foreach variable")
	}
	src, err := op.operand()
	if err != nil {
		return nil, err
	}
	if err := op.finish(); err != nil {
		return nil, err
	}
	body, end, err := p.parseList("end")
	if err != nil {
		return nil, err
	}
	if end == nil {
		return nil, &syntaxError{tok.off, "#foreach without matching #end"}
	}
	return &foreachNode{off: tok.off, raw: p.src[tok.off:tok.end], name: name, src: src, body: body}, nil
}

func (p *parser) ifChain(tok *token) (node, error) {
	n := &ifNode{off: tok.off}
	cur := tok
	for {
		cond, err := compileCondition(p.src, cur.argsFrom, cur.argsTo)
		if err != nil {
			return nil, err
		}
		body, end, err := p.parseList("elseif", "else", "end")
		if err != nil {
			return nil, err
		}
		if end == nil {
			return nil, &syntaxError{tok.off, "#if without matching #end"}
		}
		n.branches = append(n.branches, branch{off: cur.off, cond: cond, body: body})

		switch end.name {
		case "end":
			return n, nil
		case "else":
			body, end, err := p.parseList("end")
			if err != nil {
				return nil, err
			}
			if end == nil {
				return nil, &syntaxError{tok.off, "#if without matching #end"}
			}
			n.elseBody = body
			return n, nil
		}
		cur = end
	}
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isNameChar(c byte) bool { return isLetter(c) || isDigit(c) || c == '_' }

func isIdentStart(c byte) bool { return isLetter(c) || c == '_' }

// isIdentChar allows hyphens so that names like query-id stay one identifier.
func isIdentChar(c byte) bool { return isNameChar(c) || c == '-' }

func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isSpace(s[i]) {
			return false
		}
	}
	return true
}
