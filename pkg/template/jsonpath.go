package template

import (
	"fmt"
	"sync"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// JSONPath is a Tool that queries JSON text, usually the request body:
//
//	$jsonPath.read($requestBody, "$.user.name")  first match, or null
//	$jsonPath.readAll($requestBody, "$..id")     every match as a list
//
// Compiled expressions are cached, so one JSONPath may serve many renders.
type JSONPath struct {
	mu    sync.RWMutex
	exprs map[string]jp.Expr
}

// NewJSONPath creates a JSONPath tool.
func NewJSONPath() *JSONPath {
	return &JSONPath{exprs: make(map[string]jp.Expr)}
}

// Read returns the first value at path in the JSON document doc.
func (j *JSONPath) Read(doc, path string) (any, error) {
	all, err := j.ReadAll(doc, path)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

// ReadAll returns every value at path in the JSON document doc.
func (j *JSONPath) ReadAll(doc, path string) ([]any, error) {
	x, err := j.compile(path)
	if err != nil {
		return nil, err
	}
	data, err := oj.ParseString(doc)
	if err != nil {
		return nil, fmt.Errorf("jsonPath: invalid JSON document: %w", err)
	}
	return x.Get(data), nil
}

// Invoke implements Tool.
func (j *JSONPath) Invoke(method string, args ...any) (any, error) {
	if method != "read" && method != "readAll" {
		return nil, fmt.Errorf("%w: jsonPath.%s", ErrNoSuchMethod, method)
	}
	if len(args) != 2 {
		return nil, fmt.Errorf("jsonPath.%s takes 2 arguments, got %d", method, len(args))
	}
	doc, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("jsonPath.%s: document must be a string, got %T", method, args[0])
	}
	path, ok := args[1].(string)
	if !ok {
		return nil, fmt.Errorf("jsonPath.%s: path must be a string, got %T", method, args[1])
	}
	if method == "read" {
		return j.Read(doc, path)
	}
	return j.ReadAll(doc, path)
}

func (j *JSONPath) String() string { return "jsonPath" }

func (j *JSONPath) compile(path string) (jp.Expr, error) {
	j.mu.RLock()
	x, ok := j.exprs[path]
	j.mu.RUnlock()
	if ok {
		return x, nil
	}

	x, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("jsonPath: invalid expression %q: %w", path, err)
	}

	j.mu.Lock()
	j.exprs[path] = x
	j.mu.Unlock()
	return x, nil
}
