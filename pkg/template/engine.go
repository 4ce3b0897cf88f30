package template

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/getmockd/vmtransform/pkg/logging"
)

// Engine resolves template files and renders them against a Context.
// Implementations must not carry a Context from one Render call to the next.
type Engine interface {
	// Resolve loads and compiles the template at path.
	// Failures are returned as *ResolutionError.
	Resolve(path string) (*Template, error)

	// Render merges ctx into tmpl. Failures are returned as *RenderError.
	Render(tmpl *Template, ctx *Context) (string, error)
}

// Loader reads template source.
type Loader interface {
	ReadFile(path string) ([]byte, error)
}

// Options configure a FileEngine.
type Options struct {
	Mode Mode

	// Cache, when set, is consulted before parsing. It may be shared
	// between engines.
	Cache *Cache

	Logger *slog.Logger
}

// FileEngine is the default Engine. It reads sources through a Loader and
// parses them on every Resolve unless a Cache is configured.
type FileEngine struct {
	loader Loader
	mode   Mode
	cache  *Cache
	log    *slog.Logger
}

// NewFileEngine creates an engine reading templates from loader.
func NewFileEngine(loader Loader, opts Options) *FileEngine {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &FileEngine{
		loader: loader,
		mode:   opts.Mode,
		cache:  opts.Cache,
		log:    log,
	}
}

// Resolve implements Engine.
func (e *FileEngine) Resolve(path string) (*Template, error) {
	data, err := e.loader.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %w", ErrTemplateNotFound, err)
		}
		return nil, &ResolutionError{Path: path, Err: err}
	}
	src := string(data)

	if e.cache != nil {
		if tmpl, ok := e.cache.get(path, src); ok {
			e.log.Debug("template cache hit", "path", path)
			return tmpl, nil
		}
	}

	tmpl, err := Parse(path, src)
	if err != nil {
		return nil, &ResolutionError{Path: path, Err: err}
	}
	if e.cache != nil {
		e.cache.put(path, tmpl)
	}
	return tmpl, nil
}

// Render implements Engine.
func (e *FileEngine) Render(tmpl *Template, ctx *Context) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, ctx, e.mode); err != nil {
		return "", err
	}
	return b.String(), nil
}
