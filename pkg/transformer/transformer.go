package transformer

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/getmockd/vmtransform/pkg/logging"
	"github.com/getmockd/vmtransform/pkg/stub"
	"github.com/getmockd/vmtransform/pkg/template"
	"github.com/getmockd/vmtransform/pkg/util"
)

// Name is the extension name hosts register the transformer under.
const Name = "velocity-response-transformer"

// TemplateSuffix marks body files that are rendered as templates.
const TemplateSuffix = ".vm"

// logBodySize caps rendered bodies in debug logs.
const logBodySize = 512

// EngineFactory creates the engine used for a single Transform call.
type EngineFactory func(files stub.FileSource, opts template.Options) template.Engine

// DefaultEngineFactory returns a template.FileEngine reading from files.
func DefaultEngineFactory(files stub.FileSource, opts template.Options) template.Engine {
	return template.NewFileEngine(files, opts)
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithLogger sets the logger. Transform logs at debug level only.
func WithLogger(log *slog.Logger) Option {
	return func(t *Transformer) {
		if log != nil {
			t.log = log
		}
	}
}

// WithTemplateSuffix changes the body file suffix that triggers rendering.
func WithTemplateSuffix(suffix string) Option {
	return func(t *Transformer) {
		if suffix != "" {
			t.suffix = suffix
		}
	}
}

// WithStrict makes undefined references fail the render instead of being
// written out verbatim.
func WithStrict(strict bool) Option {
	return func(t *Transformer) {
		if strict {
			t.mode = template.Strict
		} else {
			t.mode = template.Lenient
		}
	}
}

// WithCache shares parsed templates between Transform calls.
// A cached template is reused only while its file is unchanged.
func WithCache(cache *template.Cache) Option {
	return func(t *Transformer) {
		t.cache = cache
	}
}

// WithTool exposes an additional tool to templates, such as
// template.NewJSONPath() under "jsonPath". A name already used by a request
// variable is ignored.
func WithTool(name string, tool template.Tool) Option {
	return func(t *Transformer) {
		if name != "" && tool != nil {
			t.tools = append(t.tools, namedTool{name: name, tool: tool})
		}
	}
}

// WithEngineFactory replaces the engine used to resolve and render templates.
func WithEngineFactory(f EngineFactory) Option {
	return func(t *Transformer) {
		if f != nil {
			t.newEngine = f
		}
	}
}

// Transformer renders templated body files into response bodies.
// It holds no per-request state and is safe for concurrent use.
type Transformer struct {
	suffix    string
	mode      template.Mode
	cache     *template.Cache
	newEngine EngineFactory
	tools     []namedTool
	log       *slog.Logger
}

// New creates a Transformer.
func New(opts ...Option) *Transformer {
	t := &Transformer{
		suffix:    TemplateSuffix,
		mode:      template.Lenient,
		newEngine: DefaultEngineFactory,
		log:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the extension name.
func (t *Transformer) Name() string { return Name }

// ShouldRender reports whether rd names a body file ending in the template
// suffix. The comparison is exact and case-sensitive.
func (t *Transformer) ShouldRender(rd *stub.ResponseDefinition) bool {
	return rd.SpecifiesBodyFile() && strings.HasSuffix(rd.BodyFileName, t.suffix)
}

// Context returns the variables a template sees for req, including any
// tools added with WithTool.
func (t *Transformer) Context(req *stub.Request, params stub.Parameters) *template.Context {
	return buildContext(req, params, t.tools)
}

// Transform renders rd's body file against req when ShouldRender is true and
// returns a copy of rd carrying the rendered body. Otherwise it returns rd
// itself without touching files.
//
// Errors are *template.ResolutionError when the template cannot be loaded or
// parsed and *template.RenderError when rendering fails.
func (t *Transformer) Transform(req *stub.Request, rd *stub.ResponseDefinition, files stub.FileSource, params stub.Parameters) (*stub.ResponseDefinition, error) {
	if !t.ShouldRender(rd) {
		if rd != nil {
			t.log.Debug("passing response through", "bodyFile", rd.BodyFileName)
		}
		return rd, nil
	}

	id := uuid.NewString()
	start := time.Now()
	log := t.log.With("renderId", id, "bodyFile", rd.BodyFileName)

	ctx := t.Context(req, params)
	path := files.Path() + "/" + rd.BodyFileName

	engine := t.newEngine(files, template.Options{
		Mode:   t.mode,
		Cache:  t.cache,
		Logger: log,
	})

	tmpl, err := engine.Resolve(path)
	if err != nil {
		log.Debug("template resolution failed", "path", path, "error", err)
		return nil, err
	}
	body, err := engine.Render(tmpl, ctx)
	if err != nil {
		log.Debug("template render failed", "path", path, "error", err)
		return nil, err
	}

	log.Debug("rendered template",
		"path", path,
		"variables", ctx.Len(),
		"duration", time.Since(start),
		"body", util.TruncateBody(body, logBodySize),
	)
	return rd.WithBody(body), nil
}
