package transformer

import (
	"strings"

	"github.com/getmockd/vmtransform/pkg/stub"
	"github.com/getmockd/vmtransform/pkg/template"
	"github.com/getmockd/vmtransform/pkg/util"
)

// Context variable names.
const (
	VarRequestBody        = "requestBody"
	VarRequestHeader      = "requestHeader"
	VarRequestAbsoluteURL = "requestAbsoluteUrl"
	VarRequestURL         = "requestUrl"
	VarRequestMethod      = "requestMethod"
	VarRequestPath        = "requestPath"
	VarDateRange          = "dateRange"
	VarQueryPrefix        = "query-"
)

// Generic tools every context carries after the request variables.
const (
	VarDate   = "date"
	VarNumber = "number"
	VarMath   = "math"
	VarEscape = "esc"
)

// ParamQuery names the transformer parameter listing the query parameters
// to expose, comma separated.
const ParamQuery = "query"

// BuildContext derives the template context for a request.
// It never fails; malformed dates are only detected when a template calls
// the dateRange tool.
func BuildContext(req *stub.Request, params stub.Parameters) *template.Context {
	return buildContext(req, params, nil)
}

// namedTool is an extra tool exposed to templates under name.
type namedTool struct {
	name string
	tool template.Tool
}

func buildContext(req *stub.Request, params stub.Parameters, tools []namedTool) *template.Context {
	b := template.NewContextBuilder()

	if req.Body != "" {
		b.Put(VarRequestBody, req.Body)
	}
	for _, h := range req.Headers {
		b.Put(HeaderVar(h.Name), template.FormatList(h.Values))
	}
	b.Put(VarRequestAbsoluteURL, req.AbsoluteURL).
		Put(VarRequestURL, req.URL).
		Put(VarRequestMethod, req.Method).
		Put(VarRequestPath, util.SplitAny(req.URL, "/?")).
		Put(VarDateRange, template.DateRange{})

	if list, ok := params.GetString(ParamQuery); ok {
		for _, name := range util.SplitList(list) {
			if qp := req.QueryParameter(name); qp.IsPresent() {
				b.Put(VarQueryPrefix+name, qp.Values)
			}
		}
	}

	b.Put(VarDate, template.DateTool{}).
		Put(VarNumber, template.NumberTool{}).
		Put(VarMath, template.MathTool{}).
		Put(VarEscape, template.EscapeTool{})

	// Extra tools never replace request data or the generic tools.
	for _, nt := range tools {
		if _, taken := b.Get(nt.name); !taken {
			b.Put(nt.name, nt.tool)
		}
	}
	return b.Build()
}

// HeaderVar returns the context variable name for a header:
// "X-Request-Id" becomes "requestHeaderXRequestId".
func HeaderVar(name string) string {
	return VarRequestHeader + strings.ReplaceAll(name, "-", "")
}
