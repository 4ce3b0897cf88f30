package stub

import (
	"maps"
	"slices"
)

// ResponseDefinition describes a stub response as configured on the host.
type ResponseDefinition struct {
	Status        int               `json:"status,omitempty" yaml:"status,omitempty"`
	StatusMessage string            `json:"statusMessage,omitempty" yaml:"statusMessage,omitempty"`
	Headers       map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body          string            `json:"body,omitempty" yaml:"body,omitempty"`

	// BodyFileName is the path of the body file relative to the file source root.
	BodyFileName string `json:"bodyFileName,omitempty" yaml:"bodyFileName,omitempty"`

	DelayMs int `json:"delayMs,omitempty" yaml:"delayMs,omitempty"`

	// Transformers lists the extensions enabled for this response.
	Transformers []string `json:"transformers,omitempty" yaml:"transformers,omitempty"`

	// TransformerParameters are handed to the transformers as Parameters.
	TransformerParameters Parameters `json:"transformerParameters,omitempty" yaml:"transformerParameters,omitempty"`
}

// SpecifiesBodyFile reports whether the response reads its body from a file.
func (r *ResponseDefinition) SpecifiesBodyFile() bool {
	return r != nil && r.BodyFileName != ""
}

// WithBody returns a copy of r whose body is replaced by body.
// Every other field is carried over unchanged; r itself is not modified.
func (r *ResponseDefinition) WithBody(body string) *ResponseDefinition {
	out := *r
	out.Headers = maps.Clone(r.Headers)
	out.Transformers = slices.Clone(r.Transformers)
	out.TransformerParameters = maps.Clone(r.TransformerParameters)
	out.Body = body
	return &out
}
