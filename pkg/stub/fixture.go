package stub

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidFixture is returned when a fixture file cannot be decoded.
var ErrInvalidFixture = errors.New("invalid fixture")

// defaultBaseURL prefixes fixture URLs that do not declare an absolute URL.
const defaultBaseURL = "http://localhost"

// Fixture pairs a request with the stub response it matched. Fixtures let the
// transformer be exercised from files without a running stub server.
//
//	request:
//	  method: GET
//	  url: /users/42?active=true
//	  headers:
//	    X-Request-Id: abc
//	response:
//	  status: 200
//	  bodyFileName: user.vm
//	  transformerParameters:
//	    query: active
type Fixture struct {
	Request  Request            `yaml:"request"`
	Response ResponseDefinition `yaml:"response"`
}

// LoadFixture reads and decodes a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes a YAML fixture and fills in request defaults.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFixture, err)
	}
	if f.Request.Method == "" {
		f.Request.Method = "GET"
	}
	if f.Request.URL == "" {
		f.Request.URL = "/"
	}
	if f.Request.AbsoluteURL == "" {
		f.Request.AbsoluteURL = defaultBaseURL + f.Request.URL
	}
	return &f, nil
}

// UnmarshalYAML accepts headers either as a list of {name, values} entries or
// as a mapping of name to a single value or list of values. Mapping order is
// kept as written.
func (h *Headers) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var list []Header
		if err := value.Decode(&list); err != nil {
			return err
		}
		*h = list
		return nil
	case yaml.MappingNode:
		out := make(Headers, 0, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			name, val := value.Content[i], value.Content[i+1]
			var values []string
			switch val.Kind {
			case yaml.ScalarNode:
				values = []string{val.Value}
			case yaml.SequenceNode:
				if err := val.Decode(&values); err != nil {
					return err
				}
			default:
				return fmt.Errorf("line %d: header %q must be a string or list of strings", val.Line, name.Value)
			}
			out = append(out, Header{Name: name.Value, Values: values})
		}
		*h = out
		return nil
	default:
		return fmt.Errorf("line %d: headers must be a list or mapping", value.Line)
	}
}
