// Package stub defines the view of a stub server that the response
// transformer works against: the inbound request, the configured response
// definition, per-stub transformer parameters, and the file source that
// body files are resolved from.
//
// Values in this package are treated as read-only inputs. A transformer that
// needs a different response derives a new ResponseDefinition with
// ResponseDefinition.WithBody instead of mutating the one it was handed.
package stub
