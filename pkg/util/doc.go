// Package util provides small string helpers shared by the transformer,
// the CLI, and their logging.
//
//   - TruncateBody caps rendered bodies for debug logs
//   - SplitAny splits request URLs into path segments
//   - SplitList parses comma-separated parameter values
package util
