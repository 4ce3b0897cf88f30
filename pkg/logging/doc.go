// Package logging builds the slog loggers used by vmtransform.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatJSON,
//	})
//
//	logger.Debug("rendered template", "path", path)
//
// Levels and formats are usually read from configuration as text; use
// ParseLevel and ParseFormat (both case-insensitive) or NewFromStrings.
//
// # Integration
//
// Components accept a *slog.Logger through an option. If none is provided
// they use logging.Nop().
package logging
