// Package logging builds the zerolog loggers used across vtable.
//
// Loggers are constructed from a Config (level, format, output) and carried
// through context.Context so that deeply nested components log with the same
// fields as the command that created them. Components attach their name with
// ComponentLogger.
package logging
