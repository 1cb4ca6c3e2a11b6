// Package errors provides structured error types for better observability
// and programmatic error handling across sysmon.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeProbeFailed,
//	    "load-bearing probe failed",
//	    cause,
//	    map[string]any{
//	        "probe": "meminfo",
//	    },
//	)
//
// Callers that only need the classification use CodeOf:
//
//	if errors.CodeOf(err) == errors.ErrCodeProbeFailed { ... }
package errors
