package jsonpath

import "errors"

var (
	// ErrSyntax indicates a JSONPath expression syntax error during compilation.
	ErrSyntax = errors.New("jsonpath: syntax error")

	// ErrNotSupported indicates a JSONPath feature that cannot be decided from a leaf path alone.
	ErrNotSupported = errors.New("jsonpath: feature not supported for path patterns")
)
