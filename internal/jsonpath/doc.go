// Package jsonpath compiles a subset of JSONPath into patterns that are matched
// against the path of a flattened leaf, without looking at any JSON value.
// Expressions are parsed by github.com/theory/jsonpath and its RFC 9535 query
// tree is lowered to per-segment selectors.
//
// Supported selectors (RFC 9535 terminology):
//   - Root `$`, child `.` and descendant `..` segments
//   - Name, array index, wildcard `*`, slices `start:end:step`, unions `[a,b]`
//   - Quoted names `['name']` and `["name"]`, so names may hold any character
//
// Filter selectors `[?...]`, negative indices and slices anchored at the end
// of the array need the surrounding document and raise ErrNotSupported at
// compile time. A slice step of zero selects nothing.
package jsonpath
