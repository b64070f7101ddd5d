// Package flatten turns a JSON document into a flat, ordered sequence of
// (path, leaf value) events without building the document in memory.
//
// A walk drives an event Source one token at a time and keeps a Path stack
// naming the current position. Every primitive (string, number, boolean or
// null) is handed to a Visitor together with the path that leads to it:
//
//	{"name":"John","address":{"street":"21 2nd Street"},"numbers":[12.32]}
//
// is reported as
//
//	name               John
//	address/street     21 2nd Street
//	numbers/0          12.32
//
// Objects and arrays produce no events of their own, so {} and [] produce
// none at all. Memory use is proportional to nesting depth, not size.
//
// Bytes flattens an in-memory buffer and can hand out strings that alias the
// buffer (see Borrow). Reader flattens an incremental stream. Both return
// either nil or a *SourceError.
package flatten
