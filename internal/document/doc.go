// Package document provides the line-oriented text model the guides
// scanner reads.
//
// A Document stores lines without terminators, normalizing CRLF and CR on
// load, and keeps a per-line cache of indentation facts that the scanner
// picks up through guides.LineInfoProvider:
//
//	doc := document.New("def f():\r\n    return 1\r\n")
//	res := guides.NewScanner(opts).Scan(doc, sels)
//
// Edits (SetLine, Insert, Delete, InsertRune, DeleteBackward) update the
// cache for the lines they touch and bump the revision.
package document
