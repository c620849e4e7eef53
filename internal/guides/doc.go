// Package guides computes indentation guides for a text viewport.
//
// The package is a lexical, whitespace-column model. It never parses
// language syntax. Given the text of a line and a tab size it produces an
// ordered set of guide marks at tab-stop boundaries, decides which guide
// belongs to the scope enclosing the cursor, and sorts every guide of every
// scanned line into stack, active and normal buckets.
//
// # Pipeline
//
//	line text + tab size ──► Extract ──► []Guide
//	[]Guide + cursor      ──► ResolveActive ──► active index
//	[]Guide + active      ──► Classify ──► Ranges
//	Document + selections ──► Scanner.Scan ──► Result
//
// # Scan
//
// Scanner.Scan classifies the cursor line first and then walks outward, up
// and down, carrying a ViewportState. Outward lines never re-resolve the
// active guide from the cursor; they only check whether they own a guide at
// the active level fixed by the cursor line. The first line that does not
// breaks continuity for the rest of that direction. The break is a one-way
// latch.
//
// All functions are pure and total. A missing answer is reported through an
// ok result or a nil pointer, never an error.
package guides
