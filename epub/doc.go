// Package epub opens EPUB packages and exposes a normalized, read-only view
// of their contents: a resource table keyed by manifest id, the spine
// (linear reading order), and a table-of-contents forest.
//
// Both TOC sources — the EPUB 2 NCX file and the EPUB 3 navigation
// document — are normalized into the same NavPoint tree, so callers never
// branch on the package's format version.
//
// An Archive is immutable after Open and is not safe for concurrent use by
// multiple goroutines; open one per request and drop it when done.
package epub
