// Package shelfserve implements the core of an EPUB-aware content server:
// resolution of e-book tables of contents and archive-internal resources,
// with navigation injection and process-wide caching.
//
// # Key Components
//
//   - Service: opens EPUB archives on demand, renders TOC documents, and
//     resolves chapter/image content with a Prev / TOC / Next bar injected
//     into HTML
//   - Cache: bounded LRU caches for rendered TOCs and resolved content,
//     shared across all requests
//   - Authenticator: single-slot credential-verification cache that
//     amortizes bcrypt's deliberate cost over a session of requests
//   - EncodePath / DecodePath: reversible encoding of archive paths into
//     opaque, slash-free URL tokens
//
// Archives are never extracted to disk and never mutated; an archive handle
// lives only for the request that opened it, and only derived output (the
// rendered TOC, the resolved content) is cached.
//
// See the epub package for archive parsing and the http package for the
// REST surface.
package shelfserve
