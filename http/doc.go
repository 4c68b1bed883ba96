// Package http provides the HTTP surface for the shelfserve content server.
//
// Three route families are served:
//
//   - GET /epub_toc/{archivePath} renders an EPUB's table of contents as a
//     navigable HTML document. Archives without a TOC but with a spine
//     answer with the first spine resource's content instead.
//   - GET /epub_cont/{token}/{innerPath} serves one archive-internal
//     resource, where token is the opaque encoded archive path. HTML
//     resources carry an injected Prev / Table of Contents / Next bar.
//   - Every other GET falls through to the filesystem browser: directory
//     listings with a reader link next to .epub entries, and raw streaming
//     for regular files.
//
// # Authentication
//
// BasicAuthMiddleware enforces HTTP basic auth against a CredentialVerifier.
// Pass nil to disable authentication entirely:
//
//	r.Use(http.BasicAuthMiddleware(authenticator))
//	r.Use(http.BasicAuthMiddleware(nil)) // public access
//
// Failed verification answers 401 with a Basic challenge; the response never
// reveals which part of the credential was wrong.
//
// # Errors
//
// Core errors map to plain-text HTTP responses: a malformed token is 400, a
// missing inner resource or an archive with no content is 404, and an
// unreadable or corrupt archive is 500 with diagnostic text.
package http
