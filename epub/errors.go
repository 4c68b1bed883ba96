package epub

import "errors"

var (
	// ErrInvalid indicates the file is not a well-formed EPUB package
	// (missing container descriptor, unparsable manifest, or a spine
	// entry that references no manifest item).
	ErrInvalid = errors.New("epub: invalid epub package")

	// ErrFileNotFound indicates the requested inner path does not exist
	// in the archive.
	ErrFileNotFound = errors.New("epub: file not found in archive")
)
