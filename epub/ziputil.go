package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// maxDecompressSize caps the decompressed size of a single ZIP entry to
// guard against zip bombs.
const maxDecompressSize int64 = 256 * 1024 * 1024

// isSafePath checks whether p is a ZIP-internal path that does not escape
// the archive root via traversal.
func isSafePath(p string) bool {
	cleaned := path.Clean(p)
	if strings.HasPrefix(cleaned, "/") {
		return false
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return false
	}
	return true
}

// readZipEntry reads the full contents of a ZIP entry, enforcing the
// decompression limit even when the declared size is forged.
func readZipEntry(f *zip.File) ([]byte, error) {
	if !isSafePath(f.Name) {
		return nil, fmt.Errorf("epub: unsafe zip entry path: %s", f.Name)
	}
	if f.UncompressedSize64 > uint64(maxDecompressSize) {
		return nil, fmt.Errorf("epub: zip entry %s too large: %d bytes", f.Name, f.UncompressedSize64)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("epub: open zip entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxDecompressSize+1))
	if err != nil {
		return nil, fmt.Errorf("epub: read zip entry %s: %w", f.Name, err)
	}
	if int64(len(data)) > maxDecompressSize {
		return nil, fmt.Errorf("epub: zip entry %s exceeds decompression limit", f.Name)
	}
	return data, nil
}

// resolveRelative resolves href against the directory of basePath. Both are
// ZIP-internal, forward-slash paths. Returns "" when the result would be
// absolute or escape the archive root.
func resolveRelative(basePath, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "/") {
		return ""
	}
	if decoded, err := url.PathUnescape(href); err == nil {
		href = decoded
	}
	cleaned := path.Clean(path.Join(path.Dir(basePath), href))
	if !isSafePath(cleaned) {
		return ""
	}
	return cleaned
}

// stripBOM removes a leading UTF-8 BOM, if present.
func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

var namedEntityPattern = regexp.MustCompile(`&[a-zA-Z]+;`)

// entityNumeric maps HTML named entities that commonly appear in EPUB XML
// to numeric references encoding/xml can handle.
var entityNumeric = map[string][]byte{
	"nbsp":   []byte("&#160;"),
	"copy":   []byte("&#169;"),
	"reg":    []byte("&#174;"),
	"mdash":  []byte("&#8212;"),
	"ndash":  []byte("&#8211;"),
	"hellip": []byte("&#8230;"),
	"lsquo":  []byte("&#8216;"),
	"rsquo":  []byte("&#8217;"),
	"ldquo":  []byte("&#8220;"),
	"rdquo":  []byte("&#8221;"),
}

// normalizeEntities replaces known HTML named entities with numeric
// references so strict XML parsing does not choke on them. The five
// XML-predefined entities pass through untouched.
func normalizeEntities(data []byte) []byte {
	return namedEntityPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := strings.ToLower(string(match[1 : len(match)-1]))
		if replacement, ok := entityNumeric[name]; ok {
			return replacement
		}
		return match
	})
}
