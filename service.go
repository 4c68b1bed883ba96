package shelfserve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shelfserve/shelfserve/epub"
	"github.com/shelfserve/shelfserve/metrics"
)

// htmlContentType is the mime served for rendered TOC documents and assumed
// for HTML-like resources that declare no type of their own.
const htmlContentType = "text/html; charset=utf-8"

// Content is one resolved archive resource: its mime (possibly empty when
// undeterminable) and its bytes, with navigation already injected for
// HTML-like resources.
type Content struct {
	Mime string
	Body []byte
}

// Service resolves EPUB tables of contents and archive-internal resources,
// caching rendered output across requests. Archives are opened per request
// and dropped once the derived output is computed; only the derived output
// is cached.
type Service struct {
	root *os.Root

	tocCache  *Cache[string, string]
	contCache *Cache[string, Content]
}

// NewService creates a Service over the given content root. The root
// sandboxes archive opens, so a decoded token can never escape it.
func NewService(root *os.Root, tocSize, contentSize int) (*Service, error) {
	tocCache, err := NewCache[string, string]("epub_toc", tocSize)
	if err != nil {
		return nil, fmt.Errorf("create toc cache: %w", err)
	}
	contCache, err := NewCache[string, Content]("epub_cont", contentSize)
	if err != nil {
		return nil, fmt.Errorf("create content cache: %w", err)
	}

	return &Service{
		root:      root,
		tocCache:  tocCache,
		contCache: contCache,
	}, nil
}

// openArchive opens the EPUB at the given root-relative path and returns
// the archive along with the file backing it; the caller closes the file
// when done with the archive. All failures are deterministic and reported
// as *OpenError.
func (s *Service) openArchive(path string) (*epub.Archive, *os.File, error) {
	f, err := s.root.Open(path)
	if err != nil {
		metrics.RecordArchiveOpen(false)
		return nil, nil, &OpenError{Path: path, Err: err}
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		metrics.RecordArchiveOpen(false)
		return nil, nil, &OpenError{Path: path, Err: err}
	}

	a, err := epub.NewReader(f, info.Size())
	if err != nil {
		f.Close()
		metrics.RecordArchiveOpen(false)
		return nil, nil, &OpenError{Path: path, Err: err}
	}

	metrics.RecordArchiveOpen(true)
	return a, f, nil
}

// TOC returns the rendered table of contents for the archive at
// archivePath. When the archive has no TOC but a non-empty spine, the
// response delegates byte-for-byte to the first spine resource's content.
// An archive with neither yields ErrNoContent.
func (s *Service) TOC(ctx context.Context, archivePath string) (Content, error) {
	if rendered, ok := s.tocCache.Get(archivePath); ok {
		return Content{Mime: htmlContentType, Body: []byte(rendered)}, nil
	}

	a, f, err := s.openArchive(archivePath)
	if err != nil {
		return Content{}, err
	}
	defer f.Close()

	token := EncodePath(archivePath)

	if len(a.TOC()) == 0 {
		spine := a.Spine()
		if len(spine) > 0 {
			first := a.Resources()[spine[0]]
			slog.Debug("empty toc, delegating to first spine resource",
				"archive", archivePath, "inner", first.Path)
			return s.Content(ctx, token, first.Path)
		}
		return Content{}, fmt.Errorf("%w: %s", ErrNoContent, archivePath)
	}

	var out strings.Builder
	fmt.Fprintf(&out, `<head><base href="/epub_cont/%s/"/></head>`, token)
	out.WriteString("<body>")
	for _, nav := range a.TOC() {
		renderNavPoint(&out, 0, nav)
	}
	out.WriteString("</body>")

	rendered := out.String()
	s.tocCache.Put(archivePath, rendered)

	return Content{Mime: htmlContentType, Body: []byte(rendered)}, nil
}

// renderNavPoint emits one TOC line per NavPoint, pre-order, with
// indentation proportional to depth. Hrefs are relative; the <base>
// reference emitted by TOC resolves them against the content endpoint.
func renderNavPoint(out *strings.Builder, depth int, nav epub.NavPoint) {
	out.WriteString("<div>")
	for range depth {
		out.WriteString("&emsp;")
	}
	fmt.Fprintf(out, `<a href="%s">%s</a></div>`, nav.Href, nav.Label)
	for _, child := range nav.Children {
		renderNavPoint(out, depth+1, child)
	}
}

// Content resolves one archive-internal resource. HTML-like content gets a
// navigation bar injected at the top and bottom of the body; everything
// else passes through unmodified.
func (s *Service) Content(ctx context.Context, token, innerPath string) (Content, error) {
	key := token + "/" + innerPath
	if cont, ok := s.contCache.Get(key); ok {
		return cont, nil
	}

	archivePath, err := DecodePath(token)
	if err != nil {
		return Content{}, err
	}

	a, f, err := s.openArchive(archivePath)
	if err != nil {
		return Content{}, err
	}
	defer f.Close()

	res, body, err := a.ResourceByPath(innerPath)
	if err != nil {
		if errors.Is(err, epub.ErrFileNotFound) {
			return Content{}, fmt.Errorf("%w: [%s]", ErrResourceNotFound, innerPath)
		}
		return Content{}, &OpenError{Path: archivePath, Err: err}
	}

	mimeType := resolveMime(res, innerPath)

	if strings.Contains(mimeType, "htm") {
		if nav := buildNavBar(a, token, archivePath, innerPath); nav != "" {
			body = injectNavBar(body, nav)
		}
	}

	cont := Content{Mime: mimeType, Body: body}
	s.contCache.Put(key, cont)
	return cont, nil
}

// resolveMime prefers the resource's declared media type, then the inner
// path's extension, then assumes HTML for HTML-looking paths.
func resolveMime(res epub.Resource, innerPath string) string {
	if res.MediaType != "" {
		return res.MediaType
	}
	if mt := mime.TypeByExtension(filepath.Ext(innerPath)); mt != "" {
		return mt
	}
	if strings.Contains(innerPath, "htm") {
		return htmlContentType
	}
	return ""
}

// buildNavBar renders the Prev / Table of Contents / Next bar for the
// resource at innerPath. Slots that cannot link render as greyed-out
// placeholders; when no slot is renderable the bar is omitted entirely.
func buildNavBar(a *epub.Archive, token, archivePath, innerPath string) string {
	idx := a.SpineIndexByPath(innerPath)
	spine := a.Spine()

	var out strings.Builder
	out.WriteString(`<div style="display: flex; justify-content: space-between; align-items: center;">`)
	hasNav := false

	if idx > 0 {
		prev := a.Resources()[spine[idx-1]]
		fmt.Fprintf(&out, `<a href="/epub_cont/%s/%s">Prev</a>`, token, prev.Path)
		hasNav = true
	} else {
		out.WriteString(`<span style="color:grey">Prev</span>`)
	}

	if len(a.TOC()) > 0 {
		fmt.Fprintf(&out, `<a href="/epub_toc/%s">Table of Contents</a>`, escapePath(archivePath))
		hasNav = true
	} else {
		out.WriteString(`<span style="color:grey">Table of Contents</span>`)
	}

	if idx >= 0 && idx < len(spine)-1 {
		next := a.Resources()[spine[idx+1]]
		fmt.Fprintf(&out, `<a href="/epub_cont/%s/%s">Next</a>`, token, next.Path)
		hasNav = true
	} else {
		out.WriteString(`<span style="color:grey">Next</span>`)
	}

	if !hasNav {
		return ""
	}
	out.WriteString("</div>")
	return out.String()
}

// escapePath percent-escapes an archive path for use in the TOC route,
// keeping path separators intact.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

var bodyOpenPattern = regexp.MustCompile(`<body.*?>`)

// injectNavBar inserts the bar immediately after every opening body tag and
// immediately before every closing one, so it shows at both the top and the
// bottom of the rendered chapter.
func injectNavBar(body []byte, nav string) []byte {
	out := bodyOpenPattern.ReplaceAllString(string(body), "$0"+nav)
	out = strings.ReplaceAll(out, "</body>", nav+"</body>")
	return []byte(out)
}
