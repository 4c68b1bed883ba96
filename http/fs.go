package http

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// handleFS serves everything the EPUB routes do not claim: directory
// listings for directories, raw bytes for regular files.
func (h *Handler) handleFS(w http.ResponseWriter, r *http.Request) {
	relPath := strings.TrimPrefix(r.URL.Path, "/")
	if relPath == "" {
		relPath = "."
	}

	info, err := h.root.Stat(relPath)
	if err != nil {
		WriteText(w, http.StatusNotFound, "Resource not found")
		return
	}

	switch {
	case info.IsDir():
		h.serveDir(w, r, relPath)
	case info.Mode().IsRegular():
		h.serveFile(w, r, relPath)
	default:
		WriteText(w, http.StatusNotFound, "Resource not found")
	}
}

// serveDir renders a directory listing. Each entry links to its own path;
// .epub entries additionally get a reader link to the TOC endpoint.
func (h *Handler) serveDir(w http.ResponseWriter, r *http.Request, relPath string) {
	entries, err := fs.ReadDir(h.root.FS(), relPath)
	if err != nil {
		WriteText(w, http.StatusInternalServerError,
			fmt.Sprintf("Reading dir [%s] failed: %v", relPath, err))
		return
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var out strings.Builder
	for _, entry := range entries {
		name := entry.Name()

		entryURL := r.URL.Path
		if !strings.HasSuffix(entryURL, "/") {
			entryURL += "/"
		}
		entryURL += url.PathEscape(name)

		out.WriteString("<div>")
		if entry.IsDir() {
			out.WriteString("[+&nbsp;")
		} else {
			out.WriteString("[-&nbsp;")
		}
		fmt.Fprintf(&out, `<a href="%s">%s</a>]`, entryURL, name)

		if !entry.IsDir() {
			if fi, err := entry.Info(); err == nil {
				fmt.Fprintf(&out, "&nbsp;[%s]", humanize.IBytes(uint64(fi.Size())))
			}
		}
		if strings.HasSuffix(name, ".epub") {
			fmt.Fprintf(&out, `&nbsp;[<a href="/epub_toc%s">Read</a>]`, entryURL)
		}
		out.WriteString("</div>")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, out.String()); err != nil {
		slog.Error("failed to write directory listing", "error", err)
	}
}

// serveFile streams a regular file with range support and an
// extension-derived content type.
func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, relPath string) {
	f, err := h.root.Open(relPath)
	if err != nil {
		WriteText(w, http.StatusInternalServerError,
			fmt.Sprintf("Opening file [%s] failed: %v", relPath, err))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		WriteText(w, http.StatusInternalServerError,
			fmt.Sprintf("Opening file [%s] failed: %v", relPath, err))
		return
	}

	http.ServeContent(w, r, relPath, info.ModTime(), f)
}
