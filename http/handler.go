package http

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shelfserve/shelfserve"
	"github.com/shelfserve/shelfserve/metrics"
)

// Service resolves EPUB tables of contents and archive-internal resources.
type Service interface {
	TOC(ctx context.Context, archivePath string) (shelfserve.Content, error)
	Content(ctx context.Context, token, innerPath string) (shelfserve.Content, error)
}

type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type HandlerConfig struct {
	Verifier CredentialVerifier
	CORS     CORSConfig
}

// Handler provides the HTTP handlers for the content server.
type Handler struct {
	config  HandlerConfig
	service Service
	root    *os.Root
}

// NewHandler creates a Handler serving EPUB routes via service and the
// filesystem browser over root.
func NewHandler(config *HandlerConfig, service Service, root *os.Root) *Handler {
	return &Handler{
		config:  *config,
		service: service,
		root:    root,
	}
}

// Router returns the configured http.Handler. The two EPUB routes take
// precedence; everything else falls through to the filesystem browser.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Compress(5))

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Use(BasicAuthMiddleware(h.config.Verifier))

	r.Get("/epub_toc/*", h.handleTOC)
	r.Get("/epub_cont/{token}/*", h.handleContent)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/", h.handleFS)
	r.Get("/*", h.handleFS)

	return r
}

func (h *Handler) handleTOC(w http.ResponseWriter, r *http.Request) {
	archivePath := strings.TrimPrefix(r.URL.Path, "/epub_toc/")
	if archivePath == "" {
		WriteText(w, http.StatusNotFound, "Resource not found")
		return
	}

	cont, err := h.service.TOC(r.Context(), archivePath)
	if err != nil {
		HandleError(w, err)
		return
	}

	writeContent(w, cont)
}

func (h *Handler) handleContent(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	innerPath := chi.URLParam(r, "*")

	cont, err := h.service.Content(r.Context(), token, innerPath)
	if err != nil {
		HandleError(w, err)
		return
	}

	writeContent(w, cont)
}

// writeContent writes a resolved resource. The Content-Type header is
// omitted when the mime could not be determined.
func writeContent(w http.ResponseWriter, cont shelfserve.Content) {
	if cont.Mime != "" {
		w.Header().Set("Content-Type", cont.Mime)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(cont.Body)
}
