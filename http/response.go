package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/shelfserve/shelfserve"
)

// WriteText writes a plain-text response with the given status code.
func WriteText(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	if _, err := io.WriteString(w, message); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// HandleError maps a core error to its HTTP response.
func HandleError(w http.ResponseWriter, err error) {
	slog.Error("request error", "error", err)

	var openErr *shelfserve.OpenError
	switch {
	case errors.Is(err, shelfserve.ErrBadToken):
		WriteText(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shelfserve.ErrResourceNotFound):
		WriteText(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shelfserve.ErrNoContent):
		WriteText(w, http.StatusNotFound, "No contents found in the epub file")
	case errors.As(err, &openErr):
		// Corruption is deterministic; surface the diagnostic, never retry.
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		if _, werr := io.WriteString(w, openErr.Error()); werr != nil {
			slog.Error("failed to write response", "error", werr)
		}
	default:
		WriteText(w, http.StatusInternalServerError, "Internal server error")
	}
}
