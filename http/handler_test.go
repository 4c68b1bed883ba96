package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shelfserve/shelfserve"
	shelfhttp "github.com/shelfserve/shelfserve/http"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) TOC(ctx context.Context, archivePath string) (shelfserve.Content, error) {
	args := m.Called(ctx, archivePath)
	return args.Get(0).(shelfserve.Content), args.Error(1)
}

func (m *mockService) Content(ctx context.Context, token, innerPath string) (shelfserve.Content, error) {
	args := m.Called(ctx, token, innerPath)
	return args.Get(0).(shelfserve.Content), args.Error(1)
}

func newTestRouter(t *testing.T, svc shelfhttp.Service, verifier shelfhttp.CredentialVerifier) http.Handler {
	t.Helper()

	root, err := os.OpenRoot(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close() })

	handler := shelfhttp.NewHandler(&shelfhttp.HandlerConfig{Verifier: verifier}, svc, root)
	return handler.Router()
}

func TestTOCRoute(t *testing.T) {
	svc := new(mockService)
	svc.On("TOC", mock.Anything, "books/novel.epub").
		Return(shelfserve.Content{
			Mime: "text/html; charset=utf-8",
			Body: []byte("<body>toc</body>"),
		}, nil)

	router := newTestRouter(t, svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/epub_toc/books/novel.epub", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<body>toc</body>", rec.Body.String())
	svc.AssertExpectations(t)
}

func TestContentRoute(t *testing.T) {
	svc := new(mockService)
	svc.On("Content", mock.Anything, "dG9rZW4", "OEBPS/ch1.xhtml").
		Return(shelfserve.Content{
			Mime: "application/xhtml+xml",
			Body: []byte("<body>chapter</body>"),
		}, nil)

	router := newTestRouter(t, svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/epub_cont/dG9rZW4/OEBPS/ch1.xhtml", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xhtml+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<body>chapter</body>", rec.Body.String())
	svc.AssertExpectations(t)
}

func TestContentRouteOmitsUnknownMime(t *testing.T) {
	svc := new(mockService)
	svc.On("Content", mock.Anything, "tok", "data.bin").
		Return(shelfserve.Content{Mime: "", Body: []byte{0x01, 0x02}}, nil)

	router := newTestRouter(t, svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/epub_cont/tok/data.bin", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0x01, 0x02}, rec.Body.Bytes())
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
		wantType   string
	}{
		{
			name:       "bad token",
			err:        shelfserve.ErrBadToken,
			wantStatus: http.StatusBadRequest,
			wantType:   "text/plain; charset=utf-8",
		},
		{
			name:       "resource not found",
			err:        shelfserve.ErrResourceNotFound,
			wantStatus: http.StatusNotFound,
			wantType:   "text/plain; charset=utf-8",
		},
		{
			name:       "no content",
			err:        shelfserve.ErrNoContent,
			wantStatus: http.StatusNotFound,
			wantBody:   "No contents found in the epub file",
			wantType:   "text/plain; charset=utf-8",
		},
		{
			name:       "open failure",
			err:        &shelfserve.OpenError{Path: "bad.epub", Err: errors.New("not a zip")},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "reading/parsing epub [bad.epub] failed: not a zip",
			wantType:   "text/html; charset=utf-8",
		},
		{
			name:       "unexpected error",
			err:        errors.New("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Internal server error",
			wantType:   "text/plain; charset=utf-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			svc.On("Content", mock.Anything, "tok", "inner.xhtml").
				Return(shelfserve.Content{}, tt.err)

			router := newTestRouter(t, svc, nil)

			req := httptest.NewRequest(http.MethodGet, "/epub_cont/tok/inner.xhtml", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantType, rec.Header().Get("Content-Type"))
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestMetricsRoute(t *testing.T) {
	router := newTestRouter(t, new(mockService), nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
}

func TestNonGetMethodsRejected(t *testing.T) {
	router := newTestRouter(t, new(mockService), nil)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/epub_toc/a.epub", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "method %s", method)
	}
}
