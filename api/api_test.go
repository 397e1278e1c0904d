package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/qrstudio/render"
)

// fakeStore implements DocumentStore for handler tests.
type fakeStore struct {
	createErr error
	getErr    error
	pingErr   error
	docs      []map[string]any

	created   []any
	lastLimit int
}

func (f *fakeStore) CreateDocument(collection string, doc any) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, doc)
	return nil
}

func (f *fakeStore) GetDocuments(collection string, filter map[string]any, limit int) ([]map[string]any, error) {
	f.lastLimit = limit
	if f.getErr != nil {
		return nil, f.getErr
	}
	if limit > len(f.docs) {
		limit = len(f.docs)
	}
	return f.docs[:limit], nil
}

func (f *fakeStore) Ping() error {
	return f.pingErr
}

func newTestServer(store DocumentStore) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(&Server{
		Renderer: render.New(render.NewLogoFetcher(time.Second, log), log),
		Store:    store,
		Log:      log,
		Version:  "test",
	})
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGenerateReturnsPNG(t *testing.T) {
	store := &fakeStore{}
	h := newTestServer(store)

	rec := postJSON(t, h, "/api/qrcode.png", `{"content":"https://example.com"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	_, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	assert.NoError(t, err, "response body is a well-formed PNG")

	require.Len(t, store.created, 1, "successful generation writes one history record")
}

func TestGenerateBlankContent(t *testing.T) {
	h := newTestServer(&fakeStore{})

	for _, body := range []string{`{"content":""}`, `{"content":"   "}`, `{}`} {
		rec := postJSON(t, h, "/api/qrcode.png", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
		assert.Contains(t, rec.Body.String(), "content is required")
	}
}

func TestGenerateInvalidBody(t *testing.T) {
	h := newTestServer(&fakeStore{})

	rec := postJSON(t, h, "/api/qrcode.png", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateStoreFailureStillReturnsPNG(t *testing.T) {
	store := &fakeStore{createErr: errors.New("db down")}
	h := newTestServer(store)

	rec := postJSON(t, h, "/api/qrcode.png", `{"content":"persist me"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	_, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	assert.NoError(t, err)
}

func TestGenerateWithoutStore(t *testing.T) {
	h := newTestServer(nil)

	rec := postJSON(t, h, "/api/qrcode.png", `{"content":"no store"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGeneratePersistsNormalizedRecord(t *testing.T) {
	store := &fakeStore{}
	h := newTestServer(store)

	rec := postJSON(t, h, "/api/qrcode.png", `{"content":"hi","error_correction":"x","border":0}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, store.created, 1)
	record, ok := store.created[0].(historyRecord)
	require.True(t, ok)
	assert.Equal(t, "hi", record.Content)
	assert.Equal(t, "M", record.ErrorCorrection, "unknown level persisted as M")
	assert.Equal(t, 0, record.Border, "explicit zero border survives")
	assert.Equal(t, render.DefaultFillColor, record.FillColor)
	assert.Equal(t, render.DefaultBoxSize, record.BoxSize)
}

func TestHistoryLimitClamped(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"", 12},
		{"?limit=5", 5},
		{"?limit=0", 1},
		{"?limit=51", 50},
		{"?limit=junk", 12},
	}
	for _, tc := range cases {
		store := &fakeStore{}
		h := newTestServer(store)

		rec := get(t, h, "/api/history"+tc.query)
		assert.Equal(t, http.StatusOK, rec.Code, "query %q", tc.query)
		assert.Equal(t, tc.want, store.lastLimit, "query %q", tc.query)
	}
}

func TestHistoryReturnsAtMostLimit(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 10; i++ {
		store.docs = append(store.docs, map[string]any{"content": "item"})
	}
	h := newTestServer(store)

	rec := get(t, h, "/api/history?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 5)
}

func TestHistoryStoreErrorReturnsEmptyArray(t *testing.T) {
	store := &fakeStore{getErr: errors.New("db down")}
	h := newTestServer(store)

	rec := get(t, h, "/api/history")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHistoryWithoutStoreReturnsEmptyArray(t *testing.T) {
	h := newTestServer(nil)

	rec := get(t, h, "/api/history")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHistoryNormalizesMissingFields(t *testing.T) {
	store := &fakeStore{docs: []map[string]any{{"content": "bare"}}}
	h := newTestServer(store)

	rec := get(t, h, "/api/history")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []historyRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)

	assert.Equal(t, "bare", items[0].Content)
	assert.Equal(t, render.DefaultFillColor, items[0].FillColor)
	assert.Equal(t, render.DefaultBackColor, items[0].BackColor)
	assert.Equal(t, render.DefaultBoxSize, items[0].BoxSize)
	assert.Equal(t, render.DefaultBorder, items[0].Border)
	assert.Equal(t, "M", items[0].ErrorCorrection)
	assert.Empty(t, items[0].LogoURL)
}

func TestRootLiveness(t *testing.T) {
	h := newTestServer(&fakeStore{})

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"QR Code API ready"}`, rec.Body.String())
}

func TestConnectivityProbe(t *testing.T) {
	h := newTestServer(&fakeStore{})
	rec := get(t, h, "/test")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp testResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "running", resp.Backend)
	assert.Equal(t, "connected", resp.Database)

	h = newTestServer(&fakeStore{pingErr: errors.New("db down")})
	rec = get(t, h, "/test")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unavailable", resp.Database)
}

func TestUIPage(t *testing.T) {
	h := newTestServer(&fakeStore{})

	rec := get(t, h, "/ui")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "QR Studio")
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(&fakeStore{})

	req := httptest.NewRequest(http.MethodOptions, "/api/qrcode.png", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
