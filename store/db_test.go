package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *DocumentStore {
	t.Helper()
	s, err := NewDocumentStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetDocuments(t *testing.T) {
	s := openStore(t)

	for _, content := range []string{"first", "second", "third"} {
		require.NoError(t, s.CreateDocument("qr", map[string]any{"content": content}))
	}

	docs, err := s.GetDocuments("qr", nil, 10)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	// Newest first.
	assert.Equal(t, "third", docs[0]["content"])
	assert.Equal(t, "second", docs[1]["content"])
	assert.Equal(t, "first", docs[2]["content"])
}

func TestGetDocumentsHonorsLimit(t *testing.T) {
	s := openStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.CreateDocument("qr", map[string]any{"n": i}))
	}

	docs, err := s.GetDocuments("qr", nil, 2)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestCollectionsAreIsolated(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.CreateDocument("qr", map[string]any{"content": "a"}))
	require.NoError(t, s.CreateDocument("other", map[string]any{"content": "b"}))

	docs, err := s.GetDocuments("qr", nil, 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0]["content"])
}

func TestGetDocumentsFilter(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.CreateDocument("qr", map[string]any{"content": "a", "error_correction": "M"}))
	require.NoError(t, s.CreateDocument("qr", map[string]any{"content": "b", "error_correction": "H"}))

	docs, err := s.GetDocuments("qr", map[string]any{"error_correction": "H"}, 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b", docs[0]["content"])
}

func TestGetDocumentsEmptyCollection(t *testing.T) {
	s := openStore(t)

	docs, err := s.GetDocuments("qr", nil, 10)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStructDocumentsRoundTrip(t *testing.T) {
	s := openStore(t)

	type record struct {
		Content string `json:"content"`
		BoxSize int    `json:"box_size"`
	}
	require.NoError(t, s.CreateDocument("qr", record{Content: "hi", BoxSize: 10}))

	docs, err := s.GetDocuments("qr", nil, 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "hi", docs[0]["content"])
	assert.Equal(t, float64(10), docs[0]["box_size"])
}

func TestPing(t *testing.T) {
	s := openStore(t)
	assert.NoError(t, s.Ping())
}
