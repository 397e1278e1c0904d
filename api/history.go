package api

import (
	"net/http"

	"github.com/openclaw/qrstudio/render"
)

// History listing limits (records per request).
const (
	defaultHistoryLimit = 12
	maxHistoryLimit     = 50
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultHistoryLimit)
	if limit < 1 {
		limit = 1
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	// Any persistence failure yields an empty list, never an error status.
	out := make([]historyRecord, 0, limit)
	if s.Store == nil {
		writeJSON(w, http.StatusOK, out)
		return
	}

	docs, err := s.Store.GetDocuments(historyCollection, nil, limit)
	if err != nil {
		s.Log.Warn("history read failed", "error", err)
		writeJSON(w, http.StatusOK, out)
		return
	}

	for _, doc := range docs {
		out = append(out, normalizeRecord(doc))
	}
	writeJSON(w, http.StatusOK, out)
}

// normalizeRecord fills absent or malformed fields with the documented
// defaults.
func normalizeRecord(doc map[string]any) historyRecord {
	return historyRecord{
		Content:         docString(doc, "content", ""),
		FillColor:       docString(doc, "fill_color", render.DefaultFillColor),
		BackColor:       docString(doc, "back_color", render.DefaultBackColor),
		BoxSize:         docInt(doc, "box_size", render.DefaultBoxSize),
		Border:          docInt(doc, "border", render.DefaultBorder),
		ErrorCorrection: render.NormalizeECLevel(docString(doc, "error_correction", render.DefaultErrorCorrection)),
		LogoURL:         docString(doc, "logo_url", ""),
	}
}

// --- helpers ----------------------------------------------------------------

func docString(doc map[string]any, key, fallback string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return fallback
}

func docInt(doc map[string]any, key string, fallback int) int {
	// JSON numbers decode as float64.
	if v, ok := doc[key].(float64); ok {
		return int(v)
	}
	return fallback
}
