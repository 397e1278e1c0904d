package api

import (
	"net/http"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "QR Code API ready"})
}

type testResponse struct {
	Backend  string `json:"backend"`
	Database string `json:"database"`
	Version  string `json:"version,omitempty"`
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	resp := testResponse{
		Backend: "running",
		Version: s.Version,
	}

	if s.Store == nil {
		resp.Database = "unavailable"
	} else if err := s.Store.Ping(); err != nil {
		s.Log.Warn("database probe failed", "error", err)
		resp.Database = "unavailable"
	} else {
		resp.Database = "connected"
	}

	writeJSON(w, http.StatusOK, resp)
}
