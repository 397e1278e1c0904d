package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/openclaw/qrstudio/render"
)

// historyCollection is the document store collection holding generation
// history.
const historyCollection = "qr"

// generateRequest mirrors the POST /api/qrcode.png body. Border and Rounded
// are pointers so that an absent field can be told apart from an explicit
// zero or false.
type generateRequest struct {
	Content         string `json:"content"`
	FillColor       string `json:"fill_color"`
	BackColor       string `json:"back_color"`
	BoxSize         int    `json:"box_size"`
	Border          *int   `json:"border"`
	ErrorCorrection string `json:"error_correction"`
	Rounded         *bool  `json:"rounded"`
	LogoURL         string `json:"logo_url"`
}

// historyRecord is the persisted copy of one generation's fields.
type historyRecord struct {
	Content         string `json:"content"`
	FillColor       string `json:"fill_color"`
	BackColor       string `json:"back_color"`
	BoxSize         int    `json:"box_size"`
	Border          int    `json:"border"`
	ErrorCorrection string `json:"error_correction"`
	LogoURL         string `json:"logo_url,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	opts := req.options()
	png, err := s.Renderer.Render(r.Context(), opts)
	if err != nil {
		if errors.Is(err, render.ErrEmptyContent) {
			writeError(w, http.StatusBadRequest, "content is required")
			return
		}
		s.Log.Error("render failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Best-effort history write; a failed insert never fails the request.
	if s.Store != nil {
		record := historyRecord{
			Content:         opts.Content,
			FillColor:       opts.FillColor,
			BackColor:       opts.BackColor,
			BoxSize:         opts.BoxSize,
			Border:          opts.Border,
			ErrorCorrection: render.NormalizeECLevel(opts.ErrorCorrection),
			LogoURL:         opts.LogoURL,
		}
		if err := s.Store.CreateDocument(historyCollection, record); err != nil {
			s.Log.Warn("history write failed", "error", err)
		}
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// options merges the request over the documented defaults.
func (req generateRequest) options() render.Options {
	opts := render.DefaultOptions()
	opts.Content = req.Content
	if req.FillColor != "" {
		opts.FillColor = req.FillColor
	}
	if req.BackColor != "" {
		opts.BackColor = req.BackColor
	}
	if req.BoxSize > 0 {
		opts.BoxSize = req.BoxSize
	}
	if req.Border != nil {
		opts.Border = *req.Border
	}
	if req.ErrorCorrection != "" {
		opts.ErrorCorrection = req.ErrorCorrection
	}
	if req.Rounded != nil {
		opts.Rounded = *req.Rounded
	}
	opts.LogoURL = req.LogoURL
	return opts
}
