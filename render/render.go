// Package render implements the QR image composition pipeline: matrix
// encoding, color fill, corner softening via an alpha-mask blur, and the
// center logo overlay with its contrast backing.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log/slog"
	"strings"
)

// ErrEmptyContent is returned when the content is blank after trimming.
var ErrEmptyContent = errors.New("content is required")

// Renderer turns generation options into finished PNG bytes.
type Renderer struct {
	logos *LogoFetcher
	log   *slog.Logger
}

// New returns a Renderer. logos may be nil, in which case logo URLs are
// ignored.
func New(logos *LogoFetcher, log *slog.Logger) *Renderer {
	return &Renderer{logos: logos, log: log}
}

// Render composes the QR image for opts and returns it as PNG bytes.
//
// Composition order: background canvas, then the module layer (with its
// alpha mask softened when rounded), then the backing square, then the
// logo. Logo failures skip the overlay silently.
func (r *Renderer) Render(ctx context.Context, opts Options) ([]byte, error) {
	if strings.TrimSpace(opts.Content) == "" {
		return nil, ErrEmptyContent
	}
	opts = opts.normalized()

	matrix, err := encodeMatrix(opts.Content, recoveryLevel(opts.ErrorCorrection))
	if err != nil {
		return nil, err
	}

	fill := parseHexColor(opts.FillColor, parseHexColor(DefaultFillColor, black))
	back := parseHexColor(opts.BackColor, parseHexColor(DefaultBackColor, white))

	layer := moduleLayer(matrix, fill, opts.BoxSize, opts.Border)
	if opts.Rounded {
		radius := opts.BoxSize
		if radius < minSoftenRadius {
			radius = minSoftenRadius
		}
		softenEdges(layer, radius)
	}

	canvas := backgroundCanvas(layer.Bounds().Dx(), back)
	draw.Draw(canvas, canvas.Bounds(), layer, image.Point{}, draw.Over)

	if opts.LogoURL != "" && r.logos != nil {
		if logo := r.logos.Fetch(ctx, opts.LogoURL); logo != nil {
			overlayLogo(canvas, logo)
		} else {
			r.log.Debug("logo unavailable, rendering without overlay", "url", opts.LogoURL)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
