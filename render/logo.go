package render

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"
	"time"

	xdraw "golang.org/x/image/draw"
)

const (
	// logoScale is the logo bounding box as a fraction of the shorter QR
	// dimension.
	logoScale = 0.2
	// backingPad is added on each side of the logo to size its white
	// contrast backing (16 pixels larger in each dimension total).
	backingPad = 8
	// backingAlpha keeps the backing slightly translucent so a hint of the
	// pattern shows through.
	backingAlpha = 220
)

// DefaultLogoTimeout bounds the logo HTTP fetch when no timeout is
// configured.
const DefaultLogoTimeout = 6 * time.Second

// LogoFetcher retrieves and decodes logo images over HTTP. Every failure
// mode is reported as a missing logo, never as an error; callers simply
// skip the overlay.
type LogoFetcher struct {
	client *http.Client
	log    *slog.Logger
}

// NewLogoFetcher returns a LogoFetcher whose requests are bounded by
// timeout.
func NewLogoFetcher(timeout time.Duration, log *slog.Logger) *LogoFetcher {
	if timeout <= 0 {
		timeout = DefaultLogoTimeout
	}
	return &LogoFetcher{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Fetch downloads and decodes the image at url. Returns nil on any network,
// status, or decode failure.
func (f *LogoFetcher) Fetch(ctx context.Context, url string) image.Image {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		f.log.Debug("logo request rejected", "url", url, "error", err)
		return nil
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.log.Debug("logo fetch failed", "url", url, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.log.Debug("logo fetch non-2xx", "url", url, "status", resp.StatusCode)
		return nil
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		f.log.Debug("logo decode failed", "url", url, "error", err)
		return nil
	}
	return img
}

// overlayLogo composites the white contrast backing and the fitted logo,
// both centered on the canvas. The backing goes beneath the logo to improve
// scan contrast against the QR pattern.
func overlayLogo(canvas *image.NRGBA, logo image.Image) {
	b := canvas.Bounds()
	shorter := b.Dx()
	if b.Dy() < shorter {
		shorter = b.Dy()
	}
	target := int(float64(shorter) * logoScale)
	if target < 1 {
		return
	}

	fitted := fitWithin(logo, target)
	lw := fitted.Bounds().Dx()
	lh := fitted.Bounds().Dy()

	bw := lw + 2*backingPad
	bh := lh + 2*backingPad
	backingPos := image.Pt(b.Min.X+(b.Dx()-bw)/2, b.Min.Y+(b.Dy()-bh)/2)
	backingRect := image.Rectangle{Min: backingPos, Max: backingPos.Add(image.Pt(bw, bh))}
	backing := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: backingAlpha}
	draw.Draw(canvas, backingRect, image.NewUniform(backing), image.Point{}, draw.Over)

	logoPos := image.Pt(b.Min.X+(b.Dx()-lw)/2, b.Min.Y+(b.Dy()-lh)/2)
	logoRect := image.Rectangle{Min: logoPos, Max: logoPos.Add(image.Pt(lw, lh))}
	draw.Draw(canvas, logoRect, fitted, fitted.Bounds().Min, draw.Over)
}

// fitWithin scales img to fit inside a target×target box, preserving aspect
// ratio. Images already inside the box are returned unscaled; logos are
// never upscaled.
func fitWithin(img image.Image, target int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 1 || h < 1 {
		return img
	}
	if w <= target && h <= target {
		return img
	}

	scale := float64(target) / float64(w)
	if s := float64(target) / float64(h); s < scale {
		scale = s
	}
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
