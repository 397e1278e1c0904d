package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	qrcode "github.com/skip2/go-qrcode"
)

// encodeMatrix encodes content into a raw QR module matrix with no quiet
// zone. Border padding is added during painting so the requested border
// width in modules is honored exactly.
func encodeMatrix(content string, level qrcode.RecoveryLevel) ([][]bool, error) {
	qr, err := qrcode.New(content, level)
	if err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}
	qr.DisableBorder = true
	return qr.Bitmap(), nil
}

// moduleLayer paints the matrix as a uniform fill-colored layer whose alpha
// channel is the module mask: 255 inside dark modules, 0 elsewhere. Keeping
// the color uniform across the layer means a blurred mask blends fill into
// background without dark fringes at module edges.
func moduleLayer(matrix [][]bool, fill color.NRGBA, boxSize, border int) *image.NRGBA {
	modules := len(matrix)
	side := (modules + 2*border) * boxSize
	layer := image.NewNRGBA(image.Rect(0, 0, side, side))

	for i := 0; i < len(layer.Pix); i += 4 {
		layer.Pix[i] = fill.R
		layer.Pix[i+1] = fill.G
		layer.Pix[i+2] = fill.B
	}

	for my, row := range matrix {
		for mx, dark := range row {
			if !dark {
				continue
			}
			x0 := (mx + border) * boxSize
			y0 := (my + border) * boxSize
			for y := y0; y < y0+boxSize; y++ {
				off := layer.PixOffset(x0, y)
				for x := 0; x < boxSize; x++ {
					layer.Pix[off+x*4+3] = 0xff
				}
			}
		}
	}

	return layer
}

// backgroundCanvas returns an opaque square canvas filled with the
// background color.
func backgroundCanvas(side int, back color.NRGBA) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, side, side))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(back), image.Point{}, draw.Src)
	return canvas
}
