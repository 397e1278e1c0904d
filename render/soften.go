package render

import (
	"image"
	"math"
)

// minSoftenRadius is the floor for the softening radius regardless of how
// small the box size is.
const minSoftenRadius = 4

// softenEdges blurs the layer's alpha mask in place with a Gaussian of
// sigma = radius/3. Hard module edges become soft gradients rather than true
// rounded rectangles; this is a deliberate approximation. The color channels
// are untouched.
func softenEdges(layer *image.NRGBA, radius int) {
	if radius < minSoftenRadius {
		radius = minSoftenRadius
	}
	sigma := float64(radius) / 3.0
	kernel := gaussianKernel(sigma)
	blurAlpha(layer, kernel)
}

// gaussianKernel builds a normalized 1D Gaussian kernel covering three
// standard deviations on each side.
func gaussianKernel(sigma float64) []float64 {
	r := int(math.Ceil(sigma * 3))
	if r < 1 {
		r = 1
	}
	kernel := make([]float64, 2*r+1)
	sum := 0.0
	for i := -r; i <= r; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+r] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// blurAlpha applies the separable kernel to the alpha plane, horizontal pass
// then vertical, extending edge values at the borders.
func blurAlpha(layer *image.NRGBA, kernel []float64) {
	b := layer.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}
	r := len(kernel) / 2

	src := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src[y*w+x] = float64(layer.Pix[layer.PixOffset(b.Min.X+x, b.Min.Y+y)+3])
		}
	}

	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := src[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			acc := 0.0
			for k := -r; k <= r; k++ {
				sx := x + k
				if sx < 0 {
					sx = 0
				} else if sx >= w {
					sx = w - 1
				}
				acc += row[sx] * kernel[k+r]
			}
			tmp[y*w+x] = acc
		}
	}

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			acc := 0.0
			for k := -r; k <= r; k++ {
				sy := y + k
				if sy < 0 {
					sy = 0
				} else if sy >= h {
					sy = h - 1
				}
				acc += tmp[sy*w+x] * kernel[k+r]
			}
			layer.Pix[layer.PixOffset(b.Min.X+x, b.Min.Y+y)+3] = uint8(math.Round(acc))
		}
	}
}
