package render

import (
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Defaults for generation options. Absent fields on incoming requests are
// filled with these before rendering and before persisting history.
const (
	DefaultFillColor       = "#111827"
	DefaultBackColor       = "#ffffff"
	DefaultBoxSize         = 10
	DefaultBorder          = 4
	DefaultErrorCorrection = "M"
)

// Supported ranges for the numeric options.
const (
	maxBoxSize = 50
	maxBorder  = 20
)

// Options describes a single QR generation: the encoded content plus the
// styling knobs applied by the composition pipeline.
type Options struct {
	Content         string
	FillColor       string
	BackColor       string
	BoxSize         int // pixels rendered per QR module
	Border          int // blank modules padding the matrix edge
	ErrorCorrection string
	Rounded         bool
	LogoURL         string
}

// DefaultOptions returns Options with every field except Content populated
// with its default.
func DefaultOptions() Options {
	return Options{
		FillColor:       DefaultFillColor,
		BackColor:       DefaultBackColor,
		BoxSize:         DefaultBoxSize,
		Border:          DefaultBorder,
		ErrorCorrection: DefaultErrorCorrection,
		Rounded:         true,
	}
}

// normalized returns a copy of o with empty fields defaulted and numeric
// fields clamped into their supported ranges.
func (o Options) normalized() Options {
	if o.FillColor == "" {
		o.FillColor = DefaultFillColor
	}
	if o.BackColor == "" {
		o.BackColor = DefaultBackColor
	}
	if o.BoxSize <= 0 {
		o.BoxSize = DefaultBoxSize
	}
	if o.BoxSize > maxBoxSize {
		o.BoxSize = maxBoxSize
	}
	if o.Border < 0 {
		o.Border = 0
	}
	if o.Border > maxBorder {
		o.Border = maxBorder
	}
	o.ErrorCorrection = NormalizeECLevel(o.ErrorCorrection)
	return o
}

// NormalizeECLevel returns the canonical error correction level name for s.
// Unrecognized values silently fall back to M.
func NormalizeECLevel(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L":
		return "L"
	case "M":
		return "M"
	case "Q":
		return "Q"
	case "H":
		return "H"
	default:
		return DefaultErrorCorrection
	}
}

// recoveryLevel maps a canonical level name to the encoder's constant.
func recoveryLevel(name string) qrcode.RecoveryLevel {
	switch name {
	case "L":
		return qrcode.Low
	case "Q":
		return qrcode.High
	case "H":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}
