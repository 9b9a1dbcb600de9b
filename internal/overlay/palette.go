package overlay

import (
	"hash/fnv"
	"image/color"
	"math"
)

// ColorPolicy assigns a stable color to a detection class. Stability across
// renders matters: colors that change between renders of the same class read
// as different objects.
type ColorPolicy interface {
	ColorFor(label string, classID int) color.RGBA
}

// HashPalette hashes the class label into a hue, so every class gets the
// same color on every render without a preconfigured table.
type HashPalette struct {
	Saturation float64
	Value      float64
}

// NewHashPalette returns a HashPalette with saturation/value tuned for
// overlay visibility.
func NewHashPalette() *HashPalette {
	return &HashPalette{Saturation: 0.78, Value: 0.92}
}

func (p *HashPalette) ColorFor(label string, classID int) color.RGBA {
	h := fnv.New32a()
	h.Write([]byte(label))
	hue := float64(h.Sum32() % 360)
	return hsvToRGB(hue, p.Saturation, p.Value)
}

// TablePalette looks classes up in a fixed table, with a fallback color for
// unlisted classes.
type TablePalette struct {
	Colors   map[string]color.RGBA
	Fallback color.RGBA
}

func (p *TablePalette) ColorFor(label string, classID int) color.RGBA {
	if c, ok := p.Colors[label]; ok {
		return c
	}
	return p.Fallback
}

// hsvToRGB converts hue (0-360), saturation and value (0-1) to RGBA.
func hsvToRGB(h, s, v float64) color.RGBA {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return color.RGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}
