package render

import (
	"github.com/mcuadros/go-defaults"
)

// Options configures the PNG renderer. Zero Width or Height means the figure
// is sized from the number of nodes drawn.
type Options struct {
	Dir    string  `default:"charts"`
	Width  int
	Height int
	DPI    float64 `default:"96"`
	// LabelThreshold hides bar value labels smaller than this.
	LabelThreshold float64 `default:"0.001"`
}

func (o *Options) SetDefaults() {
	defaults.SetDefaults(o)
}

// FigureSize returns the canvas size for a chart showing n nodes.
func FigureSize(n int) (int, int) {
	switch {
	case n <= 5:
		return 1200, 800
	case n <= 10:
		return 1400, 1000
	case n <= 20:
		return 1600, 1200
	default:
		return 1800, 1400
	}
}

func (o Options) size(n int) (int, int) {
	w, h := FigureSize(n)
	if o.Width > 0 {
		w = o.Width
	}
	if o.Height > 0 {
		h = o.Height
	}
	return w, h
}
