package render

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/juju/errors"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/imishinist/n8n-timings/internal/analysis"
	"github.com/imishinist/n8n-timings/internal/models"
	"github.com/imishinist/n8n-timings/internal/view"
)

var statusColors = map[models.AttemptStatus]string{
	models.StatusSuccess: "2ecc71",
	models.StatusError:   "e74c3c",
}

const otherStatusColor = "95a5a6"

// PNGRenderer writes every payload it receives to Dir as NN-<view>.png.
// Payloads without data are skipped.
type PNGRenderer struct {
	opts    Options
	logger  *slog.Logger
	written []string
}

func NewPNGRenderer(opts Options, logger *slog.Logger) (*PNGRenderer, error) {
	opts.SetDefaults()
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, errors.Annotatef(err, "failed to create chart directory %s", opts.Dir)
	}
	return &PNGRenderer{opts: opts, logger: logger}, nil
}

// Files returns the paths written so far, in render order.
func (r *PNGRenderer) Files() []string {
	return append([]string(nil), r.written...)
}

func (r *PNGRenderer) Render(p view.Payload) error {
	if p.Empty {
		r.logger.Info("no data to plot", "view", p.View)
		return nil
	}

	path := filepath.Join(r.opts.Dir, fmt.Sprintf("%02d-%s.png", p.Index+1, p.View))
	f, err := os.Create(path)
	if err != nil {
		return errors.Annotatef(err, "failed to create %s", path)
	}
	defer f.Close()

	if err := r.draw(f, p); err != nil {
		return errors.Annotatef(err, "failed to render %s", p.View)
	}
	if err := f.Close(); err != nil {
		return errors.Trace(err)
	}

	r.written = append(r.written, path)
	r.logger.Debug("chart written", "view", p.View, "path", path)
	return nil
}

func (r *PNGRenderer) draw(w io.Writer, p view.Payload) error {
	if p.Kind == view.KindTimeline {
		return r.drawTimeline(w, p)
	}
	return r.drawBars(w, p)
}

func (r *PNGRenderer) drawBars(w io.Writer, p view.Payload) error {
	width, height := r.opts.size(len(p.Bars))
	color := drawing.ColorFromHex(p.Color)

	maxValue := 0.0
	bars := make([]chart.Value, 0, len(p.Bars))
	for _, b := range p.Bars {
		if b.Value > maxValue {
			maxValue = b.Value
		}
		bars = append(bars, chart.Value{
			Label: barLabel(b, p.Unit, r.opts.LabelThreshold),
			Value: b.Value,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
	}
	if maxValue <= 0 {
		maxValue = 1
	}

	barWidth := (width - 160) / (len(bars) * 2)
	if barWidth < 8 {
		barWidth = 8
	}

	bc := chart.BarChart{
		Title:      p.Title,
		Width:      width,
		Height:     height,
		DPI:        r.opts.DPI,
		BarWidth:   barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 40}},
		YAxis: chart.YAxis{
			Name:  p.Unit,
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue * 1.1},
		},
		Bars: bars,
	}
	return bc.Render(chart.PNG, w)
}

// barLabel appends the formatted value to the node name unless the value is
// below threshold.
func barLabel(b view.Bar, unit string, threshold float64) string {
	if b.Value < threshold {
		return b.Label
	}
	return fmt.Sprintf("%s (%s)", b.Label, formatValue(b.Value, unit))
}

func formatValue(v float64, unit string) string {
	switch unit {
	case "seconds":
		return fmt.Sprintf("%.2fs", v)
	case "%":
		return fmt.Sprintf("%.1f%%", v)
	case "count":
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func (r *PNGRenderer) drawTimeline(w io.Writer, p view.Payload) error {
	tl := p.Timeline
	if tl == nil || tl.Empty() {
		return errors.New("timeline has no rows")
	}
	width, height := r.opts.size(len(tl.Rows))

	// First row on top. The unlabelled outer ticks pin the axis range.
	n := len(tl.Rows)
	ticks := make([]chart.Tick, n+2)
	ticks[0] = chart.Tick{Value: -0.5}
	ticks[n+1] = chart.Tick{Value: float64(n) - 0.5}
	var series []chart.Series
	for i, row := range tl.Rows {
		y := n - 1 - i
		ticks[y+1] = chart.Tick{Value: float64(y), Label: row.Label}
		for _, iv := range row.Intervals {
			series = append(series, intervalSeries(iv, float64(y)))
		}
	}

	xMax := tl.Span
	if xMax <= tl.Origin {
		xMax = tl.Origin + analysis.SpanMargin
	}

	ch := chart.Chart{
		Title:      p.Title,
		Width:      width,
		Height:     height,
		DPI:        r.opts.DPI,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Time since execution start (s)",
			Range: &chart.ContinuousRange{Min: tl.Origin, Max: xMax},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5},
			Ticks: ticks,
		},
		Series: series,
	}
	return ch.Render(chart.PNG, w)
}

func intervalSeries(iv models.TimelineInterval, y float64) chart.ContinuousSeries {
	hex, ok := statusColors[iv.Status]
	if !ok {
		hex = otherStatusColor
	}
	color := drawing.ColorFromHex(hex)
	return chart.ContinuousSeries{
		Name:    fmt.Sprintf("%s (%s)", iv.NodeName, iv.Status),
		XValues: []float64{iv.RelativeStartSeconds, iv.End()},
		YValues: []float64{y, y},
		Style: chart.Style{
			StrokeColor: color,
			StrokeWidth: 12,
			DotColor:    color,
			DotWidth:    3,
		},
	}
}
