package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/imishinist/n8n-timings/internal/models"
	"github.com/imishinist/n8n-timings/internal/view"
)

// TextRenderer draws payloads as ASCII bar charts on a terminal.
type TextRenderer struct {
	w        io.Writer
	barWidth int

	title   *color.Color
	dim     *color.Color
	success *color.Color
	failure *color.Color
	other   *color.Color
}

func NewTextRenderer(w io.Writer, noColor bool) *TextRenderer {
	r := &TextRenderer{
		w:        w,
		barWidth: 40,
		title:    color.New(color.Bold, color.FgCyan),
		dim:      color.New(color.Faint),
		success:  color.New(color.FgGreen),
		failure:  color.New(color.FgRed),
		other:    color.New(color.FgYellow),
	}
	if noColor {
		for _, c := range []*color.Color{r.title, r.dim, r.success, r.failure, r.other} {
			c.DisableColor()
		}
	}
	return r
}

func (r *TextRenderer) Render(p view.Payload) error {
	r.title.Fprintln(r.w, p.Title)
	r.dim.Fprintln(r.w, p.Info)
	fmt.Fprintln(r.w)

	if p.Empty {
		fmt.Fprintln(r.w, "No node data available")
		fmt.Fprintln(r.w)
		return nil
	}

	if p.Kind == view.KindTimeline {
		r.timeline(p)
	} else {
		r.bars(p)
	}
	fmt.Fprintln(r.w)
	return nil
}

func (r *TextRenderer) bars(p view.Payload) {
	labelWidth := 0
	maxValue := 0.0
	for _, b := range p.Bars {
		labelWidth = max(labelWidth, runewidth.StringWidth(b.Label))
		maxValue = math.Max(maxValue, b.Value)
	}

	for _, b := range p.Bars {
		n := 0
		if maxValue > 0 {
			n = int(math.Round(b.Value / maxValue * float64(r.barWidth)))
		}
		fmt.Fprintf(r.w, "%s | %s %s\n",
			runewidth.FillRight(b.Label, labelWidth),
			strings.Repeat("#", n),
			formatValue(b.Value, p.Unit))
	}
}

func (r *TextRenderer) timeline(p view.Payload) {
	tl := p.Timeline
	labelWidth := 0
	for _, row := range tl.Rows {
		labelWidth = max(labelWidth, runewidth.StringWidth(row.Label))
	}

	extent := tl.Span - tl.Origin
	if extent <= 0 {
		extent = 1
	}
	scale := float64(r.barWidth) / extent

	for _, row := range tl.Rows {
		line := []rune(strings.Repeat(" ", r.barWidth+1))
		marks := make([]models.AttemptStatus, len(line))
		for _, iv := range row.Intervals {
			from := int((iv.RelativeStartSeconds - tl.Origin) * scale)
			to := int((iv.End() - tl.Origin) * scale)
			for i := from; i <= to && i < len(line); i++ {
				if i < 0 {
					continue
				}
				line[i] = '='
				marks[i] = iv.Status
			}
		}

		var sb strings.Builder
		for i, ch := range line {
			if ch == ' ' {
				sb.WriteRune(ch)
				continue
			}
			sb.WriteString(r.statusColor(marks[i]).Sprint(string(ch)))
		}
		fmt.Fprintf(r.w, "%s |%s| %d runs\n",
			runewidth.FillRight(row.Label, labelWidth), sb.String(), len(row.Intervals))
	}
	r.dim.Fprintf(r.w, "%s  %.2fs .. %.2fs\n", strings.Repeat(" ", labelWidth), tl.Origin, tl.Span)
}

func (r *TextRenderer) statusColor(s models.AttemptStatus) *color.Color {
	switch s {
	case models.StatusSuccess:
		return r.success
	case models.StatusError:
		return r.failure
	}
	return r.other
}
