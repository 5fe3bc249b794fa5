package chart

import (
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	svgPad      = 8
	svgLabelW   = 110
	svgAxisH    = 20
	svgTitleH   = 20
	svgFontSize = 12
)

// WriteSVG draws b as an inline SVG element. Non-finite and negative values
// are drawn as empty bars; the value axis always starts at zero.
func WriteSVG(w io.Writer, b Bar, width, height int) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" class="chart" role="img" viewBox="0 0 %d %d" width="%d" height="%d">`, width, height, width, height)
	fmt.Fprintf(&sb, `<title>%s</title>`, html.EscapeString(b.Title))
	fmt.Fprintf(&sb, `<text x="%d" y="%d" font-size="%d" font-weight="bold">%s</text>`, svgPad, svgTitleH-6, svgFontSize+1, html.EscapeString(b.SeriesLabel))

	if b.Empty() {
		fmt.Fprintf(&sb, `<text x="%d" y="%d" font-size="%d" fill="#6b7280">No data</text>`, width/2-24, height/2, svgFontSize)
	} else if b.Horizontal {
		writeHorizontal(&sb, b, width, height)
	} else {
		writeVertical(&sb, b, width, height)
	}

	sb.WriteString(`</svg>`)
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeVertical(sb *strings.Builder, b Bar, width, height int) {
	top := svgTitleH + svgPad
	plotH := height - top - svgAxisH
	plotW := width - 2*svgPad
	slot := float64(plotW) / float64(len(b.Values))
	max := maxValue(b.Values)

	baseline := top + plotH
	fmt.Fprintf(sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#9ca3af"/>`, svgPad, baseline, width-svgPad, baseline)
	for i, v := range b.Values {
		h := scaled(v, max, plotH)
		x := float64(svgPad) + float64(i)*slot + slot*0.15
		fmt.Fprintf(sb, `<rect x="%.1f" y="%d" width="%.1f" height="%d" fill="%s"><title>%s: %s</title></rect>`,
			x, baseline-h, slot*0.7, h, colorAt(b.Colors, i), html.EscapeString(b.Labels[i]), formatValue(v))
		fmt.Fprintf(sb, `<text x="%.1f" y="%d" font-size="%d" text-anchor="middle">%s</text>`,
			x+slot*0.35, baseline+svgAxisH-5, svgFontSize, html.EscapeString(b.Labels[i]))
	}
}

func writeHorizontal(sb *strings.Builder, b Bar, width, height int) {
	top := svgTitleH + svgPad
	plotH := height - top - svgPad
	plotW := width - svgLabelW - 2*svgPad
	slot := float64(plotH) / float64(len(b.Values))
	max := maxValue(b.Values)

	left := svgPad + svgLabelW
	fmt.Fprintf(sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#9ca3af"/>`, left, top, left, top+plotH)
	for i, v := range b.Values {
		w := scaled(v, max, plotW)
		y := float64(top) + float64(i)*slot + slot*0.15
		fmt.Fprintf(sb, `<text x="%d" y="%.1f" font-size="%d" text-anchor="end">%s</text>`,
			left-4, y+slot*0.35+4, svgFontSize, html.EscapeString(b.Labels[i]))
		fmt.Fprintf(sb, `<rect x="%d" y="%.1f" width="%d" height="%.1f" fill="%s"><title>%s: %s</title></rect>`,
			left, y, w, slot*0.7, colorAt(b.Colors, i), html.EscapeString(b.Labels[i]), formatValue(v))
	}
}

func maxValue(vals []float64) float64 {
	max := 0.0
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) && v > max {
			max = v
		}
	}
	return max
}

// scaled maps v onto [0, span] relative to max.
func scaled(v, max float64, span int) int {
	if max <= 0 || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return int(math.Round(v / max * float64(span)))
}

func colorAt(colors []string, i int) string {
	if i < len(colors) {
		return colors[i]
	}
	return CategoryColor(i)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
