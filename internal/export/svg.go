package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/viz"
)

const background = "#0a0a0a"

// CanvasToSVG converts a Braille canvas to SVG format, one circle per lit
// dot. scale is the SVG size of one dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64, fill string) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.SubWidth()) * scale
	height := float64(canvas.SubHeight()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, background, fill)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.SubHeight(); y++ {
		for x := 0; x < canvas.SubWidth(); x++ {
			if !canvas.Lit(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// bounds is the padded xy extent of a set of points.
type bounds struct {
	minX, minY, rangeX, rangeY float64
}

func fit(frames []nbody.Snapshot) bounds {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, f := range frames {
		for i, p := range f.Positions {
			if f.Colors[i][3] == 0 {
				continue
			}
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return bounds{-1, -1, 2, 2}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	// equal aspect so orbits stay round
	r := math.Max(rangeX, rangeY) * 1.2
	cx, cy := minX+(maxX-minX)/2, minY+(maxY-minY)/2
	return bounds{cx - r/2, cy - r/2, r, r}
}

func (b bounds) project(x, y float64, width, height int) (float64, float64) {
	sx := (x - b.minX) / b.rangeX * float64(width)
	sy := float64(height) - (y-b.minY)/b.rangeY*float64(height)
	return sx, sy
}

func hex(c nbody.Color) string {
	ch := func(v float64) int { return int(math.Round(math.Max(0, math.Min(1, v)) * 255)) }
	return fmt.Sprintf("#%02x%02x%02x", ch(c[0]), ch(c[1]), ch(c[2]))
}

// TrajectoryToSVG draws the xy-plane path of every body across frames in
// the body's color, and the particles of the last frame as dots.
func TrajectoryToSVG(frames []nbody.Snapshot, width, height int) string {
	if len(frames) == 0 {
		return ""
	}
	b := fit(frames)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	last := frames[len(frames)-1]
	for i := 0; i < last.Bodies; i++ {
		if len(frames) > 1 {
			fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, hex(last.Colors[i]))
			for k, f := range frames {
				x, y := b.project(f.Positions[i].X, f.Positions[i].Y, width, height)
				if k == 0 {
					fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
				} else {
					fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
				}
			}
			sb.WriteString("\"/>\n")
		}
		x, y := b.project(last.Positions[i].X, last.Positions[i].Y, width, height)
		r := math.Max(2, last.Radii[i]/b.rangeX*float64(width))
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n", x, y, r, hex(last.Colors[i]))
	}

	for i := last.Bodies; i < last.Len(); i++ {
		if last.Colors[i][3] == 0 {
			continue
		}
		x, y := b.project(last.Positions[i].X, last.Positions[i].Y, width, height)
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"1\" fill=\"%s\" fill-opacity=\"%.2f\"/>\n",
			x, y, hex(last.Colors[i]), last.Colors[i][3])
	}

	sb.WriteString("</svg>")
	return sb.String()
}
