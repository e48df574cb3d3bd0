package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"math"
	"sort"
	"strings"
)

// Encoder serializes a frame into an output format.
type Encoder interface {
	Encode(f Frame) ([]byte, error)
	Name() string
	Description() string
}

var encoders = map[string]Encoder{
	"svg":  SVGEncoder{},
	"json": JSONEncoder{},
	"text": TextEncoder{},
}

// Lookup returns the encoder registered under format.
func Lookup(format string) (Encoder, error) {
	e, ok := encoders[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
	return e, nil
}

// Formats lists the registered format names.
func Formats() []string {
	names := make([]string, 0, len(encoders))
	for n := range encoders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SVGEncoder writes a standalone SVG document.
type SVGEncoder struct{}

func (SVGEncoder) Name() string        { return "svg" }
func (SVGEncoder) Description() string { return "Scalable Vector Graphics document" }

func (SVGEncoder) Encode(f Frame) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg">
`, f.Width, f.Height, f.Width, f.Height)
	if f.Background != "" {
		fmt.Fprintf(&buf, "<rect width=\"100%%\" height=\"100%%\" fill=\"%s\"/>\n", attr(f.Background))
	}

	// One drop-shadow filter per glow color.
	glows := map[string]string{}
	for _, c := range f.Circles {
		if c.Glow != "" {
			if _, ok := glows[c.Glow]; !ok {
				glows[c.Glow] = fmt.Sprintf("glow-%d", len(glows))
			}
		}
	}
	if len(glows) > 0 {
		colors := make([]string, 0, len(glows))
		for color := range glows {
			colors = append(colors, color)
		}
		sort.Strings(colors)
		buf.WriteString("<defs>\n")
		for _, color := range colors {
			fmt.Fprintf(&buf, `  <filter id="%s" x="-50%%" y="-50%%" width="200%%" height="200%%"><feDropShadow dx="0" dy="0" stdDeviation="4" flood-color="%s"/></filter>
`, glows[color], attr(color))
		}
		buf.WriteString("</defs>\n")
	}

	buf.WriteString("<g class=\"links\">\n")
	for _, l := range f.Lines {
		fmt.Fprintf(&buf, `  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%g" stroke-opacity="%g"/>
`, num(l.X1), num(l.Y1), num(l.X2), num(l.Y2), attr(l.Color), l.Width, l.Opacity)
	}
	buf.WriteString("</g>\n<g class=\"nodes\">\n")
	for _, c := range f.Circles {
		extra := ""
		if c.Dash != "" {
			extra += fmt.Sprintf(` stroke-dasharray="%s"`, attr(c.Dash))
		}
		if id, ok := glows[c.Glow]; ok {
			extra += fmt.Sprintf(` filter="url(#%s)"`, id)
		}
		fmt.Fprintf(&buf, `  <circle cx="%s" cy="%s" r="%g" fill="%s" stroke="%s" stroke-width="%g"%s/>
`, num(c.X), num(c.Y), c.R, attr(c.Fill), attr(c.Stroke), c.StrokeWidth, extra)
	}
	buf.WriteString("</g>\n<g class=\"labels\">\n")
	for _, l := range f.Labels {
		weight := "normal"
		if l.Bold {
			weight = "bold"
		}
		fmt.Fprintf(&buf, `  <text x="%s" y="%s" dy="0.35em" text-anchor="middle" fill="%s" font-size="%g" font-weight="%s">%s</text>
`, num(l.X), num(l.Y), attr(l.Color), l.Size, weight, html.EscapeString(l.Text))
	}
	buf.WriteString("</g>\n</svg>\n")
	return buf.Bytes(), nil
}

// JSONEncoder writes the frame primitives as indented JSON.
type JSONEncoder struct{}

func (JSONEncoder) Name() string        { return "json" }
func (JSONEncoder) Description() string { return "Frame primitives as JSON" }

func (JSONEncoder) Encode(f Frame) ([]byte, error) {
	out, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return append(out, '\n'), nil
}

// TextEncoder writes a plain character canvas.
type TextEncoder struct{}

func (TextEncoder) Name() string        { return "text" }
func (TextEncoder) Description() string { return "Plain-text character canvas" }

func (TextEncoder) Encode(f Frame) ([]byte, error) {
	cols := int(math.Ceil(f.Width / DefaultCellWidth))
	rows := int(math.Ceil(f.Height / DefaultCellHeight))
	c := Rasterize(f, cols, rows, CanvasOptions{})
	return []byte(c.String() + "\n"), nil
}

func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func attr(s string) string {
	return html.EscapeString(s)
}
