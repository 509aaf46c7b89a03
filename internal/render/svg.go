package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/olivierh59500/magnet-art/internal/sim"
)

// svgScale is the fixed-point factor applied to coordinates, since svgo
// only takes integers. The group transform scales them back down.
const svgScale = 100

// SVG streams segments as <line> elements.
type SVG struct {
	canvas *svg.SVG
	out    *errWriter
	closed bool
}

// NewSVG writes the document header and background to w.
func NewSVG(w io.Writer, width, height int, style Style) *SVG {
	out := &errWriter{w: w}
	canvas := svg.New(out)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+style.Background.Hex())
	canvas.Gtransform(fmt.Sprintf("scale(%g)", 1.0/svgScale))
	canvas.Gstyle(fmt.Sprintf("stroke:%s;stroke-width:%d;stroke-opacity:1;fill:none",
		style.Stroke.Hex(), int(math.Round(style.StrokeWidth*svgScale))))
	return &SVG{canvas: canvas, out: out}
}

// DrawSegment writes one line and reports the first write error seen.
func (s *SVG) DrawSegment(seg sim.Segment) error {
	if s.closed {
		return fmt.Errorf("render: svg document already closed")
	}
	if s.out.err != nil {
		return s.out.err
	}
	s.canvas.Line(fixed(seg.From.X), fixed(seg.From.Y), fixed(seg.To.X), fixed(seg.To.Y))
	return s.out.err
}

// Close ends the document.
func (s *SVG) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.canvas.Gend()
	s.canvas.Gend()
	s.canvas.End()
	if s.out.err != nil {
		return fmt.Errorf("render: write svg: %w", s.out.err)
	}
	return nil
}

func fixed(v float64) int {
	return int(math.Round(v * svgScale))
}

// errWriter remembers the first error so the svgo calls, which ignore
// write errors, can be checked afterwards.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
