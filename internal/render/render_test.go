package render

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/olivierh59500/magnet-art/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func seg(x0, y0, x1, y1 float64) sim.Segment {
	return sim.Segment{From: r2.Vec{X: x0, Y: y0}, To: r2.Vec{X: x1, Y: y1}}
}

func TestParseStyle(t *testing.T) {
	style, err := ParseStyle(0.9, "#000000", "#ffffff")
	require.NoError(t, err)
	assert.Equal(t, DefaultStyle().StrokeWidth, style.StrokeWidth)
	assert.Equal(t, "#000000", style.Stroke.Hex())
	assert.Equal(t, "#ffffff", style.Background.Hex())

	_, err = ParseStyle(0.9, "black", "#ffffff")
	assert.Error(t, err)
	_, err = ParseStyle(0.9, "#000000", "#fff0")
	assert.Error(t, err)
	_, err = ParseStyle(0, "#000000", "#ffffff")
	assert.Error(t, err)
}

func TestRaster_DrawSegment(t *testing.T) {
	r := NewRaster(100, 100, DefaultStyle())
	require.NoError(t, r.DrawSegment(seg(10, 50.5, 90, 50.5)))
	assert.Equal(t, 1, r.Segments())

	img := r.Image()
	require.Equal(t, 100, img.Bounds().Dx())

	on := img.RGBAAt(50, 50)
	off := img.RGBAAt(50, 10)
	assert.Less(t, on.R, uint8(64), "pixel under the stroke is dark")
	assert.Equal(t, uint8(255), on.A)
	assert.Equal(t, uint8(255), off.R, "background stays white")
	assert.Equal(t, uint8(255), img.RGBAAt(5, 50).R, "stroke ends at its endpoint")
}

func TestRaster_OppositeDirectionsDoNotCancel(t *testing.T) {
	r := NewRaster(100, 100, DefaultStyle())
	require.NoError(t, r.DrawSegment(seg(10, 50.5, 90, 50.5)))
	require.NoError(t, r.DrawSegment(seg(90, 50.5, 10, 50.5)))

	assert.Less(t, r.Image().RGBAAt(50, 50).R, uint8(64))
}

func TestRaster_Degenerate(t *testing.T) {
	r := NewRaster(100, 100, DefaultStyle())

	require.NoError(t, r.DrawSegment(seg(20, 20, 20, 20)))
	require.NoError(t, r.DrawSegment(seg(-50, -50, -10, -30)), "fully off canvas")
	assert.Zero(t, r.Segments())

	require.NoError(t, r.DrawSegment(seg(-500, -500, 50.5, 50.5)), "partly off canvas is clipped")
	assert.Equal(t, 1, r.Segments())

	assert.Error(t, r.DrawSegment(seg(0, 0, math.NaN(), 1)))
}

func TestRaster_ImageIsCachedUntilNextSegment(t *testing.T) {
	r := NewRaster(50, 50, DefaultStyle())
	first := r.Image()
	assert.Same(t, first, r.Image())

	require.NoError(t, r.DrawSegment(seg(5, 25.5, 45, 25.5)))
	second := r.Image()
	assert.NotSame(t, first, second)
	assert.Less(t, second.RGBAAt(25, 25).R, uint8(64))
}

func TestRaster_EncodePNG(t *testing.T) {
	r := NewRaster(64, 48, DefaultStyle())
	require.NoError(t, r.DrawSegment(seg(1, 1, 60, 40)))

	var buf bytes.Buffer
	require.NoError(t, r.EncodePNG(&buf))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 64, decoded.Bounds().Dx())
	assert.Equal(t, 48, decoded.Bounds().Dy())
}

func TestClipSegment(t *testing.T) {
	box := r2.Box{Min: r2.Vec{X: 0, Y: 0}, Max: r2.Vec{X: 10, Y: 10}}

	got, ok := clipSegment(seg(2, 2, 8, 8), box)
	require.True(t, ok)
	assert.Equal(t, seg(2, 2, 8, 8), got)

	got, ok = clipSegment(seg(-5, 5, 15, 5), box)
	require.True(t, ok)
	assert.InDelta(t, 0, got.From.X, 1e-12)
	assert.InDelta(t, 10, got.To.X, 1e-12)

	_, ok = clipSegment(seg(-5, -5, -1, 20), box)
	assert.False(t, ok)

	_, ok = clipSegment(seg(11, 1, 11, 9), box)
	assert.False(t, ok, "vertical line right of the box")
}

func TestSVG(t *testing.T) {
	var buf bytes.Buffer
	s := NewSVG(&buf, 200, 100, DefaultStyle())
	require.NoError(t, s.DrawSegment(seg(10, 50.5, 90.25, 50.5)))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "closing twice is harmless")

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, `width="200"`)
	assert.Contains(t, out, "fill:#ffffff")
	assert.Contains(t, out, "stroke:#000000")
	assert.Contains(t, out, "stroke-width:90")
	assert.Contains(t, out, `x1="1000" y1="5050" x2="9025" y2="5050"`)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))

	assert.Error(t, s.DrawSegment(seg(0, 0, 1, 1)), "drawing after close fails")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSVG_WriteError(t *testing.T) {
	s := NewSVG(failingWriter{}, 10, 10, DefaultStyle())
	assert.ErrorContains(t, s.DrawSegment(seg(1, 1, 2, 2)), "disk full")
	assert.ErrorContains(t, s.Close(), "disk full")
}

func TestRecorder(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	for _, r := range []*Recorder{a, b} {
		require.NoError(t, r.DrawSegment(seg(1, 2, 3, 4)))
		require.NoError(t, r.DrawSegment(seg(3, 4, 5, 6)))
	}
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, a.Digest(), b.Digest())

	require.NoError(t, b.DrawSegment(seg(5, 6, 7, 8)))
	assert.NotEqual(t, a.Digest(), b.Digest())

	replay := &Recorder{}
	require.NoError(t, a.Replay(replay))
	assert.Equal(t, a.Segments(), replay.Segments())
}

func TestMulti(t *testing.T) {
	rec := &Recorder{}
	errBoom := errors.New("boom")
	m := Multi{rec, sim.RendererFunc(func(sim.Segment) error { return errBoom })}

	err := m.DrawSegment(seg(0, 0, 1, 1))
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, rec.Len(), "other renderers still receive the segment")
}

func TestRenderSeededRun(t *testing.T) {
	rng, _ := sim.NewRand(2022)
	scene := sim.NewScene(sim.DefaultSceneOptions(), rng)
	s, err := sim.NewSimulation(scene, sim.DefaultOptions(), nil)
	require.NoError(t, err)

	raster := NewRaster(1000, 1000, DefaultStyle())
	rec := &Recorder{}
	stats, err := s.Run(context.Background(), Multi{raster, rec})
	require.NoError(t, err)
	require.Equal(t, stats.Segments, rec.Len())

	img := raster.Image()
	dark := 0
	for y := 0; y < 1000; y += 2 {
		for x := 0; x < 1000; x += 2 {
			if img.RGBAAt(x, y).R < 128 {
				dark++
			}
		}
	}
	assert.Positive(t, dark)
}
