package overlay

import (
	"github.com/paulmach/orb"
	ivaoapi "github.com/vatsimnerd/ivao-overlay/ivao-api"
)

type call struct {
	op     string
	x, y   int
	radius int
	xs, ys []int
	color  Color
	bg     Color
	text   string
	size   int
	align  Align
	bitmap *fakeCanvas
}

type fakeCanvas struct {
	w, h  int
	calls []call
}

func (c *fakeCanvas) Width() int  { return c.w }
func (c *fakeCanvas) Height() int { return c.h }

func (c *fakeCanvas) FillCircle(x, y, radius int, col Color) {
	c.calls = append(c.calls, call{op: "fillCircle", x: x, y: y, radius: radius, color: col})
}

func (c *fakeCanvas) DrawCircle(x, y, radius int, col Color) {
	c.calls = append(c.calls, call{op: "drawCircle", x: x, y: y, radius: radius, color: col})
}

func (c *fakeCanvas) FillPolygon(xs, ys []int, col Color) {
	c.calls = append(c.calls, call{op: "fillPolygon", xs: xs, ys: ys, color: col})
}

func (c *fakeCanvas) DrawPolygon(xs, ys []int, col Color) {
	c.calls = append(c.calls, call{op: "drawPolygon", xs: xs, ys: ys, color: col})
}

type fakeSurface struct {
	fakeCanvas
	bitmaps []*fakeCanvas
}

func (s *fakeSurface) NewBitmap(w, h int) Canvas {
	b := &fakeCanvas{w: w, h: h}
	s.bitmaps = append(s.bitmaps, b)
	return b
}

func (s *fakeSurface) BlendBitmap(b Canvas, x, y int) {
	s.calls = append(s.calls, call{op: "blend", x: x, y: y, bitmap: b.(*fakeCanvas)})
}

func (s *fakeSurface) DrawText(text string, size, x, y int, col, bg Color, align Align) {
	s.calls = append(s.calls, call{op: "text", text: text, size: size, x: x, y: y, color: col, bg: bg, align: align})
}

func (s *fakeSurface) reset() {
	s.calls = nil
}

func (s *fakeSurface) ops(op string) []call {
	var res []call
	for _, c := range s.calls {
		if c.op == op {
			res = append(res, c)
		}
	}
	return res
}

// fakeMap is an equirectangular projection with (lat0, lon0) at the top left
// corner and ppd pixels per degree.
type fakeMap struct {
	surface *fakeSurface
	widthNM float64
	zoom    int
	lat0    float64
	lon0    float64
	ppd     float64
}

func newFakeMap() *fakeMap {
	return &fakeMap{
		surface: &fakeSurface{fakeCanvas: fakeCanvas{w: 800, h: 600}},
		widthNM: 100,
		zoom:    5,
		lat0:    48,
		lon0:    7,
		ppd:     100,
	}
}

func (m *fakeMap) Surface() Surface        { return m.surface }
func (m *fakeMap) SurfaceWidthNM() float64 { return m.widthNM }
func (m *fakeMap) ZoomLevel() int          { return m.zoom }

func (m *fakeMap) PositionToPixel(lat, lon float64) (int, int) {
	return int((lon - m.lon0) * m.ppd), int((m.lat0 - lat) * m.ppd)
}

func (m *fakeMap) IsPointVisible(x, y, margin int) bool {
	return x >= -margin && x <= m.surface.w+margin && y >= -margin && y <= m.surface.h+margin
}

func (m *fakeMap) IsRegionVisible(lat, lon float64, margin int) bool {
	x, y := m.PositionToPixel(lat, lon)
	return m.IsPointVisible(x, y, margin)
}

func airportController(id uint64, callsign, role string, freq, lat, lon float64) *ivaoapi.Controller {
	return &ivaoapi.Controller{
		ID:       id,
		Callsign: callsign,
		Session:  ivaoapi.Session{Frequency: freq, Position: role},
		Facility: &ivaoapi.Position{
			Station: ivaoapi.Station{Callsign: callsign, Position: role, Frequency: freq},
			Airport: &ivaoapi.Airport{ICAO: "LSZH", Latitude: lat, Longitude: lon},
		},
	}
}

func centerController(id uint64, callsign, role string, region [][2]float64, lat, lon float64) *ivaoapi.Controller {
	ring := make(orb.Ring, 0, len(region))
	for _, p := range region {
		ring = append(ring, orb.Point(p))
	}
	return &ivaoapi.Controller{
		ID:       id,
		Callsign: callsign,
		Session:  ivaoapi.Session{Frequency: 132.6, Position: role},
		Facility: &ivaoapi.Center{
			Station:   ivaoapi.Station{Callsign: callsign, Position: role, Region: ring},
			Latitude:  lat,
			Longitude: lon,
		},
	}
}
