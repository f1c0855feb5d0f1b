package overlay

import (
	"testing"

	ivaoapi "github.com/vatsimnerd/ivao-overlay/ivao-api"
)

func TestDrawGraphicsTower(t *testing.T) {
	m := newFakeMap()
	ctrl := airportController(1, "LSZH_TWR", ivaoapi.RoleTWR, 118.1, 47.0, 8.0)
	atc := NewATC(ctrl, NewShapeCache())

	atc.DrawGraphics(m)

	if len(m.surface.calls) != 2 {
		t.Fatalf("expected 2 draw calls, got %d: %+v", len(m.surface.calls), m.surface.calls)
	}
	style := roleStyles[ivaoapi.RoleTWR]

	fill := m.surface.ops("fillCircle")
	if len(fill) != 1 {
		t.Fatalf("expected one filled circle, got %d", len(fill))
	}
	if fill[0].x != 100 || fill[0].y != 100 || fill[0].radius != 112 || fill[0].color != style.Background {
		t.Errorf("unexpected filled circle %+v", fill[0])
	}

	stroke := m.surface.ops("drawCircle")
	if len(stroke) != 1 {
		t.Fatalf("expected one stroked circle, got %d", len(stroke))
	}
	if stroke[0].x != 100 || stroke[0].y != 100 || stroke[0].radius != 112 || stroke[0].color != style.Border {
		t.Errorf("unexpected stroked circle %+v", stroke[0])
	}
	if len(m.surface.bitmaps) != 0 {
		t.Errorf("circles must not allocate bitmaps")
	}
}

func TestDrawTextTower(t *testing.T) {
	m := newFakeMap()
	ctrl := airportController(1, "LSZH_TWR", ivaoapi.RoleTWR, 118.1, 47.0, 8.0)
	atc := NewATC(ctrl, NewShapeCache())

	atc.DrawText(m, false)

	texts := m.surface.ops("text")
	if len(texts) != 1 {
		t.Fatalf("expected one label, got %d", len(texts))
	}
	lbl := texts[0]
	if lbl.text != "LSZH_TWR" {
		t.Errorf("expected plain callsign, got %q", lbl.text)
	}
	if lbl.x != 100 || lbl.y != 100-labelFontSize/2 || lbl.size != labelFontSize {
		t.Errorf("unexpected label placement %+v", lbl)
	}
	if lbl.align != AlignCentre || lbl.color != roleStyles[ivaoapi.RoleTWR].Font || lbl.bg != labelBackground {
		t.Errorf("unexpected label style %+v", lbl)
	}

	m.surface.reset()
	atc.DrawText(m, true)
	texts = m.surface.ops("text")
	if len(texts) != 1 || texts[0].text != "LSZH_TWR 118.100" {
		t.Errorf("expected detailed label, got %+v", texts)
	}
}

func TestDrawSkipsMissingRecords(t *testing.T) {
	type testcase struct {
		name string
		ctrl *ivaoapi.Controller
	}

	noAirport := airportController(1, "LSZH_TWR", ivaoapi.RoleTWR, 118.1, 47.0, 8.0)
	noAirport.Facility.(*ivaoapi.Position).Airport = nil

	var testcases = []testcase{
		{"tower without airport", noAirport},
		{"tower without position", &ivaoapi.Controller{Callsign: "LSZH_TWR", Session: ivaoapi.Session{Position: ivaoapi.RoleTWR}}},
		{"approach without position", &ivaoapi.Controller{Callsign: "LSZH_APP", Session: ivaoapi.Session{Position: ivaoapi.RoleAPP}}},
		{"center without center", &ivaoapi.Controller{Callsign: "LSAS_CTR", Session: ivaoapi.Session{Position: ivaoapi.RoleCTR}}},
		{"fss without center", &ivaoapi.Controller{Callsign: "LSAS_FSS", Session: ivaoapi.Session{Position: ivaoapi.RoleFSS}}},
		{"unknown role", airportController(2, "LSZH_OBS", "OBS", 199.998, 47.0, 8.0)},
	}

	for _, tc := range testcases {
		m := newFakeMap()
		shapes := NewShapeCache()
		atc := NewATC(tc.ctrl, shapes)
		atc.DrawGraphics(m)
		atc.DrawText(m, true)
		if len(m.surface.calls) != 0 || len(m.surface.bitmaps) != 0 {
			t.Errorf("[%s] expected no draw calls, got %+v", tc.name, m.surface.calls)
		}
		if shapes.Len() != 0 {
			t.Errorf("[%s] shape cache must stay untouched", tc.name)
		}
	}
}

func TestDrawGraphicsOffscreen(t *testing.T) {
	m := newFakeMap()
	shapes := NewShapeCache()
	NewATC(airportController(1, "LFPG_GND", ivaoapi.RoleGND, 121.8, 30.0, 8.0), shapes).DrawGraphics(m)

	if len(m.surface.calls) != 0 {
		t.Errorf("expected no draw calls, got %+v", m.surface.calls)
	}
	if shapes.Len() != 0 {
		t.Errorf("off-screen glyphs must not touch the cache")
	}
}

func TestStarGlyphs(t *testing.T) {
	m := newFakeMap()
	shapes := NewShapeCache()

	NewATC(airportController(1, "LSZH_GND", ivaoapi.RoleGND, 121.8, 47.0, 8.0), shapes).DrawGraphics(m)
	NewATC(airportController(2, "LSZB_GND", ivaoapi.RoleGND, 121.9, 47.5, 7.5), shapes).DrawGraphics(m)

	if len(m.surface.bitmaps) != 1 {
		t.Fatalf("expected one shared GND glyph, got %d", len(m.surface.bitmaps))
	}
	glyph := m.surface.bitmaps[0]
	if glyph.w != 225 || glyph.h != 225 {
		t.Errorf("expected 225x225 glyph, got %dx%d", glyph.w, glyph.h)
	}
	if len(glyph.calls) != 2 || glyph.calls[0].op != "fillPolygon" || glyph.calls[1].op != "drawPolygon" {
		t.Errorf("expected fill then stroke, got %+v", glyph.calls)
	}
	if glyph.calls[0].color != roleStyles[ivaoapi.RoleGND].Background {
		t.Errorf("unexpected GND fill color %x", glyph.calls[0].color)
	}

	blends := m.surface.ops("blend")
	if len(blends) != 2 {
		t.Fatalf("expected 2 blends, got %d", len(blends))
	}
	if blends[0].bitmap != glyph || blends[1].bitmap != glyph {
		t.Errorf("both controllers must blend the cached glyph")
	}
	if blends[0].x != 100-112 || blends[0].y != 100-112 || blends[1].x != 50-112 || blends[1].y != 50-112 {
		t.Errorf("glyphs must be centered on the airport: %+v", blends)
	}

	NewATC(airportController(3, "LSZH_DEL", ivaoapi.RoleDEL, 121.925, 47.0, 8.0), shapes).DrawGraphics(m)
	if len(m.surface.bitmaps) != 2 {
		t.Errorf("DEL must not reuse the GND glyph")
	}

	m.widthNM = 50
	NewATC(airportController(4, "LSZH_GND", ivaoapi.RoleGND, 121.8, 47.0, 8.0), shapes).DrawGraphics(m)
	if len(m.surface.bitmaps) != 3 {
		t.Errorf("another radius must draw another glyph")
	}
	if shapes.Len() != 3 {
		t.Errorf("expected 3 cached glyphs, got %d", shapes.Len())
	}
}

func TestStarVertices(t *testing.T) {
	xs, ys := starVertices(ivaoapi.RoleGND, 14)
	if len(xs) != 9 || len(ys) != 9 {
		t.Fatalf("expected 9 vertices, got %d/%d", len(xs), len(ys))
	}
	if xs[0] != xs[8] || ys[0] != ys[8] {
		t.Errorf("star must be closed")
	}
	// tips on the box edges
	if xs[0] != 0 || ys[2] != 0 || xs[4] != 28 || ys[6] != 28 {
		t.Errorf("GND tips must touch the glyph bounds: %v %v", xs, ys)
	}

	xs, ys = starVertices(ivaoapi.RoleDEL, 14)
	// 3.75 and 4.15 NM at a 14 px radius
	if xs[0] != 4 || ys[0] != 4 || xs[3] != 17 || ys[1] != 11 {
		t.Errorf("unexpected DEL star: %v %v", xs, ys)
	}
}

func TestPolygonCacheByZoom(t *testing.T) {
	m := newFakeMap()
	region := [][2]float64{{7.5, 47.5}, {8.5, 47.5}, {8.5, 46.5}, {7.5, 46.5}}
	atc := NewATC(centerController(1, "LSAS_CTR", ivaoapi.RoleCTR, region, 47.0, 8.0), NewShapeCache())

	atc.DrawGraphics(m)
	atc.DrawGraphics(m)

	if len(m.surface.bitmaps) != 1 {
		t.Fatalf("expected one polygon glyph, got %d", len(m.surface.bitmaps))
	}
	glyph := m.surface.bitmaps[0]
	if glyph.w != 101 || glyph.h != 101 {
		t.Errorf("expected 101x101 glyph, got %dx%d", glyph.w, glyph.h)
	}
	fill := glyph.calls[0]
	expXs, expYs := []int{0, 100, 100, 0}, []int{0, 0, 100, 100}
	for i := range expXs {
		if fill.xs[i] != expXs[i] || fill.ys[i] != expYs[i] {
			t.Errorf("glyph vertices must be bbox-local, got %v %v", fill.xs, fill.ys)
			break
		}
	}
	if fill.color != roleStyles[ivaoapi.RoleCTR].Background {
		t.Errorf("unexpected CTR fill color %x", fill.color)
	}

	blends := m.surface.ops("blend")
	if len(blends) != 2 || blends[0].bitmap != glyph || blends[1].bitmap != glyph {
		t.Fatalf("expected the cached glyph blended twice, got %+v", blends)
	}
	if blends[0].x != 50 || blends[0].y != 50 {
		t.Errorf("glyph must be blended at the bbox origin, got %d,%d", blends[0].x, blends[0].y)
	}

	m.zoom = 6
	atc.DrawGraphics(m)
	if len(m.surface.bitmaps) != 2 {
		t.Errorf("zoom change must rebuild the glyph")
	}

	m.zoom = 5
	atc.DrawGraphics(m)
	if len(m.surface.bitmaps) != 2 {
		t.Errorf("returning to a cached zoom must reuse its glyph")
	}

	other := NewATC(centerController(2, "LSAZ_CTR", ivaoapi.RoleCTR, region, 47.0, 8.0), NewShapeCache())
	other.DrawGraphics(m)
	if len(m.surface.bitmaps) != 3 {
		t.Errorf("polygon glyphs must not be shared between controllers")
	}
}

func TestPolygonVisibility(t *testing.T) {
	type testcase struct {
		name    string
		region  [][2]float64
		visible bool
	}

	var testcases = []testcase{
		{"vertex in view", [][2]float64{{7.5, 47.5}, {20, 47.5}, {20, 30}}, true},
		{"covers view", [][2]float64{{0, 60}, {20, 60}, {20, 30}, {0, 30}}, true},
		{"beside view", [][2]float64{{20, 47}, {21, 47}, {21, 46}}, false},
		{"empty", nil, false},
	}

	for _, tc := range testcases {
		m := newFakeMap()
		NewATC(centerController(1, "LSAS_CTR", ivaoapi.RoleCTR, tc.region, 47.0, 8.0), NewShapeCache()).DrawGraphics(m)
		drawn := len(m.surface.ops("blend")) == 1
		if drawn != tc.visible {
			t.Errorf("[%s] expected visible=%v, got %v", tc.name, tc.visible, drawn)
		}
	}
}

func TestApproachRegion(t *testing.T) {
	m := newFakeMap()
	ctrl := airportController(1, "LSZH_APP", ivaoapi.RoleAPP, 118.0, 47.0, 8.0)
	ctrl.Facility.(*ivaoapi.Position).Region = centerController(0, "", "", [][2]float64{{7.5, 47.5}, {8.5, 47.5}, {8.5, 46.5}}, 0, 0).Region()

	NewATC(ctrl, NewShapeCache()).DrawGraphics(m)

	if len(m.surface.bitmaps) != 1 {
		t.Fatalf("expected one APP glyph, got %d", len(m.surface.bitmaps))
	}
	if c := m.surface.bitmaps[0].calls[1]; c.op != "drawPolygon" || c.color != roleStyles[ivaoapi.RoleAPP].Border {
		t.Errorf("unexpected APP stroke %+v", c)
	}
}

func TestDrawTextOffsets(t *testing.T) {
	type testcase struct {
		role string
		zoom int
		y    int
		size int
	}

	var testcases = []testcase{
		{ivaoapi.RoleDEL, 5, 100 + 30 - 6, 12},
		{ivaoapi.RoleGND, 5, 100 + 15 - 6, 12},
		{ivaoapi.RoleTWR, 5, 100 - 6, 12},
		{ivaoapi.RoleDEP, 5, 100 - 15 - 6, 12},
		{ivaoapi.RoleAPP, 5, 100 - 30 - 6, 12},
		{ivaoapi.RoleDEL, 8, 100 + 34 - 7, 14},
		{ivaoapi.RoleAPP, 9, 100 - 34 - 7, 14},
	}

	for _, tc := range testcases {
		m := newFakeMap()
		m.zoom = tc.zoom
		NewATC(airportController(1, "LSZH_"+tc.role, tc.role, 118.1, 47.0, 8.0), NewShapeCache()).DrawText(m, false)
		texts := m.surface.ops("text")
		if len(texts) != 1 {
			t.Errorf("[%s@%d] expected one label, got %d", tc.role, tc.zoom, len(texts))
			continue
		}
		if texts[0].y != tc.y || texts[0].size != tc.size || texts[0].x != 100 {
			t.Errorf("[%s@%d] expected y=%d size=%d, got %+v", tc.role, tc.zoom, tc.y, tc.size, texts[0])
		}
		if texts[0].color != roleStyles[tc.role].Font {
			t.Errorf("[%s@%d] unexpected color %x", tc.role, tc.zoom, texts[0].color)
		}
	}
}

func TestDrawTextCenters(t *testing.T) {
	for _, role := range []string{ivaoapi.RoleCTR, ivaoapi.RoleFSS} {
		m := newFakeMap()
		ctrl := centerController(1, "LSAS_"+role, role, nil, 47.5, 7.5)
		NewATC(ctrl, NewShapeCache()).DrawText(m, true)
		texts := m.surface.ops("text")
		if len(texts) != 1 {
			t.Fatalf("[%s] expected one label, got %d", role, len(texts))
		}
		if texts[0].x != 50 || texts[0].y != 50-6 {
			t.Errorf("[%s] label must be anchored at the center, got %+v", role, texts[0])
		}
		if texts[0].text != "LSAS_"+role+" 132.600" {
			t.Errorf("[%s] unexpected text %q", role, texts[0].text)
		}
	}
}

func TestDrawTextOffscreen(t *testing.T) {
	m := newFakeMap()
	NewATC(airportController(1, "LSZH_TWR", ivaoapi.RoleTWR, 118.1, 40.0, 8.0), NewShapeCache()).DrawText(m, false)
	if len(m.surface.calls) != 0 {
		t.Errorf("expected no label beyond the margin, got %+v", m.surface.calls)
	}
}

func TestFormatFrequency(t *testing.T) {
	type testcase struct {
		freq float64
		exp  string
	}

	var testcases = []testcase{
		{118.1, "118.100"},
		{121.925, "121.925"},
		{122.8, "122.800"},
		{118.99999, "118.999"},
	}

	for _, tc := range testcases {
		if s := formatFrequency(tc.freq); s != tc.exp {
			t.Errorf("frequency %v: expected %s, got %s", tc.freq, tc.exp, s)
		}
	}
}
