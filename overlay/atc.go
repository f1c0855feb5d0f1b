package overlay

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/paulmach/orb"
	ivaoapi "github.com/vatsimnerd/ivao-overlay/ivao-api"
	"github.com/vatsimnerd/util/set"
)

const (
	graphicsMargin = 300
	labelMargin    = 150

	labelFontSize   = 12
	labelLineOffset = 15
	labelZoomStep   = 8

	// zoom levels are a small finite range so the polygon cache never evicts
	polygonCacheSize = 32
)

var (
	airportGlyphRoles = set.FromList([]string{ivaoapi.RoleDEL, ivaoapi.RoleGND, ivaoapi.RoleTWR, ivaoapi.RoleDEP})
	airportLabelRoles = set.FromList([]string{ivaoapi.RoleDEL, ivaoapi.RoleGND, ivaoapi.RoleTWR, ivaoapi.RoleDEP, ivaoapi.RoleAPP})
)

// ATC draws one controller. Its polygon glyphs are cached per zoom level and
// owned by the ATC, so an ATC must be drawn from one goroutine at a time.
type ATC struct {
	ctrl   *ivaoapi.Controller
	shapes *ShapeCache
	images *lru.Cache[int, Canvas]
}

func NewATC(ctrl *ivaoapi.Controller, shapes *ShapeCache) *ATC {
	images, err := lru.New[int, Canvas](polygonCacheSize)
	if err != nil {
		panic(err)
	}
	return &ATC{ctrl: ctrl, shapes: shapes, images: images}
}

func (a *ATC) Controller() *ivaoapi.Controller {
	return a.ctrl
}

// DrawGraphics draws the controller glyph. Controllers with an unsupported
// role or without the record their role needs are skipped.
func (a *ATC) DrawGraphics(m MapSurface) {
	role := a.ctrl.Role()
	style := roleStyles[role]

	switch {
	case airportGlyphRoles.Has(role):
		a.drawAirportGlyph(m, role, style)
	case role == ivaoapi.RoleAPP:
		if pos := a.ctrl.Position(); pos != nil {
			a.drawRegion(m, pos.Region, style)
		}
	case role == ivaoapi.RoleCTR:
		if ctr := a.ctrl.Center(); ctr != nil {
			a.drawRegion(m, ctr.Region, style)
		}
	}
}

func (a *ATC) drawAirportGlyph(m MapSurface, role string, style roleStyle) {
	pos := a.ctrl.Position()
	if pos == nil || pos.Airport == nil {
		return
	}
	lat, lon := pos.Airport.Latitude, pos.Airport.Longitude
	if !m.IsRegionVisible(lat, lon, graphicsMargin) {
		return
	}
	scale, ok := pixelsPerNM(m)
	if !ok {
		return
	}

	surface := m.Surface()
	px, py := m.PositionToPixel(lat, lon)
	radius := int(scale * style.RadiusNM)

	switch role {
	case ivaoapi.RoleTWR, ivaoapi.RoleDEP:
		surface.FillCircle(px, py, radius, style.Background)
		surface.DrawCircle(px, py, radius, style.Border)
	default:
		img := a.shapes.Get(role, radius, func() Canvas {
			return drawStar(surface, role, radius, style)
		})
		surface.BlendBitmap(img, px-radius, py-radius)
	}
}

func (a *ATC) drawRegion(m MapSurface, region orb.Ring, style roleStyle) {
	if len(region) == 0 {
		return
	}
	surface := m.Surface()
	poly := projectRing(m, region)
	if !poly.visible(surface.Width(), surface.Height()) {
		return
	}

	zoom := m.ZoomLevel()
	img, found := a.images.Get(zoom)
	if !found {
		img = poly.rasterize(surface, style)
		a.images.Add(zoom, img)
	}
	surface.BlendBitmap(img, poly.min.X, poly.min.Y)
}

// DrawText draws the callsign label, with the frequency when detailed.
func (a *ATC) DrawText(m MapSurface, detailed bool) {
	role := a.ctrl.Role()
	style, ok := roleStyles[role]
	if !ok {
		return
	}

	size, lineOffset := labelFontSize, labelLineOffset
	if m.ZoomLevel() >= labelZoomStep {
		size += 2
		lineOffset += 2
	}

	var px, py int
	switch {
	case airportLabelRoles.Has(role):
		pos := a.ctrl.Position()
		if pos == nil || pos.Airport == nil {
			return
		}
		px, py = m.PositionToPixel(pos.Airport.Latitude, pos.Airport.Longitude)
		py += style.LabelLines * lineOffset
	case role == ivaoapi.RoleCTR || role == ivaoapi.RoleFSS:
		ctr := a.ctrl.Center()
		if ctr == nil {
			return
		}
		px, py = m.PositionToPixel(ctr.Latitude, ctr.Longitude)
	default:
		return
	}

	if !m.IsPointVisible(px, py, labelMargin) {
		return
	}

	text := a.ctrl.Callsign
	if detailed {
		text += " " + formatFrequency(a.ctrl.Session.Frequency)
	}
	m.Surface().DrawText(text, size, px, py-size/2, style.Font, labelBackground, AlignCentre)
}

// formatFrequency truncates (not rounds) to three decimals.
func formatFrequency(freq float64) string {
	s := strconv.FormatFloat(freq, 'f', 6, 64)
	if dot := strings.IndexByte(s, '.'); dot >= 0 && len(s) > dot+4 {
		s = s[:dot+4]
	}
	return s
}
