package overlay

import (
	"image"
	"math"

	"github.com/paulmach/orb"
	ivaoapi "github.com/vatsimnerd/ivao-overlay/ivao-api"
)

// Star glyph proportions relative to a 14 NM radius. Deriving them from the
// integer radius keeps every (role, radius) glyph pixel-identical.
const (
	starBaseNM    = 14.0
	gndArmNM      = 3.0
	delArmNM      = 3.75
	delDiagonalNM = 4.15
)

// starVertices returns a closed four-pointed star inside a (2r+1)² box.
// DEL is rotated by 45 degrees, GND is axis-aligned.
func starVertices(role string, r int) (xs, ys []int) {
	if role == ivaoapi.RoleDEL {
		d1 := int(float64(r) * delArmNM / starBaseNM)
		d2 := int(float64(r) * delDiagonalNM / starBaseNM)
		xs = []int{d2, r, r*2 - d2, r + d1, r*2 - d2, r, d2, r - d1, d2}
		ys = []int{d2, r - d1, d2, r, r*2 - d2, r + d1, r*2 - d2, r, d2}
		return xs, ys
	}

	d1 := int(float64(r) * gndArmNM / starBaseNM)
	xs = []int{0, r - d1, r, r + d1, r * 2, r + d1, r, r - d1, 0}
	ys = []int{r, r - d1, 0, r - d1, r, r + d1, r * 2, r + d1, r}
	return xs, ys
}

func drawStar(s Surface, role string, r int, style roleStyle) Canvas {
	img := s.NewBitmap(r*2+1, r*2+1)
	xs, ys := starVertices(role, r)
	img.FillPolygon(xs, ys, style.Background)
	img.DrawPolygon(xs, ys, style.Border)
	return img
}

// pixelPolygon is a region projected to surface pixels. Bounds are inclusive.
type pixelPolygon struct {
	xs, ys []int
	min    image.Point
	max    image.Point
}

func projectRing(m MapSurface, ring orb.Ring) pixelPolygon {
	p := pixelPolygon{
		xs:  make([]int, len(ring)),
		ys:  make([]int, len(ring)),
		min: image.Pt(math.MaxInt, math.MaxInt),
		max: image.Pt(math.MinInt, math.MinInt),
	}
	for i, pt := range ring {
		x, y := m.PositionToPixel(pt.Lat(), pt.Lon())
		p.xs[i], p.ys[i] = x, y
		p.min.X = min(p.min.X, x)
		p.min.Y = min(p.min.Y, y)
		p.max.X = max(p.max.X, x)
		p.max.Y = max(p.max.Y, y)
	}
	return p
}

// visible reports whether a vertex lies on a w*h surface or the bounding box
// covers the whole surface. Polygons crossing the view with edges only are
// not detected.
func (p pixelPolygon) visible(w, h int) bool {
	for i := range p.xs {
		if p.xs[i] >= 0 && p.xs[i] <= w && p.ys[i] >= 0 && p.ys[i] <= h {
			return true
		}
	}
	return p.min.X <= 0 && p.max.X >= w-1 && p.min.Y <= 0 && p.max.Y >= h-1
}

// rasterize draws the polygon into a bitmap covering its bounding box.
func (p pixelPolygon) rasterize(s Surface, style roleStyle) Canvas {
	xs := make([]int, len(p.xs))
	ys := make([]int, len(p.ys))
	for i := range p.xs {
		xs[i] = p.xs[i] - p.min.X
		ys[i] = p.ys[i] - p.min.Y
	}
	img := s.NewBitmap(p.max.X-p.min.X+1, p.max.Y-p.min.Y+1)
	img.FillPolygon(xs, ys, style.Background)
	img.DrawPolygon(xs, ys, style.Border)
	return img
}
