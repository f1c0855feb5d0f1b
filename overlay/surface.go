package overlay

// Color is 0xAARRGGBB.
type Color uint32

type Align int

const (
	AlignLeft Align = iota
	AlignCentre
	AlignRight
)

// Canvas is a pixel buffer shapes can be drawn into. Polygon vertices are
// passed as parallel x and y slices.
type Canvas interface {
	Width() int
	Height() int
	FillCircle(x, y, radius int, c Color)
	DrawCircle(x, y, radius int, c Color)
	FillPolygon(xs, ys []int, c Color)
	DrawPolygon(xs, ys []int, c Color)
}

// Surface is the map image the overlay is composed onto.
type Surface interface {
	Canvas

	// NewBitmap allocates a transparent off-screen canvas for BlendBitmap.
	NewBitmap(width, height int) Canvas
	BlendBitmap(bitmap Canvas, x, y int)
	DrawText(text string, size, x, y int, color, background Color, align Align)
}

// MapSurface is the projection and viewport of the map being drawn.
type MapSurface interface {
	Surface() Surface
	SurfaceWidthNM() float64
	ZoomLevel() int
	PositionToPixel(lat, lon float64) (x, y int)
	IsPointVisible(x, y, margin int) bool
	IsRegionVisible(lat, lon float64, margin int) bool
}

func pixelsPerNM(m MapSurface) (float64, bool) {
	widthNM := m.SurfaceWidthNM()
	if widthNM <= 0 {
		return 0, false
	}
	return float64(m.Surface().Width()) / widthNM, true
}
