package overlay

import (
	ivaoapi "github.com/vatsimnerd/ivao-overlay/ivao-api"
)

// detailed labels (with frequencies) below this map width
const detailedWidthNM = 40

// Roster yields controllers in draw order. *ivaoapi.Provider implements it.
type Roster interface {
	ForEach(func(*ivaoapi.Controller))
}

// Layer draws a roster once per map redraw. Renderers are kept per
// controller id between frames so their polygon caches survive redraws.
// A Layer is not safe for concurrent use.
type Layer struct {
	roster Roster
	shapes *ShapeCache
	atcs   map[uint64]*ATC
}

func NewLayer(roster Roster, shapes *ShapeCache) *Layer {
	if shapes == nil {
		shapes = NewShapeCache()
	}
	return &Layer{
		roster: roster,
		shapes: shapes,
		atcs:   make(map[uint64]*ATC),
	}
}

// Draw renders all glyphs, then all labels on top of them.
func (l *Layer) Draw(m MapSurface) {
	var frame []*ATC
	seen := make(map[uint64]struct{})

	l.roster.ForEach(func(ctrl *ivaoapi.Controller) {
		seen[ctrl.ID] = struct{}{}
		atc, found := l.atcs[ctrl.ID]
		switch {
		case !found, atc.ctrl.NE(*ctrl):
			atc = NewATC(ctrl, l.shapes)
			l.atcs[ctrl.ID] = atc
		default:
			atc.ctrl = ctrl
		}
		frame = append(frame, atc)
	})

	for id := range l.atcs {
		if _, found := seen[id]; !found {
			delete(l.atcs, id)
		}
	}

	for _, atc := range frame {
		atc.DrawGraphics(m)
	}

	detailed := m.SurfaceWidthNM() < detailedWidthNM
	for _, atc := range frame {
		atc.DrawText(m, detailed)
	}
}

// Len returns the number of controllers drawn by the last Draw.
func (l *Layer) Len() int {
	return len(l.atcs)
}
