package ivaoapi

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection exports the snapshot: one Polygon feature per controlled
// region and one Point feature per anchor.
func (s *Snapshot) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	s.ForEach(func(ctrl *Controller) {
		if region := ctrl.Region(); len(region) >= 3 {
			feat := geojson.NewFeature(orb.Polygon{closeRing(region)})
			setProps(feat, ctrl, "region")
			fc.Append(feat)
		}
		if lat, lon, ok := ctrl.Anchor(); ok {
			feat := geojson.NewFeature(orb.Point{lon, lat})
			setProps(feat, ctrl, "anchor")
			fc.Append(feat)
		}
	})
	return fc
}

func setProps(feat *geojson.Feature, ctrl *Controller, kind string) {
	feat.ID = ctrl.key() + "/" + kind
	feat.Properties["callsign"] = ctrl.Callsign
	feat.Properties["role"] = ctrl.Role()
	feat.Properties["frequency"] = ctrl.Session.Frequency
	feat.Properties["rank"] = ctrl.rank
	feat.Properties["kind"] = kind
	if pos := ctrl.Position(); pos != nil && pos.Airport != nil {
		feat.Properties["icao"] = pos.Airport.ICAO
	}
}

func closeRing(r orb.Ring) orb.Ring {
	if r[0] == r[len(r)-1] {
		return r
	}
	closed := make(orb.Ring, 0, len(r)+1)
	closed = append(closed, r...)
	return append(closed, r[0])
}
