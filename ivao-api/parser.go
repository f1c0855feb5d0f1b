package ivaoapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/paulmach/orb"
)

var (
	// ErrShape reports a payload that doesn't match the roster shape.
	ErrShape = errors.New("invalid roster shape")
)

// parseRoster decodes the whole payload or fails as a unit, so a single
// malformed controller discards the cycle.
func parseRoster(raw []byte) ([]*Controller, error) {
	var data []VController
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShape, err)
	}

	ctrls := make([]*Controller, 0, len(data))
	for i, vctrl := range data {
		ctrl, err := makeController(vctrl)
		if err != nil {
			return nil, fmt.Errorf("%w: controller #%d %q: %v", ErrShape, i, optional(vctrl.Callsign), err)
		}
		ctrls = append(ctrls, ctrl)
	}

	sort.SliceStable(ctrls, func(i, j int) bool {
		return ctrls[i].rank < ctrls[j].rank
	})
	return ctrls, nil
}

// fields collects the names of required fields that are absent or null.
type fields struct {
	prefix  string
	missing []string
}

func required[T any](f *fields, name string, v *T) T {
	if v == nil {
		f.missing = append(f.missing, f.prefix+name)
		var zero T
		return zero
	}
	return *v
}

func optional[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

func (f *fields) err() error {
	if len(f.missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing %s", strings.Join(f.missing, ", "))
}

func makeController(v VController) (*Controller, error) {
	f := &fields{}
	ctrl := &Controller{
		ID:             required(f, "id", v.ID),
		Callsign:       required(f, "callsign", v.Callsign),
		UserID:         required(f, "userId", v.UserID),
		ConnectionType: required(f, "connectionType", v.ConnectionType),
	}
	if v.ATCSession == nil {
		required[VSession](f, "atcSession", nil)
	} else {
		f.prefix = "atcSession."
		ctrl.Session = Session{
			Frequency: required(f, "frequency", v.ATCSession.Frequency),
			Position:  required(f, "position", v.ATCSession.Position),
		}
		f.prefix = ""
	}
	if err := f.err(); err != nil {
		return nil, err
	}
	ctrl.rank = RankOf(ctrl.Session.Position)

	var (
		pos *Position
		ctr *Center
		err error
	)
	if v.ATCPosition != nil {
		pos, err = makePosition(v.ATCPosition)
		if err != nil {
			return nil, fmt.Errorf("atcPosition: %v", err)
		}
	}
	if v.Subcenter != nil {
		ctr, err = makeCenter(v.Subcenter)
		if err != nil {
			return nil, fmt.Errorf("subcenter: %v", err)
		}
	}

	// at most one record is kept, the one matching the session role wins
	switch {
	case pos != nil && ctr != nil:
		if ctrl.Role() == RoleCTR || ctrl.Role() == RoleFSS {
			ctrl.Facility = ctr
		} else {
			ctrl.Facility = pos
		}
		log.WithField("callsign", ctrl.Callsign).Trace("both atcPosition and subcenter present")
	case pos != nil:
		ctrl.Facility = pos
	case ctr != nil:
		ctrl.Facility = ctr
	}

	return ctrl, nil
}

func makeStation(f *fields, v VStation) Station {
	return Station{
		Callsign:         required(f, "atcCallsign", v.ATCCallsign),
		Position:         required(f, "position", v.Position),
		MiddleIdentifier: optional(v.MiddleIdentifier),
		ComposePosition:  required(f, "composePosition", v.ComposePosition),
		Military:         required(f, "military", v.Military),
		Frequency:        required(f, "frequency", v.Frequency),
	}
}

func makePosition(v *VPosition) (*Position, error) {
	f := &fields{}
	pos := &Position{
		Station:   makeStation(f, v.VStation),
		AirportID: required(f, "airportId", v.AirportID),
		Order:     required(f, "order", v.Order),
	}
	polygon := required(f, "regionMapPolygon", v.RegionMapPolygon)

	if v.Airport == nil {
		required[VAirport](f, "airport", nil)
	} else {
		f.prefix = "airport."
		pos.Airport = &Airport{
			ICAO:      required(f, "icao", v.Airport.ICAO),
			IATA:      optional(v.Airport.IATA),
			Name:      required(f, "name", v.Airport.Name),
			CountryID: required(f, "countryId", v.Airport.CountryID),
			City:      required(f, "city", v.Airport.City),
			Latitude:  required(f, "latitude", v.Airport.Latitude),
			Longitude: required(f, "longitude", v.Airport.Longitude),
		}
		f.prefix = ""
	}
	if err := f.err(); err != nil {
		return nil, err
	}

	region, err := makeRegion(polygon)
	if err != nil {
		return nil, err
	}
	pos.Region = region
	return pos, nil
}

func makeCenter(v *VCenter) (*Center, error) {
	f := &fields{}
	ctr := &Center{
		Station:   makeStation(f, v.VStation),
		CenterID:  required(f, "centerId", v.CenterID),
		Latitude:  required(f, "latitude", v.Latitude),
		Longitude: required(f, "longitude", v.Longitude),
	}
	polygon := required(f, "regionMapPolygon", v.RegionMapPolygon)
	if err := f.err(); err != nil {
		return nil, err
	}

	region, err := makeRegion(polygon)
	if err != nil {
		return nil, err
	}
	ctr.Region = region
	return ctr, nil
}

func makeRegion(coords [][]float64) (orb.Ring, error) {
	if len(coords) == 0 {
		return nil, nil
	}
	ring := make(orb.Ring, 0, len(coords))
	for i, c := range coords {
		// [lon, lat]
		if len(c) != 2 {
			return nil, fmt.Errorf("region vertex #%d has %d coordinates", i, len(c))
		}
		ring = append(ring, orb.Point{c[0], c[1]})
	}
	return ring, nil
}
