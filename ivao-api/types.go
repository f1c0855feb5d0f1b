package ivaoapi

import (
	"strconv"

	"github.com/paulmach/orb"
)

// Wire representation of the IVAO tracker atc/summary payload. Pointers
// tell an absent or null field from a zero value.
type (
	VSession struct {
		Frequency *float64 `json:"frequency"`
		Position  *string  `json:"position"`
	}

	VAirport struct {
		ICAO      *string  `json:"icao"`
		IATA      *string  `json:"iata"`
		Name      *string  `json:"name"`
		CountryID *string  `json:"countryId"`
		Longitude *float64 `json:"longitude"`
		Latitude  *float64 `json:"latitude"`
		City      *string  `json:"city"`
	}

	VStation struct {
		ATCCallsign      *string      `json:"atcCallsign"`
		Position         *string      `json:"position"`
		MiddleIdentifier *string      `json:"middleIdentifier"`
		ComposePosition  *string      `json:"composePosition"`
		Military         *bool        `json:"military"`
		Frequency        *float64     `json:"frequency"`
		RegionMapPolygon *[][]float64 `json:"regionMapPolygon"`
	}

	VPosition struct {
		VStation
		AirportID *string   `json:"airportId"`
		Airport   *VAirport `json:"airport"`
		Order     *int      `json:"order"`
	}

	VCenter struct {
		VStation
		CenterID  *string  `json:"centerId"`
		Longitude *float64 `json:"longitude"`
		Latitude  *float64 `json:"latitude"`
	}

	VController struct {
		ID             *uint64    `json:"id"`
		Callsign       *string    `json:"callsign"`
		UserID         *uint64    `json:"userId"`
		ConnectionType *string    `json:"connectionType"`
		ATCSession     *VSession  `json:"atcSession"`
		ATCPosition    *VPosition `json:"atcPosition"`
		Subcenter      *VCenter   `json:"subcenter"`
	}
)

type (
	Session struct {
		Frequency float64 `json:"frequency"`
		Position  string  `json:"position"`
	}

	Airport struct {
		ICAO      string  `json:"icao"`
		IATA      string  `json:"iata"`
		Name      string  `json:"name"`
		CountryID string  `json:"country_id"`
		City      string  `json:"city"`
		Latitude  float64 `json:"lat"`
		Longitude float64 `json:"lng"`
	}

	// Station holds the fields shared by airport positions and centers.
	// Region vertices are (lon, lat).
	Station struct {
		Callsign         string   `json:"callsign"`
		Position         string   `json:"position"`
		MiddleIdentifier string   `json:"middle_identifier"`
		ComposePosition  string   `json:"compose_position"`
		Military         bool     `json:"military"`
		Frequency        float64  `json:"frequency"`
		Region           orb.Ring `json:"region"`
	}

	// Position is an airport-anchored station (DEL, GND, TWR, DEP, APP).
	Position struct {
		Station
		AirportID string   `json:"airport_id"`
		Airport   *Airport `json:"airport"`
		Order     int      `json:"order"`
	}

	// Center is an area control station (CTR, FSS).
	Center struct {
		Station
		CenterID  string  `json:"center_id"`
		Latitude  float64 `json:"lat"`
		Longitude float64 `json:"lng"`
	}

	// Facility is either a *Position or a *Center.
	Facility interface {
		station() *Station
	}

	// Controller is one connected ATC. Controllers reachable from a published
	// Snapshot are shared between readers and must not be modified.
	Controller struct {
		ID             uint64   `json:"id"`
		Callsign       string   `json:"callsign"`
		UserID         uint64   `json:"user_id"`
		ConnectionType string   `json:"connection_type"`
		Session        Session  `json:"session"`
		Facility       Facility `json:"facility,omitempty"`

		rank int
	}
)

const (
	RoleFSS = "FSS"
	RoleCTR = "CTR"
	RoleDEP = "DEP"
	RoleAPP = "APP"
	RoleTWR = "TWR"
	RoleGND = "GND"
	RoleDEL = "DEL"
)

func (p *Position) station() *Station { return &p.Station }
func (c *Center) station() *Station   { return &c.Station }

// RankOf orders session roles for drawing. Unknown roles sort first.
func RankOf(role string) int {
	switch role {
	case RoleFSS:
		return 0
	case RoleCTR:
		return 1
	case RoleDEP:
		return 2
	case RoleAPP:
		return 3
	case RoleTWR:
		return 4
	case RoleGND:
		return 5
	case RoleDEL:
		return 6
	}
	return -1
}

func (c *Controller) Rank() int {
	return c.rank
}

func (c *Controller) Role() string {
	return c.Session.Position
}

// Position returns the airport position record or nil.
func (c *Controller) Position() *Position {
	p, _ := c.Facility.(*Position)
	return p
}

// Center returns the center record or nil.
func (c *Controller) Center() *Center {
	ctr, _ := c.Facility.(*Center)
	return ctr
}

// Region returns the controlled region polygon of whichever record is populated.
func (c *Controller) Region() orb.Ring {
	if c.Facility == nil {
		return nil
	}
	return c.Facility.station().Region
}

// Anchor returns the geographic reference point of the controller: the airport
// for positions, the center's own coordinates for centers.
func (c *Controller) Anchor() (lat, lon float64, ok bool) {
	switch f := c.Facility.(type) {
	case *Position:
		if f.Airport != nil {
			return f.Airport.Latitude, f.Airport.Longitude, true
		}
	case *Center:
		return f.Latitude, f.Longitude, true
	}
	return 0, 0, false
}

func (c Controller) key() string {
	return strconv.FormatUint(c.ID, 10)
}

func (s *Station) NE(o *Station) bool {
	return s.Callsign != o.Callsign ||
		s.Position != o.Position ||
		s.MiddleIdentifier != o.MiddleIdentifier ||
		s.ComposePosition != o.ComposePosition ||
		s.Military != o.Military ||
		s.Frequency != o.Frequency ||
		!s.Region.Equal(o.Region)
}

func (c Controller) NE(o Controller) bool {
	if c.ID != o.ID ||
		c.Callsign != o.Callsign ||
		c.UserID != o.UserID ||
		c.ConnectionType != o.ConnectionType ||
		c.Session != o.Session {
		return true
	}

	switch f := c.Facility.(type) {
	case nil:
		return o.Facility != nil
	case *Position:
		of, ok := o.Facility.(*Position)
		if !ok {
			return true
		}
		if f.Station.NE(&of.Station) || f.AirportID != of.AirportID || f.Order != of.Order {
			return true
		}
		if (f.Airport == nil) != (of.Airport == nil) {
			return true
		}
		return f.Airport != nil && *f.Airport != *of.Airport
	case *Center:
		of, ok := o.Facility.(*Center)
		if !ok {
			return true
		}
		return f.Station.NE(&of.Station) ||
			f.CenterID != of.CenterID ||
			f.Latitude != of.Latitude ||
			f.Longitude != of.Longitude
	}
	return true
}
