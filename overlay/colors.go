package overlay

import (
	ivaoapi "github.com/vatsimnerd/ivao-overlay/ivao-api"
)

type roleStyle struct {
	Border     Color
	Background Color
	Font       Color

	// RadiusNM sizes airport glyphs
	RadiusNM float64
	// LabelLines shifts the label by whole lines, positive is down
	LabelLines int
}

const (
	labelBackground Color = 0xB0FFFFFF
)

var (
	roleStyles = map[string]roleStyle{
		ivaoapi.RoleDEL: {Border: 0xFF000000, Background: 0x90FCCBA8, Font: 0xFFE08341, RadiusNM: 14, LabelLines: 2},
		ivaoapi.RoleGND: {Border: 0xFF000000, Background: 0x90FDFC86, Font: 0xFFB3B100, RadiusNM: 14, LabelLines: 1},
		ivaoapi.RoleTWR: {Border: 0xFFFF5C57, Background: 0x90FF5C57, Font: 0xFFE34242, RadiusNM: 14},
		ivaoapi.RoleDEP: {Border: 0xFFFF8CFF, Background: 0x90FF8CFF, Font: 0xFFFF67FF, RadiusNM: 16, LabelLines: -1},
		ivaoapi.RoleAPP: {Border: 0xFF78AAED, Background: 0x9078AAED, Font: 0xFF2587ED, LabelLines: -2},
		ivaoapi.RoleCTR: {Border: 0xFF99B0C0, Background: 0x9099B0C0, Font: 0xFF677D8C},
		ivaoapi.RoleFSS: {Border: 0xFF00FFFF, Background: 0xFF00FFFF, Font: 0xFF00FFFF},
	}
)
