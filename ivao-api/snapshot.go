package ivaoapi

import "time"

// Snapshot is one immutable roster version sorted by rank.
type Snapshot struct {
	FetchedAt time.Time

	controllers []*Controller
}

func (s *Snapshot) Len() int {
	return len(s.controllers)
}

func (s *Snapshot) ForEach(fn func(*Controller)) {
	for _, ctrl := range s.controllers {
		fn(ctrl)
	}
}

// Controllers returns a copy of the ranked controller list.
func (s *Snapshot) Controllers() []*Controller {
	res := make([]*Controller, len(s.controllers))
	copy(res, s.controllers)
	return res
}
