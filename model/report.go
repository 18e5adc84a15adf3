package model

// WrongNote is a position-order match whose MIDI pitch does not map to
// the hole the tab declares. Advisory only: the match still stands.
type WrongNote struct {
	Page     int     `json:"page"`
	Line     int     `json:"line"`
	Pos      int     `json:"pos"`
	WantHole int     `json:"want_hole"`
	Pitch    uint8   `json:"pitch"`
	GotHole  int     `json:"got_hole"` // 0 when the pitch has no hole in this key
	Time     float64 `json:"time"`
}

// ExtraNote is a MIDI event left over after every tab slot was consumed.
type ExtraNote struct {
	Pitch uint8   `json:"pitch"`
	Hole  int     `json:"hole"` // 0 when unmappable
	Time  float64 `json:"time"`
}

// MissingNote is a tab note left over after every MIDI event was consumed.
type MissingNote struct {
	Page int `json:"page"`
	Line int `json:"line"`
	Pos  int `json:"pos"`
	Hole int `json:"hole"`
}

// MatchReport accumulates everything alignment could not reconcile.
// None of it is fatal: the caller decides whether to proceed with the
// best-effort timing or go fix the tab file / MIDI first.
type MatchReport struct {
	Matched int           `json:"matched"`
	Wrong   []WrongNote   `json:"wrong,omitempty"`
	Extra   []ExtraNote   `json:"extra,omitempty"`
	Missing []MissingNote `json:"missing,omitempty"`
}

func (r MatchReport) Clean() bool {
	return len(r.Wrong) == 0 && len(r.Extra) == 0 && len(r.Missing) == 0
}
