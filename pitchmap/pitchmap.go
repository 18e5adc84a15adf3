// Package pitchmap maps MIDI pitches to harmonica holes for the twelve
// supported diatonic keys. Every key's table is the canonical C table
// transposed by a fixed semitone offset.
package pitchmap

import (
	"fmt"
	"strings"

	"github.com/harpsync/harpsync/util"
)

// Hole identifies a playable sound: hole number signed by direction
// (positive blow, negative draw), plus whether reaching the pitch needs
// a bend.
type Hole struct {
	Hole int
	Bend bool
}

// Policy controls what happens to pitches that have no hole in the
// selected key.
type Policy int

const (
	// Drop discards unmappable notes silently.
	Drop Policy = iota
	// Warn discards them but collects an Unmappable record for each.
	Warn
	// Strict turns the first unmappable note into an error.
	Strict
)

// Unmappable records one dropped note for validation tooling.
type Unmappable struct {
	Pitch uint8
	Time  float64
}

func (u Unmappable) Error() string {
	return fmt.Sprintf("pitch %v at %.3fs has no hole in this key", u.Pitch, u.Time)
}

// cMapping is the canonical C-key Richter table: the 19 plain notes plus
// the standard draw-bend (holes 1-4, 6) and blow-bend (holes 8-10)
// extensions.
var cMapping = map[uint8]Hole{
	60: {Hole: 1},
	61: {Hole: -1, Bend: true},
	62: {Hole: -1},
	64: {Hole: 2},
	65: {Hole: -2, Bend: true},
	66: {Hole: -2, Bend: true},
	67: {Hole: 3},
	68: {Hole: -3, Bend: true},
	69: {Hole: -3, Bend: true},
	70: {Hole: -3, Bend: true},
	71: {Hole: -3},
	72: {Hole: 4},
	73: {Hole: -4, Bend: true},
	74: {Hole: -4},
	76: {Hole: 5},
	77: {Hole: -5},
	79: {Hole: 6},
	80: {Hole: -6, Bend: true},
	81: {Hole: -6},
	83: {Hole: -7},
	84: {Hole: 7},
	86: {Hole: -8},
	87: {Hole: 8, Bend: true},
	88: {Hole: 8},
	89: {Hole: -9},
	90: {Hole: 9, Bend: true},
	91: {Hole: 9},
	93: {Hole: -10},
	94: {Hole: 10, Bend: true},
	95: {Hole: 10, Bend: true},
	96: {Hole: 10},
}

// keyOffsets gives the semitone transposition from C per key name.
var keyOffsets = map[string]int{
	"C":  0,
	"CS": 1,
	"D":  2,
	"EB": 3,
	"E":  4,
	"F":  5,
	"FS": 6,
	"G":  7,
	"AB": 8,
	"A":  9,
	"BB": 10,
	"B":  11,
}

var keyAliases = map[string]string{
	"C#": "CS",
	"DB": "CS",
	"D#": "EB",
	"F#": "FS",
	"GB": "FS",
	"G#": "AB",
	"A#": "BB",
}

// Mapper resolves pitches for one harmonica key. Stateless after
// construction, safe for concurrent use.
type Mapper struct {
	key    string
	offset int
}

// ForKey returns the mapper for a key name. Names are case-insensitive
// and common enharmonic spellings are accepted ("F#" for FS, "Db" for CS).
func ForKey(key string) (*Mapper, error) {
	name := strings.ToUpper(strings.TrimSpace(key))
	if alias, ok := keyAliases[name]; ok {
		name = alias
	}
	offset, ok := keyOffsets[name]
	if !ok {
		return nil, fmt.Errorf("unsupported harmonica key %q, supported: %v",
			key, strings.Join(SupportedKeys(), ", "))
	}
	return &Mapper{key: name, offset: offset}, nil
}

func (m *Mapper) Key() string {
	return m.key
}

// HoleForPitch looks up the hole for a MIDI pitch in this key.
func (m *Mapper) HoleForPitch(pitch uint8) (Hole, bool) {
	transposed := int(pitch) - m.offset
	if transposed < 0 || transposed > 127 {
		return Hole{}, false
	}
	h, ok := cMapping[uint8(transposed)]
	return h, ok
}

// PitchForHole is the reverse lookup: the MIDI pitch sounding at a
// signed hole in this key. Plain notes only; bends of the same hole are
// skipped so the result is unambiguous.
func (m *Mapper) PitchForHole(hole int) (uint8, bool) {
	for pitch, h := range cMapping {
		if h.Hole == hole && !h.Bend {
			return uint8(int(pitch) + m.offset), true
		}
	}
	return 0, false
}

func SupportedKeys() []string {
	return util.SortedKeys(keyOffsets)
}
