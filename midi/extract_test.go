package midi

import (
	"bytes"
	"testing"

	"github.com/harpsync/harpsync/model"
	"github.com/stretchr/testify/assert"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// buildSMF writes an in-memory file and reads it back so the tempo map
// used by TimeAt is populated the same way it is for real files.
// 960 ticks per quarter at 120bpm makes one tick 1/1920 s.
func buildSMF(t *testing.T, add func(tr *smf.Track)) *smf.SMF {
	var s smf.SMF
	s.TimeFormat = smf.MetricTicks(960)

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	add(&tr)
	tr.Close(0)
	s.Tracks = append(s.Tracks, tr)

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("could not write smf: %v", err)
	}
	parsed, err := smf.ReadFrom(&buf)
	if err != nil {
		t.Fatalf("could not re-read smf: %v", err)
	}
	return parsed
}

func TestExtractSimpleSequence(t *testing.T) {
	s := buildSMF(t, func(tr *smf.Track) {
		tr.Add(0, gomidi.NoteOn(0, 60, 100))
		tr.Add(960, gomidi.NoteOff(0, 60)) // half second
		tr.Add(0, gomidi.NoteOn(0, 62, 64))
		tr.Add(960, gomidi.NoteOff(0, 62))
	})

	events := Extract(s, Options{})

	assert := assert.New(t)
	assert.Len(events, 2)
	assert.Equal(uint8(60), events[0].Pitch)
	assert.InDelta(0.0, events[0].Start, 1e-4)
	assert.InDelta(0.5, events[0].Duration, 1e-4)
	assert.Equal(uint8(62), events[1].Pitch)
	assert.InDelta(0.5, events[1].Start, 1e-4)
	assert.InDelta(1.0, events[0].Confidence, 1e-9)
}

func TestExtractDiscardsPitchBend(t *testing.T) {
	s := buildSMF(t, func(tr *smf.Track) {
		tr.Add(0, gomidi.NoteOn(0, 60, 100))
		tr.Add(100, gomidi.Pitchbend(0, 4096))
		tr.Add(860, gomidi.NoteOff(0, 60))
	})

	events := Extract(s, Options{})

	assert := assert.New(t)
	assert.Len(events, 1)
	assert.Equal(uint8(60), events[0].Pitch)
	assert.InDelta(0.5, events[0].Duration, 1e-4)
}

func TestExtractSortTieBrokenByPitch(t *testing.T) {
	s := buildSMF(t, func(tr *smf.Track) {
		// chord entered high note first
		tr.Add(0, gomidi.NoteOn(0, 67, 100))
		tr.Add(0, gomidi.NoteOn(0, 60, 100))
		tr.Add(0, gomidi.NoteOn(0, 64, 100))
		tr.Add(960, gomidi.NoteOff(0, 67))
		tr.Add(0, gomidi.NoteOff(0, 60))
		tr.Add(0, gomidi.NoteOff(0, 64))
	})

	events := Extract(s, Options{})

	assert := assert.New(t)
	assert.Len(events, 3)
	assert.Equal(uint8(60), events[0].Pitch)
	assert.Equal(uint8(64), events[1].Pitch)
	assert.Equal(uint8(67), events[2].Pitch)
}

func TestExtractMinDurationFilter(t *testing.T) {
	s := buildSMF(t, func(tr *smf.Track) {
		tr.Add(0, gomidi.NoteOn(0, 60, 100))
		tr.Add(96, gomidi.NoteOff(0, 60)) // 50ms blip
		tr.Add(0, gomidi.NoteOn(0, 62, 100))
		tr.Add(960, gomidi.NoteOff(0, 62))
	})

	events := Extract(s, Options{MinDuration: 0.127})

	assert := assert.New(t)
	assert.Len(events, 1)
	assert.Equal(uint8(62), events[0].Pitch)
}

func TestFixOverlapsSamePitch(t *testing.T) {
	events := []model.NoteEvent{
		{Pitch: 60, Start: 0.0, Duration: 1.5},
		{Pitch: 60, Start: 1.0, Duration: 1.0},
	}

	fixed := FixOverlaps(events)

	assert := assert.New(t)
	assert.InDelta(1.0, fixed[0].Duration, 1e-9)
	assert.InDelta(1.0, fixed[1].Duration, 1e-9)
	// input untouched
	assert.InDelta(1.5, events[0].Duration, 1e-9)
}

func TestFixOverlapsLeavesChordsAlone(t *testing.T) {
	events := []model.NoteEvent{
		{Pitch: 60, Start: 1.0, Duration: 1.0},
		{Pitch: 64, Start: 1.0, Duration: 1.0},
		{Pitch: 67, Start: 1.03, Duration: 1.0},
	}

	fixed := FixOverlaps(events)

	assert := assert.New(t)
	for i := range events {
		assert.Equal(events[i], fixed[i])
	}
}

func TestFixOverlapsIdempotent(t *testing.T) {
	events := []model.NoteEvent{
		{Pitch: 60, Start: 0.0, Duration: 1.5},
		{Pitch: 64, Start: 0.2, Duration: 2.0},
		{Pitch: 60, Start: 1.0, Duration: 1.0},
		{Pitch: 60, Start: 3.0, Duration: 0.5},
	}

	once := FixOverlaps(events)
	twice := FixOverlaps(once)

	assert.Equal(t, once, twice)
}

func TestFixOverlapsNonOverlappingNoOp(t *testing.T) {
	events := []model.NoteEvent{
		{Pitch: 60, Start: 0.0, Duration: 1.0},
		{Pitch: 60, Start: 1.5, Duration: 1.0},
		{Pitch: 60, Start: 3.0, Duration: 1.0},
	}

	assert.Equal(t, events, FixOverlaps(events))
}

func TestExtractHandlesRunningStatusNoteOff(t *testing.T) {
	s := buildSMF(t, func(tr *smf.Track) {
		tr.Add(0, gomidi.NoteOn(0, 60, 100))
		tr.Add(960, gomidi.NoteOn(0, 60, 0)) // velocity 0 acts as note off
	})

	events := Extract(s, Options{})

	assert := assert.New(t)
	assert.Len(events, 1)
	assert.InDelta(0.5, events[0].Duration, 1e-4)
}
