package midi

import (
	"sort"

	"github.com/harpsync/harpsync/model"
	"github.com/harpsync/harpsync/util"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Options controls note event extraction.
type Options struct {
	// FixOverlaps truncates a note that is still sounding when the next
	// note of the same pitch starts. Overlaps between different pitches
	// are left alone so chords survive.
	FixOverlaps bool
	// MinDuration drops events shorter than this many seconds. Upstream
	// pitch detectors tend to emit sub-130ms blips that are not real
	// notes. Zero disables the filter.
	MinDuration float64
}

type noteKey struct {
	channel uint8
	pitch   uint8
}

// Extract turns an SMF into a clean, chronologically sorted note event
// sequence. Pitch-bend messages are discarded: bends are notated
// structurally in the tab, never read from MIDI.
func Extract(s *smf.SMF, opts Options) []model.NoteEvent {
	var events []model.NoteEvent
	active := make(map[noteKey]model.NoteEvent)

	closeNote := func(k noteKey, end float64) {
		ev, ok := active[k]
		if !ok {
			return
		}
		delete(active, k)
		if end <= ev.Start {
			return
		}
		ev.Duration = util.Round(end - ev.Start)
		events = append(events, ev)
	}

	for _, track := range s.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			absTime := float64(s.TimeAt(absTicks)) / 1e6
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				k := noteKey{channel, key}
				if velocity == 0 {
					// running-status note off
					closeNote(k, absTime)
					continue
				}
				// retrigger before the off arrived, close the old one
				closeNote(k, absTime)
				active[k] = model.NoteEvent{
					Pitch:      key,
					Start:      util.Round(absTime),
					Velocity:   util.Round(float64(velocity) / 127),
					Confidence: 1.0,
				}
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				closeNote(noteKey{channel, key}, absTime)
			}
		}
		// notes left hanging at end of track are dropped
		for k := range active {
			delete(active, k)
		}
	}

	SortEvents(events)
	if opts.FixOverlaps {
		events = FixOverlaps(events)
	}
	if opts.MinDuration > 0 {
		events = dropShort(events, opts.MinDuration)
	}
	return events
}

// SortEvents orders events by start time, ties broken by pitch, so that
// alignment downstream is reproducible.
func SortEvents(events []model.NoteEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Start != events[j].Start {
			return events[i].Start < events[j].Start
		}
		return events[i].Pitch < events[j].Pitch
	})
}

// FixOverlaps truncates each note that overlaps the next note of the
// same pitch. Events are never reordered or dropped and the operation
// is idempotent. Input must be sorted.
func FixOverlaps(events []model.NoteEvent) []model.NoteEvent {
	res := make([]model.NoteEvent, len(events))
	copy(res, events)

	lastByPitch := make(map[uint8]int)
	for i, ev := range res {
		if prev, ok := lastByPitch[ev.Pitch]; ok {
			if res[prev].End() > ev.Start {
				res[prev].Duration = util.Round(ev.Start - res[prev].Start)
				if res[prev].Duration < 0 {
					res[prev].Duration = 0
				}
			}
		}
		lastByPitch[ev.Pitch] = i
	}
	return res
}

func dropShort(events []model.NoteEvent, minDuration float64) []model.NoteEvent {
	var res []model.NoteEvent
	for _, ev := range events {
		if ev.Duration >= minDuration {
			res = append(res, ev)
		}
	}
	return res
}
