// Package tabgen generates tab notation straight from extracted note
// events: chord grouping by onset proximity, line breaks on short
// silences, page breaks on long ones. The output round-trips through
// tabtext so generated tabs feed the same alignment path as
// hand-authored ones.
package tabgen

import (
	"fmt"

	"github.com/harpsync/harpsync/model"
	"github.com/harpsync/harpsync/pitchmap"
)

// Config tunes document layout. Generate takes the values literally,
// so a zero gap or tolerance is a legal explicit setting. Start from
// DefaultConfig for the standard layout.
type Config struct {
	SlotsPerLine   int     // max slots per line
	SlotsPerPage   int     // max slots per page
	LineGap        float64 // seconds of silence forcing a line break
	PageGap        float64 // seconds of silence forcing a page break
	ChordTolerance float64 // max onset spread grouped as one chord
}

// DefaultConfig returns the standard layout tunables.
func DefaultConfig() Config {
	return Config{
		SlotsPerLine:   6,
		SlotsPerPage:   24,
		LineGap:        0.5,
		PageGap:        2.0,
		ChordTolerance: 0.05,
	}
}

func (c Config) validate() error {
	if c.SlotsPerLine < 1 || c.SlotsPerPage < 1 {
		return fmt.Errorf("slot capacities must be >= 1, got %v per line and %v per page", c.SlotsPerLine, c.SlotsPerPage)
	}
	if c.LineGap < 0 || c.PageGap < 0 || c.ChordTolerance < 0 {
		return fmt.Errorf("gaps and tolerance must be >= 0, got %v, %v and %v", c.LineGap, c.PageGap, c.ChordTolerance)
	}
	return nil
}

type timedNote struct {
	hole  int
	bend  bool
	start float64
	end   float64
}

// Generate maps events through the key's pitch table and lays them out
// as a TabDocument. The policy decides what happens to unmappable
// pitches: Drop loses them silently, Warn returns them, Strict fails on
// the first one.
func Generate(events []model.NoteEvent, mapper *pitchmap.Mapper, policy pitchmap.Policy, cfg Config) (model.TabDocument, []pitchmap.Unmappable, error) {
	if err := cfg.validate(); err != nil {
		return model.TabDocument{}, nil, err
	}

	var notes []timedNote
	var dropped []pitchmap.Unmappable

	for _, ev := range events {
		h, ok := mapper.HoleForPitch(ev.Pitch)
		if !ok {
			u := pitchmap.Unmappable{Pitch: ev.Pitch, Time: ev.Start}
			switch policy {
			case pitchmap.Strict:
				return model.TabDocument{}, nil, u
			case pitchmap.Warn:
				dropped = append(dropped, u)
			}
			continue
		}
		notes = append(notes, timedNote{hole: h.Hole, bend: h.Bend, start: ev.Start, end: ev.End()})
	}

	if len(notes) == 0 {
		return model.TabDocument{}, dropped, fmt.Errorf("no mappable notes for key %v", mapper.Key())
	}

	doc := layout(groupChords(notes, cfg.ChordTolerance), cfg)
	return doc, dropped, nil
}

// groupChords merges notes whose onsets fall within tolerance of the
// first note of the running group.
func groupChords(notes []timedNote, tolerance float64) [][]timedNote {
	var chords [][]timedNote
	current := []timedNote{notes[0]}

	for _, n := range notes[1:] {
		if n.start-current[0].start <= tolerance {
			current = append(current, n)
		} else {
			chords = append(chords, current)
			current = []timedNote{n}
		}
	}
	return append(chords, current)
}

func layout(chords [][]timedNote, cfg Config) model.TabDocument {
	var doc model.TabDocument

	newPage := func() *model.TabPage {
		doc.Pages = append(doc.Pages, model.TabPage{
			Name: fmt.Sprintf("page %d", len(doc.Pages)+1),
		})
		return &doc.Pages[len(doc.Pages)-1]
	}

	page := newPage()
	var line model.TabLine
	slotsOnPage := 0
	lastEnd := chords[0][0].start

	flushLine := func() {
		if len(line.Slots) > 0 {
			page.Lines = append(page.Lines, line)
			line = model.TabLine{}
		}
	}

	for _, chord := range chords {
		gap := chord[0].start - lastEnd

		if gap > cfg.PageGap && slotsOnPage > 0 {
			flushLine()
			page = newPage()
			slotsOnPage = 0
		} else if gap > cfg.LineGap && len(line.Slots) > 0 {
			flushLine()
		}

		for _, part := range splitChord(chord) {
			if slotsOnPage >= cfg.SlotsPerPage {
				flushLine()
				page = newPage()
				slotsOnPage = 0
			} else if len(line.Slots) >= cfg.SlotsPerLine {
				flushLine()
			}

			slot := model.Slot{
				Page: len(doc.Pages) - 1,
				Line: len(page.Lines),
				Pos:  len(line.Slots),
			}
			for _, n := range part {
				slot.Notes = append(slot.Notes, model.TabNote{Hole: n.hole, Bend: n.bend})
				if n.end > lastEnd {
					lastEnd = n.end
				}
			}
			line.Slots = append(line.Slots, slot)
			slotsOnPage++
		}
	}
	flushLine()
	return doc
}

// splitChord arranges a chord so tab text can express it: blow holes
// before draw holes within one token, and hole ten pulled out into its
// own slot since "10" only parses as a whole token. Single notes pass
// through untouched.
func splitChord(chord []timedNote) [][]timedNote {
	if len(chord) == 1 {
		return [][]timedNote{chord}
	}
	var body, tens []timedNote
	for _, n := range chord {
		switch {
		case n.hole == 10 || n.hole == -10:
			tens = append(tens, n)
		case n.hole > 0:
			body = append(body, n)
		}
	}
	for _, n := range chord {
		if n.hole < 0 && n.hole > -10 {
			body = append(body, n)
		}
	}

	parts := make([][]timedNote, 0, 1+len(tens))
	if len(body) > 0 {
		parts = append(parts, body)
	}
	for _, n := range tens {
		parts = append(parts, []timedNote{n})
	}
	return parts
}
