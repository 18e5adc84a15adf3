// Package align assigns performance timing to tab notation by merging
// the document's structural order against the chronological note event
// sequence. Order drives the match, pitch only verifies it: the tab
// author and the performance are trusted to agree on note order, so the
// aligner walks both sequences with a single cursor each instead of
// searching by pitch.
package align

import (
	"fmt"

	"github.com/harpsync/harpsync/model"
	"github.com/harpsync/harpsync/pitchmap"
)

// DefaultChordThreshold is how close together onsets must be to count
// as one chord cluster, in seconds.
const DefaultChordThreshold = 0.05

// InvariantError reports broken preconditions or postconditions of the
// alignment itself. Seeing one means a bug, not a bad tab file.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "alignment invariant violated: " + e.Msg
}

// Result carries the fully timestamped document and everything that
// did not line up. The report is advisory: timing is always best-effort
// complete, and the caller decides whether the mismatches warrant
// fixing the inputs.
type Result struct {
	Doc    model.TimedTabDocument
	Report model.MatchReport
}

// Align matches note events against the tab document in lockstep order.
// Events must be sorted by start time (midi.Extract output already is).
// A plain slot consumes exactly one event; a chord slot of N members
// consumes up to N events whose onsets fall within chordThreshold of
// the first. The threshold is taken literally: zero clusters only
// exactly simultaneous onsets, negative is an error.
func Align(doc model.TabDocument, events []model.NoteEvent, mapper *pitchmap.Mapper, chordThreshold float64) (Result, error) {
	if chordThreshold < 0 {
		return Result{}, fmt.Errorf("chord threshold must be >= 0, got %v", chordThreshold)
	}
	if err := checkSorted(events); err != nil {
		return Result{}, err
	}

	var res Result
	ei := 0

	for pi, page := range doc.Pages {
		timedPage := model.TimedPage{Name: page.Name}
		for li, line := range page.Lines {
			timedLine := model.TimedLine{}
			for _, slot := range line.Slots {
				cluster := takeCluster(events, ei, len(slot.Notes), chordThreshold)
				timedSlot := model.TimedSlot{Page: pi, Line: li, Pos: slot.Pos}

				for ni, note := range slot.Notes {
					if ni < len(cluster) {
						ev := cluster[ni]
						timedSlot.Notes = append(timedSlot.Notes, model.TimedNote{
							TabNote:    note,
							Start:      ev.Start,
							Duration:   ev.Duration,
							Confidence: ev.Confidence,
							Matched:    true,
						})
						res.Report.Matched++
						verifyPitch(&res.Report, mapper, slot, ni, note, ev)
					} else {
						timedSlot.Notes = append(timedSlot.Notes, model.TimedNote{
							TabNote:    note,
							Confidence: model.UnmatchedConfidence,
						})
						res.Report.Missing = append(res.Report.Missing, model.MissingNote{
							Page: pi, Line: li, Pos: slot.Pos, Hole: note.Hole,
						})
					}
				}
				ei += len(cluster)
				timedLine.Slots = append(timedLine.Slots, timedSlot)
			}
			timedPage.Lines = append(timedPage.Lines, timedLine)
		}
		res.Doc.Pages = append(res.Doc.Pages, timedPage)
	}

	for ; ei < len(events); ei++ {
		ev := events[ei]
		hole := 0
		if h, ok := mapper.HoleForPitch(ev.Pitch); ok {
			hole = h.Hole
		}
		res.Report.Extra = append(res.Report.Extra, model.ExtraNote{
			Pitch: ev.Pitch,
			Hole:  hole,
			Time:  ev.Start,
		})
	}

	return res, nil
}

// takeCluster returns up to max consecutive events starting at ei whose
// onsets are near-simultaneous with the first. A plain slot just gets
// the single next event.
func takeCluster(events []model.NoteEvent, ei, max int, threshold float64) []model.NoteEvent {
	if ei >= len(events) {
		return nil
	}
	if max <= 1 {
		return events[ei : ei+1]
	}
	anchor := events[ei].Start
	end := ei + 1
	for end < len(events) && end-ei < max && events[end].Start-anchor <= threshold {
		end++
	}
	return events[ei:end]
}

// verifyPitch records a wrong note when the consumed event's pitch does
// not map to the hole the tab declares. Advisory only: chord inversions
// in particular produce wrong-note pairs here even though the cluster
// as a whole matched, and the order-driven match stands regardless.
func verifyPitch(report *model.MatchReport, mapper *pitchmap.Mapper, slot model.Slot, ni int, note model.TabNote, ev model.NoteEvent) {
	got, ok := mapper.HoleForPitch(ev.Pitch)
	if ok && got.Hole == note.Hole {
		return
	}
	wrong := model.WrongNote{
		Page:     slot.Page,
		Line:     slot.Line,
		Pos:      slot.Pos,
		WantHole: note.Hole,
		Pitch:    ev.Pitch,
		Time:     ev.Start,
	}
	if ok {
		wrong.GotHole = got.Hole
	}
	report.Wrong = append(report.Wrong, wrong)
}

func checkSorted(events []model.NoteEvent) error {
	for i := 1; i < len(events); i++ {
		if events[i].Start < events[i-1].Start {
			return &InvariantError{Msg: fmt.Sprintf(
				"note events not sorted: event %v starts at %.5f before %.5f", i, events[i].Start, events[i-1].Start)}
		}
	}
	return nil
}
