// Package schedule turns a timestamped tab document into the final lit
// intervals for every animation target: harmonica holes, individual tab
// entries, and whole pages.
package schedule

import (
	"fmt"
	"strconv"

	"github.com/harpsync/harpsync/model"
	"github.com/harpsync/harpsync/util"
)

const (
	// DefaultHoleGap is the forced off-interval between two consecutive
	// hits on the same hole, so repeated notes read as separate attacks.
	DefaultHoleGap = 0.15
	// DefaultPagePadding extends a page's visible window past its first
	// and last note.
	DefaultPagePadding = 0.1
)

// Config holds the scheduling tunables. Values are taken literally, so
// an explicit zero gap or padding is honored; negative values are
// rejected. Start from DefaultConfig for the standard settings.
type Config struct {
	HoleGap     float64
	PagePadding float64
}

// DefaultConfig returns the standard scheduling tunables.
func DefaultConfig() Config {
	return Config{HoleGap: DefaultHoleGap, PagePadding: DefaultPagePadding}
}

// InvariantError means post-scheduling state broke a guarantee the
// rendering layer depends on. It indicates a scheduling bug.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "schedule invariant violated: " + e.Msg
}

// Schedule is the complete per-target interval output.
type Schedule struct {
	Holes   []model.VisualEvent
	Entries []model.VisualEvent
	Pages   []model.PageWindow
}

type timedRef struct {
	note model.TimedNote
	page int
	line int
	pos  int
	idx  int // index within the slot, distinguishes chord members
}

// Build computes all visual events for a timed document. Unmatched
// notes produce nothing: there is no timing to light them with.
func Build(doc model.TimedTabDocument, cfg Config) (*Schedule, error) {
	if cfg.HoleGap < 0 || cfg.PagePadding < 0 {
		return nil, fmt.Errorf("gap and padding must be >= 0, got %v and %v", cfg.HoleGap, cfg.PagePadding)
	}

	refs, err := collectMatched(doc)
	if err != nil {
		return nil, err
	}

	var s Schedule
	s.Holes = holeEvents(refs, cfg.HoleGap)
	s.Entries = entryEvents(refs)
	s.Pages = pageWindows(doc, cfg.PagePadding)

	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// collectMatched flattens the document into its matched notes, checking
// the chronological-order invariant the aligner is supposed to uphold.
func collectMatched(doc model.TimedTabDocument) ([]timedRef, error) {
	var refs []timedRef
	lastStart := -1.0
	for _, slot := range doc.Slots() {
		for i, note := range slot.Notes {
			if !note.Matched {
				continue
			}
			if note.Start < lastStart {
				return nil, &InvariantError{Msg: fmt.Sprintf(
					"entry at page %v line %v pos %v starts at %.5f, before preceding %.5f",
					slot.Page, slot.Line, slot.Pos, note.Start, lastStart)}
			}
			lastStart = note.Start
			refs = append(refs, timedRef{note: note, page: slot.Page, line: slot.Line, pos: slot.Pos, idx: i})
		}
	}
	return refs, nil
}

// holeEvents builds one event per note keyed by signed hole number,
// then applies the gap rule: whenever the same hole is hit twice in a
// row the earlier event is cut to end a gap before the next start. The
// cut applies whether or not the raw intervals touch; gaps shorter than
// the raw spacing are what make repeated notes blink.
func holeEvents(refs []timedRef, gap float64) []model.VisualEvent {
	events := make([]model.VisualEvent, 0, len(refs))
	lastByHole := make(map[string]int)

	for _, ref := range refs {
		target := strconv.Itoa(ref.note.Hole)
		ev := model.VisualEvent{Target: target, Start: ref.note.Start, End: ref.note.End()}

		if prev, ok := lastByHole[target]; ok {
			cut := util.Min(events[prev].End, ref.note.Start-gap)
			events[prev].End = util.Max(cut, events[prev].Start)
		}
		lastByHole[target] = len(events)
		events = append(events, ev)
	}
	return events
}

// entryEvents keeps raw durations: notation glyphs are spatially
// separated already and need no blink gap.
func entryEvents(refs []timedRef) []model.VisualEvent {
	events := make([]model.VisualEvent, 0, len(refs))
	for _, ref := range refs {
		events = append(events, model.VisualEvent{
			Target: EntryTarget(ref.page, ref.line, ref.pos, ref.idx),
			Start:  ref.note.Start,
			End:    ref.note.End(),
		})
	}
	return events
}

// EntryTarget names a tab entry by its structural coordinates. Chord
// members get distinct note indices within the slot.
func EntryTarget(page, line, pos, note int) string {
	return fmt.Sprintf("p%d:l%d:s%d:n%d", page, line, pos, note)
}

// pageWindows derives each page's visible window from its first and
// last matched note, padded, then clips earlier windows so exactly one
// page is displayable at any instant. Instant cuts, no cross-fade.
func pageWindows(doc model.TimedTabDocument, padding float64) []model.PageWindow {
	var windows []model.PageWindow
	for pi, page := range doc.Pages {
		first, last := -1.0, -1.0
		for _, line := range page.Lines {
			for _, slot := range line.Slots {
				for _, note := range slot.Notes {
					if !note.Matched {
						continue
					}
					if first < 0 || note.Start < first {
						first = note.Start
					}
					if note.End() > last {
						last = note.End()
					}
				}
			}
		}
		if first < 0 {
			continue
		}
		windows = append(windows, model.PageWindow{
			Page: pi,
			From: util.Max(0, first-padding),
			To:   last + padding,
		})
	}

	for i := 0; i+1 < len(windows); i++ {
		if windows[i].To > windows[i+1].From {
			windows[i].To = windows[i+1].From
		}
	}
	return windows
}

func (s *Schedule) validate() error {
	lastEnd := make(map[string]float64)
	for _, ev := range s.Holes {
		if end, ok := lastEnd[ev.Target]; ok && ev.Start < end {
			return &InvariantError{Msg: fmt.Sprintf(
				"overlapping events for hole %v at %.5f", ev.Target, ev.Start)}
		}
		if ev.End < ev.Start {
			return &InvariantError{Msg: fmt.Sprintf(
				"negative duration for hole %v at %.5f", ev.Target, ev.Start)}
		}
		lastEnd[ev.Target] = ev.End
	}
	for i, w := range s.Pages {
		if w.From >= w.To {
			return &InvariantError{Msg: fmt.Sprintf(
				"page %v window empty after clipping: [%.5f, %.5f)", w.Page, w.From, w.To)}
		}
		if i > 0 && s.Pages[i-1].To > w.From {
			return &InvariantError{Msg: fmt.Sprintf(
				"page windows %v and %v overlap", s.Pages[i-1].Page, w.Page)}
		}
	}
	return nil
}
