package model

// UnmatchedConfidence marks a timed note that no MIDI event was
// consumed for during alignment.
const UnmatchedConfidence = -1.0

// TimedNote is a notated note with its assigned performance timing.
// Unmatched notes keep zero timing and UnmatchedConfidence.
type TimedNote struct {
	TabNote
	Start      float64
	Duration   float64
	Confidence float64
	Matched    bool
}

func (n TimedNote) End() float64 {
	return n.Start + n.Duration
}

type TimedSlot struct {
	Page  int
	Line  int
	Pos   int
	Notes []TimedNote
}

type TimedLine struct {
	Slots []TimedSlot
}

type TimedPage struct {
	Name  string
	Lines []TimedLine
}

// TimedTabDocument is a TabDocument with timing assigned to every note.
// Alignment produces a new document rather than mutating the parsed one,
// so a single parse can be aligned against several performances.
type TimedTabDocument struct {
	Pages []TimedPage
}

func (d TimedTabDocument) Slots() []TimedSlot {
	var res []TimedSlot
	for _, page := range d.Pages {
		for _, line := range page.Lines {
			res = append(res, line.Slots...)
		}
	}
	return res
}
