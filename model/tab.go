package model

// TabNote is one notated note: a signed hole number (positive blow,
// negative draw) plus an optional bend marker.
type TabNote struct {
	Hole int
	Bend bool
}

// Slot is one structural position in a tab line. A slot with more than
// one note is a chord: all members share the position and are expected
// to sound together.
type Slot struct {
	Page  int
	Line  int
	Pos   int
	Notes []TabNote
}

func (s Slot) IsChord() bool {
	return len(s.Notes) > 1
}

type TabLine struct {
	Slots []Slot
}

type TabPage struct {
	// Name is the header text of an explicit page marker line, or an
	// auto-assigned "page N" for pages created by blank-line breaks.
	Name  string
	Lines []TabLine
}

// TabDocument is the parsed tab file: ordered pages of ordered lines of
// ordered slots. Traversal order (page, line, position) is the canonical
// chronological order of the notation.
type TabDocument struct {
	Pages []TabPage
}

// Slots flattens the document into canonical traversal order.
func (d TabDocument) Slots() []Slot {
	var res []Slot
	for _, page := range d.Pages {
		for _, line := range page.Lines {
			res = append(res, line.Slots...)
		}
	}
	return res
}

// NumNotes counts individual notes, chord members included.
func (d TabDocument) NumNotes() int {
	var n int
	for _, s := range d.Slots() {
		n += len(s.Notes)
	}
	return n
}
