package tabtext

import (
	"fmt"
	"strings"

	"github.com/harpsync/harpsync/model"
)

// Render writes a TabDocument back out as tab text. Parsing the result
// reproduces the same page/line/slot structure, which is what lets
// generated tabs feed straight back into video creation. The one
// exception is a chord holding hole ten: the grammar cannot express it
// inside a token, so it comes out as an extra whitespace-separated slot
// with all notes kept.
func Render(doc model.TabDocument) string {
	var b strings.Builder
	for i, page := range doc.Pages {
		if i > 0 {
			b.WriteString("\n")
		}
		name := page.Name
		if name == "" {
			name = fmt.Sprintf("page %d", i+1)
		}
		b.WriteString(name)
		b.WriteString(":\n")
		for _, line := range page.Lines {
			var tokens []string
			for _, slot := range line.Slots {
				tokens = append(tokens, renderSlot(slot)...)
			}
			b.WriteString(strings.Join(tokens, " "))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderSlot emits only tokens the grammar reads back intact. Within a
// chord token blow holes go first, because the draw sign sticks to
// every following digit and would flip a trailing blow note. A
// ten-hole note always gets a token of its own.
func renderSlot(slot model.Slot) []string {
	var token strings.Builder
	for _, note := range slot.Notes {
		if note.Hole > 0 && note.Hole < 10 {
			token.WriteString(renderNote(note))
		}
	}
	for _, note := range slot.Notes {
		if note.Hole < 0 && note.Hole > -10 {
			token.WriteString(renderNote(note))
		}
	}

	var tokens []string
	if token.Len() > 0 {
		tokens = append(tokens, token.String())
	}
	for _, note := range slot.Notes {
		if note.Hole == 10 || note.Hole == -10 {
			tokens = append(tokens, renderNote(note))
		}
	}
	return tokens
}

func renderNote(note model.TabNote) string {
	var b strings.Builder
	hole := note.Hole
	if hole < 0 {
		b.WriteString("-")
		hole = -hole
	}
	fmt.Fprintf(&b, "%d", hole)
	if note.Bend {
		b.WriteString("'")
	}
	return b.String()
}
