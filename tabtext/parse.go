// Package tabtext parses and renders the plain-text harmonica tab
// format: pages separated by "page" marker lines or blank lines, lines
// of whitespace-separated tokens, tokens of signed hole digits with an
// optional trailing bend apostrophe. Concatenated digits form a chord.
package tabtext

import (
	"fmt"
	"strings"

	"github.com/harpsync/harpsync/model"
)

const (
	minHole = 1
	maxHole = 10
)

// ParseError names the exact spot of a malformed token. Coordinates are
// 1-based: page ordinal, line within the page, column within the line.
type ParseError struct {
	Page int
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at page %v line %v col %v: %v", e.Page, e.Line, e.Col, e.Msg)
}

// Stats summarizes a parsed document for validation tooling.
type Stats struct {
	Pages   int
	Lines   int
	Slots   int
	Notes   int
	MinHole int // smallest absolute hole seen, 0 when empty
	MaxHole int
}

// Parse builds a TabDocument from tab text.
func Parse(text string) (model.TabDocument, error) {
	doc, _, err := ParseWithStats(text)
	return doc, err
}

// ParseWithStats is Parse plus document statistics.
//
// Page boundaries: a marker line starting with "page" (case-insensitive)
// always opens a new named page. A blank line opens a new page too, but
// only between auto-created pages; inside a marker-delimited page blank
// lines are treated as manual formatting and skipped. Bad tokens are
// errors, never silently dropped.
func ParseWithStats(text string) (model.TabDocument, Stats, error) {
	var doc model.TabDocument
	var stats Stats

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	pendingBreak := false
	namedPage := false

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimRight(rawLine, " \t")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			pendingBreak = true
			continue
		}

		if strings.HasPrefix(strings.ToLower(trimmed), "page") {
			name := strings.TrimSpace(strings.TrimSuffix(trimmed, ":"))
			doc.Pages = append(doc.Pages, model.TabPage{Name: name})
			pendingBreak = false
			namedPage = true
			continue
		}

		if len(doc.Pages) == 0 || (pendingBreak && !namedPage) {
			doc.Pages = append(doc.Pages, model.TabPage{
				Name: fmt.Sprintf("page %d", len(doc.Pages)+1),
			})
			namedPage = false
		}
		pendingBreak = false

		pageIdx := len(doc.Pages) - 1
		page := &doc.Pages[pageIdx]
		lineIdx := len(page.Lines)

		tabLine, notes, err := parseLine(line, pageIdx, lineIdx)
		if err != nil {
			return model.TabDocument{}, Stats{}, err
		}
		page.Lines = append(page.Lines, tabLine)

		stats.Lines++
		stats.Slots += len(tabLine.Slots)
		stats.Notes += notes
	}

	stats.Pages = len(doc.Pages)
	finalizeHoleRange(&doc, &stats)
	return doc, stats, nil
}

func parseLine(line string, pageIdx, lineIdx int) (model.TabLine, int, error) {
	var res model.TabLine
	var notes int

	i := 0
	for i < len(line) {
		if line[i] == ' ' || line[i] == '\t' {
			i++
			continue
		}
		start := i
		for i < len(line) && line[i] != ' ' && line[i] != '\t' {
			i++
		}
		token := line[start:i]

		parsed, err := parseToken(token)
		if err != nil {
			return model.TabLine{}, 0, &ParseError{
				Page: pageIdx + 1,
				Line: lineIdx + 1,
				Col:  start + 1,
				Msg:  fmt.Sprintf("bad token %q: %v", token, err),
			}
		}
		res.Slots = append(res.Slots, model.Slot{
			Page:  pageIdx,
			Line:  lineIdx,
			Pos:   len(res.Slots),
			Notes: parsed,
		})
		notes += len(parsed)
	}
	return res, notes, nil
}

// parseToken resolves chord-ness once, here, so nothing downstream has
// to re-infer it from digit runs.
func parseToken(token string) ([]model.TabNote, error) {
	// hole ten is the one two-digit hole and only valid as a whole token
	switch strings.TrimSuffix(token, "'") {
	case "10":
		return []model.TabNote{{Hole: 10, Bend: strings.HasSuffix(token, "'")}}, nil
	case "-10":
		return []model.TabNote{{Hole: -10, Bend: strings.HasSuffix(token, "'")}}, nil
	}

	var notes []model.TabNote
	neg := false
	for i := 0; i < len(token); i++ {
		c := token[i]
		switch {
		case c == '-':
			if i+1 >= len(token) || !isDigit(token[i+1]) {
				return nil, fmt.Errorf("dangling '-' at offset %v", i)
			}
			neg = true
		case isDigit(c):
			hole := int(c - '0')
			if hole < minHole || hole > maxHole {
				return nil, fmt.Errorf("hole %v out of range [%v, %v]", hole, minHole, maxHole)
			}
			if neg {
				hole = -hole
			}
			notes = append(notes, model.TabNote{Hole: hole})
		case c == '\'':
			if len(notes) == 0 {
				return nil, fmt.Errorf("bend marker with no preceding hole")
			}
			notes[len(notes)-1].Bend = true
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %v", string(c), i)
		}
	}
	if len(notes) == 0 {
		return nil, fmt.Errorf("no holes in token")
	}
	return notes, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func finalizeHoleRange(doc *model.TabDocument, stats *Stats) {
	for _, slot := range doc.Slots() {
		for _, note := range slot.Notes {
			abs := note.Hole
			if abs < 0 {
				abs = -abs
			}
			if stats.MinHole == 0 || abs < stats.MinHole {
				stats.MinHole = abs
			}
			if abs > stats.MaxHole {
				stats.MaxHole = abs
			}
		}
	}
}
