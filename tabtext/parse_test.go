package tabtext

import (
	"fmt"
	"testing"

	"github.com/harpsync/harpsync/model"
	"github.com/stretchr/testify/assert"
)

func holes(line model.TabLine) [][]int {
	var res [][]int
	for _, slot := range line.Slots {
		var h []int
		for _, n := range slot.Notes {
			h = append(h, n.Hole)
		}
		res = append(res, h)
	}
	return res
}

func TestBlankLineAndMarkerPages(t *testing.T) {
	doc, err := Parse("5 6\n-6 7\n\nPage 2\n8 -8")

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(doc.Pages, 2)

	assert.Len(doc.Pages[0].Lines, 2)
	assert.Equal([][]int{{5}, {6}}, holes(doc.Pages[0].Lines[0]))
	assert.Equal([][]int{{-6}, {7}}, holes(doc.Pages[0].Lines[1]))

	assert.Equal("Page 2", doc.Pages[1].Name)
	assert.Len(doc.Pages[1].Lines, 1)
	assert.Equal([][]int{{8}, {-8}}, holes(doc.Pages[1].Lines[0]))
}

func TestChordToken(t *testing.T) {
	doc, err := Parse("-45")

	assert := assert.New(t)
	assert.NoError(err)

	slots := doc.Slots()
	assert.Len(slots, 1)
	assert.True(slots[0].IsChord())
	assert.Equal([]model.TabNote{{Hole: -4}, {Hole: -5}}, slots[0].Notes)
	assert.Equal(0, slots[0].Pos)
}

func TestMixedSignChord(t *testing.T) {
	doc, err := Parse("4-5 56")

	assert := assert.New(t)
	assert.NoError(err)

	slots := doc.Slots()
	assert.Len(slots, 2)
	assert.Equal([]model.TabNote{{Hole: 4}, {Hole: -5}}, slots[0].Notes)
	assert.Equal([]model.TabNote{{Hole: 5}, {Hole: 6}}, slots[1].Notes)
}

func TestBendMarker(t *testing.T) {
	doc, err := Parse("-3' 4")

	assert := assert.New(t)
	assert.NoError(err)

	slots := doc.Slots()
	assert.Equal(model.TabNote{Hole: -3, Bend: true}, slots[0].Notes[0])
	assert.Equal(model.TabNote{Hole: 4, Bend: false}, slots[1].Notes[0])
}

func TestHoleTen(t *testing.T) {
	doc, err := Parse("10 -10 10'")

	assert := assert.New(t)
	assert.NoError(err)

	slots := doc.Slots()
	assert.Len(slots, 3)
	assert.Equal([]model.TabNote{{Hole: 10}}, slots[0].Notes)
	assert.Equal([]model.TabNote{{Hole: -10}}, slots[1].Notes)
	assert.Equal([]model.TabNote{{Hole: 10, Bend: true}}, slots[2].Notes)
}

func TestStructuralCoordinates(t *testing.T) {
	doc, err := Parse("4 5\n6\n\n-4")

	assert := assert.New(t)
	assert.NoError(err)

	slots := doc.Slots()
	assert.Len(slots, 4)
	assert.Equal(model.Slot{Page: 0, Line: 0, Pos: 1, Notes: []model.TabNote{{Hole: 5}}}, slots[1])
	assert.Equal(model.Slot{Page: 0, Line: 1, Pos: 0, Notes: []model.TabNote{{Hole: 6}}}, slots[2])
	assert.Equal(model.Slot{Page: 1, Line: 0, Pos: 0, Notes: []model.TabNote{{Hole: -4}}}, slots[3])
}

func TestBlankLinesInsideMarkerPages(t *testing.T) {
	// manual formatting inside "page" delimited files keeps the page
	text := "page 1:\n4 5\n\n6 7\n\npage 2:\n8"
	doc, err := Parse(text)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(doc.Pages, 2)
	assert.Len(doc.Pages[0].Lines, 2)
	assert.Len(doc.Pages[1].Lines, 1)
}

func TestLineEndingsAndTrailingWhitespace(t *testing.T) {
	doc, stats, err := ParseWithStats("4 5 \t\r\n-6\r\n")

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(doc.Pages, 1)
	assert.Len(doc.Pages[0].Lines, 2)
	assert.Equal(3, stats.Notes)
}

func TestParseErrorNamesPosition(t *testing.T) {
	_, err := Parse("4 5\n6 x7")

	assert := assert.New(t)
	assert.Error(err)

	perr, ok := err.(*ParseError)
	assert.True(ok)
	assert.Equal(1, perr.Page)
	assert.Equal(2, perr.Line)
	assert.Equal(3, perr.Col)
}

func TestBadTokens(t *testing.T) {
	cases := []string{"0", "-", "4-", "'", "4x", "--4", "20"}
	for _, c := range cases {
		t.Run(fmt.Sprintf("token %q", c), func(t *testing.T) {
			_, err := Parse(c)
			assert.Error(t, err)
		})
	}
}

func TestStats(t *testing.T) {
	_, stats, err := ParseWithStats("4 -45\n6\n\n10")

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(2, stats.Pages)
	assert.Equal(3, stats.Lines)
	assert.Equal(4, stats.Slots)
	assert.Equal(5, stats.Notes)
	assert.Equal(4, stats.MinHole)
	assert.Equal(10, stats.MaxHole)
}

func TestRoundTrip(t *testing.T) {
	text := "page 1:\n4 -4 -45 6'\n5 5\n\npage 2:\n-3' 7 10\n"
	doc, err := Parse(text)
	assert := assert.New(t)
	assert.NoError(err)

	again, err := Parse(Render(doc))
	assert.NoError(err)
	assert.Equal(doc, again)
}

func TestRenderGeneratedDocument(t *testing.T) {
	doc := model.TabDocument{
		Pages: []model.TabPage{{
			Lines: []model.TabLine{{
				Slots: []model.Slot{
					{Page: 0, Line: 0, Pos: 0, Notes: []model.TabNote{{Hole: 4}}},
					{Page: 0, Line: 0, Pos: 1, Notes: []model.TabNote{{Hole: -4}, {Hole: -5}}},
				},
			}},
		}},
	}

	assert.Equal(t, "page 1:\n4 -4-5\n", Render(doc))
}

func TestRenderPutsBlowHolesBeforeDrawInChord(t *testing.T) {
	// a draw note first would sign-flip the blow note on the way back in
	doc := model.TabDocument{
		Pages: []model.TabPage{{
			Lines: []model.TabLine{{
				Slots: []model.Slot{
					{Page: 0, Line: 0, Pos: 0, Notes: []model.TabNote{{Hole: -4}, {Hole: 5}}},
				},
			}},
		}},
	}

	assert := assert.New(t)
	assert.Equal("page 1:\n5-4\n", Render(doc))

	again, err := Parse(Render(doc))
	assert.NoError(err)
	assert.Equal([]model.TabNote{{Hole: 5}, {Hole: -4}}, again.Slots()[0].Notes)
}

func TestRenderSplitsHoleTenOutOfChord(t *testing.T) {
	doc := model.TabDocument{
		Pages: []model.TabPage{{
			Lines: []model.TabLine{{
				Slots: []model.Slot{
					{Page: 0, Line: 0, Pos: 0, Notes: []model.TabNote{{Hole: 9}, {Hole: 10}}},
				},
			}},
		}},
	}

	assert := assert.New(t)
	assert.Equal("page 1:\n9 10\n", Render(doc))

	again, err := Parse(Render(doc))
	assert.NoError(err)
	assert.Len(again.Slots(), 2)
	assert.Equal(2, again.NumNotes())
}
