package timeline

import (
	"testing"

	"github.com/harpsync/harpsync/model"
	"github.com/harpsync/harpsync/schedule"
	"github.com/stretchr/testify/assert"
)

func TestActiveAt(t *testing.T) {
	tl := New()
	tl.Insert("hole:4", 0.0, 1.0)
	tl.Insert("hole:5", 0.5, 1.5)
	tl.Insert("page:0", 0.0, 2.0)

	assert := assert.New(t)
	assert.Equal([]string{"hole:4", "page:0"}, tl.ActiveAt(0.0))
	assert.Equal([]string{"hole:4", "page:0", "hole:5"}, tl.ActiveAt(0.75))
	assert.Equal([]string{"page:0", "hole:5"}, tl.ActiveAt(1.0)) // half-open: hole:4 just ended
	assert.Equal([]string{"page:0"}, tl.ActiveAt(1.7))
	assert.Empty(tl.ActiveAt(2.5))
	assert.Empty(tl.ActiveAt(-1.0))
}

func TestLongIntervalStillFound(t *testing.T) {
	tl := New()
	tl.Insert("page:0", 0.0, 100.0)
	for i := 0; i < 50; i++ {
		start := float64(i)
		tl.Insert("hole:4", start, start+0.5)
	}

	got := tl.ActiveAt(42.25)
	assert.Contains(t, got, "page:0")
	assert.Contains(t, got, "hole:4")
}

func TestIntervalsSortedByStart(t *testing.T) {
	tl := New()
	tl.Insert("b", 2.0, 3.0)
	tl.Insert("a", 0.0, 1.0)
	tl.Insert("c", 1.0, 2.0)

	ivs := tl.Intervals()

	assert := assert.New(t)
	assert.Len(ivs, 3)
	assert.Equal("a", ivs[0].Target)
	assert.Equal("c", ivs[1].Target)
	assert.Equal("b", ivs[2].Target)
}

func TestEndAndLen(t *testing.T) {
	tl := New()

	assert := assert.New(t)
	assert.Equal(0, tl.Len())
	assert.InDelta(0.0, tl.End(), 1e-9)

	tl.Insert("x", 0.0, 5.0)
	tl.Insert("y", 1.0, 2.0)
	assert.Equal(2, tl.Len())
	assert.InDelta(5.0, tl.End(), 1e-9)
}

func TestFromSchedule(t *testing.T) {
	s := &schedule.Schedule{
		Holes:   []model.VisualEvent{{Target: "4", Start: 0.0, End: 0.5}},
		Entries: []model.VisualEvent{{Target: "p0:l0:s0:n0", Start: 0.0, End: 0.5}},
		Pages:   []model.PageWindow{{Page: 0, From: 0.0, To: 1.0}},
	}

	tl := FromSchedule(s)

	assert := assert.New(t)
	assert.Equal(3, tl.Len())
	assert.ElementsMatch(
		[]string{"hole:4", "entry:p0:l0:s0:n0", "page:0"},
		tl.ActiveAt(0.25),
	)
	assert.Equal([]string{"page:0"}, tl.ActiveAt(0.75))
}
