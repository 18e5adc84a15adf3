// Package timeline is the sorted interval container the frame renderers
// query: per output frame they ask which targets are active and draw
// those. Built once after scheduling, read-only afterward.
package timeline

import (
	"sort"
	"strconv"

	"github.com/harpsync/harpsync/schedule"
)

// Interval is one lit span for a target, half-open [Start, End).
type Interval struct {
	Target string
	Start  float64
	End    float64
}

type Timeline struct {
	intervals []Interval
	maxLen    float64
	sorted    bool
}

func New() *Timeline {
	return &Timeline{sorted: true}
}

// FromSchedule loads every hole, entry and page interval of a schedule.
func FromSchedule(s *schedule.Schedule) *Timeline {
	t := New()
	for _, ev := range s.Holes {
		t.Insert("hole:"+ev.Target, ev.Start, ev.End)
	}
	for _, ev := range s.Entries {
		t.Insert("entry:"+ev.Target, ev.Start, ev.End)
	}
	for _, w := range s.Pages {
		t.Insert(PageTarget(w.Page), w.From, w.To)
	}
	t.build()
	return t
}

func PageTarget(page int) string {
	return "page:" + strconv.Itoa(page)
}

func (t *Timeline) Insert(target string, start, end float64) {
	t.intervals = append(t.intervals, Interval{Target: target, Start: start, End: end})
	if end-start > t.maxLen {
		t.maxLen = end - start
	}
	t.sorted = false
}

func (t *Timeline) build() {
	sort.SliceStable(t.intervals, func(i, j int) bool {
		return t.intervals[i].Start < t.intervals[j].Start
	})
	t.sorted = true
}

// ActiveAt returns the targets lit at time tm, in time-then-insertion
// order. Binary search over sorted starts; only intervals that began
// within the longest interval length of tm can still cover it, so the
// backward scan is bounded.
func (t *Timeline) ActiveAt(tm float64) []string {
	if !t.sorted {
		t.build()
	}
	// first interval starting after tm
	hi := sort.Search(len(t.intervals), func(i int) bool {
		return t.intervals[i].Start > tm
	})

	var res []string
	for i := hi - 1; i >= 0 && t.intervals[i].Start >= tm-t.maxLen; i-- {
		iv := t.intervals[i]
		if iv.Start <= tm && tm < iv.End {
			res = append(res, iv.Target)
		}
	}
	// reverse into time order
	for l, r := 0, len(res)-1; l < r; l, r = l+1, r-1 {
		res[l], res[r] = res[r], res[l]
	}
	return res
}

// Intervals returns all intervals in time order.
func (t *Timeline) Intervals() []Interval {
	if !t.sorted {
		t.build()
	}
	res := make([]Interval, len(t.intervals))
	copy(res, t.intervals)
	return res
}

func (t *Timeline) Len() int {
	return len(t.intervals)
}

// End is the time the last interval closes, i.e. the animation length.
func (t *Timeline) End() float64 {
	var end float64
	for _, iv := range t.intervals {
		if iv.End > end {
			end = iv.End
		}
	}
	return end
}
