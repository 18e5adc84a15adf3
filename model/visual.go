package model

// VisualEvent is one lit interval for an animation target. The interval
// is half-open [Start, End). Events for the same target never overlap
// once scheduling completes.
type VisualEvent struct {
	Target string  `json:"target"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
}

// PageWindow is the interval during which one tab page is the visible
// page of the continuous tab animation. Windows of consecutive pages
// never overlap.
type PageWindow struct {
	Page int     `json:"page"`
	From float64 `json:"from"`
	To   float64 `json:"to"`
}
