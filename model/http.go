package model

type ActiveResponse struct {
	Time    float64  `json:"time"`
	Targets []string `json:"targets"`
}

type ScheduleResponse struct {
	Holes   []VisualEvent `json:"holes"`
	Entries []VisualEvent `json:"entries"`
	Pages   []PageWindow  `json:"pages"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
