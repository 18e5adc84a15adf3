package model

// NoteEvent is one detected musical event, either straight from a MIDI
// performance or from an upstream pitch detector that emitted MIDI.
type NoteEvent struct {
	Pitch      uint8
	Start      float64 // seconds
	Duration   float64 // seconds, >= 0
	Velocity   float64 // normalized 0..1
	Confidence float64 // 0..1, informational only
}

func (e NoteEvent) End() float64 {
	return e.Start + e.Duration
}
