package game

// VisualNote is a marker travelling along the music bar. Positions are
// percentages of the bar width, 0 being the left edge.
type VisualNote struct {
	ID       uint64
	Position float64
	Speed    float64 // Percent per frame

	// Cosmetic animation state
	Frame     int // Frames spent on the current animation cel
	Animation int // The current animation cel
}
