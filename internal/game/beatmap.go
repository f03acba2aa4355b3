package game

import "time"

// BeatMap is the immutable note timing of a song. Each row is one bar; a
// row may be split into any number of columns but always lasts BarPeriod.
type BeatMap struct {
	BarPeriod  time.Duration
	TravelTime time.Duration // Time a note takes from spawn to the hit centre
	Wait       time.Duration // Lead-in before the song starts playing
	Rows       [][]bool
}

// Timestamp returns the stage time at which the column becomes due.
func (b *BeatMap) Timestamp(row, col int) time.Duration {
	n := time.Duration(len(b.Rows[row]))
	return b.BarPeriod*time.Duration(row) + b.BarPeriod*time.Duration(col)/n
}

// NoteCount is the number of set bits over the whole map.
func (b *BeatMap) NoteCount() int {
	count := 0
	for _, row := range b.Rows {
		for _, bit := range row {
			if bit {
				count++
			}
		}
	}
	return count
}

// Duration is the stage time at which the last bar ends.
func (b *BeatMap) Duration() time.Duration {
	return b.BarPeriod * time.Duration(len(b.Rows))
}

// NoteCursor points at the next unprocessed column of a BeatMap.
type NoteCursor struct {
	Row, Col int
}

// Less reports whether c is strictly before o.
func (c NoteCursor) Less(o NoteCursor) bool {
	return c.Row < o.Row || (c.Row == o.Row && c.Col < o.Col)
}
