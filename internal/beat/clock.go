package beat

import (
	"time"

	"git.lost.host/meutraa/beathop/internal/game"
)

// Tick reports one processed column of the beat map.
type Tick struct {
	Row, Col int
	At       time.Duration // Nominal stage time of the column
	Present  bool          // A note spawns on this column
}

// Clock walks a BeatMap against stage time. It holds no timer of its own:
// callers pass the authoritative time on every frame, so dropped frames are
// caught up rather than drifting.
type Clock struct {
	beatMap *game.BeatMap
	cursor  game.NoteCursor
	last    time.Duration
}

func NewClock(bm *game.BeatMap) *Clock {
	return &Clock{beatMap: bm, last: -1}
}

// Advance emits every column whose timestamp is not after now, in order.
// It returns the number of columns processed. Time going backwards is a
// no-op; the cursor never regresses.
func (c *Clock) Advance(now time.Duration, emit func(Tick)) int {
	if now < c.last {
		return 0
	}
	c.last = now

	n := 0
	for !c.Exhausted() {
		at := c.beatMap.Timestamp(c.cursor.Row, c.cursor.Col)
		if at > now {
			break
		}
		row := c.beatMap.Rows[c.cursor.Row]
		tick := Tick{
			Row:     c.cursor.Row,
			Col:     c.cursor.Col,
			At:      at,
			Present: row[c.cursor.Col],
		}

		c.cursor.Col++
		if c.cursor.Col >= len(row) {
			c.cursor.Row++
			c.cursor.Col = 0
		}
		n++
		if nil != emit {
			emit(tick)
		}
	}
	return n
}

// Exhausted is true once every column has been processed.
func (c *Clock) Exhausted() bool {
	return c.cursor.Row >= len(c.beatMap.Rows)
}

func (c *Clock) Cursor() game.NoteCursor {
	return c.cursor
}

// Next returns the timestamp of the next unprocessed column.
func (c *Clock) Next() (time.Duration, bool) {
	if c.Exhausted() {
		return 0, false
	}
	return c.beatMap.Timestamp(c.cursor.Row, c.cursor.Col), true
}

// Progress is the fraction of columns processed, for the progress bar.
func (c *Clock) Progress() float64 {
	if len(c.beatMap.Rows) == 0 {
		return 1
	}
	if c.Exhausted() {
		return 1
	}
	row := float64(c.cursor.Row) + float64(c.cursor.Col)/float64(len(c.beatMap.Rows[c.cursor.Row]))
	return row / float64(len(c.beatMap.Rows))
}

func (c *Clock) Reset() {
	c.cursor = game.NoteCursor{}
	c.last = -1
}
