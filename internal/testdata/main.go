// Package testdata holds small assets shared by the package tests.
package testdata

// BeatMap is one bar with a single note on the downbeat.
const BeatMap = `{
	"timeTravel": 2,
	"period": 4000,
	"wait": 0,
	"content": ["1000"]
}`

// Song is a longer beat map with varying subdivisions.
const Song = `{
	"timeTravel": 1.5,
	"period": 2000,
	"wait": 1500,
	"content": [
		"1010",
		"111",
		"10000000",
		"1"
	]
}`

// Stage is a straight run from the start to the destination.
const Stage = `{
	"song": "song.ogg",
	"scene": {"fog": {"color": "#ffffff", "near": 10, "far": 200}},
	"sky": {"size": 64},
	"light": {"ambient": {"color": "#404040"}},
	"stage": [
		"S",
		"F"
	],
	"platform": {
		"normal": {"color": "#c08040", "texture": {"top": "grass.png", "others": "dirt.png"}},
		"horizontal": {"color": "#4080c0"}
	}
}`

// Movers has a horizontal mover with a range of one cell between the start
// and the destination, a vertical mover and a chain of signs.
const Movers = `{
	"stage": [
		" S  ",
		" H1 ",
		" P  ",
		"V1>>P",
		" F  "
	]
}`

// Void has nothing but the start platform.
const Void = `{
	"stage": ["S"]
}`

// Signs has a sign loop next to the start and a sign into the void.
const Signs = `{
	"stage": [
		"S><P",
		"v  >",
		"P   ",
		"^   "
	]
}`

// BarTheme is the music bar theme.
const BarTheme = `{
	"hitCenter": {"x": "25%", "radius": "3vh", "color": "#fff"},
	"hitArea": {"width": "6%"},
	"blockArea": {"width": 12, "color": "#333"},
	"notes": {"radius": "2%"}
}`
