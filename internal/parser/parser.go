package parser

import (
	"git.lost.host/meutraa/beathop/internal/game"
	"git.lost.host/meutraa/beathop/internal/notebar"
)

type Parser interface {
	ParseBeatMap(file string) (*game.BeatMap, error)
	ParseStage(file string) (*Stage, error)
	ParseBarTheme(file string, base notebar.Geometry) (notebar.Geometry, error)
}

// Stage is a decoded level asset. Everything the core does not need
// (sky, light, textures) is left in Raw for the renderer.
type Stage struct {
	Cells    [][]*game.Cell
	LosingY  float64
	Song     string
	Platform map[game.CellKind]PlatformStyle
	Raw      []byte
}

// PlatformStyle is the cosmetic description of a platform kind.
type PlatformStyle struct {
	Color   string
	Texture string
}
