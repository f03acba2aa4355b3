package render

import (
	"image/color"

	"git.lost.host/meutraa/beathop/internal/game"
)

type Renderer interface {
	game.Signals

	Init() error
	Deinit() error
	Resize()
	AddDecoration(row, col int, content string, frames int)
	Fill(row, col int, message string)
	FillColor(row, col int, c color.RGBA, message string)
	Draw(v View)
	Flush() error
}
