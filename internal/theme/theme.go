package theme

import (
	"git.lost.host/meutraa/beathop/internal/game"
)

type Theme interface {
	RenderNote(note game.VisualNote) string
	RenderHitField(hittable bool) string
	RenderCell(cell *game.Cell) string
	RenderPlayer(status game.RidingStatus) string
}
