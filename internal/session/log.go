package session

import (
	"git.lost.host/meutraa/beathop/internal/game"
	"go.uber.org/zap"
)

type logSignals struct {
	log *zap.SugaredLogger
}

func (l logSignals) OnNoteSpawn(n game.VisualNote) {
	l.log.Debugw("note spawn", "id", n.ID)
}

func (l logSignals) OnNoteHit(n game.VisualNote) {
	l.log.Debugw("note hit", "id", n.ID, "position", n.Position)
}

func (l logSignals) OnNoteExpired(n game.VisualNote) {
	l.log.Debugw("note expired", "id", n.ID)
}

func (l logSignals) OnStageClear()               {}
func (l logSignals) OnStageFail(game.FailReason) {}
func (l logSignals) OnStageComplete()            {}
func (l logSignals) OnPlayerJump(int)            {}

func (l logSignals) OnPlayerLand(c *game.Cell) {
	l.log.Debugw("land", "row", c.Row, "col", c.Col, "kind", c.Kind.String())
}
