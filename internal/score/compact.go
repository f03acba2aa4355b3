package score

import (
	"sort"
	"time"

	"git.lost.host/meutraa/beathop/internal/game"
)

// InputsCompact holds every hit time of one direction.
type InputsCompact struct {
	Index int
	Times []time.Duration
}

func compactInputs(inputs []game.Input) []InputsCompact {
	count := 0
	for _, i := range inputs {
		if i.Index+1 > count {
			count = i.Index + 1
		}
	}
	ins := make([]InputsCompact, count)
	for idx := range ins {
		ins[idx].Index = idx
		ins[idx].Times = []time.Duration{}
	}
	for _, i := range inputs {
		if i.Index < 0 {
			continue
		}
		ins[i.Index].Times = append(ins[i.Index].Times, i.HitTime)
	}
	return ins
}

// uncompactInputs restores the inputs in the order they were made.
func uncompactInputs(inputs []InputsCompact) []game.Input {
	ins := []game.Input{}
	for _, i := range inputs {
		for _, t := range i.Times {
			ins = append(ins, game.Input{Index: i.Index, HitTime: t})
		}
	}
	sort.SliceStable(ins, func(a, b int) bool {
		return ins[a].HitTime < ins[b].HitTime
	})
	return ins
}
