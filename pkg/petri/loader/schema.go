// Package loader implements the bootstrap component: net file discovery
// and decoding, positional node/net assignment, and derivation of the
// global transition-ownership map and the fed/feeding node relations.
package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/diogofriggo/petri/pkg/petri/types"
)

// netFile is the on-disk JSON shape of a node's net file: a top-level
// object with a "net" list of transition records.
type netFile struct {
	Net []transitionRecord `json:"net"`
}

// transitionRecord mirrors a single transition on disk: global id,
// initial token value, initial clock, firing duration, immediate/delayed
// instruction lists (each instruction a 2-element [encoded_id, value]
// array) and an output marker.
type transitionRecord struct {
	ID        int      `json:"id"`
	Value     int      `json:"value"`
	Clock     int      `json:"clock"`
	Duration  int      `json:"duration"`
	Immediate [][2]int `json:"immediate"`
	Delayed   [][2]int `json:"delayed"`
	Output    bool     `json:"output"`
}

// loadNet reads and decodes a single net file, normalizing the raw
// encoded instruction ids into explicit (id, external) pairs at load
// time. The negative-id encoding trick stops here and never leaks past
// this function.
func loadNet(path string) (types.Net, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Net{}, fmt.Errorf("read net file %s: %w", path, err)
	}

	var file netFile
	if err := json.Unmarshal(data, &file); err != nil {
		return types.Net{}, fmt.Errorf("%w: decode net file %s: %v", types.ErrDecodeEvent, path, err)
	}

	net := types.Net{Transitions: make([]types.Transition, 0, len(file.Net))}
	for _, rec := range file.Net {
		immediate := decodeInstructions(rec.Immediate)
		for _, instr := range immediate {
			if instr.External {
				return types.Net{}, fmt.Errorf("%w: transition %d in %s", types.ErrExternalImmediate, rec.ID, path)
			}
		}

		net.Transitions = append(net.Transitions, types.Transition{
			ID:        rec.ID,
			Value:     rec.Value,
			Clock:     rec.Clock,
			Duration:  rec.Duration,
			Immediate: immediate,
			Delayed:   decodeInstructions(rec.Delayed),
			IsOutput:  rec.Output,
		})
	}
	return net, nil
}

func decodeInstructions(raw [][2]int) []types.Instruction {
	if len(raw) == 0 {
		return nil
	}
	out := make([]types.Instruction, len(raw))
	for i, pair := range raw {
		out[i] = types.NewInstruction(pair[0], pair[1])
	}
	return out
}
