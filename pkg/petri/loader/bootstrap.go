package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/diogofriggo/petri/pkg/petri/core"
	"github.com/diogofriggo/petri/pkg/petri/types"
)

// Bootstrapped holds everything NewEngine and the caller's main loop
// need after a successful Bootstrap.
type Bootstrapped struct {
	EngineConfig core.EngineConfig
	Listener     *core.Listener

	// Ctx is cancelled (with Cause explaining why) the moment the
	// listener hits a fatal decode/protocol error, so Engine.Run should
	// always be called with this Ctx rather than the one Bootstrap was
	// given.
	Ctx    context.Context
	Cancel context.CancelCauseFunc
}

// Bootstrap loads all net files from netsFolder (sorted deterministically
// by filename), validates net count == node count, assigns each net to
// the node at the same sorted index, builds the global transition-owner
// map, derives this node's fed and feeding nodes, and starts the
// listener.
func Bootstrap(ctx context.Context, log types.Logger, self string, nodes []string, netsFolder string, terminal int) (*Bootstrapped, error) {
	sortedNodes := dedupeSorted(nodes)
	if len(sortedNodes) == 0 {
		return nil, types.ErrNoNodesProvided
	}

	selfIndex := indexOf(sortedNodes, self)
	if selfIndex < 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrSelfNotInNodes, self)
	}

	paths, err := filepath.Glob(filepath.Join(netsFolder, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", netsFolder, err)
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", types.ErrNoNetsFound, netsFolder)
	}
	if len(paths) != len(sortedNodes) {
		return nil, fmt.Errorf("%w: %d nets, %d nodes", types.ErrNodeCountMismatch, len(paths), len(sortedNodes))
	}

	nets := make([]types.Net, len(paths))
	for i, path := range paths {
		net, err := loadNet(path)
		if err != nil {
			return nil, err
		}
		nets[i] = net
	}

	transitionOwner := make(map[int]string)
	for i, net := range nets {
		owner := sortedNodes[i]
		for _, t := range net.Transitions {
			if existing, ok := transitionOwner[t.ID]; ok {
				return nil, fmt.Errorf("transition %d declared by both %s and %s", t.ID, existing, owner)
			}
			transitionOwner[t.ID] = owner
		}
	}

	nodeToFed := make(map[string][]string)
	for i, net := range nets {
		owner := sortedNodes[i]
		for _, t := range net.Transitions {
			for _, instr := range t.Delayed {
				destination, ok := transitionOwner[instr.TransitionID]
				if !ok {
					return nil, fmt.Errorf("%w: %d referenced by transition %d", types.ErrUnknownTransition, instr.TransitionID, t.ID)
				}
				if instr.External == (destination == owner) {
					return nil, fmt.Errorf("%w: transition %d's instruction targeting %d claims external=%t but owner is %s (firing node %s)",
						types.ErrExternalityMismatch, t.ID, instr.TransitionID, instr.External, destination, owner)
				}
				if !instr.External {
					continue
				}
				nodeToFed[owner] = appendUnique(nodeToFed[owner], destination)
			}
		}
	}
	nodeToFeeding := reverse(nodeToFed)

	net := nets[selfIndex]
	fedNodes := append([]string(nil), nodeToFed[self]...)
	feedingNodes := append([]string(nil), nodeToFeeding[self]...)

	inboxes := make(map[string]*core.Inbox, len(feedingNodes))
	for _, name := range feedingNodes {
		inboxes[name] = core.NewInbox()
	}

	runCtx, cancel := context.WithCancelCause(ctx)
	listener, err := core.NewListener(runCtx, cancel, self, inboxes, log)
	if err != nil {
		cancel(nil)
		return nil, err
	}

	selfNet := net
	cfg := core.EngineConfig{
		Name:            self,
		Net:             &selfNet,
		Step:            1,
		Terminal:        terminal,
		FedNodes:        fedNodes,
		Inboxes:         inboxes,
		TransitionOwner: transitionOwner,
		Sender:          core.NewTCPSender(log),
		Log:             log,
	}

	return &Bootstrapped{EngineConfig: cfg, Listener: listener, Ctx: runCtx, Cancel: cancel}, nil
}

func dedupeSorted(nodes []string) []string {
	sorted := append([]string(nil), nodes...)
	sort.Strings(sorted)
	out := sorted[:0:0]
	for i, n := range sorted {
		if i == 0 || n != sorted[i-1] {
			out = append(out, n)
		}
	}
	return out
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}

func appendUnique(values []string, target string) []string {
	for _, v := range values {
		if v == target {
			return values
		}
	}
	return append(values, target)
}

func reverse(in map[string][]string) map[string][]string {
	out := make(map[string][]string)
	for key, values := range in {
		for _, v := range values {
			out[v] = appendUnique(out[v], key)
		}
	}
	for k := range out {
		sort.Strings(out[k])
	}
	return out
}
