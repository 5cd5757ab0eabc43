// Package core implements the per-node simulation engine: the
// time-stepping loop, the active/passive event protocol between peers,
// local transition firing and the conservative clock-advancement rule.
package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/diogofriggo/petri/pkg/petri/types"
)

// EngineConfig carries everything bootstrap (pkg/petri/loader) computes
// before an Engine can run.
type EngineConfig struct {
	// Name is this node's own endpoint, used as the feeding_node on
	// every event this engine emits.
	Name string

	Net      *types.Net
	Step     int
	Terminal int

	// FedNodes is the set of peers this node may send to.
	FedNodes []string

	// Inboxes holds one Inbox per feeding node (a peer that may send
	// events to this node), keyed by that peer's name. The listener
	// writes into these; the engine is the sole reader.
	Inboxes map[string]*Inbox

	// TransitionOwner is the global transition id -> owning node name map.
	TransitionOwner map[int]string

	Sender Sender
	Log    types.Logger
}

// Engine is the per-node simulation engine.
type Engine struct {
	name string

	clock    int
	step     int
	terminal int

	net *types.Net

	fedNodes        []string
	feederNames     []string
	feeders         map[string]*types.FeedingNode
	inboxes         map[string]*Inbox
	transition2node map[int]string

	internal []types.ActiveEvent
	external []types.ActiveEvent

	sender Sender
	log    types.Logger
}

// NewEngine builds an Engine at clock 0 with every feeding node's
// last-known-clock initialized to 0.
func NewEngine(cfg EngineConfig) *Engine {
	step := cfg.Step
	if step <= 0 {
		step = 1
	}

	feeders := make(map[string]*types.FeedingNode, len(cfg.Inboxes))
	names := make([]string, 0, len(cfg.Inboxes))
	for name := range cfg.Inboxes {
		feeders[name] = &types.FeedingNode{Name: name, LastKnownClock: 0}
		names = append(names, name)
	}
	sort.Strings(names)

	fed := append([]string(nil), cfg.FedNodes...)
	sort.Strings(fed)

	return &Engine{
		name:            cfg.Name,
		clock:           0,
		step:            step,
		terminal:        cfg.Terminal,
		net:             cfg.Net,
		fedNodes:        fed,
		feederNames:     names,
		feeders:         feeders,
		inboxes:         cfg.Inboxes,
		transition2node: cfg.TransitionOwner,
		sender:          cfg.Sender,
		log:             cfg.Log,
	}
}

// Clock returns the engine's current clock.
func (e *Engine) Clock() int { return e.clock }

func (e *Engine) String() string {
	return fmt.Sprintf("engine{node=%s clock=%d}", e.name, e.clock)
}

// Run drives the engine from its current clock to the terminal clock. It
// returns only on terminal reach, context cancellation (e.g. a fatal
// listener error) or a fatal local error.
func (e *Engine) Run(ctx context.Context) error {
	for e.clock < e.terminal {
		if err := ctx.Err(); err != nil {
			return err
		}

		phaseLog := e.log.WithFields(map[string]interface{}{"clock": e.clock})

		if err := e.fireDue(phaseLog); err != nil {
			return err
		}
		if err := e.dispatchExternal(phaseLog); err != nil {
			return err
		}
		if err := e.tick(ctx, phaseLog); err != nil {
			return err
		}
		e.integrate(phaseLog)
	}
	return nil
}

// fireDue selects every local transition whose clock equals the current
// engine clock and whose value is non-positive, then fires them in
// reverse declaration order, stack-style.
func (e *Engine) fireDue(log types.Logger) error {
	// The due set is a snapshot taken once, up front: firing one
	// transition can change another's value or clock, and that must
	// never add or remove a transition from this pass.
	var due []types.Transition
	for _, t := range e.net.Transitions {
		if t.Due(e.clock) {
			due = append(due, t)
		}
	}

	for i := len(due) - 1; i >= 0; i-- {
		t := due[i]
		log.Debugf("phase=fire %s output=%t", t.String(), t.IsOutput)
		if err := e.applyImmediate(t); err != nil {
			return err
		}
		e.applyDelayed(t)
	}
	return nil
}

// applyImmediate applies a firing transition's immediate instructions:
// each always targets a local transition (externality requires a
// delay) and takes effect right away by overwriting the target's value.
func (e *Engine) applyImmediate(firing types.Transition) error {
	for _, instr := range firing.Immediate {
		target := e.net.Find(instr.TransitionID)
		if target == nil {
			return fmt.Errorf("%w: transition %d (immediate instruction of %d)", types.ErrUnknownTransition, instr.TransitionID, firing.ID)
		}
		target.Value = instr.Value
	}
	return nil
}

// applyDelayed turns a firing transition's delayed instructions into
// ActiveEvents timestamped at firing.Clock+firing.Duration, sorting each
// into the internal or external buffer by its externality flag. No
// deduplication is performed.
func (e *Engine) applyDelayed(firing types.Transition) {
	for _, instr := range firing.Delayed {
		event := types.ActiveEvent{
			FeedingNode:  e.name,
			TransitionID: instr.TransitionID,
			Value:        instr.Value,
			Clock:        firing.Clock + firing.Duration,
		}
		if instr.External {
			e.external = append(e.external, event)
		} else {
			e.internal = append(e.internal, event)
		}
	}
}

// dispatchExternal sends every external active event to its destination
// peer, then sends a PassiveEvent carrying clock = engine.clock + step
// to every fed node that didn't already receive an active event this
// iteration. The external buffer is always cleared, whether or not
// sending succeeded.
func (e *Engine) dispatchExternal(log types.Logger) error {
	defer func() { e.external = e.external[:0] }()

	covered := make(map[string]bool, len(e.external))
	for _, event := range e.external {
		destination, ok := e.transition2node[event.TransitionID]
		if !ok {
			return fmt.Errorf("%w: %d", types.ErrUnknownTransition, event.TransitionID)
		}
		log.Debugf("phase=dispatch %s -> %s", event.String(), destination)
		if err := e.sender.SendActive(destination, event); err != nil {
			return fmt.Errorf("send active event to %s: %w", destination, err)
		}
		covered[destination] = true
	}

	passive := types.PassiveEvent{FeedingNode: e.name, Clock: e.clock + e.step}
	for _, fed := range e.fedNodes {
		if covered[fed] {
			continue
		}
		log.Debugf("phase=dispatch %s -> %s", passive.String(), fed)
		if err := e.sender.SendPassive(fed, passive); err != nil {
			return fmt.Errorf("send passive event to %s: %w", fed, err)
		}
	}
	return nil
}

// tick applies the conservative clock-advancement rule: the engine's
// only suspension point. It blocks on every feeding node whose
// last-known-clock matches the current lower bound, so a newer lower
// bound on peer time is always learned before the clock advances.
func (e *Engine) tick(ctx context.Context, log types.Logger) error {
	earliest := e.earliestKnownClock()

	for _, name := range e.feederNames {
		feeder := e.feeders[name]
		if feeder.LastKnownClock != earliest {
			continue
		}
		line, ok, err := e.inboxes[name].Recv(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", types.ErrFeedingNodeShut, name)
		}
		if err := e.integrateLine(name, line, log); err != nil {
			return err
		}
	}

	for _, name := range e.feederNames {
		for {
			line, ok := e.inboxes[name].TryRecv()
			if !ok {
				break
			}
			if err := e.integrateLine(name, line, log); err != nil {
				return err
			}
		}
	}

	if len(e.internal) == 0 {
		e.clock += e.step
		return nil
	}
	e.clock = e.minInternalClock()
	return nil
}

// earliestKnownClock is the minimum over all internal-event clocks and
// all feeding-node last-known-clocks, or the current clock if both sets
// are empty.
func (e *Engine) earliestKnownClock() int {
	has := false
	min := 0
	consider := func(v int) {
		if !has || v < min {
			min = v
			has = true
		}
	}
	for _, event := range e.internal {
		consider(event.Clock)
	}
	for _, name := range e.feederNames {
		consider(e.feeders[name].LastKnownClock)
	}
	if !has {
		return e.clock
	}
	return min
}

func (e *Engine) minInternalClock() int {
	has := false
	min := 0
	for _, event := range e.internal {
		if !has || event.Clock < min {
			min = event.Clock
			has = true
		}
	}
	if !has {
		return e.clock + e.step
	}
	return min
}

// integrateLine decodes one routed wire line as either an ActiveEvent
// or a PassiveEvent, based on the presence of transition_id, and folds
// it into the engine's state.
func (e *Engine) integrateLine(from string, line []byte, log types.Logger) error {
	env, err := types.DecodeEnvelope(line)
	if err != nil {
		return err
	}

	if env.IsActive() {
		event, err := types.DecodeActive(line)
		if err != nil {
			return err
		}
		log.Debugf("phase=tick recv %s", event.String())
		e.internal = append(e.internal, event)
		return nil
	}

	event, err := types.DecodePassive(line)
	if err != nil {
		return err
	}
	log.Debugf("phase=tick recv %s", event.String())
	if feeder, ok := e.feeders[from]; ok {
		feeder.LastKnownClock = event.Clock
	}
	return nil
}

// integrate writes every internal event whose clock equals the new
// engine clock into its target transition, then drops it from the
// buffer. A targeted transition missing locally means the event was
// misrouted; it is logged and dropped rather than treated as fatal.
func (e *Engine) integrate(log types.Logger) {
	remaining := e.internal[:0:0]
	for _, event := range e.internal {
		if event.Clock != e.clock {
			remaining = append(remaining, event)
			continue
		}
		target := e.net.Find(event.TransitionID)
		if target == nil {
			log.Warnf("phase=integrate dropping %s: no such local transition", event.String())
			continue
		}
		log.Debugf("phase=integrate %s", event.String())
		target.Clock = event.Clock
		target.Value = event.Value
	}
	e.internal = remaining
}
