package types

import (
	"encoding/json"
	"fmt"
)

// ActiveEvent announces that, at Clock, transition TransitionID should
// acquire Value. FeedingNode names the peer that produced it.
type ActiveEvent struct {
	FeedingNode  string `json:"feeding_node"`
	TransitionID int    `json:"transition_id"`
	Value        int    `json:"value"`
	Clock        int    `json:"clock"`
}

// PassiveEvent is a null/lookahead message: a promise that FeedingNode
// will send no event with a timestamp earlier than Clock.
type PassiveEvent struct {
	FeedingNode string `json:"feeding_node"`
	Clock       int    `json:"clock"`
}

func (e ActiveEvent) String() string {
	return fmt.Sprintf("active{from=%s transition=%d value=%d clock=%d}", e.FeedingNode, e.TransitionID, e.Value, e.Clock)
}

func (e PassiveEvent) String() string {
	return fmt.Sprintf("passive{from=%s clock=%d}", e.FeedingNode, e.Clock)
}

// Envelope is the minimal shape the listener decodes: just enough to
// route a raw line to the right feeding node's inbox without
// deserializing further. The presence of TransitionID distinguishes an
// ActiveEvent from a PassiveEvent once the engine deserializes for real.
type Envelope struct {
	FeedingNode  string `json:"feeding_node"`
	TransitionID *int   `json:"transition_id,omitempty"`
}

// DecodeEnvelope extracts just the feeding_node field (and whether a
// transition_id is present) from a raw wire line, without committing to
// either message shape.
func DecodeEnvelope(line []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrDecodeEnvelope, err)
	}
	return env, nil
}

// IsActive reports whether the envelope carries a transition_id, i.e.
// the routed line is an ActiveEvent rather than a PassiveEvent.
func (e Envelope) IsActive() bool {
	return e.TransitionID != nil
}

// DecodeActive parses a raw wire line as an ActiveEvent.
func DecodeActive(line []byte) (ActiveEvent, error) {
	var e ActiveEvent
	if err := json.Unmarshal(line, &e); err != nil {
		return ActiveEvent{}, fmt.Errorf("%w: %v", ErrDecodeEvent, err)
	}
	return e, nil
}

// DecodePassive parses a raw wire line as a PassiveEvent.
func DecodePassive(line []byte) (PassiveEvent, error) {
	var e PassiveEvent
	if err := json.Unmarshal(line, &e); err != nil {
		return PassiveEvent{}, fmt.Errorf("%w: %v", ErrDecodeEvent, err)
	}
	return e, nil
}

// Encode serializes an ActiveEvent as a single newline-terminated wire
// line.
func (e ActiveEvent) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Encode serializes a PassiveEvent as a single newline-terminated wire
// line.
func (e PassiveEvent) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// FeedingNode tracks what this node currently knows about a peer that
// may send it events: the most recent timestamp that peer has
// guaranteed via a PassiveEvent. ActiveEvents from the peer go to the
// engine's internal buffer and leave LastKnownClock unchanged.
type FeedingNode struct {
	Name           string
	LastKnownClock int
}

func (f FeedingNode) String() string {
	return fmt.Sprintf("%s=%d", f.Name, f.LastKnownClock)
}
