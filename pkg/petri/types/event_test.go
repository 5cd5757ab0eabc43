package types

import "testing"

func TestActiveEvent_EncodeDecodeRoundTrip(t *testing.T) {
	event := ActiveEvent{FeedingNode: "10.0.0.1:9000", TransitionID: 4, Value: -2, Clock: 7}

	line, err := event.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if line[len(line)-1] != '\n' {
		t.Errorf("expected wire line to end with a newline")
	}

	env, err := DecodeEnvelope(line)
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !env.IsActive() {
		t.Errorf("envelope of an ActiveEvent must report IsActive")
	}
	if env.FeedingNode != event.FeedingNode {
		t.Errorf("expected feeding node %q, found %q", event.FeedingNode, env.FeedingNode)
	}

	decoded, err := DecodeActive(line)
	if err != nil {
		t.Fatalf("decode active: %v", err)
	}
	if decoded != event {
		t.Errorf("round-trip mismatch: sent %+v, decoded %+v", event, decoded)
	}
}

func TestPassiveEvent_EncodeDecodeRoundTrip(t *testing.T) {
	event := PassiveEvent{FeedingNode: "10.0.0.2:9001", Clock: 12}

	line, err := event.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	env, err := DecodeEnvelope(line)
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.IsActive() {
		t.Errorf("envelope of a PassiveEvent must not report IsActive")
	}

	decoded, err := DecodePassive(line)
	if err != nil {
		t.Fatalf("decode passive: %v", err)
	}
	if decoded != event {
		t.Errorf("round-trip mismatch: sent %+v, decoded %+v", event, decoded)
	}
}

func TestDecodeEnvelope_InvalidJSON(t *testing.T) {
	if _, err := DecodeEnvelope([]byte("not json")); err == nil {
		t.Errorf("expected an error decoding malformed JSON")
	}
}
