package types

import "testing"

func TestNewInstruction_InternalRoundTrip(t *testing.T) {
	instr := NewInstruction(7, -3)
	if instr.TransitionID != 7 {
		t.Errorf("expected transition id 7, found %d", instr.TransitionID)
	}
	if instr.External {
		t.Errorf("expected internal instruction, found external")
	}
	if instr.Value != -3 {
		t.Errorf("expected value -3, found %d", instr.Value)
	}
	if got := instr.Encode(); got != 7 {
		t.Errorf("expected re-encoded id 7, found %d", got)
	}
}

func TestNewInstruction_ExternalRoundTrip(t *testing.T) {
	// true_id = -(encoded_id) - 1, so transition 7 external is encoded
	// as -8.
	instr := NewInstruction(-8, 5)
	if instr.TransitionID != 7 {
		t.Errorf("expected transition id 7, found %d", instr.TransitionID)
	}
	if !instr.External {
		t.Errorf("expected external instruction, found internal")
	}
	if got := instr.Encode(); got != -8 {
		t.Errorf("expected re-encoded id -8, found %d", got)
	}
}

func TestNewInstruction_ZeroIDIsInternal(t *testing.T) {
	instr := NewInstruction(0, 1)
	if instr.External {
		t.Errorf("encoded id 0 must decode as internal, not external")
	}
	if instr.TransitionID != 0 {
		t.Errorf("expected transition id 0, found %d", instr.TransitionID)
	}
}

func TestTransition_Due(t *testing.T) {
	cases := []struct {
		name  string
		trans Transition
		clock int
		want  bool
	}{
		{"matches clock and non-positive value", Transition{Clock: 3, Value: 0}, 3, true},
		{"matches clock and negative value", Transition{Clock: 3, Value: -1}, 3, true},
		{"matches clock but positive value", Transition{Clock: 3, Value: 1}, 3, false},
		{"clock mismatch", Transition{Clock: 2, Value: 0}, 3, false},
	}
	for _, c := range cases {
		if got := c.trans.Due(c.clock); got != c.want {
			t.Errorf("%s: Due(%d) = %t, want %t", c.name, c.clock, got, c.want)
		}
	}
}

func TestNet_Find(t *testing.T) {
	net := Net{Transitions: []Transition{{ID: 1}, {ID: 2}, {ID: 3}}}

	found := net.Find(2)
	if found == nil {
		t.Fatalf("expected to find transition 2")
	}
	found.Value = 99
	if net.Transitions[1].Value != 99 {
		t.Errorf("Find must return a pointer into the backing slice, mutation was lost")
	}

	if net.Find(42) != nil {
		t.Errorf("expected nil for unknown transition id")
	}
}
