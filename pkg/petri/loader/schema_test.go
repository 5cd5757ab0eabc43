package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/diogofriggo/petri/pkg/petri/types"
)

func writeNetFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadNet_DecodesInstructionsAndExternality(t *testing.T) {
	dir := t.TempDir()
	path := writeNetFile(t, dir, "a.json", `{
		"net": [
			{"id": 0, "value": 0, "clock": 0, "duration": 1, "immediate": [[1, 9]], "delayed": [[-2, 5]], "output": true}
		]
	}`)

	net, err := loadNet(path)
	if err != nil {
		t.Fatalf("loadNet: %v", err)
	}
	if len(net.Transitions) != 1 {
		t.Fatalf("expected 1 transition, found %d", len(net.Transitions))
	}

	trans := net.Transitions[0]
	if !trans.IsOutput {
		t.Errorf("expected output marker true")
	}
	if len(trans.Immediate) != 1 || trans.Immediate[0].TransitionID != 1 || trans.Immediate[0].External {
		t.Errorf("unexpected immediate decode: %+v", trans.Immediate)
	}
	if len(trans.Delayed) != 1 || trans.Delayed[0].TransitionID != 1 || !trans.Delayed[0].External {
		t.Errorf("unexpected delayed decode for encoded id -2: %+v", trans.Delayed)
	}
}

func TestLoadNet_RejectsExternalImmediate(t *testing.T) {
	dir := t.TempDir()
	path := writeNetFile(t, dir, "a.json", `{
		"net": [
			{"id": 0, "value": 0, "clock": 0, "duration": 1, "immediate": [[-1, 9]]}
		]
	}`)

	_, err := loadNet(path)
	if err == nil {
		t.Fatalf("expected an error for an external immediate instruction")
	}
	if !errors.Is(err, types.ErrExternalImmediate) {
		t.Errorf("expected ErrExternalImmediate, found %v", err)
	}
}

func TestLoadNet_RejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeNetFile(t, dir, "a.json", `not json`)

	if _, err := loadNet(path); err == nil {
		t.Errorf("expected a decode error for malformed JSON")
	}
}
