package core

import "github.com/diogofriggo/petri/pkg/petri/types"

// noopLogger discards every record; engine tests care about state
// transitions, not log output.
type noopLogger struct{}

func (noopLogger) Info(v ...interface{})                                   {}
func (noopLogger) Infof(format string, v ...interface{})                   {}
func (noopLogger) Warn(v ...interface{})                                   {}
func (noopLogger) Warnf(format string, v ...interface{})                   {}
func (noopLogger) Error(v ...interface{})                                  {}
func (noopLogger) Errorf(format string, v ...interface{})                  {}
func (noopLogger) Debug(v ...interface{})                                  {}
func (noopLogger) Debugf(format string, v ...interface{})                  {}
func (noopLogger) ToggleDebug(value bool) bool                             { return value }
func (noopLogger) Fatal(v ...interface{})                                  {}
func (noopLogger) Fatalf(format string, v ...interface{})                  {}
func (noopLogger) Panic(v ...interface{})                                  {}
func (noopLogger) Panicf(format string, v ...interface{})                  {}
func (l noopLogger) WithFields(fields map[string]interface{}) types.Logger { return l }

// recordingSender captures every event handed to it instead of touching
// the network, so engine tests can assert on exactly what was dispatched.
type recordingSender struct {
	active  []sentActive
	passive []sentPassive
}

type sentActive struct {
	destination string
	event       types.ActiveEvent
}

type sentPassive struct {
	destination string
	event       types.PassiveEvent
}

func (s *recordingSender) SendActive(destination string, event types.ActiveEvent) error {
	s.active = append(s.active, sentActive{destination, event})
	return nil
}

func (s *recordingSender) SendPassive(destination string, event types.PassiveEvent) error {
	s.passive = append(s.passive, sentPassive{destination, event})
	return nil
}
