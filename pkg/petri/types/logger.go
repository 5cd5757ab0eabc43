package types

// Logger is implemented by anything able to record the engine's
// diagnostic trail. A node's log file is one timestamped line per call;
// the engine's records carry the engine clock and node name as fields
// and a phase marker in the message text.
type Logger interface {
	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warn(v ...interface{})
	Warnf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})

	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	// ToggleDebug enables or disables Debug/Debugf output, returning the
	// new state.
	ToggleDebug(value bool) bool

	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})

	Panic(v ...interface{})
	Panicf(format string, v ...interface{})

	// WithFields returns a derived Logger that attaches the given
	// key/value pairs to every subsequent record, used by the engine to
	// stamp each line with the current engine clock.
	WithFields(fields map[string]interface{}) Logger
}
