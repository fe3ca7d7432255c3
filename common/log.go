package common

import "log"

// Sink is the pluggable warning/info sink every loader and the assembler
// report through, per the "no error is silently swallowed" policy.
// Callers that want warnings routed somewhere other than stdlib log can
// supply their own implementation.
type Sink interface {
	Warnf(format string, args ...interface{})
	Infof(format string, args ...interface{})
}

// StdSink is the default Sink, backed by the standard log package, the
// same thing the teacher repo uses directly everywhere (log.Printf,
// log.Fatalf).
type StdSink struct{}

func (StdSink) Warnf(format string, args ...interface{}) {
	log.Printf("warn: "+format, args...)
}

func (StdSink) Infof(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// DefaultSink is used wherever a caller does not supply one.
var DefaultSink Sink = StdSink{}
