package types

// Sink receives generated report text and a suggested filename, and saves or
// forwards it. Callers never learn whether delivery succeeded.
type Sink interface {
	Deliver(content, filename string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(content, filename string)

// Deliver calls f(content, filename).
func (f SinkFunc) Deliver(content, filename string) {
	f(content, filename)
}
