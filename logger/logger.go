package logger

// Logger is the minimal structured logging interface the engine emits
// decisions through. Arguments after the message are alternating key/value
// pairs; keeping the interface this small makes it trivial to swap or mock.
type Logger interface {
	Error(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Debug(msg string, keyvals ...any)
}
