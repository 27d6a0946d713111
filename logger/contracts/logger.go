package contracts

// ILogger receives the informational, error and debug lines emitted by sandkit
// helpers. Args are alternating key/value pairs.
type ILogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
