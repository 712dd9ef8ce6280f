package logger

type Logger interface {
	Info(...any)
	Debug(...any)
	Error(...any)
}

type nopLogger struct {
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &nopLogger{}
}

func (l nopLogger) Info(...any) {
}

func (l nopLogger) Debug(...any) {
}

func (l nopLogger) Error(...any) {
}
