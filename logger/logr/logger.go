package logr

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/pwnedgod/kunci/logger"
)

type logrLogger struct {
	l logr.Logger
}

// NewLogger bridges a logr.Logger so callers already standardized on logr can
// plug it straight into the mutex.
func NewLogger(l logr.Logger) logger.Logger {
	return &logrLogger{l: l}
}

func (l logrLogger) Info(args ...interface{}) {
	l.l.Info(sprint(args...))
}

func (l logrLogger) Debug(args ...interface{}) {
	l.l.V(1).Info(sprint(args...))
}

func (l logrLogger) Error(args ...interface{}) {
	l.l.Error(nil, sprint(args...))
}

func sprint(args ...interface{}) string {
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}
