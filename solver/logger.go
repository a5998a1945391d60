package solver

import (
	"fmt"
	"io"
)

// LogLevel controls the amount of logger output.
type LogLevel int

const (
	// LogNoop no output is generated
	LogNoop LogLevel = -1
	// LogLast print only one line when the solve ends
	LogLast LogLevel = 0
	// LogEval print also f, |d| and the step at every iteration
	LogEval LogLevel = 1
	// LogTrace print also the maximum step and the changes of the active set
	LogTrace LogLevel = 2
)

// Logger handles logging output for the solver.
// Note the writer must be thread-safe when a Solver is shared by goroutines.
type Logger struct {
	Level LogLevel
	Msg   io.Writer // Writer to output log messages.
}

func (l *Logger) enable(level LogLevel) bool {
	return l != nil && l.Msg != nil && l.Level >= level
}

func (l *Logger) log(format string, a ...any) {
	_, _ = fmt.Fprintf(l.Msg, format, a...)
}
