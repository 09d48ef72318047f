package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"sync"
	"time"
)

// StdoutLogger writes one JSON object per line. The zero value logs at info
// level to stdout.
type StdoutLogger struct {
	Level  Level
	Out    io.Writer
	fields map[string]any
	mu     *sync.Mutex
}

func NewStdoutLogger(level Level, out io.Writer) *StdoutLogger {
	return &StdoutLogger{Level: level, Out: out, mu: &sync.Mutex{}}
}

// With returns a logger that adds fields to every entry.
func (l *StdoutLogger) With(fields map[string]any) *StdoutLogger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	maps.Copy(merged, l.fields)
	maps.Copy(merged, fields)
	return &StdoutLogger{Level: l.Level, Out: l.Out, fields: merged, mu: l.lock()}
}

func (l *StdoutLogger) lock() *sync.Mutex {
	if l.mu == nil {
		l.mu = &sync.Mutex{}
	}
	return l.mu
}

func (l *StdoutLogger) log(level Level, msg string, fields map[string]any) {
	if level < l.Level {
		return
	}

	entry := map[string]any{
		"level": level.String(),
		"msg":   msg,
		"time":  time.Now().UTC().Format(time.RFC3339),
	}

	maps.Copy(entry, l.fields)
	maps.Copy(entry, fields)

	for k, v := range entry {
		if err, ok := v.(error); ok {
			entry[k] = err.Error()
		}
	}

	b, err := json.Marshal(entry)
	if err != nil {
		b = []byte(fmt.Sprintf(`{"level":"ERROR","msg":"unloggable entry","error":%q}`, err.Error()))
	}

	out := l.Out
	if out == nil {
		out = os.Stdout
	}

	mu := l.lock()
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, string(b))
}

func (l *StdoutLogger) Debug(msg string, fields map[string]any) {
	l.log(LevelDebug, msg, fields)
}

func (l *StdoutLogger) Info(msg string, fields map[string]any) {
	l.log(LevelInfo, msg, fields)
}

func (l *StdoutLogger) Warn(msg string, fields map[string]any) {
	l.log(LevelWarn, msg, fields)
}

func (l *StdoutLogger) Error(msg string, fields map[string]any) {
	l.log(LevelError, msg, fields)
}
