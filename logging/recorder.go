package logging

import (
	"context"
	"maps"
	"sync"
)

// Diagnostic is one structured record captured by a Recorder
type Diagnostic struct {
	Level   Level
	Message string
	Err     error
	Fields  Fields
}

type diagnosticStore struct {
	mu      sync.Mutex
	records []Diagnostic
}

// Recorder is a Logger that keeps every record in memory instead of writing it.
// Loggers derived with WithFields share the same record list.
// Fatal is recorded like any other level and does not exit.
type Recorder struct {
	store  *diagnosticStore
	fields Fields
	level  *Level
}

// NewRecorder returns an empty Recorder that keeps every level
func NewRecorder() *Recorder {
	lvl := DebugLevel
	return &Recorder{
		store:  &diagnosticStore{},
		fields: Fields{},
		level:  &lvl,
	}
}

func (r *Recorder) record(level Level, err error, msg string, fields ...Fields) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if level < *r.level {
		return
	}

	all := make(Fields, len(r.fields))
	maps.Copy(all, r.fields)
	for _, f := range fields {
		maps.Copy(all, f)
	}

	r.store.records = append(r.store.records, Diagnostic{
		Level:   level,
		Message: msg,
		Err:     err,
		Fields:  all,
	})
}

func (r *Recorder) Debug(msg string, fields ...Fields) { r.record(DebugLevel, nil, msg, fields...) }
func (r *Recorder) Info(msg string, fields ...Fields)  { r.record(InfoLevel, nil, msg, fields...) }
func (r *Recorder) Warn(msg string, fields ...Fields)  { r.record(WarnLevel, nil, msg, fields...) }

func (r *Recorder) Error(err error, msg string, fields ...Fields) {
	r.record(ErrorLevel, err, msg, fields...)
}

func (r *Recorder) Fatal(err error, msg string, fields ...Fields) {
	r.record(FatalLevel, err, msg, fields...)
}

func (r *Recorder) WithFields(fields Fields) Logger {
	merged := make(Fields, len(r.fields)+len(fields))
	maps.Copy(merged, r.fields)
	maps.Copy(merged, fields)
	return &Recorder{store: r.store, fields: merged, level: r.level}
}

func (r *Recorder) WithContext(ctx context.Context) Logger {
	if fields, ok := fieldsFromContext(ctx); ok {
		return r.WithFields(fields)
	}
	return r
}

func (r *Recorder) SetLevel(level Level) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	*r.level = level
}

// Records returns a copy of everything recorded so far
func (r *Recorder) Records() []Diagnostic {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]Diagnostic, len(r.store.records))
	copy(out, r.store.records)
	return out
}

// Warnings returns only the WarnLevel records
func (r *Recorder) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Records() {
		if d.Level == WarnLevel {
			out = append(out, d)
		}
	}
	return out
}

// Reset drops all records
func (r *Recorder) Reset() {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.records = nil
}
