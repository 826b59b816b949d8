package log

// taggedLogger prefixes every record with a fixed tag field.
type taggedLogger struct {
	next Logger
	tag  Field
}

// WithTag returns a Logger that stamps every record with a "tag" field.
// Components use it to scope their output without sharing logger state:
//
//	lg := log.WithTag(base, "motor-worker")
//
// Tags nest; the innermost tag wins in backends that deduplicate keys.
func WithTag(next Logger, tag string) Logger {
	return &taggedLogger{next: next, tag: String("tag", tag)}
}

func (t *taggedLogger) Debug(msg string, fields ...Field) {
	t.next.Debug(msg, t.prepend(fields)...)
}

func (t *taggedLogger) Info(msg string, fields ...Field) {
	t.next.Info(msg, t.prepend(fields)...)
}

func (t *taggedLogger) Warn(msg string, fields ...Field) {
	t.next.Warn(msg, t.prepend(fields)...)
}

func (t *taggedLogger) Error(msg string, fields ...Field) {
	t.next.Error(msg, t.prepend(fields)...)
}

func (t *taggedLogger) prepend(fields []Field) []Field {
	out := make([]Field, 0, len(fields)+1)
	out = append(out, t.tag)
	return append(out, fields...)
}

// conditionalLogger forwards records only while its predicate holds.
type conditionalLogger struct {
	next Logger
	pred func() bool
}

// Condition returns a Logger that forwards records only while pred returns
// true. The predicate is evaluated per call, so callers can flip a verbosity
// switch at runtime to keep hot paths quiet:
//
//	verbose := false
//	lg := log.Condition(base, func() bool { return verbose })
func Condition(next Logger, pred func() bool) Logger {
	return &conditionalLogger{next: next, pred: pred}
}

func (c *conditionalLogger) Debug(msg string, fields ...Field) {
	if c.pred() {
		c.next.Debug(msg, fields...)
	}
}

func (c *conditionalLogger) Info(msg string, fields ...Field) {
	if c.pred() {
		c.next.Info(msg, fields...)
	}
}

func (c *conditionalLogger) Warn(msg string, fields ...Field) {
	if c.pred() {
		c.next.Warn(msg, fields...)
	}
}

func (c *conditionalLogger) Error(msg string, fields ...Field) {
	if c.pred() {
		c.next.Error(msg, fields...)
	}
}
