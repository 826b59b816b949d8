package log

import (
	"errors"
	"testing"
	"time"
)

// record captures one forwarded log call.
type record struct {
	level  string
	msg    string
	fields []Field
}

// recorder implements Logger and keeps every record it sees.
type recorder struct {
	records []record
}

func (r *recorder) Debug(msg string, fields ...Field) { r.add("debug", msg, fields) }
func (r *recorder) Info(msg string, fields ...Field)  { r.add("info", msg, fields) }
func (r *recorder) Warn(msg string, fields ...Field)  { r.add("warn", msg, fields) }
func (r *recorder) Error(msg string, fields ...Field) { r.add("error", msg, fields) }

func (r *recorder) add(level, msg string, fields []Field) {
	r.records = append(r.records, record{level: level, msg: msg, fields: fields})
}

func TestFieldConstructors(t *testing.T) {
	err := errors.New("boom")

	tests := []struct {
		name  string
		field Field
		key   string
		value interface{}
	}{
		{"String", String("s", "v"), "s", "v"},
		{"Int", Int("i", 42), "i", 42},
		{"Int64", Int64("i64", int64(-7)), "i64", int64(-7)},
		{"Uint64", Uint64("u64", uint64(9)), "u64", uint64(9)},
		{"Float64", Float64("f", 1.5), "f", 1.5},
		{"Bool", Bool("b", true), "b", true},
		{"Duration", Duration("d", time.Second), "d", time.Second},
		{"Err", Err(err), "error", err},
		{"Any", Any("a", []int{1}), "a", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key {
				t.Errorf("Key = %q, want %q", tt.field.Key, tt.key)
			}
			// Slices are not comparable; Any is checked by key only.
			if tt.name == "Any" {
				return
			}
			if tt.field.Value != tt.value {
				t.Errorf("Value = %v, want %v", tt.field.Value, tt.value)
			}
		})
	}
}

func TestWithTagPrependsTagField(t *testing.T) {
	rec := &recorder{}
	lg := WithTag(rec, "motor")

	lg.Info("spinning", Int("rpm", 1200))

	if len(rec.records) != 1 {
		t.Fatalf("records = %d, want 1", len(rec.records))
	}
	got := rec.records[0]
	if got.level != "info" || got.msg != "spinning" {
		t.Errorf("record = %s %q, want info \"spinning\"", got.level, got.msg)
	}
	if len(got.fields) != 2 {
		t.Fatalf("fields = %d, want 2", len(got.fields))
	}
	if got.fields[0].Key != "tag" || got.fields[0].Value != "motor" {
		t.Errorf("first field = %v, want tag=motor", got.fields[0])
	}
	if got.fields[1].Key != "rpm" {
		t.Errorf("second field = %v, want the caller's rpm field", got.fields[1])
	}
}

func TestWithTagCoversEveryLevel(t *testing.T) {
	rec := &recorder{}
	lg := WithTag(rec, "pump")

	lg.Debug("d")
	lg.Info("i")
	lg.Warn("w")
	lg.Error("e")

	if len(rec.records) != 4 {
		t.Fatalf("records = %d, want 4", len(rec.records))
	}
	for i, level := range []string{"debug", "info", "warn", "error"} {
		if rec.records[i].level != level {
			t.Errorf("record %d level = %s, want %s", i, rec.records[i].level, level)
		}
		if rec.records[i].fields[0].Value != "pump" {
			t.Errorf("record %d missing pump tag", i)
		}
	}
}

func TestWithTagNests(t *testing.T) {
	rec := &recorder{}
	lg := WithTag(WithTag(rec, "outer"), "inner")

	lg.Warn("nested")

	got := rec.records[0]
	if len(got.fields) != 2 {
		t.Fatalf("fields = %d, want 2", len(got.fields))
	}
	if got.fields[0].Value != "outer" || got.fields[1].Value != "inner" {
		t.Errorf("tags = %v/%v, want outer then inner", got.fields[0].Value, got.fields[1].Value)
	}
}

func TestConditionGatesAllLevels(t *testing.T) {
	rec := &recorder{}
	verbose := false
	lg := Condition(rec, func() bool { return verbose })

	lg.Debug("dropped")
	lg.Info("dropped")
	lg.Warn("dropped")
	lg.Error("dropped")
	if len(rec.records) != 0 {
		t.Fatalf("records = %d while predicate false, want 0", len(rec.records))
	}

	verbose = true
	lg.Info("kept")
	lg.Error("kept too")
	if len(rec.records) != 2 {
		t.Fatalf("records = %d after predicate flipped, want 2", len(rec.records))
	}
	if rec.records[0].msg != "kept" || rec.records[1].msg != "kept too" {
		t.Errorf("records = %v, want the two post-flip messages", rec.records)
	}
}

func TestConditionComposesWithTag(t *testing.T) {
	rec := &recorder{}
	enabled := true
	lg := Condition(WithTag(rec, "scoped"), func() bool { return enabled })

	lg.Info("one")
	enabled = false
	lg.Info("two")

	if len(rec.records) != 1 {
		t.Fatalf("records = %d, want 1", len(rec.records))
	}
	if rec.records[0].fields[0].Value != "scoped" {
		t.Error("tag lost through the conditional wrapper")
	}
}

func TestFormatHelpers(t *testing.T) {
	rec := &recorder{}

	Debugf(rec, "d %d", 1)
	Infof(rec, "i %s", "x")
	Warnf(rec, "w %v", true)
	Errorf(rec, "e %d%%", 99)

	want := []record{
		{level: "debug", msg: "d 1"},
		{level: "info", msg: "i x"},
		{level: "warn", msg: "w true"},
		{level: "error", msg: "e 99%"},
	}
	if len(rec.records) != len(want) {
		t.Fatalf("records = %d, want %d", len(rec.records), len(want))
	}
	for i, w := range want {
		if rec.records[i].level != w.level || rec.records[i].msg != w.msg {
			t.Errorf("record %d = %s %q, want %s %q",
				i, rec.records[i].level, rec.records[i].msg, w.level, w.msg)
		}
	}
}

func TestNoopLoggerDropsEverything(t *testing.T) {
	lg := NewNoopLogger()

	// Must not panic and must satisfy the interface.
	var _ Logger = lg
	lg.Debug("d", String("k", "v"))
	lg.Info("i")
	lg.Warn("w")
	lg.Error("e", Err(errors.New("ignored")))
}
