package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func newCapturedLogger() (*Logger, *bytes.Buffer) {
	l := New("test")
	var buf bytes.Buffer
	l.SetOutput(log.New(&buf, "", 0))
	return l, &buf
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newCapturedLogger()
	l.SetLevel(LevelWarn)

	l.Debugf("debug message")
	l.Infof("info message")
	l.Warnf("warn message")
	l.Errorf("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("output contains suppressed levels:\n%s", out)
	}
	if !strings.Contains(out, "[WARN] warn message") {
		t.Errorf("output missing warn line:\n%s", out)
	}
	if !strings.Contains(out, "[ERROR] error message") {
		t.Errorf("output missing error line:\n%s", out)
	}
}

func TestWithAddsFieldsSorted(t *testing.T) {
	l, buf := newCapturedLogger()

	l.With("serial", "ABC123").With("backend", "openrazer").Infof("resolved")

	out := buf.String()
	if !strings.Contains(out, "backend=openrazer component=test serial=ABC123") {
		t.Errorf("fields not rendered in sorted order:\n%s", out)
	}
}

func TestWithDoesNotMutateParent(t *testing.T) {
	l, buf := newCapturedLogger()
	_ = l.With("serial", "ABC123")

	l.Infof("plain")
	if strings.Contains(buf.String(), "serial=") {
		t.Errorf("parent logger carries the child's field:\n%s", buf.String())
	}
}
