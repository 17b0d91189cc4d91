package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(zapcore.AddSync(&buf), InfoLevel, false)
	l.Debugw("hidden")
	l.Infow("shown", "bits", 64)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry logged at info level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "64") {
		t.Fatalf("info entry missing: %q", out)
	}
}

func TestJSONNamedWith(t *testing.T) {
	var buf bytes.Buffer
	l := New(zapcore.AddSync(&buf), DebugLevel, true).Named("hkex").With("run", "r1")
	l.Debugw("commitment sent")
	out := buf.String()
	for _, want := range []string{`"logger":"hkex"`, `"run":"r1"`, `"msg":"commitment sent"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %q", want, out)
		}
	}
}

func TestContext(t *testing.T) {
	l := Nop()
	ctx := ToContext(context.Background(), l)
	if FromContextOrDefault(ctx) != l {
		t.Fatalf("logger not recovered from context")
	}
	if FromContextOrDefault(context.Background()) == nil {
		t.Fatalf("expected default logger")
	}
}
