package log

import (
	"context"
	"errors"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		arg     []any
		wantMsg string
		wantKV  int
	}{
		{name: "empty", arg: nil, wantMsg: "", wantKV: 0},
		{name: "message only", arg: []any{"hello"}, wantMsg: "hello", wantKV: 0},
		{name: "message with pairs", arg: []any{"hello", "k", 1}, wantMsg: "hello", wantKV: 2},
		{name: "message with error", arg: []any{"failed: ", errors.New("boom")}, wantMsg: "failed: boom", wantKV: 0},
		{name: "non string first", arg: []any{42}, wantMsg: "42", wantKV: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, kv := split(tt.arg)
			if msg != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, msg)
			}
			if len(kv) != tt.wantKV {
				t.Errorf("expected %d key/values, got %d", tt.wantKV, len(kv))
			}
		})
	}
}

func TestInit_DoesNotPanic(t *testing.T) {
	for _, cfg := range []ZapConfig{
		{Level: "debug", Mode: ModeDevelopment, Encoding: EncodingConsole, ColorEnabled: true},
		{Level: "warn", Mode: ModeProduction, Encoding: EncodingJSON},
		{Level: "not-a-level"},
	} {
		l := Init(cfg)
		ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
		l.Debug(ctx, "debug line", "k", "v")
		l.Infof(ctx, "info %d", 1)
		l.Warn(ctx, "warn line")
	}
}
