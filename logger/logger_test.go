package logger

import "testing"

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{"email", "a@x.com", "password", "pw1", "access_token", "abc", "dangling"})
	if len(out) != 7 {
		t.Fatalf("expected 7 entries, got %d: %v", len(out), out)
	}
	if out[1] != "a@x.com" {
		t.Fatalf("email should pass through, got %v", out[1])
	}
	if out[3] != "[REDACTED]" || out[5] != "[REDACTED]" {
		t.Fatalf("expected password and token redacted, got %v", out)
	}
	if out[6] != "dangling" {
		t.Fatalf("odd trailing key should be kept, got %v", out[6])
	}
}

func TestNewFallsBackToInfoLevel(t *testing.T) {
	l, err := New("development", "not-a-level")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.SugaredLogger.Desugar().Core().Enabled(-1) {
		t.Fatalf("debug should be disabled when level falls back to info")
	}
}
