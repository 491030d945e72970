package pagination

import (
	"testing"
	"time"
)

func TestNormalizeLimit(t *testing.T) {
	t.Parallel()

	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-3); got != DefaultLimit {
		t.Fatalf("expected default limit for negative input, got %d", got)
	}
	if got := NormalizeLimit(MaxLimit + 50); got != MaxLimit {
		t.Fatalf("expected max limit cap, got %d", got)
	}
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("expected buffered limit 11, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	t.Parallel()

	orig := Cursor{CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), ID: "42"}
	encoded := EncodeCursor(orig)

	parsed, err := ParseCursor(encoded)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if parsed == nil || !parsed.CreatedAt.Equal(orig.CreatedAt) || parsed.ID != "42" {
		t.Fatalf("cursor mismatch: %+v", parsed)
	}
}

func TestParseCursorEmptyAndMalformed(t *testing.T) {
	t.Parallel()

	if c, err := ParseCursor("  "); err != nil || c != nil {
		t.Fatalf("blank cursor should be nil, got %+v err=%v", c, err)
	}
	if _, err := ParseCursor("!!not-base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if _, err := ParseCursor("bm8tcGlwZQ=="); err == nil { // "no-pipe"
		t.Fatal("expected error for missing separator")
	}
}
