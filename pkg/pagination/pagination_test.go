package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	t.Parallel()

	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(500); got != MaxLimit {
		t.Fatalf("expected max limit, got %d", got)
	}
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("expected buffered limit 11, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	t.Parallel()

	in := Cursor{CreatedAt: time.Now().UTC().Truncate(time.Millisecond), ID: uuid.New()}
	encoded := EncodeCursor(in)

	out, err := ParseCursor(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) || out.ID != in.ID {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestParseCursorEmptyAndMalformed(t *testing.T) {
	t.Parallel()

	if cur, err := ParseCursor("  "); err != nil || cur != nil {
		t.Fatalf("expected nil cursor for blank input, got %v / %v", cur, err)
	}
	if _, err := ParseCursor("not-base64!!"); err == nil {
		t.Fatal("expected error for junk cursor")
	}
}
