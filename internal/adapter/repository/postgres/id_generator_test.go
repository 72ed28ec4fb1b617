package postgres

import (
	"testing"

	"github.com/oklog/ulid/v2"
)

func TestULIDGeneratorMonotonic(t *testing.T) {
	gen := NewULIDGenerator()

	prev := gen.Generate()
	for i := 0; i < 100; i++ {
		next := gen.Generate()
		if next <= prev {
			t.Fatalf("expected strictly increasing ids, got %q after %q", next, prev)
		}
		prev = next
	}

	if _, err := ulid.Parse(prev); err != nil {
		t.Fatalf("generated id is not a valid ULID: %v", err)
	}
}
