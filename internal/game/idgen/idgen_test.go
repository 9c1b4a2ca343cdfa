package idgen

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSequential(t *testing.T) {
	g := NewSequential("card")
	if got := g.Generate(); got != "card-1" {
		t.Fatalf("first id = %q, want card-1", got)
	}
	if got := g.Generate(); got != "card-2" {
		t.Fatalf("second id = %q, want card-2", got)
	}
	if got := NewSequential("").Generate(); got != "1" {
		t.Fatalf("unprefixed id = %q, want 1", got)
	}
}

func TestUUID(t *testing.T) {
	id := NewUUID("session").Generate()
	if !strings.HasPrefix(id, "session-") {
		t.Fatalf("id %q missing prefix", id)
	}
	if _, err := uuid.Parse(strings.TrimPrefix(id, "session-")); err != nil {
		t.Fatalf("id %q is not a uuid: %v", id, err)
	}
	if NewUUID("").Generate() == NewUUID("").Generate() {
		t.Fatal("expected distinct ids")
	}
}
