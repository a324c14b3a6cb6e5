package util

import (
	"strings"
	"testing"
)

func TestNewID(t *testing.T) {
	id := NewID("prj")
	if !strings.HasPrefix(id, "prj_") {
		t.Errorf("id = %q, want prj_ prefix", id)
	}
	if len(id) != len("prj_")+32 {
		t.Errorf("id length = %d", len(id))
	}

	bare := NewID("")
	if strings.Contains(bare, "_") {
		t.Errorf("unprefixed id = %q must not carry a separator", bare)
	}

	if NewID("prj") == NewID("prj") {
		t.Error("two ids must not collide")
	}
}
