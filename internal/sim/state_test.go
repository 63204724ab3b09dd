package sim

import (
	"errors"
	"testing"

	"proant/internal/spatial"
)

func TestPoseAccessors(t *testing.T) {
	pose := Upright(3, 0.75)
	if pose.Bodies() != 3 {
		t.Fatalf("expected 3 bodies, got %d", pose.Bodies())
	}
	pos, err := pose.Position(2)
	if err != nil {
		t.Fatalf("position: %v", err)
	}
	if pos.Z != 0.75 {
		t.Fatalf("unexpected height: %f", pos.Z)
	}
	rot, err := pose.Rotation(0)
	if err != nil {
		t.Fatalf("rotation: %v", err)
	}
	if rot != spatial.Identity {
		t.Fatalf("expected identity rotation, got %+v", rot)
	}
}

func TestPoseOutOfRange(t *testing.T) {
	pose := Upright(1, 0.5)
	if _, err := pose.Position(1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected out of range error, got %v", err)
	}
	if _, err := pose.Rotation(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected out of range error, got %v", err)
	}
}
