package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestIDSet_AddRemoveHas(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	s := NewIDSet(a)
	if !s.Has(a) || s.Has(b) {
		t.Fatalf("unexpected membership: %v", s)
	}

	s.Add(b)
	if s.Len() != 2 {
		t.Fatalf("expected 2 ids, got %d", s.Len())
	}

	// Adding an existing id must not grow the set.
	s.Add(a)
	if s.Len() != 2 {
		t.Fatalf("duplicate add grew the set: %d", s.Len())
	}

	s.Remove(a)
	if s.Has(a) || s.Len() != 1 {
		t.Fatalf("remove failed: %v", s)
	}

	// Removing an absent id is a no-op.
	s.Remove(a)
	if s.Len() != 1 {
		t.Fatalf("absent remove changed the set: %d", s.Len())
	}
}

func TestIDSet_Slice(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	s := NewIDSet(ids...)

	got := s.Slice()
	if len(got) != len(ids) {
		t.Fatalf("expected %d ids, got %d", len(ids), len(got))
	}
	for _, id := range ids {
		found := false
		for _, g := range got {
			if g == id {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("id %s missing from slice", id)
		}
	}
}

func TestMessage_AddReply_PreservesOrder(t *testing.T) {
	parent := &Message{ID: uuid.New()}
	r1 := &Message{ID: uuid.New()}
	r2 := &Message{ID: uuid.New()}

	parent.AddReply(r1)
	parent.AddReply(r2)

	if len(parent.Replies) != 2 || parent.Replies[0] != r1 || parent.Replies[1] != r2 {
		t.Fatalf("unexpected reply list: %+v", parent.Replies)
	}
}
