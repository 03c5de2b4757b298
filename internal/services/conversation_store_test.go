package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestConversationStore_Create_NormalizesTitle(t *testing.T) {
	conversations := NewConversationStore(newTestPersist(t), testLogger())
	ctx := context.Background()

	c, err := conversations.Create(ctx, uuid.New(), "  weekend   plans\t ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Title != "weekend plans" {
		t.Fatalf("title not normalized: %q", c.Title)
	}
}

func TestConversationStore_Create_DefaultTitle(t *testing.T) {
	conversations := NewConversationStore(newTestPersist(t), testLogger())

	c, err := conversations.Create(context.Background(), uuid.New(), "   ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Title != defaultConversationTitle {
		t.Fatalf("expected default title, got %q", c.Title)
	}
}

func TestConversationStore_Create_ClipsLongTitle(t *testing.T) {
	conversations := NewConversationStore(newTestPersist(t), testLogger())
	conversations.TitleMaxLen = 10

	c, err := conversations.Create(context.Background(), uuid.New(), strings.Repeat("x", 50))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len([]rune(c.Title)) != 10 {
		t.Fatalf("title not clipped: %q", c.Title)
	}
}

func TestConversationStore_UpdateTitle(t *testing.T) {
	conversations := NewConversationStore(newTestPersist(t), testLogger())
	ctx := context.Background()

	c, err := conversations.Create(ctx, uuid.New(), "old")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := conversations.UpdateTitle(ctx, c.ID, "new"); err != nil {
		t.Fatalf("UpdateTitle: %v", err)
	}
	got, err := conversations.ConversationByID(c.ID)
	if err != nil || got.Title != "new" {
		t.Fatalf("title not updated: %+v err=%v", got, err)
	}

	if err := conversations.UpdateTitle(ctx, uuid.New(), "x"); err != ErrConversationNotFound {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestConversationStore_Load_AscendingOrder(t *testing.T) {
	persist := newTestPersist(t)
	ctx := context.Background()

	seed := NewConversationStore(persist, testLogger())
	owner := uuid.New()
	for _, title := range []string{"one", "two", "three"} {
		if _, err := seed.Create(ctx, owner, title); err != nil {
			t.Fatalf("Create %s: %v", title, err)
		}
	}

	reloaded := NewConversationStore(persist, testLogger())
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	list := reloaded.Conversations()
	if len(list) != 3 {
		t.Fatalf("expected 3 conversations, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].CreationTime.Before(list[i-1].CreationTime) {
			t.Fatalf("order violated at %d", i)
		}
	}
}

func TestConversationStore_Delete(t *testing.T) {
	persist := newTestPersist(t)
	ctx := context.Background()

	conversations := NewConversationStore(persist, testLogger())
	c, err := conversations.Create(ctx, uuid.New(), "doomed")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := conversations.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := conversations.ConversationByID(c.ID); err != ErrConversationNotFound {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
	if conversations.Count() != 0 {
		t.Fatalf("cache not emptied: %d", conversations.Count())
	}

	reloaded := NewConversationStore(persist, testLogger())
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reloaded.Count() != 0 {
		t.Fatalf("document survived delete: %d", reloaded.Count())
	}
}
