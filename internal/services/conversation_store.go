// Package services – ConversationStore
//
// ConversationStore owns the in-memory cache of conversations, kept in
// creation-time order. Titles are normalized, clipped, and defaulted here
// before any write-through. Ownership checks against UserStore are the
// calling layer's job; this store only persists what it is handed.
package services

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/asma526/go-board-backend/internal/domain"
	"github.com/asma526/go-board-backend/internal/repo"
)

const defaultConversationTitle = "New conversation"

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)

// ConversationStore caches all conversations and coordinates their
// persistence.
type ConversationStore struct {
	mu      sync.RWMutex
	persist *repo.PersistentStore
	log     *zerolog.Logger

	// TitleMaxLen caps stored titles by rune length.
	TitleMaxLen int
	// TitleLocale is retained for compatibility with locale-aware casing;
	// titles are currently stored as entered.
	TitleLocale language.Tag

	conversations []*domain.Conversation
	byID          map[uuid.UUID]*domain.Conversation
}

// NewConversationStore constructs an empty ConversationStore with sane
// title defaults. Call Load before serving requests.
func NewConversationStore(persist *repo.PersistentStore, log *zerolog.Logger) *ConversationStore {
	return &ConversationStore{
		persist:     persist,
		log:         log,
		TitleMaxLen: 60,
		TitleLocale: language.Und,
		byID:        make(map[uuid.UUID]*domain.Conversation),
	}
}

// Load replaces the cache with the full persisted conversation set, in
// ascending creation-time order.
func (s *ConversationStore) Load(ctx context.Context) error {
	conversations, err := s.persist.LoadConversations(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations = conversations
	s.byID = make(map[uuid.UUID]*domain.Conversation, len(conversations))
	for _, c := range conversations {
		s.byID[c.ID] = c
	}
	s.log.Info().Int("conversations", len(conversations)).Msg("conversation cache loaded")
	return nil
}

// Create inserts a new conversation owned by ownerID and writes it through.
// Titles are normalized, clipped, and defaulted when blank.
func (s *ConversationStore) Create(ctx context.Context, ownerID uuid.UUID, title string) (*domain.Conversation, error) {
	title = normalizeTitle(title)
	if title == "" {
		title = defaultConversationTitle
	}

	c := &domain.Conversation{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Title:        s.clip(title),
		CreationTime: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist.WriteThroughConversation(ctx, c); err != nil {
		s.log.Error().Err(err).Str("conversation_id", c.ID.String()).Msg("conversation write-through failed")
		return nil, err
	}
	s.conversations = append(s.conversations, c)
	s.byID[c.ID] = c
	s.log.Debug().Str("conversation_id", c.ID.String()).Str("title", c.Title).Msg("conversation created")
	return c, nil
}

// UpdateTitle renames a conversation and writes it through. Falls back to
// the default title when the new one is blank.
func (s *ConversationStore) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	title = normalizeTitle(title)
	if title == "" {
		title = defaultConversationTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return ErrConversationNotFound
	}
	c.Title = s.clip(title)
	if err := s.persist.WriteThroughConversation(ctx, c); err != nil {
		s.log.Error().Err(err).Str("conversation_id", id.String()).Msg("conversation write-through failed")
		return err
	}
	return nil
}

// Delete removes a conversation from the cache and deletes its document.
// Messages in the conversation are not touched.
func (s *ConversationStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return ErrConversationNotFound
	}
	if err := s.persist.DeleteThroughConversation(ctx, c); err != nil {
		s.log.Error().Err(err).Str("conversation_id", id.String()).Msg("conversation delete-through failed")
		return err
	}
	delete(s.byID, id)
	for i, cand := range s.conversations {
		if cand.ID == id {
			s.conversations = append(s.conversations[:i], s.conversations[i+1:]...)
			break
		}
	}
	return nil
}

// ConversationByID returns the cached conversation with the given id.
func (s *ConversationStore) ConversationByID(id uuid.UUID) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return c, nil
}

// Conversations returns the cached conversations in ascending creation-time
// order.
func (s *ConversationStore) Conversations() []*domain.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// Count returns the number of cached conversations.
func (s *ConversationStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}

// clip truncates a title to the configured maximum rune length.
func (s *ConversationStore) clip(title string) string {
	if s.TitleMaxLen > 0 && utf8.RuneCountInString(title) > s.TitleMaxLen {
		return string([]rune(title)[:s.TitleMaxLen])
	}
	return title
}

// normalizeTitle trims whitespace and collapses internal runs to one space.
func normalizeTitle(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}
