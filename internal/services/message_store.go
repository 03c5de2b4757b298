// Package services – MessageStore
//
// MessageStore owns the in-memory cache of message threads: top-level
// messages in creation-time order, each exclusively owning its replies.
// Posting writes through to the persistence facade and then drives index
// maintenance; deleting removes the one targeted document and scrubs the
// indexes, while reply documents deliberately stay behind (the store never
// cascades).
package services

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/asma526/go-board-backend/internal/domain"
	"github.com/asma526/go-board-backend/internal/render"
	"github.com/asma526/go-board-backend/internal/repo"
)

// MessageStore caches message threads and coordinates message persistence
// and index maintenance.
type MessageStore struct {
	mu      sync.RWMutex
	persist *repo.PersistentStore
	index   *IndexMaintainer
	log     *zerolog.Logger

	// MaxContentRunes caps message content length; 0 disables the check.
	MaxContentRunes int

	topLevel []*domain.Message
	byID     map[uuid.UUID]*domain.Message
	parents  map[uuid.UUID]uuid.UUID // reply id -> parent id
}

// NewMessageStore constructs an empty MessageStore. Call Load before
// serving requests.
func NewMessageStore(persist *repo.PersistentStore, index *IndexMaintainer, log *zerolog.Logger) *MessageStore {
	return &MessageStore{
		persist:         persist,
		index:           index,
		log:             log,
		MaxContentRunes: 4000,
		byID:            make(map[uuid.UUID]*domain.Message),
		parents:         make(map[uuid.UUID]uuid.UUID),
	}
}

// Load replaces the cache with the full persisted message set, threaded
// and in ascending creation-time order.
func (s *MessageStore) Load(ctx context.Context) error {
	topLevel, err := s.persist.LoadMessages(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.topLevel = topLevel
	s.byID = make(map[uuid.UUID]*domain.Message, len(topLevel))
	s.parents = make(map[uuid.UUID]uuid.UUID)
	total := 0
	for _, m := range topLevel {
		s.byID[m.ID] = m
		total++
		for _, r := range m.Replies {
			s.byID[r.ID] = r
			s.parents[r.ID] = m.ID
			total++
		}
	}
	s.log.Info().Int("messages", total).Int("top_level", len(topLevel)).Msg("message cache loaded")
	return nil
}

// Post creates a new top-level message in the conversation, writes it
// through, and updates the hashtag/mention indexes from its content.
func (s *MessageStore) Post(ctx context.Context, conversationID, authorID uuid.UUID, content string) (*domain.Message, error) {
	m, err := s.newMessage(conversationID, authorID, content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist.WriteThroughMessage(ctx, m); err != nil {
		s.log.Error().Err(err).Str("message_id", m.ID.String()).Msg("message write-through failed")
		return nil, err
	}
	s.topLevel = append(s.topLevel, m)
	s.byID[m.ID] = m

	if err := s.index.MessageWritten(ctx, m); err != nil {
		s.log.Error().Err(err).Str("message_id", m.ID.String()).Msg("index maintenance failed")
		return nil, err
	}
	return m, nil
}

// Reply creates a reply to a top-level message. The whole thread is written
// through (parent document plus one document per reply, the reply fan-out),
// and the indexes pick up the reply's content.
func (s *MessageStore) Reply(ctx context.Context, parentID, authorID uuid.UUID, content string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, ok := s.byID[parentID]
	if !ok {
		return nil, ErrMessageNotFound
	}
	if _, isReply := s.parents[parentID]; isReply {
		return nil, ErrReplyToReply
	}

	reply, err := s.newMessage(parent.ConversationID, authorID, content)
	if err != nil {
		return nil, err
	}

	parent.AddReply(reply)
	if err := s.persist.WriteThroughMessage(ctx, parent); err != nil {
		// The in-memory thread already holds the reply; callers decide
		// whether that divergence from storage is acceptable.
		s.log.Error().Err(err).Str("message_id", parent.ID.String()).Msg("thread write-through failed")
		return nil, err
	}
	s.byID[reply.ID] = reply
	s.parents[reply.ID] = parent.ID

	if err := s.index.MessageWritten(ctx, reply); err != nil {
		s.log.Error().Err(err).Str("message_id", reply.ID.String()).Msg("index maintenance failed")
		return nil, err
	}
	return reply, nil
}

// Delete removes a top-level message: its document is deleted, its id is
// scrubbed from both indexes, and the in-memory thread (including replies,
// which the message owns) leaves the cache. The replies' documents remain
// in the store; only a reload makes them visible again, promoted as
// orphans.
func (s *MessageStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.byID[id]
	if !ok {
		return ErrMessageNotFound
	}
	if _, isReply := s.parents[id]; isReply {
		return ErrMessageNotFound
	}

	if err := s.persist.DeleteThroughMessage(ctx, m); err != nil {
		s.log.Error().Err(err).Str("message_id", id.String()).Msg("message delete-through failed")
		return err
	}

	delete(s.byID, id)
	for _, r := range m.Replies {
		delete(s.byID, r.ID)
		delete(s.parents, r.ID)
	}
	for i, cand := range s.topLevel {
		if cand.ID == id {
			s.topLevel = append(s.topLevel[:i], s.topLevel[i+1:]...)
			break
		}
	}

	if err := s.index.MessageDeleted(ctx, id); err != nil {
		s.log.Error().Err(err).Str("message_id", id.String()).Msg("index cleanup failed")
		return err
	}
	return nil
}

// MessageByID returns the cached message (top-level or reply) with the
// given id.
func (s *MessageStore) MessageByID(id uuid.UUID) (*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byID[id]
	if !ok {
		return nil, ErrMessageNotFound
	}
	return m, nil
}

// Messages returns the cached top-level messages in ascending creation-time
// order.
func (s *MessageStore) Messages() []*domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Message, len(s.topLevel))
	copy(out, s.topLevel)
	return out
}

// MessagesInConversation returns the cached top-level messages of one
// conversation, in ascending creation-time order.
func (s *MessageStore) MessagesInConversation(conversationID uuid.UUID) []*domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Message
	for _, m := range s.topLevel {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out
}

// Count returns the number of cached messages, replies included.
func (s *MessageStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// newMessage validates content and builds a message value. The mention
// flag is derived from the first @-token in the raw content.
func (s *MessageStore) newMessage(conversationID, authorID uuid.UUID, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if s.MaxContentRunes > 0 && utf8.RuneCountInString(content) > s.MaxContentRunes {
		return nil, ErrContentTooLong
	}
	return &domain.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		AuthorID:       authorID,
		Content:        content,
		CreationTime:   time.Now().UTC(),
		MentionedUser:  render.MentionedUser(content),
	}, nil
}
