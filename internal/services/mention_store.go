// Package services – MentionStore
//
// MentionStore owns the mention inverted index: mentioned username to the
// set of message ids mentioning that user. Same caching and write-through
// discipline as HashtagStore; kept separate because the two indexes live
// in different store kinds and are queried independently.
package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/asma526/go-board-backend/internal/domain"
	"github.com/asma526/go-board-backend/internal/repo"
)

// MentionStore caches the mention index entries.
type MentionStore struct {
	mu      sync.RWMutex
	persist *repo.PersistentStore
	log     *zerolog.Logger

	byName map[string]*domain.Mention
}

// NewMentionStore constructs an empty MentionStore. Call Load before
// serving requests.
func NewMentionStore(persist *repo.PersistentStore, log *zerolog.Logger) *MentionStore {
	return &MentionStore{
		persist: persist,
		log:     log,
		byName:  make(map[string]*domain.Mention),
	}
}

// Load replaces the cache with the full persisted mention index.
func (s *MentionStore) Load(ctx context.Context) error {
	mentions, err := s.persist.LoadMentions(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byName = make(map[string]*domain.Mention, len(mentions))
	for _, m := range mentions {
		s.byName[m.Name] = m
	}
	s.log.Info().Int("mentions", len(mentions)).Msg("mention index loaded")
	return nil
}

// AddMessage merges messageID into the username's id set (creating the
// entry on first mention) and writes the whole entry through.
func (s *MentionStore) AddMessage(ctx context.Context, mentionedUser string, messageID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byName[mentionedUser]
	if !ok {
		m = &domain.Mention{Name: mentionedUser, MessageIDs: domain.NewIDSet()}
		s.byName[mentionedUser] = m
	}
	m.MessageIDs.Add(messageID)
	if err := s.persist.WriteThroughMention(ctx, m); err != nil {
		s.log.Error().Err(err).Str("mentioned_user", mentionedUser).Msg("mention write-through failed")
		return err
	}
	return nil
}

// RemoveMessage drops messageID from every index entry that references it,
// re-writing each touched entry.
func (s *MentionStore) RemoveMessage(ctx context.Context, messageID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.byName {
		if !m.MessageIDs.Has(messageID) {
			continue
		}
		m.MessageIDs.Remove(messageID)
		if err := s.persist.WriteThroughMention(ctx, m); err != nil {
			s.log.Error().Err(err).Str("mentioned_user", m.Name).Msg("mention write-through failed")
			return err
		}
	}
	return nil
}

// Mention returns the cached index entry for the username, if present.
func (s *MentionStore) Mention(mentionedUser string) (*domain.Mention, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byName[mentionedUser]
	return m, ok
}

// Mentions returns the cached index entries in unspecified order.
func (s *MentionStore) Mentions() []*domain.Mention {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Mention, 0, len(s.byName))
	for _, m := range s.byName {
		out = append(out, m)
	}
	return out
}

// Count returns the number of cached index entries.
func (s *MentionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byName)
}
