// Package services – HashtagStore
//
// HashtagStore owns the in-memory hashtag inverted index: tag name to the
// set of message ids carrying that tag. Set mutation happens here, in the
// caller layer; the facade below only ever serializes the post-mutation
// set as a full-replacement upsert.
package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/asma526/go-board-backend/internal/domain"
	"github.com/asma526/go-board-backend/internal/repo"
)

// HashtagStore caches the hashtag index entries.
type HashtagStore struct {
	mu      sync.RWMutex
	persist *repo.PersistentStore
	log     *zerolog.Logger

	byName map[string]*domain.Hashtag
}

// NewHashtagStore constructs an empty HashtagStore. Call Load before
// serving requests.
func NewHashtagStore(persist *repo.PersistentStore, log *zerolog.Logger) *HashtagStore {
	return &HashtagStore{
		persist: persist,
		log:     log,
		byName:  make(map[string]*domain.Hashtag),
	}
}

// Load replaces the cache with the full persisted hashtag index.
func (s *HashtagStore) Load(ctx context.Context) error {
	hashtags, err := s.persist.LoadHashtags(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byName = make(map[string]*domain.Hashtag, len(hashtags))
	for _, h := range hashtags {
		s.byName[h.Name] = h
	}
	s.log.Info().Int("hashtags", len(hashtags)).Msg("hashtag index loaded")
	return nil
}

// AddMessage merges messageID into the tag's id set (creating the entry on
// first use) and writes the whole entry through.
func (s *HashtagStore) AddMessage(ctx context.Context, tag string, messageID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.byName[tag]
	if !ok {
		h = &domain.Hashtag{Name: tag, MessageIDs: domain.NewIDSet()}
		s.byName[tag] = h
	}
	h.MessageIDs.Add(messageID)
	if err := s.persist.WriteThroughHashtag(ctx, h); err != nil {
		s.log.Error().Err(err).Str("hashtag", tag).Msg("hashtag write-through failed")
		return err
	}
	return nil
}

// RemoveMessage drops messageID from every index entry that references it,
// re-writing each touched entry. This is the delete-side index maintenance
// the store itself never cascades.
func (s *HashtagStore) RemoveMessage(ctx context.Context, messageID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.byName {
		if !h.MessageIDs.Has(messageID) {
			continue
		}
		h.MessageIDs.Remove(messageID)
		if err := s.persist.WriteThroughHashtag(ctx, h); err != nil {
			s.log.Error().Err(err).Str("hashtag", h.Name).Msg("hashtag write-through failed")
			return err
		}
	}
	return nil
}

// Hashtag returns the cached index entry for the tag, if present.
func (s *HashtagStore) Hashtag(tag string) (*domain.Hashtag, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.byName[tag]
	return h, ok
}

// Hashtags returns the cached index entries in unspecified order.
func (s *HashtagStore) Hashtags() []*domain.Hashtag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Hashtag, 0, len(s.byName))
	for _, h := range s.byName {
		out = append(out, h)
	}
	return out
}

// Count returns the number of cached index entries.
func (s *HashtagStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byName)
}
