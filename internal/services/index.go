// Package services – IndexMaintainer
//
// IndexMaintainer is the single collaborator responsible for keeping the
// hashtag and mention indexes consistent with message writes and deletes.
// Encapsulating the side effects here keeps MessageStore's write paths
// readable and keeps the persistence facade entirely index-agnostic.
package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/asma526/go-board-backend/internal/domain"
	"github.com/asma526/go-board-backend/internal/render"
)

// IndexMaintainer fans message mutations out to the two inverted indexes.
type IndexMaintainer struct {
	Hashtags *HashtagStore
	Mentions *MentionStore
}

// NewIndexMaintainer wires the maintainer to both index stores.
func NewIndexMaintainer(hashtags *HashtagStore, mentions *MentionStore) *IndexMaintainer {
	return &IndexMaintainer{Hashtags: hashtags, Mentions: mentions}
}

// MessageWritten scans the message content for derived index keys and
// merges the message id into every matching entry. Each touched entry is
// written through individually; the first failure aborts and is returned,
// with earlier index writes already durable (same non-transactional window
// as the reply fan-out).
func (ix *IndexMaintainer) MessageWritten(ctx context.Context, m *domain.Message) error {
	for _, tag := range render.Hashtags(m.Content) {
		if err := ix.Hashtags.AddMessage(ctx, tag, m.ID); err != nil {
			return err
		}
	}
	for _, user := range render.Mentions(m.Content) {
		if err := ix.Mentions.AddMessage(ctx, user, m.ID); err != nil {
			return err
		}
	}
	return nil
}

// MessageDeleted removes the message id from every index entry referencing
// it and re-writes those entries. The message document itself is already
// gone by the time this runs; the indexes tolerate ids that no longer
// resolve, so a partial failure here degrades to stale references rather
// than data loss.
func (ix *IndexMaintainer) MessageDeleted(ctx context.Context, id uuid.UUID) error {
	if err := ix.Hashtags.RemoveMessage(ctx, id); err != nil {
		return err
	}
	return ix.Mentions.RemoveMessage(ctx, id)
}
