// Persistence facade: bulk loads of all five collections and per-entity
// write-through/delete-through operations over the document store client.
//
// Semantics worth keeping in mind:
//   - Load paths are atomic: the first malformed document aborts the whole
//     load with a LoadError and no partial results.
//   - Writes are plain upserts with no retry, rollback, or batching. The
//     message write fans out to one document per attached reply (n+1 puts),
//     so a mid-sequence failure leaves a mixed store state.
//   - Deletes remove exactly one document: no cascade to reply documents,
//     no index cleanup. The services layer closes those gaps.
package repo

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/asma526/go-board-backend/internal/domain"
	"github.com/asma526/go-board-backend/internal/store"
)

// PersistentStore is the write-through persistence facade. It holds only a
// handle to the store client and is safe for concurrent use to the extent
// the client is; it adds no locking of its own.
type PersistentStore struct {
	client store.Client
}

// New constructs a PersistentStore over the given client.
func New(client store.Client) *PersistentStore {
	return &PersistentStore{client: client}
}

func (p *PersistentStore) tracer() trace.Tracer {
	return otel.Tracer("repo/PersistentStore")
}

// LoadUsers returns every persisted user, in no particular order.
func (p *PersistentStore) LoadUsers(ctx context.Context) ([]*domain.User, error) {
	ctx, span := p.tracer().Start(ctx, "LoadUsers")
	defer span.End()

	docs, err := p.client.Query(ctx, KindUsers, nil)
	if err != nil {
		return nil, &LoadError{Kind: KindUsers, Err: err}
	}
	users := make([]*domain.User, 0, len(docs))
	for _, kd := range docs {
		u, err := userFromDocument(kd.Doc)
		if err != nil {
			return nil, &LoadError{Kind: KindUsers, Err: err}
		}
		users = append(users, u)
	}
	span.SetAttributes(attribute.Int("count", len(users)))
	return users, nil
}

// LoadConversations returns every persisted conversation, ascending by
// creation time.
func (p *PersistentStore) LoadConversations(ctx context.Context) ([]*domain.Conversation, error) {
	ctx, span := p.tracer().Start(ctx, "LoadConversations")
	defer span.End()

	docs, err := p.client.Query(ctx, KindConversations, store.Ascending(propCreationTime))
	if err != nil {
		return nil, &LoadError{Kind: KindConversations, Err: err}
	}
	conversations := make([]*domain.Conversation, 0, len(docs))
	for _, kd := range docs {
		c, err := conversationFromDocument(kd.Doc)
		if err != nil {
			return nil, &LoadError{Kind: KindConversations, Err: err}
		}
		conversations = append(conversations, c)
	}
	span.SetAttributes(attribute.Int("count", len(conversations)))
	return conversations, nil
}

// LoadMessages returns every top-level message, ascending by creation time,
// with replies reattached to their parents.
//
// Threading is a two-pass reconstruction: the first pass materializes every
// document and indexes it by id, the second attaches each parented message
// to its parent's reply list. Attachment therefore does not depend on store
// ordering, unlike the legacy single-pass backward scan. A message whose
// parent id resolves to nothing is promoted to the top-level list rather
// than dropped.
func (p *PersistentStore) LoadMessages(ctx context.Context) ([]*domain.Message, error) {
	ctx, span := p.tracer().Start(ctx, "LoadMessages")
	defer span.End()

	docs, err := p.client.Query(ctx, KindMessages, store.Ascending(propCreationTime))
	if err != nil {
		return nil, &LoadError{Kind: KindMessages, Err: err}
	}

	type loaded struct {
		msg    *domain.Message
		parent string
	}
	all := make([]loaded, 0, len(docs))
	byID := make(map[string]*domain.Message, len(docs))
	for _, kd := range docs {
		m, parent, err := messageFromDocument(kd.Doc)
		if err != nil {
			return nil, &LoadError{Kind: KindMessages, Err: err}
		}
		all = append(all, loaded{msg: m, parent: parent})
		byID[m.ID.String()] = m
	}

	topLevel := make([]*domain.Message, 0, len(all))
	for _, l := range all {
		if l.parent == "" {
			topLevel = append(topLevel, l.msg)
			continue
		}
		if parent, ok := byID[l.parent]; ok && parent != l.msg {
			parent.AddReply(l.msg)
		} else {
			// Orphan: the parent document is gone. Promote instead of
			// silently losing the message.
			topLevel = append(topLevel, l.msg)
		}
	}
	span.SetAttributes(
		attribute.Int("count", len(all)),
		attribute.Int("top_level", len(topLevel)),
	)
	return topLevel, nil
}

// LoadHashtags returns every hashtag index entry, in no particular order.
func (p *PersistentStore) LoadHashtags(ctx context.Context) ([]*domain.Hashtag, error) {
	ctx, span := p.tracer().Start(ctx, "LoadHashtags")
	defer span.End()

	docs, err := p.client.Query(ctx, KindHashtags, nil)
	if err != nil {
		return nil, &LoadError{Kind: KindHashtags, Err: err}
	}
	hashtags := make([]*domain.Hashtag, 0, len(docs))
	for _, kd := range docs {
		h, err := hashtagFromDocument(kd.Doc)
		if err != nil {
			return nil, &LoadError{Kind: KindHashtags, Err: err}
		}
		hashtags = append(hashtags, h)
	}
	span.SetAttributes(attribute.Int("count", len(hashtags)))
	return hashtags, nil
}

// LoadMentions returns every mention index entry, in no particular order.
func (p *PersistentStore) LoadMentions(ctx context.Context) ([]*domain.Mention, error) {
	ctx, span := p.tracer().Start(ctx, "LoadMentions")
	defer span.End()

	docs, err := p.client.Query(ctx, KindMentions, nil)
	if err != nil {
		return nil, &LoadError{Kind: KindMentions, Err: err}
	}
	mentions := make([]*domain.Mention, 0, len(docs))
	for _, kd := range docs {
		m, err := mentionFromDocument(kd.Doc)
		if err != nil {
			return nil, &LoadError{Kind: KindMentions, Err: err}
		}
		mentions = append(mentions, m)
	}
	span.SetAttributes(attribute.Int("count", len(mentions)))
	return mentions, nil
}

// WriteThroughUser upserts the user's document under its id.
func (p *PersistentStore) WriteThroughUser(ctx context.Context, u *domain.User) error {
	ctx, span := p.tracer().Start(ctx, "WriteThroughUser",
		trace.WithAttributes(attribute.String("user.id", u.ID.String())))
	defer span.End()

	return p.client.Put(ctx, KindUsers, u.ID.String(), userToDocument(u))
}

// WriteThroughConversation upserts the conversation's document under its id.
func (p *PersistentStore) WriteThroughConversation(ctx context.Context, c *domain.Conversation) error {
	ctx, span := p.tracer().Start(ctx, "WriteThroughConversation",
		trace.WithAttributes(attribute.String("conversation.id", c.ID.String())))
	defer span.End()

	return p.client.Put(ctx, KindConversations, c.ID.String(), conversationToDocument(c))
}

// WriteThroughMessage upserts the message's own document, then one document
// per attached reply. The argument is always treated as a potential
// top-level message: its own document never carries a parent property.
// There is no batching; a failure partway through leaves the already
// written documents in place.
func (p *PersistentStore) WriteThroughMessage(ctx context.Context, m *domain.Message) error {
	ctx, span := p.tracer().Start(ctx, "WriteThroughMessage",
		trace.WithAttributes(
			attribute.String("message.id", m.ID.String()),
			attribute.Int("replies", len(m.Replies)),
		))
	defer span.End()

	if err := p.client.Put(ctx, KindMessages, m.ID.String(), messageToDocument(m)); err != nil {
		return err
	}
	for _, reply := range m.Replies {
		if err := p.client.Put(ctx, KindMessages, reply.ID.String(), replyToDocument(m, reply)); err != nil {
			return err
		}
	}
	return nil
}

// WriteThroughHashtag upserts the hashtag index entry under its tag name.
// The write is a full replacement of the serialized id set: merging new ids
// into the set is the caller's job, never the facade's.
func (p *PersistentStore) WriteThroughHashtag(ctx context.Context, h *domain.Hashtag) error {
	ctx, span := p.tracer().Start(ctx, "WriteThroughHashtag",
		trace.WithAttributes(
			attribute.String("hashtag", h.Name),
			attribute.Int("message_ids", h.MessageIDs.Len()),
		))
	defer span.End()

	return p.client.Put(ctx, KindHashtags, h.Name, hashtagToDocument(h))
}

// WriteThroughMention upserts the mention index entry under the mentioned
// username. Full-replacement semantics, same as WriteThroughHashtag.
func (p *PersistentStore) WriteThroughMention(ctx context.Context, m *domain.Mention) error {
	ctx, span := p.tracer().Start(ctx, "WriteThroughMention",
		trace.WithAttributes(
			attribute.String("mention", m.Name),
			attribute.Int("message_ids", m.MessageIDs.Len()),
		))
	defer span.End()

	return p.client.Put(ctx, KindMentions, m.Name, mentionToDocument(m))
}

// DeleteThroughMessage removes the single document keyed by the message's
// id. Reply documents the message previously wrote stay behind, as do any
// hashtag/mention index references.
func (p *PersistentStore) DeleteThroughMessage(ctx context.Context, m *domain.Message) error {
	ctx, span := p.tracer().Start(ctx, "DeleteThroughMessage",
		trace.WithAttributes(attribute.String("message.id", m.ID.String())))
	defer span.End()

	return p.client.Delete(ctx, KindMessages, m.ID.String())
}

// DeleteThroughConversation removes the single document keyed by the
// conversation's id. Messages in the conversation are untouched.
func (p *PersistentStore) DeleteThroughConversation(ctx context.Context, c *domain.Conversation) error {
	ctx, span := p.tracer().Start(ctx, "DeleteThroughConversation",
		trace.WithAttributes(attribute.String("conversation.id", c.ID.String())))
	defer span.End()

	return p.client.Delete(ctx, KindConversations, c.ID.String())
}
