// Package domain defines the entity model of the message board: users,
// conversations, threaded messages, and the two derived inverted indexes
// (hashtags and mentions). These are plain value types; persistence concerns
// live in the repo package.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user of the board.
//
// Fields:
//   - ID: stable UUID, immutable after creation.
//   - Name: username, unique across all users (case-sensitive).
//   - PasswordHash: opaque credential hash (hashing itself happens upstream).
//   - CreationTime: registration instant (UTC).
//   - AboutMe: free-form profile text, may be empty.
//   - IsAdmin: grants access to the admin surface.
//   - ProfilePic: opaque encoded image payload, may be empty.
type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
	CreationTime time.Time
	AboutMe      string
	IsAdmin      bool
	ProfilePic   string
}

// Conversation is a titled message thread container owned by a user.
// OwnerID must reference an existing user at creation time; the store
// does not enforce this, callers do.
type Conversation struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Title        string
	CreationTime time.Time
}

// Message is a single post inside a conversation. A message exclusively
// owns its replies: the reply tree is a single level deep, and a reply
// never appears in a top-level message list.
type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	AuthorID       uuid.UUID
	Content        string
	CreationTime   time.Time

	// MentionedUser is the username flagged by the renderer's mention
	// scan, or "" when the message mentions nobody.
	MentionedUser string

	// Replies holds direct replies in append order.
	Replies []*Message
}

// AddReply appends r to the message's reply list.
func (m *Message) AddReply(r *Message) {
	m.Replies = append(m.Replies, r)
}

// IDSet is an unordered set of message UUIDs. Hashtag and Mention entries
// hold weak references through it: an id in the set may no longer resolve
// to a live message.
type IDSet map[uuid.UUID]struct{}

// NewIDSet builds a set from the given ids.
func NewIDSet(ids ...uuid.UUID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id into the set.
func (s IDSet) Add(id uuid.UUID) { s[id] = struct{}{} }

// Remove deletes id from the set. Removing an absent id is a no-op.
func (s IDSet) Remove(id uuid.UUID) { delete(s, id) }

// Has reports whether id is in the set.
func (s IDSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of ids in the set.
func (s IDSet) Len() int { return len(s) }

// Slice returns the ids in unspecified order.
func (s IDSet) Slice() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

// Hashtag is one inverted-index entry: a tag name mapped to the set of
// messages whose content carries that tag. The name doubles as the store key.
type Hashtag struct {
	Name       string
	MessageIDs IDSet
}

// Mention is one inverted-index entry keyed by the mentioned username.
// Same shape as Hashtag; kept distinct because the two indexes live in
// different store kinds and are maintained independently.
type Mention struct {
	Name       string
	MessageIDs IDSet
}
