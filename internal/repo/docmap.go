// Document mapping: one toDocument/fromDocument pair per entity kind.
// Every pair is a total, information-preserving bijection for the fields it
// covers; Message.Replies is the lone exception, persisted as separate
// documents carrying a parent property instead of being embedded.
package repo

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/asma526/go-board-backend/internal/domain"
	"github.com/asma526/go-board-backend/internal/store"
)

// Store kinds. These names are part of the wire format and must not change.
const (
	KindUsers         = "users"
	KindConversations = "conversations"
	KindMessages      = "messages"
	KindHashtags      = "hashtags"
	KindMentions      = "mentions"
)

// propCreationTime is the sort property for ordered loads.
const propCreationTime = "creation_time"

// timeLayout serializes instants with fixed nanosecond precision so the
// string form sorts in timestamp order inside the store.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(doc store.Document, name string) (time.Time, error) {
	s, err := doc.String(name)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("property %q: %w", name, err)
	}
	return t.UTC(), nil
}

func parseUUID(doc store.Document, name string) (uuid.UUID, error) {
	s, err := doc.String(name)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("property %q: %w", name, err)
	}
	return id, nil
}

func userToDocument(u *domain.User) store.Document {
	return store.Document{
		"uuid":           u.ID.String(),
		"username":       u.Name,
		"password_hash":  u.PasswordHash,
		propCreationTime: formatTime(u.CreationTime),
		"aboutMe":        u.AboutMe,
		"adminStatus":    u.IsAdmin,
		"profilepic":     u.ProfilePic,
	}
}

func userFromDocument(doc store.Document) (*domain.User, error) {
	id, err := parseUUID(doc, "uuid")
	if err != nil {
		return nil, err
	}
	name, err := doc.String("username")
	if err != nil {
		return nil, err
	}
	passwordHash, err := doc.String("password_hash")
	if err != nil {
		return nil, err
	}
	creation, err := parseTime(doc, propCreationTime)
	if err != nil {
		return nil, err
	}
	aboutMe, err := doc.String("aboutMe")
	if err != nil {
		return nil, err
	}
	isAdmin, err := doc.Bool("adminStatus")
	if err != nil {
		return nil, err
	}
	profilePic, err := doc.String("profilepic")
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           id,
		Name:         name,
		PasswordHash: passwordHash,
		CreationTime: creation,
		AboutMe:      aboutMe,
		IsAdmin:      isAdmin,
		ProfilePic:   profilePic,
	}, nil
}

func conversationToDocument(c *domain.Conversation) store.Document {
	return store.Document{
		"uuid":           c.ID.String(),
		"owner_uuid":     c.OwnerID.String(),
		"title":          c.Title,
		propCreationTime: formatTime(c.CreationTime),
	}
}

func conversationFromDocument(doc store.Document) (*domain.Conversation, error) {
	id, err := parseUUID(doc, "uuid")
	if err != nil {
		return nil, err
	}
	owner, err := parseUUID(doc, "owner_uuid")
	if err != nil {
		return nil, err
	}
	title, err := doc.String("title")
	if err != nil {
		return nil, err
	}
	creation, err := parseTime(doc, propCreationTime)
	if err != nil {
		return nil, err
	}
	return &domain.Conversation{
		ID:           id,
		OwnerID:      owner,
		Title:        title,
		CreationTime: creation,
	}, nil
}

// messageToDocument maps a message as a top-level document: no parent
// property is ever written through this path.
func messageToDocument(m *domain.Message) store.Document {
	return store.Document{
		"uuid":           m.ID.String(),
		"conv_uuid":      m.ConversationID.String(),
		"author_uuid":    m.AuthorID.String(),
		"content":        m.Content,
		propCreationTime: formatTime(m.CreationTime),
		"mentioned_user": m.MentionedUser,
	}
}

// replyToDocument maps a reply as an independent message document tagged
// with its parent's id.
func replyToDocument(parent, reply *domain.Message) store.Document {
	doc := messageToDocument(reply)
	doc["parent"] = parent.ID.String()
	return doc
}

// messageFromDocument maps a message document back to an entity and returns
// the parent id string ("" for a top-level message). Reply attachment is
// the load path's job, not the mapping's.
func messageFromDocument(doc store.Document) (*domain.Message, string, error) {
	id, err := parseUUID(doc, "uuid")
	if err != nil {
		return nil, "", err
	}
	conv, err := parseUUID(doc, "conv_uuid")
	if err != nil {
		return nil, "", err
	}
	author, err := parseUUID(doc, "author_uuid")
	if err != nil {
		return nil, "", err
	}
	content, err := doc.String("content")
	if err != nil {
		return nil, "", err
	}
	creation, err := parseTime(doc, propCreationTime)
	if err != nil {
		return nil, "", err
	}
	// Legacy documents predate the mentioned_user property.
	mentioned, _ := doc.OptionalString("mentioned_user")
	parent, _ := doc.OptionalString("parent")
	return &domain.Message{
		ID:             id,
		ConversationID: conv,
		AuthorID:       author,
		Content:        content,
		CreationTime:   creation,
		MentionedUser:  mentioned,
	}, parent, nil
}

func hashtagToDocument(h *domain.Hashtag) store.Document {
	return store.Document{
		"tag_name":  h.Name,
		"uuid_list": idSetToList(h.MessageIDs),
	}
}

func hashtagFromDocument(doc store.Document) (*domain.Hashtag, error) {
	name, err := doc.String("tag_name")
	if err != nil {
		return nil, err
	}
	ids, err := idSetFromList(doc, "uuid_list")
	if err != nil {
		return nil, err
	}
	return &domain.Hashtag{Name: name, MessageIDs: ids}, nil
}

func mentionToDocument(m *domain.Mention) store.Document {
	return store.Document{
		"mentioned_user": m.Name,
		"uuid_list":      idSetToList(m.MessageIDs),
	}
}

func mentionFromDocument(doc store.Document) (*domain.Mention, error) {
	name, err := doc.String("mentioned_user")
	if err != nil {
		return nil, err
	}
	ids, err := idSetFromList(doc, "uuid_list")
	if err != nil {
		return nil, err
	}
	return &domain.Mention{Name: name, MessageIDs: ids}, nil
}

func idSetToList(s domain.IDSet) []string {
	out := make([]string, 0, s.Len())
	for _, id := range s.Slice() {
		out = append(out, id.String())
	}
	return out
}

func idSetFromList(doc store.Document, name string) (domain.IDSet, error) {
	raw, err := doc.StringList(name)
	if err != nil {
		return nil, err
	}
	set := make(domain.IDSet, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		set.Add(id)
	}
	return set, nil
}
